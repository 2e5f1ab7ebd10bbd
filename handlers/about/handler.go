package about

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podcast-io/web-ui/services/template"
	"github.com/podcast-io/web-ui/services/web"
)

type Handler struct {
	tb template.Builder[*web.Context]
}

func RegisterHandler(r *gin.Engine, tm *template.Manager[*web.Context]) {
	h := &Handler{
		tb: tm.MustRegisterViews("about/*").WithLayout("main"),
	}
	r.GET("/about", h.get)
}

func (s *Handler) get(c *gin.Context) {
	s.tb.Build("about/get").HTML(http.StatusOK, web.NewContext(c).WithTitle("About"))
}

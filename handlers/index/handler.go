package index

import (
	"net/http"

	"github.com/gin-gonic/gin"

	hc "github.com/podcast-io/web-ui/handlers/common"
	"github.com/podcast-io/web-ui/services/common"
	"github.com/podcast-io/web-ui/services/stats"
	"github.com/podcast-io/web-ui/services/template"
	"github.com/podcast-io/web-ui/services/web"
)

type Data struct {
	*stats.Dashboard
	Covers map[int]string
}

type Handler struct {
	tb    template.Builder[*web.Context]
	stats *stats.Service
	st    *common.Settings
}

func RegisterHandler(r *gin.Engine, tm *template.Manager[*web.Context], st *common.Settings, ss *stats.Service) {
	h := &Handler{
		tb:    tm.MustRegisterViews("index").WithLayout("main"),
		stats: ss,
		st:    st,
	}
	r.GET("/", h.index)
}

func (s *Handler) index(c *gin.Context) {
	d, err := s.stats.Get(c.Request.Context(), s.st.OwnerID)
	if err != nil {
		hc.AbortWithError(c, err)
		return
	}
	covers := map[int]string{}
	for _, p := range d.Podcasts {
		covers[p.ID] = p.ImageURL(s.st)
	}
	s.tb.Build("index").HTML(http.StatusOK, web.NewContext(c).WithTitle("Dashboard").WithData(&Data{
		Dashboard: d,
		Covers:    covers,
	}))
}

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/template"
)

type ErrorData struct {
	Status  int
	Message string
}

type errorHandler struct {
	tb template.Builder[*Context]
}

// RegisterErrorHandler renders an error page for requests aborted with an
// error. Routes registered before the call are not covered.
func RegisterErrorHandler(r *gin.Engine, tm *template.Manager[*Context]) {
	h := &errorHandler{
		tb: tm.MustRegisterViews("error").WithLayout("main"),
	}
	r.Use(h.handle)
}

func (s *errorHandler) handle(c *gin.Context) {
	c.Next()
	last := c.Errors.Last()
	if last == nil {
		return
	}
	e := services.AsError(last.Err)
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = e.Status
	}
	log.WithError(last.Err).
		WithField("path", c.Request.URL.Path).
		WithField("status", status).
		Log(e.Level, "request failed")
	if c.Writer.Size() > 0 {
		return
	}
	s.tb.Build("error").HTML(status, NewContext(c).
		WithTitle(http.StatusText(status)).
		WithData(&ErrorData{
			Status:  status,
			Message: e.Message,
		}))
}

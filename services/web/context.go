package web

import (
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/podcast-io/web-ui/services"
)

const (
	errorFlashKey   = "error"
	successFlashKey = "success"
)

// Context is what every page template receives.
type Context struct {
	Data    any
	Title   string
	Path    string
	Errors  []string
	Success []string
	CSRF    string
	c       *gin.Context
}

func NewContext(c *gin.Context) *Context {
	ctx := &Context{
		c:    c,
		Path: c.Request.URL.Path,
	}
	// The token may touch the session, so it is taken before the body is written.
	ctx.CSRF = CSRFToken(c)
	if sess := session(c); sess != nil {
		ctx.Errors = flashes(sess, errorFlashKey)
		ctx.Success = flashes(sess, successFlashKey)
		if len(ctx.Errors)+len(ctx.Success) > 0 {
			if err := sess.Save(); err != nil {
				log.WithError(err).Warn("failed to save session")
			}
		}
	}
	return ctx
}

func (s *Context) WithData(data any) *Context {
	s.Data = data
	return s
}

func (s *Context) WithTitle(title string) *Context {
	s.Title = title
	return s
}

func (s *Context) GetGinContext() *gin.Context {
	return s.c
}

func session(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

func flashes(sess sessions.Session, key string) []string {
	var res []string
	for _, f := range sess.Flashes(key) {
		if v, ok := f.(string); ok {
			res = append(res, v)
		}
	}
	return res
}

func addFlash(c *gin.Context, key string, msg string) {
	sess := session(c)
	if sess == nil {
		return
	}
	sess.AddFlash(msg, key)
	if err := sess.Save(); err != nil {
		log.WithError(err).Warn("failed to save session")
	}
}

// back returns the local page the request came from.
func back(c *gin.Context) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" {
		return "/"
	}
	if ref.Host != "" && ref.Host != c.Request.Host {
		return "/"
	}
	return ref.RequestURI()
}

func RedirectWithError(c *gin.Context, err error) {
	e := services.AsError(err)
	log.WithError(err).WithField("path", c.Request.URL.Path).Log(e.Level, "redirecting with error")
	addFlash(c, errorFlashKey, e.Message)
	c.Redirect(http.StatusFound, back(c))
}

func RedirectWithSuccessAndMessage(c *gin.Context, msg string) {
	addFlash(c, successFlashKey, msg)
	c.Redirect(http.StatusFound, back(c))
}

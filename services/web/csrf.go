package web

import (
	"github.com/gin-gonic/gin"
	csrf "github.com/utrack/gin-csrf"

	"github.com/podcast-io/web-ui/services"
)

// CSRFParam is the form field carrying the csrf token.
const CSRFParam = "_csrf"

const csrfEnabledKey = "csrfEnabled"

// UseCSRF requires a session bound token on every unsafe request. It has to
// follow UseSessions, and RegisterErrorHandler when the mismatch page should
// be rendered.
func UseCSRF(r gin.IRoutes, secret string) {
	r.Use(func(c *gin.Context) {
		c.Set(csrfEnabledKey, true)
	}, csrf.Middleware(csrf.Options{
		Secret: secret,
		ErrorFunc: func(c *gin.Context) {
			err := services.NewForbiddenError("form has expired, please try again")
			_ = c.AbortWithError(err.Status, err)
		},
	}))
}

// CSRFToken returns the token for forms, empty when csrf protection is off.
func CSRFToken(c *gin.Context) string {
	if !c.GetBool(csrfEnabledKey) {
		return ""
	}
	return csrf.GetToken(c)
}

package common

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/podcast-io/web-ui/services"
)

// ParseID reads a positive numeric route param.
func ParseID(c *gin.Context, name string) (int, error) {
	v := c.Param(name)
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		return 0, services.NewNotFoundError("%s %q not found", name, v)
	}
	return id, nil
}

// AbortWithError aborts with the status carried by err, 500 for anything
// that is not an application error.
func AbortWithError(c *gin.Context, err error) {
	_ = c.AbortWithError(services.AsError(err).Status, err)
}

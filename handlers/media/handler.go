package media

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	hc "github.com/podcast-io/web-ui/handlers/common"
	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/common"
	"github.com/podcast-io/web-ui/services/repository"
	"github.com/podcast-io/web-ui/services/storage"
)

type Handler struct {
	st   *common.Settings
	repo repository.Repository
	ps   storage.Presigner
}

// RegisterHandler registers media links. ps may be nil, then files are
// served from public storage only.
func RegisterHandler(r *gin.Engine, st *common.Settings, repo repository.Repository, ps storage.Presigner) {
	h := &Handler{
		st:   st,
		repo: repo,
		ps:   ps,
	}
	gr := r.Group("/m")
	gr.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: common.AnyMethods,
	}))
	for _, m := range common.AnyMethods {
		gr.Handle(m, "/:"+common.AccessTokenParamName+"/", h.get)
	}
}

func (s *Handler) get(c *gin.Context) {
	token := c.Param(common.AccessTokenParamName)
	if !models.TokenIsCorrect(token) {
		hc.AbortWithError(c, services.NewNotFoundError("file not found"))
		return
	}
	f, err := s.repo.Files().GetByToken(c.Request.Context(), token)
	if err != nil {
		hc.AbortWithError(c, err)
		return
	}
	if f == nil {
		hc.AbortWithError(c, services.NewNotFoundError("file not found"))
		return
	}
	if f.Public && f.SourceURL != "" {
		c.Redirect(http.StatusFound, f.SourceURL)
		return
	}
	if !f.Available || f.Path == "" {
		hc.AbortWithError(c, services.NewNotFoundError("file not found"))
		return
	}
	u, err := s.location(c, f)
	if err != nil {
		hc.AbortWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, u)
}

func (s *Handler) location(c *gin.Context, f *models.File) (string, error) {
	if f.Public || s.ps == nil {
		if u := f.StorageURL(s.st); u != "" {
			return u, nil
		}
	}
	if s.ps == nil {
		return "", services.NewNotSupportedError("storage is not configured")
	}
	return s.ps.PresignedURL(c.Request.Context(), f.Path)
}

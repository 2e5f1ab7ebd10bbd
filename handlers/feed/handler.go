package feed

import (
	"bytes"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	hc "github.com/podcast-io/web-ui/handlers/common"
	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/common"
	"github.com/podcast-io/web-ui/services/feed"
	"github.com/podcast-io/web-ui/services/repository"
)

type Handler struct {
	repo repository.Repository
	fb   *feed.Builder
}

func RegisterHandler(r *gin.Engine, repo repository.Repository, fb *feed.Builder) {
	h := &Handler{
		repo: repo,
		fb:   fb,
	}
	gr := r.Group("/r")
	gr.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: common.AnyMethods,
	}))
	for _, m := range common.AnyMethods {
		gr.Handle(m, "/:"+common.AccessTokenParamName+"/", h.get)
	}
}

func (s *Handler) get(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Param(common.AccessTokenParamName)
	if !models.TokenIsCorrect(token) {
		hc.AbortWithError(c, services.NewNotFoundError("feed not found"))
		return
	}
	f, err := s.repo.Files().GetByToken(ctx, token)
	if err != nil {
		hc.AbortWithError(c, err)
		return
	}
	if f == nil || f.Type != models.FileTypeRSS {
		hc.AbortWithError(c, services.NewNotFoundError("feed not found"))
		return
	}
	p, err := s.repo.Podcasts().GetByRSS(ctx, f.ID)
	if err != nil {
		hc.AbortWithError(c, err)
		return
	}
	if p == nil {
		hc.AbortWithError(c, services.NewNotFoundError("podcast for feed %d not found", f.ID))
		return
	}
	list, err := s.repo.Episodes().List(ctx, &models.EpisodeQuery{
		OwnerID:   p.OwnerID,
		PodcastID: p.ID,
		Statuses:  []models.EpisodeStatus{models.EpisodeStatusPublished},
	})
	if err != nil {
		hc.AbortWithError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := s.fb.Build(&buf, p, list); err != nil {
		hc.AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, feed.ContentType, buf.Bytes())
}

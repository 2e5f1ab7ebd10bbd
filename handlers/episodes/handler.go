package episodes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/podcast-io/web-ui/handlers/common"
	"github.com/podcast-io/web-ui/services/episodes"
	sc "github.com/podcast-io/web-ui/services/common"
	"github.com/podcast-io/web-ui/services/progress"
	"github.com/podcast-io/web-ui/services/repository"
	"github.com/podcast-io/web-ui/services/stats"
	"github.com/podcast-io/web-ui/services/template"
	"github.com/podcast-io/web-ui/services/web"
)

type ListData struct {
	Items    []*episodes.Item
	Total    int
	Filter   *episodes.Filter
	SizeMin  string
	SizeMax  string
	Podcasts []string
}

type Handler struct {
	tb     template.Builder[*web.Context]
	st     *sc.Settings
	repo   repository.Repository
	lib    *episodes.Library
	stats  *stats.Service
	broker progress.Broker
}

// RegisterHandler registers episode pages. broker may be nil.
func RegisterHandler(r *gin.Engine, tm *template.Manager[*web.Context], st *sc.Settings, repo repository.Repository, lib *episodes.Library, ss *stats.Service, broker progress.Broker) {
	h := &Handler{
		tb:     tm.MustRegisterViews("episodes/*").WithLayout("main"),
		st:     st,
		repo:   repo,
		lib:    lib,
		stats:  ss,
		broker: broker,
	}
	r.GET("/episodes", h.list)
	r.POST("/episodes/:id/cancel", h.cancel)
}

func (s *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	f := episodes.ParseFilter(c.Request.URL.Query())
	items, total, err := s.lib.Search(ctx, s.st.OwnerID, f)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	podcasts, err := s.repo.Podcasts().List(ctx, s.st.OwnerID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	names := make([]string, 0, len(podcasts))
	for _, p := range podcasts {
		names = append(names, p.Name)
	}
	v := f.Values()
	s.tb.Build("episodes/list").HTML(http.StatusOK, web.NewContext(c).WithTitle("Episodes").WithData(&ListData{
		Items:    items,
		Total:    total,
		Filter:   f,
		SizeMin:  v.Get(episodes.SizeMinParam),
		SizeMax:  v.Get(episodes.SizeMaxParam),
		Podcasts: names,
	}))
}

func (s *Handler) cancel(c *gin.Context) {
	id, err := common.ParseID(c, "id")
	if err != nil {
		web.RedirectWithError(c, err)
		return
	}
	ctx := c.Request.Context()
	e, err := s.lib.Cancel(ctx, s.st.OwnerID, id)
	if err != nil {
		web.RedirectWithError(c, err)
		return
	}
	if s.broker != nil {
		if err := s.broker.PublishCancel(ctx, e.ID); err != nil {
			log.WithError(err).WithField("episode", e).Warn("failed to publish cancel signal")
		}
		if err := s.broker.PublishUpdated(ctx); err != nil {
			log.WithError(err).Warn("failed to publish episodes update")
		}
	}
	s.stats.Invalidate(s.st.OwnerID)
	web.RedirectWithSuccessAndMessage(c, fmt.Sprintf("Download of %q is being canceled", e.Title))
}

package podcasts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/podcast-io/web-ui/handlers/common"
	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services"
	sc "github.com/podcast-io/web-ui/services/common"
	"github.com/podcast-io/web-ui/services/episodes"
	"github.com/podcast-io/web-ui/services/repository"
	"github.com/podcast-io/web-ui/services/template"
	"github.com/podcast-io/web-ui/services/web"
)

type Row struct {
	*models.Podcast
	Cover string
}

type ListData struct {
	Podcasts []*Row
}

type GetData struct {
	Podcast *models.Podcast
	Cover   string
	FeedURL string
	Items   []*episodes.Item
}

type Handler struct {
	tb   template.Builder[*web.Context]
	st   *sc.Settings
	repo repository.Repository
	lib  *episodes.Library
}

func RegisterHandler(r *gin.Engine, tm *template.Manager[*web.Context], st *sc.Settings, repo repository.Repository, lib *episodes.Library) {
	h := &Handler{
		tb:   tm.MustRegisterViews("podcasts/*").WithLayout("main"),
		st:   st,
		repo: repo,
		lib:  lib,
	}
	r.GET("/podcasts", h.list)
	r.GET("/podcasts/:id", h.get)
}

func (s *Handler) list(c *gin.Context) {
	list, err := s.repo.Podcasts().List(c.Request.Context(), s.st.OwnerID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	rows := make([]*Row, 0, len(list))
	for _, p := range list {
		rows = append(rows, &Row{Podcast: p, Cover: p.ImageURL(s.st)})
	}
	s.tb.Build("podcasts/list").HTML(http.StatusOK, web.NewContext(c).WithTitle("Podcasts").WithData(&ListData{
		Podcasts: rows,
	}))
}

func (s *Handler) get(c *gin.Context) {
	id, err := common.ParseID(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	ctx := c.Request.Context()
	p, err := s.repo.Podcasts().Get(ctx, id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	if p == nil || p.OwnerID != s.st.OwnerID {
		common.AbortWithError(c, services.NewNotFoundError("podcast %d not found", id))
		return
	}
	items, err := s.lib.ListByPodcast(ctx, s.st.OwnerID, p.ID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	var feedURL string
	if p.RSS != nil {
		feedURL = p.RSS.URL(s.st)
	}
	s.tb.Build("podcasts/get").HTML(http.StatusOK, web.NewContext(c).WithTitle(p.Name).WithData(&GetData{
		Podcast: p,
		Cover:   p.ImageURL(s.st),
		FeedURL: feedURL,
		Items:   items,
	}))
}

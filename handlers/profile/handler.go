package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	hc "github.com/podcast-io/web-ui/handlers/common"
	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/common"
	"github.com/podcast-io/web-ui/services/repository"
	"github.com/podcast-io/web-ui/services/template"
	"github.com/podcast-io/web-ui/services/web"
)

type Feed struct {
	Name string
	URL  string
}

type Data struct {
	User        *models.User
	Feeds       []Feed
	FilesCount  int
	StorageUsed int64
}

type Handler struct {
	tb   template.Builder[*web.Context]
	st   *common.Settings
	repo repository.Repository
}

func RegisterHandler(r *gin.Engine, tm *template.Manager[*web.Context], st *common.Settings, repo repository.Repository) {
	h := &Handler{
		tb:   tm.MustRegisterViews("profile/*").WithLayout("main"),
		st:   st,
		repo: repo,
	}
	r.GET("/profile", h.get)
}

func (s *Handler) get(c *gin.Context) {
	ctx := c.Request.Context()
	u, err := s.repo.Users().Get(ctx, s.st.OwnerID)
	if err != nil {
		hc.AbortWithError(c, err)
		return
	}
	if u == nil {
		hc.AbortWithError(c, services.NewNotFoundError("user %d not found", s.st.OwnerID))
		return
	}
	podcasts, err := s.repo.Podcasts().List(ctx, u.ID)
	if err != nil {
		hc.AbortWithError(c, err)
		return
	}
	var feeds []Feed
	for _, p := range podcasts {
		if p.RSS == nil {
			continue
		}
		if url := p.RSS.URL(s.st); url != "" {
			feeds = append(feeds, Feed{Name: p.Name, URL: url})
		}
	}
	files, err := s.repo.Files().List(ctx, u.ID)
	if err != nil {
		hc.AbortWithError(c, err)
		return
	}
	var used int64
	for _, f := range files {
		used += f.Size
	}
	s.tb.Build("profile/get").HTML(http.StatusOK, web.NewContext(c).WithTitle("My Profile").WithData(&Data{
		User:        u,
		Feeds:       feeds,
		FilesCount:  len(files),
		StorageUsed: used,
	}))
}

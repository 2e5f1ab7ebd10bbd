// Package handlertest builds a gin engine over the real templates and an
// in-memory library for handler tests.
package handlertest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/podcast-io/web-ui/services/common"
	"github.com/podcast-io/web-ui/services/episodes"
	"github.com/podcast-io/web-ui/services/presentation"
	"github.com/podcast-io/web-ui/services/repository"
	"github.com/podcast-io/web-ui/services/stats"
	"github.com/podcast-io/web-ui/services/template"
	"github.com/podcast-io/web-ui/services/web"
)

const (
	OwnerID = 1

	// RSSToken is the access token of the "Tech Talks" feed.
	RSSToken = "TechTalksFeedToken000000000000000000000000000001"
	// AudioToken is the access token of the "Go routines" audio file.
	AudioToken = "GoRoutinesAudioToken0000000000000000000000000001"
	// HiddenAudioToken belongs to an audio file that is not available yet.
	HiddenAudioToken = "RomeAudioToken000000000000000000000000000000002x"
)

// tokenPath hands out a csrf token together with the session cookie.
const tokenPath = "/_test/csrf"

const files = `[
  {"id": 1, "type": "rss", "path": "rss/tech.xml", "available": true, "access_token": "` + RSSToken + `", "owner_id": 1, "created_at": "2024-01-01T10:00:00Z"},
  {"id": 2, "type": "audio", "path": "audio/go-routines.mp3", "size": 1048576, "available": true, "access_token": "` + AudioToken + `", "owner_id": 1, "created_at": "2024-01-02T10:00:00Z"},
  {"id": 3, "type": "audio", "path": "audio/rome.mp3", "size": 0, "available": false, "access_token": "` + HiddenAudioToken + `", "owner_id": 1, "created_at": "2024-02-02T10:00:00Z"}
]`

const podcasts = `[
  {"id": 1, "name": "🎧 Tech Talks", "description": "about tech", "owner_id": 1, "rss_id": 1, "created_at": "2024-01-01T10:00:00Z"},
  {"id": 2, "name": "History", "description": "about past", "owner_id": 1, "created_at": "2024-02-01T10:00:00Z"},
  {"id": 3, "name": "Foreign", "owner_id": 2, "created_at": "2024-03-01T10:00:00Z"}
]`

const episodesJSON = `[
  {"id": 1, "title": "Go routines", "source_id": "src1", "podcast_id": 1, "owner_id": 1, "status": "published", "length": 3661, "audio_id": 2,
   "description": "concurrency basics", "created_at": "2024-01-02T10:00:00Z", "published_at": "2024-01-02T10:00:00Z"},
  {"id": 2, "title": "Rome", "source_id": "src2", "podcast_id": 2, "owner_id": 1, "status": "downloading", "audio_id": 3,
   "description": "the empire", "created_at": "2024-02-02T10:00:00Z"},
  {"id": 3, "title": "Channels", "source_id": "src3", "podcast_id": 1, "owner_id": 1, "status": "error", "file_size": 20971520,
   "description": "more go", "created_at": "2024-01-03T10:00:00Z"},
  {"id": 4, "title": "Elsewhere", "source_id": "src4", "podcast_id": 3, "owner_id": 2, "status": "downloading", "created_at": "2024-03-02T10:00:00Z"}
]`

type Env struct {
	Engine    *gin.Engine
	Templates *template.Manager[*web.Context]
	Settings  *common.Settings
	Repo      *repository.Fixtures
	Library   *episodes.Library
	Stats     *stats.Service
}

// New prepares an engine with sessions, the error page and template
// helpers. Handlers are registered by the caller, then Init is called.
func New(t *testing.T) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	for name, content := range map[string]string{
		"files.json":    files,
		"podcasts.json": podcasts,
		"episodes.json": episodesJSON,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	repo, err := repository.LoadFixtures(dir)
	require.NoError(t, err)

	st := &common.Settings{
		ServiceURL:          "http://example.com",
		AppVersion:          "test",
		OwnerID:             OwnerID,
		DefaultPodcastCover: "/static/images/cover-default-podcast.svg",
		DefaultEpisodeCover: "/static/images/cover-default-episode.svg",
		FilenameSalt:        "test",
		SessionSecret:       "test-secret",
		StorageBucket:       "podcast",
	}
	re := multitemplate.NewRenderer()
	tm := template.NewManager[*web.Context](re).
		WithDir(filepath.Join(Root(t), "templates")).
		WithHelper(web.NewHelper(st)).
		WithHelper(presentation.NewHelper())

	r := gin.New()
	r.HTMLRender = re
	web.UseSessions(r, st.SessionSecret)
	web.RegisterErrorHandler(r, tm)
	web.UseCSRF(r, st.SessionSecret)
	r.GET(tokenPath, func(c *gin.Context) {
		c.String(http.StatusOK, web.CSRFToken(c))
	})

	lib := episodes.New(repo)
	return &Env{
		Engine:    r,
		Templates: tm,
		Settings:  st,
		Repo:      repo,
		Library:   lib,
		Stats:     stats.NewWithExpire(repo, lib, time.Minute),
	}
}

func (s *Env) Init(t *testing.T) {
	t.Helper()
	require.NoError(t, s.Templates.Init())
}

func (s *Env) Do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

func (s *Env) Get(path string) *httptest.ResponseRecorder {
	return s.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

// Post submits a form the way a browser does after loading a page: with the
// session cookie and its csrf token.
func (s *Env) Post(path string, referer string) *httptest.ResponseRecorder {
	tw := s.Get(tokenPath)
	req := newPost(path, referer, url.Values{web.CSRFParam: {tw.Body.String()}})
	for _, c := range tw.Result().Cookies() {
		req.AddCookie(c)
	}
	return s.Do(req)
}

func (s *Env) PostWithoutToken(path string, referer string) *httptest.ResponseRecorder {
	return s.Do(newPost(path, referer, url.Values{}))
}

func newPost(path string, referer string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	return req
}

// Root finds the module root so tests can use the real templates.
func Root(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "go.mod not found")
		dir = parent
	}
}

package template

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testContext struct {
	c     *gin.Context
	Title string
}

func (s *testContext) GetGinContext() *gin.Context {
	return s.c
}

type testHelper struct{}

func (s *testHelper) Shout(v string) string {
	return strings.ToUpper(v)
}

func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return dir
}

func TestManager(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := writeTemplates(t, map[string]string{
		"layouts/main.html":         `<main>{{ template "nav" . }}|{{ template "content" . }}</main>`,
		"partials/nav.html":         `{{ define "nav" }}nav:{{ .Title }}{{ end }}`,
		"views/index.html":          `{{ define "content" }}index {{ Shout .Title }}{{ end }}`,
		"views/profile/get.html":    `{{ define "content" }}profile{{ end }}`,
		"views/profile/status.html": `status {{ .Title }}`,
	})

	re := multitemplate.NewRenderer()
	tm := NewManager[*testContext](re).WithDir(dir).WithHelper(&testHelper{})
	var index Builder[*testContext] = tm.MustRegisterViews("*").WithLayout("main")
	profileViews := tm.MustRegisterViews("profile/*")
	profile := profileViews.WithLayout("main")
	require.NoError(t, tm.Init())

	r := gin.New()
	r.HTMLRender = re
	r.GET("/", func(c *gin.Context) {
		index.Build("index").HTML(http.StatusOK, &testContext{c: c, Title: "home"})
	})
	r.GET("/profile", func(c *gin.Context) {
		profile.Build("profile/get").HTML(http.StatusOK, &testContext{c: c, Title: "me"})
	})
	r.GET("/status", func(c *gin.Context) {
		profileViews.Build("profile/status").HTML(http.StatusAccepted, &testContext{c: c, Title: "ok"})
	})

	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "<main>nav:home|index HOME</main>"},
		{"/profile", http.StatusOK, "<main>nav:me|profile</main>"},
		{"/status", http.StatusAccepted, "status ok"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
		})
	}
}

func TestManagerErrors(t *testing.T) {
	t.Run("no views", func(t *testing.T) {
		tm := NewManager[*testContext](multitemplate.NewRenderer()).WithDir(t.TempDir())
		_, err := tm.RegisterViews("missing/*")
		require.Error(t, err)
		assert.Panics(t, func() { tm.MustRegisterViews("missing/*") })
	})

	t.Run("broken view", func(t *testing.T) {
		dir := writeTemplates(t, map[string]string{
			"layouts/main.html": `{{ template "content" . }}`,
			"views/bad.html":    `{{ define "content" }}{{ .Title }{{ end }}`,
		})
		tm := NewManager[*testContext](multitemplate.NewRenderer()).WithDir(dir)
		tm.MustRegisterViews("bad").WithLayout("main")
		require.Error(t, tm.Init())
	})

	t.Run("unknown function", func(t *testing.T) {
		dir := writeTemplates(t, map[string]string{
			"views/fn.html": `{{ Missing }}`,
		})
		tm := NewManager[*testContext](multitemplate.NewRenderer()).WithDir(dir)
		tm.MustRegisterViews("fn")
		require.Error(t, tm.Init())
	})
}

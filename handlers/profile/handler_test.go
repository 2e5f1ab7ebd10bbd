package profile

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/podcast-io/web-ui/handlers/handlertest"
)

func TestGet(t *testing.T) {
	env := handlertest.New(t)
	RegisterHandler(env.Engine, env.Templates, env.Settings, env.Repo)
	env.Init(t)

	w := env.Get("/profile")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>My Profile | Podcasts</title>")
	assert.Contains(t, body, "user1@localhost")
	assert.Contains(t, body, "🎧 Tech Talks: <a")
	assert.Contains(t, body, "http://example.com/r/"+handlertest.RSSToken+"/")
	assert.Contains(t, body, "21.00 MB")
	assert.Contains(t, body, `font-semibold text-blue-700`)
}

func TestGetMissingUser(t *testing.T) {
	env := handlertest.New(t)
	env.Settings.OwnerID = 42
	RegisterHandler(env.Engine, env.Templates, env.Settings, env.Repo)
	env.Init(t)

	w := env.Get("/profile")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "user 42 not found")
}

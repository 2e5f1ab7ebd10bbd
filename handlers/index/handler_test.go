package index

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/podcast-io/web-ui/handlers/handlertest"
)

func TestIndex(t *testing.T) {
	env := handlertest.New(t)
	RegisterHandler(env.Engine, env.Templates, env.Settings, env.Stats)
	env.Init(t)

	w := env.Get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Dashboard | Podcasts</title>")
	assert.Contains(t, body, `<div class="text-2xl" id="stats-podcasts">2</div>`)
	assert.Contains(t, body, `<div class="text-2xl" id="stats-episodes">3</div>`)
	assert.Contains(t, body, `<a href="/progress">1</a>`)
	assert.Contains(t, body, `<div class="text-2xl" id="stats-storage">150.00 MB</div>`)
	assert.Contains(t, body, `<span id="stats-recent">Rome</span>`)
	assert.Contains(t, body, "🎧 Tech Talks")
	assert.Contains(t, body, "/static/images/cover-default-podcast.svg")
	assert.NotContains(t, body, "Elsewhere")
	assert.Contains(t, body, `action="/episodes/2/cancel"`)
	assert.Contains(t, body, `id="in-progress">In progress</h2>`)
	assert.Contains(t, body, `name="_csrf" value="`)
	assert.NotContains(t, body, `name="_csrf" value=""`)
}

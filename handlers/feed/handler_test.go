package feed

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/podcast-io/web-ui/handlers/handlertest"
	"github.com/podcast-io/web-ui/services/feed"
)

func TestFeed(t *testing.T) {
	env := handlertest.New(t)
	RegisterHandler(env.Engine, env.Repo, feed.New(env.Settings))
	env.Init(t)

	w := env.Get("/r/" + handlertest.RSSToken + "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, feed.ContentType, w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<rss")
	assert.Contains(t, body, "Tech Talks")
	assert.Contains(t, body, "Go routines")
	assert.Contains(t, body, "http://example.com/m/"+handlertest.AudioToken+"/")
	assert.NotContains(t, body, "Channels")

	for _, token := range []string{"short", handlertest.AudioToken, "ZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZ"} {
		t.Run(token, func(t *testing.T) {
			w := env.Get("/r/" + token + "/")
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestFeedCORS(t *testing.T) {
	env := handlertest.New(t)
	RegisterHandler(env.Engine, env.Repo, feed.New(env.Settings))
	env.Init(t)

	req, _ := http.NewRequest(http.MethodGet, "/r/"+handlertest.RSSToken+"/", nil)
	req.Header.Set("Origin", "http://player.example.org")
	w := env.Do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

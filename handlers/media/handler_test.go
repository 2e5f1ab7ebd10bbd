package media

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podcast-io/web-ui/handlers/handlertest"
	"github.com/podcast-io/web-ui/models"
)

type presignerMock struct {
	keys []string
}

func (s *presignerMock) PresignedURL(_ context.Context, key string) (string, error) {
	s.keys = append(s.keys, key)
	return "https://s3.example.com/podcast/" + key + "?X-Amz-Signature=sig", nil
}

func TestPresigned(t *testing.T) {
	env := handlertest.New(t)
	ps := &presignerMock{}
	RegisterHandler(env.Engine, env.Settings, env.Repo, ps)
	env.Init(t)

	w := env.Get("/m/" + handlertest.AudioToken + "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://s3.example.com/podcast/audio/go-routines.mp3?X-Amz-Signature=sig", w.Header().Get("Location"))
	assert.Equal(t, []string{"audio/go-routines.mp3"}, ps.keys)

	req, _ := http.NewRequest(http.MethodHead, "/m/"+handlertest.AudioToken+"/", nil)
	assert.Equal(t, http.StatusFound, env.Do(req).Code)
}

func TestPublicStorage(t *testing.T) {
	env := handlertest.New(t)
	env.Settings.StorageURL = "https://cdn.example.com/"
	RegisterHandler(env.Engine, env.Settings, env.Repo, nil)
	env.Init(t)

	w := env.Get("/m/" + handlertest.AudioToken + "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://cdn.example.com/podcast/audio/go-routines.mp3", w.Header().Get("Location"))
}

func TestNotServed(t *testing.T) {
	env := handlertest.New(t)
	RegisterHandler(env.Engine, env.Settings, env.Repo, nil)
	env.Init(t)

	assert.Equal(t, http.StatusNotImplemented, env.Get("/m/"+handlertest.AudioToken+"/").Code)
	assert.Equal(t, http.StatusNotFound, env.Get("/m/"+handlertest.HiddenAudioToken+"/").Code)
	assert.Equal(t, http.StatusNotFound, env.Get("/m/bad-token/").Code)
}

func TestPublicSource(t *testing.T) {
	env := handlertest.New(t)
	ps := &presignerMock{}
	f := &models.File{
		Type:      models.FileTypeAudio,
		SourceURL: "https://source.example.com/episode.mp3",
		Public:    true,
		OwnerID:   handlertest.OwnerID,
	}
	require.NoError(t, env.Repo.Files().Create(context.Background(), f))
	RegisterHandler(env.Engine, env.Settings, env.Repo, ps)
	env.Init(t)

	w := env.Get("/m/" + f.AccessToken + "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://source.example.com/episode.mp3", w.Header().Get("Location"))
	assert.Empty(t, ps.keys)
}

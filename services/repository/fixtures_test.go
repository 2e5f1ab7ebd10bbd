package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services"
)

const testPodcasts = `[
  {"id": 1, "name": "🎧 Tech Talks", "description": "about tech", "owner_id": 1, "created_at": "2024-01-01T10:00:00Z"},
  {"id": 2, "name": "History", "description": "about past", "owner_id": 1, "created_at": "2024-02-01T10:00:00Z"},
  {"id": 3, "name": "Foreign", "owner_id": 2, "created_at": "2024-03-01T10:00:00Z"}
]`

const testEpisodes = `[
  {"id": 1, "title": "Go routines", "source_id": "src1", "podcast_id": 1, "owner_id": 1, "status": "published", "length": 3661, "file_size": 1048576, "created_at": "2024-01-02T10:00:00Z"},
  {"id": 2, "title": "Rome", "source_id": "src2", "podcast_id": 2, "owner_id": 1, "status": "downloading", "created_at": "2024-02-02T10:00:00Z"},
  {"id": 3, "title": "Channels", "source_id": "src3", "podcast_id": 1, "owner_id": 1, "status": "error", "created_at": "2024-01-03T10:00:00Z",
   "chapters": [{"title": "Intro", "start": "00:00:00", "end": "00:01:00"}]},
  {"id": 4, "title": "Elsewhere", "source_id": "src4", "podcast_id": 3, "owner_id": 2, "status": "canceling", "created_at": "2024-03-02T10:00:00Z"}
]`

func writeFixtures(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func loadTestFixtures(t *testing.T) *Fixtures {
	t.Helper()
	f, err := LoadFixtures(writeFixtures(t, map[string]string{
		podcastsFixture: testPodcasts,
		episodesFixture: testEpisodes,
	}))
	require.NoError(t, err)
	return f
}

func TestLoadFixtures(t *testing.T) {
	ctx := context.Background()
	f := loadTestFixtures(t)

	t.Run("podcasts are listed newest first with counters", func(t *testing.T) {
		list, err := f.Podcasts().List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "History", list[0].Name)
		assert.Equal(t, 1, list[0].EpisodesCount)
		assert.Equal(t, 2, list[1].EpisodesCount)
		assert.Len(t, list[1].PublishID, 16)
	})

	t.Run("episodes carry podcast and synthesized audio", func(t *testing.T) {
		e, err := f.Episodes().Get(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, e)
		require.NotNil(t, e.Podcast)
		assert.Equal(t, "🎧 Tech Talks", e.Podcast.Name)
		require.NotNil(t, e.Audio)
		assert.Equal(t, int64(1048576), e.Audio.Size)
		assert.True(t, e.Audio.Available)
		assert.True(t, models.TokenIsCorrect(e.Audio.AccessToken))

		found, err := f.Files().GetByToken(ctx, e.Audio.AccessToken)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, e.Audio.ID, found.ID)
	})

	t.Run("episodes without size have no audio", func(t *testing.T) {
		e, err := f.Episodes().Get(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, e.Audio)
	})

	t.Run("owners get users", func(t *testing.T) {
		u, err := f.Users().Get(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "user2@localhost", u.Email)
	})

	t.Run("missing rows are nil", func(t *testing.T) {
		p, err := f.Podcasts().Get(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, p)
		e, err := f.Episodes().Get(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, e)
	})
}

func TestLoadFixturesErrors(t *testing.T) {
	t.Run("missing podcasts", func(t *testing.T) {
		_, err := LoadFixtures(writeFixtures(t, map[string]string{episodesFixture: "[]"}))
		require.Error(t, err)
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := LoadFixtures(writeFixtures(t, map[string]string{
			podcastsFixture: "[",
			episodesFixture: "[]",
		}))
		require.Error(t, err)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := LoadFixtures(writeFixtures(t, map[string]string{
			podcastsFixture: `[{"id": 1, "name": "p", "owner_id": 1}]`,
			episodesFixture: `[{"id": 1, "title": "e", "podcast_id": 1, "owner_id": 1, "status": "archived"}]`,
		}))
		require.Error(t, err)
	})
}

func TestFixtureEpisodeList(t *testing.T) {
	ctx := context.Background()
	f := loadTestFixtures(t)

	t.Run("owner episodes newest first", func(t *testing.T) {
		list, err := f.Episodes().List(ctx, &models.EpisodeQuery{OwnerID: 1})
		require.NoError(t, err)
		var ids []int
		for _, e := range list {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []int{2, 3, 1}, ids)
	})

	t.Run("by podcast with limit", func(t *testing.T) {
		list, err := f.Episodes().List(ctx, &models.EpisodeQuery{OwnerID: 1, PodcastID: 1, Limit: 1})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 3, list[0].ID)
	})

	t.Run("in progress", func(t *testing.T) {
		list, err := f.Episodes().ListInProgress(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, models.EpisodeStatusDownloading, list[0].Status)

		list, err = f.Episodes().ListInProgress(ctx, 2)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, models.EpisodeStatusCanceling, list[0].Status)
	})
}

func TestFixtureWrites(t *testing.T) {
	ctx := context.Background()
	f := loadTestFixtures(t)

	t.Run("create podcast and episode", func(t *testing.T) {
		p := &models.Podcast{Name: "New", OwnerID: 1}
		require.NoError(t, f.Podcasts().Create(ctx, p))
		assert.Equal(t, 4, p.ID)
		assert.Len(t, p.PublishID, 16)

		e := &models.Episode{Title: "First", SourceID: "x", PodcastID: p.ID, OwnerID: 1}
		require.NoError(t, f.Episodes().Create(ctx, e))
		assert.Equal(t, 5, e.ID)
		assert.Equal(t, models.EpisodeStatusNew, e.Status)
		assert.Equal(t, models.SourceTypeYoutube, e.SourceType)
	})

	t.Run("episode needs podcast", func(t *testing.T) {
		err := f.Episodes().Create(ctx, &models.Episode{Title: "Orphan", PodcastID: 100, OwnerID: 1})
		require.Error(t, err)
	})

	t.Run("update keeps creation time", func(t *testing.T) {
		e, err := f.Episodes().Get(ctx, 2)
		require.NoError(t, err)
		created := e.CreatedAt
		e.Status = models.EpisodeStatusCanceling
		e.CreatedAt = created.AddDate(1, 0, 0)
		require.NoError(t, f.Episodes().Update(ctx, e))

		got, err := f.Episodes().Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, models.EpisodeStatusCanceling, got.Status)
		assert.True(t, created.Equal(got.CreatedAt))
	})

	t.Run("update rejects unknown status", func(t *testing.T) {
		err := f.Episodes().Update(ctx, &models.Episode{ID: 1, Status: "archived"})
		require.Error(t, err)
	})

	t.Run("file token is validated", func(t *testing.T) {
		err := f.Files().Create(ctx, &models.File{Type: models.FileTypeImage, AccessToken: "short", OwnerID: 1})
		require.Error(t, err)

		fl := &models.File{Type: models.FileTypeImage, OwnerID: 1}
		require.NoError(t, f.Files().Create(ctx, fl))
		assert.True(t, models.TokenIsCorrect(fl.AccessToken))
	})

	t.Run("removal is not supported", func(t *testing.T) {
		assert.True(t, services.IsKind(f.Podcasts().Delete(ctx, 1), services.NotSupportedError))
		assert.True(t, services.IsKind(f.Episodes().Delete(ctx, 1), services.NotSupportedError))
		assert.True(t, services.IsKind(f.Files().Delete(ctx, 1), services.NotSupportedError))
	})

	t.Run("returned rows are copies", func(t *testing.T) {
		p, err := f.Podcasts().Get(ctx, 1)
		require.NoError(t, err)
		p.Name = "changed"
		again, err := f.Podcasts().Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "🎧 Tech Talks", again.Name)
	})
}

func TestFixtureInTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		f := loadTestFixtures(t)
		err := f.InTx(ctx, func(r Repository) error {
			e, err := r.Episodes().Get(ctx, 2)
			if err != nil {
				return err
			}
			e.Status = models.EpisodeStatusCanceling
			return r.Episodes().Update(ctx, e)
		})
		require.NoError(t, err)
		e, err := f.Episodes().Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, models.EpisodeStatusCanceling, e.Status)
	})

	t.Run("rollback", func(t *testing.T) {
		f := loadTestFixtures(t)
		boom := errors.New("boom")
		err := f.InTx(ctx, func(r Repository) error {
			e, err := r.Episodes().Get(ctx, 2)
			if err != nil {
				return err
			}
			e.Status = models.EpisodeStatusCanceling
			if err := r.Episodes().Update(ctx, e); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)
		e, err := f.Episodes().Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, models.EpisodeStatusDownloading, e.Status)
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	src := loadTestFixtures(t)
	dst := NewFixtures()

	require.NoError(t, Seed(ctx, dst, src))
	list, err := dst.Episodes().List(ctx, &models.EpisodeQuery{OwnerID: 1})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	require.NoError(t, Seed(ctx, dst, src))
	list, err = dst.Episodes().List(ctx, &models.EpisodeQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

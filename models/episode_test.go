package models

import (
	"strings"
	"testing"

	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpisodeStatus(t *testing.T) {
	t.Run("parse known statuses", func(t *testing.T) {
		for _, st := range AllEpisodeStatuses {
			parsed, ok := ParseEpisodeStatus(strings.ToUpper(string(st)))
			require.True(t, ok)
			assert.Equal(t, st, parsed)
			assert.True(t, st.IsValid())
		}
	})

	t.Run("parse unknown status", func(t *testing.T) {
		_, ok := ParseEpisodeStatus("archived")
		assert.False(t, ok)
		assert.False(t, EpisodeStatus("archived").IsValid())
		assert.False(t, EpisodeStatus("NEW").IsValid())
	})

	t.Run("in progress", func(t *testing.T) {
		assert.True(t, EpisodeStatusDownloading.InProgress())
		assert.True(t, EpisodeStatusCanceling.InProgress())
		assert.False(t, EpisodeStatusPending.InProgress())
		assert.False(t, EpisodeStatusPublished.InProgress())
	})

	t.Run("labels", func(t *testing.T) {
		assert.Equal(t, "Downloading", EpisodeStatusDownloading.Label())
		assert.Equal(t, "New", EpisodeStatusNew.Label())
		assert.Equal(t, "Unknown", EpisodeStatus("whatever").Label())
	})
}

func TestEpisodeListChapters(t *testing.T) {
	e := &Episode{Chapters: []ChapterData{
		{Title: "Intro", Start: float64(0), End: float64(65)},
		{Title: "Main", Start: "00:01:05", End: "01:02:03"},
		{Title: "Broken", Start: "1:xx:00", End: ""},
		{Title: "Null", Start: nil, End: "12:00"},
	}}
	chapters := e.ListChapters()
	require.Len(t, chapters, 4)
	assert.Equal(t, Chapter{Title: "Intro", Start: 0, End: 65}, chapters[0])
	assert.Equal(t, Chapter{Title: "Main", Start: 65, End: 3723}, chapters[1])
	assert.Equal(t, Chapter{Title: "Broken", Start: 0, End: 0}, chapters[2])
	assert.Equal(t, Chapter{Title: "Null", Start: 0, End: 0}, chapters[3])
	assert.Equal(t, "00:01:05", chapters[1].StartStr())
	assert.Equal(t, "01:02:03", chapters[1].EndStr())

	assert.Nil(t, (&Episode{}).ListChapters())
}

func TestEpisodeRSSDescription(t *testing.T) {
	e := &Episode{Description: "First line [LINK]\n\nSecond line"}
	assert.Equal(t, "<p>First line </p><p>Second line</p>", e.RSSDescription())
	assert.Equal(t, "", (&Episode{}).RSSDescription())
}

func TestEpisodeMetadata(t *testing.T) {
	e := &Episode{ID: 3, Title: "Talk", Podcast: &Podcast{Name: "Show"}}
	md := e.Metadata()
	assert.Equal(t, "Show", md.PodcastName)
	assert.Equal(t, "Unknown", md.EpisodeAuthor)
	assert.Equal(t, 3, md.EpisodeID)
}

func TestEpisodeURLs(t *testing.T) {
	st := &common.Settings{
		ServiceURL:          "https://podcasts.example.com",
		DefaultEpisodeCover: "/static/images/cover-default-episode.png",
	}

	t.Run("default image", func(t *testing.T) {
		assert.Equal(t, st.DefaultEpisodeCover, (&Episode{}).ImageURL(st))
	})

	t.Run("published without audio fails", func(t *testing.T) {
		_, err := (&Episode{ID: 1, Status: EpisodeStatusPublished}).AudioURL(st)
		require.Error(t, err)
		assert.True(t, services.IsKind(err, services.ApplicationError))
	})

	t.Run("pending without audio is fine", func(t *testing.T) {
		u, err := (&Episode{Status: EpisodeStatusPending}).AudioURL(st)
		require.NoError(t, err)
		assert.Equal(t, "", u)
	})

	t.Run("available audio", func(t *testing.T) {
		token := GenerateFileToken()
		e := &Episode{Status: EpisodeStatusPublished, Audio: &File{Type: FileTypeAudio, Available: true, AccessToken: token}}
		u, err := e.AudioURL(st)
		require.NoError(t, err)
		assert.Equal(t, "https://podcasts.example.com/m/"+token+"/", u)
	})
}

func TestEpisodeAudioFilename(t *testing.T) {
	t.Run("stored file name is kept", func(t *testing.T) {
		e := &Episode{SourceID: "abc", Audio: &File{Path: "audio/abc_1.m4a"}}
		assert.Equal(t, "abc_1.m4a", e.AudioFilename("salt"))
	})

	t.Run("tmp file gets generated name with its extension", func(t *testing.T) {
		e := &Episode{SourceID: "abc", Audio: &File{Path: "tmp/audio/abc.m4a"}}
		name := e.AudioFilename("salt")
		assert.True(t, strings.HasPrefix(name, "abc_"))
		assert.True(t, strings.HasSuffix(name, ".m4a"))
		assert.Len(t, name, len("abc_")+32+len(".m4a"))
	})

	t.Run("no audio gets mp3", func(t *testing.T) {
		e := &Episode{SourceID: "abc"}
		name := e.AudioFilename("salt")
		assert.True(t, strings.HasSuffix(name, ".mp3"))
		assert.Equal(t, name, e.AudioFilename("salt"))
		assert.NotEqual(t, name, e.AudioFilename("pepper"))
	})
}

func TestPodcastHelpers(t *testing.T) {
	id := GeneratePublishID()
	assert.Len(t, id, 16)
	assert.NotEqual(t, id, GeneratePublishID())

	p := &Podcast{PublishID: id}
	assert.True(t, strings.HasPrefix(p.GenerateImageName(), id+"_"))
	assert.True(t, strings.HasSuffix(p.GenerateImageName(), ".png"))

	assert.Equal(t, "🎧", (&Podcast{Name: "🎧 Music"}).Icon())
	assert.Equal(t, "", (&Podcast{Name: "Music"}).Icon())
	assert.Equal(t, "", (&Podcast{}).Icon())

	st := &common.Settings{DefaultPodcastCover: "/static/default.png"}
	assert.Equal(t, "/static/default.png", (&Podcast{}).ImageURL(st))
}

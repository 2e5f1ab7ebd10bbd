package feed

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/eduncan911/podcast"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services/common"
)

const ContentType = "application/rss+xml; charset=utf-8"

type Builder struct {
	st  *common.Settings
	now func() time.Time
}

func New(st *common.Settings) *Builder {
	return &Builder{
		st:  st,
		now: time.Now,
	}
}

// Build renders podcast RSS with published episodes that have an audio file
// to serve.
func (s *Builder) Build(w io.Writer, p *models.Podcast, list []*models.Episode) error {
	created := p.CreatedAt
	updated := s.now()
	if p.UpdatedAt != nil {
		updated = *p.UpdatedAt
	}
	descr := p.Description
	if descr == "" {
		descr = p.Name
	}
	link := s.abs(fmt.Sprintf("/podcasts/%d", p.ID))
	if p.RSS != nil {
		if u := p.RSS.URL(s.st); u != "" {
			link = u
		}
	}
	f := podcast.New(p.Name, link, descr, &created, &updated)
	f.AddImage(s.abs(p.ImageURL(s.st)))

	for _, e := range list {
		if e.Status != models.EpisodeStatusPublished {
			continue
		}
		audioURL, err := e.AudioURL(s.st)
		if err != nil {
			log.WithError(err).WithField("episode", e).Warn("skipping episode in feed")
			continue
		}
		item := podcast.Item{
			Title:       e.Title,
			Description: e.RSSDescription(),
			Link:        e.WatchURL,
			GUID:        fmt.Sprintf("%s:%s", e.SourceType, e.SourceID),
		}
		if item.Description == "" {
			item.Description = e.Title
		}
		pub := e.CreatedAt
		if e.PublishedAt != nil {
			pub = *e.PublishedAt
		}
		item.AddPubDate(&pub)
		item.AddDuration(int64(e.Length))
		item.AddImage(s.abs(e.ImageURL(s.st)))
		item.AddEnclosure(audioURL, enclosureType(e.Audio), e.Audio.Size)
		if _, err := f.AddItem(item); err != nil {
			return errors.Wrapf(err, "failed to add %v to feed", e)
		}
	}
	if err := f.Encode(w); err != nil {
		return errors.Wrap(err, "failed to encode feed")
	}
	return nil
}

func enclosureType(f *models.File) podcast.EnclosureType {
	switch strings.ToLower(path.Ext(f.Path)) {
	case ".m4a":
		return podcast.M4A
	case ".mp4":
		return podcast.MP4
	default:
		return podcast.MP3
	}
}

func (s *Builder) abs(u string) string {
	ref, err := url.Parse(u)
	if err != nil || ref.IsAbs() {
		return u
	}
	base, err := url.Parse(s.st.ServiceURL)
	if err != nil {
		return u
	}
	return base.ResolveReference(ref).String()
}

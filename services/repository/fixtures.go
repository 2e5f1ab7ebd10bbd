package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services"
)

const (
	podcastsFixture = "podcasts.json"
	episodesFixture = "episodes.json"
	filesFixture    = "files.json"
	usersFixture    = "users.json"
	fixtureSalt     = "fixtures"
)

var now = time.Now

// episodeFixture is an episode row as it appears in episodes.json. Rows
// without audio_id may carry the audio size directly.
type episodeFixture struct {
	models.Episode
	FileSize int64 `json:"file_size"`
}

type fixtureData struct {
	users    []*models.User
	podcasts []*models.Podcast
	episodes []*models.Episode
	files    []*models.File
}

func (s *fixtureData) clone() *fixtureData {
	d := &fixtureData{
		users:    make([]*models.User, 0, len(s.users)),
		podcasts: make([]*models.Podcast, 0, len(s.podcasts)),
		episodes: make([]*models.Episode, 0, len(s.episodes)),
		files:    make([]*models.File, 0, len(s.files)),
	}
	for _, u := range s.users {
		c := *u
		d.users = append(d.users, &c)
	}
	for _, p := range s.podcasts {
		d.podcasts = append(d.podcasts, copyPodcast(p))
	}
	for _, e := range s.episodes {
		d.episodes = append(d.episodes, copyEpisode(e))
	}
	for _, f := range s.files {
		c := *f
		d.files = append(d.files, &c)
	}
	return d
}

func copyPodcast(p *models.Podcast) *models.Podcast {
	c := *p
	c.RSS = nil
	c.Image = nil
	c.EpisodesCount = 0
	return &c
}

func copyEpisode(e *models.Episode) *models.Episode {
	c := *e
	c.Podcast = nil
	c.Audio = nil
	c.Image = nil
	if e.Chapters != nil {
		c.Chapters = append([]models.ChapterData(nil), e.Chapters...)
	}
	return &c
}

func (s *fixtureData) file(id *int) *models.File {
	if id == nil {
		return nil
	}
	for _, f := range s.files {
		if f.ID == *id {
			c := *f
			return &c
		}
	}
	return nil
}

func (s *fixtureData) podcast(id int) *models.Podcast {
	for _, p := range s.podcasts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *fixtureData) hydratePodcast(p *models.Podcast) *models.Podcast {
	c := copyPodcast(p)
	c.RSS = s.file(p.RSSID)
	c.Image = s.file(p.ImageID)
	return c
}

func (s *fixtureData) hydrateEpisode(e *models.Episode) *models.Episode {
	c := copyEpisode(e)
	if p := s.podcast(e.PodcastID); p != nil {
		c.Podcast = s.hydratePodcast(p)
	}
	c.Audio = s.file(e.AudioID)
	c.Image = s.file(e.ImageID)
	return c
}

// Fixtures is an in-memory repository filled from JSON files.
type Fixtures struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *fixtureData
}

func NewFixtures() *Fixtures {
	return &Fixtures{data: &fixtureData{}}
}

// LoadFixtures reads podcasts.json and episodes.json from dir. files.json
// and users.json are optional. Owners without a user row get a test user.
func LoadFixtures(dir string) (*Fixtures, error) {
	var (
		podcasts []*models.Podcast
		episodes []*episodeFixture
		files    []*models.File
		users    []*models.User
	)
	if err := readFixture(dir, podcastsFixture, &podcasts, true); err != nil {
		return nil, err
	}
	if err := readFixture(dir, episodesFixture, &episodes, true); err != nil {
		return nil, err
	}
	if err := readFixture(dir, filesFixture, &files, false); err != nil {
		return nil, err
	}
	if err := readFixture(dir, usersFixture, &users, false); err != nil {
		return nil, err
	}
	d := &fixtureData{
		users: users,
		files: files,
	}
	for _, p := range podcasts {
		if p.PublishID == "" {
			p.PublishID = models.GeneratePublishID()
		}
		d.podcasts = append(d.podcasts, copyPodcast(p))
	}
	for _, f := range d.files {
		if f.AccessToken == "" {
			f.AccessToken = models.GenerateFileToken()
		}
		if !models.TokenIsCorrect(f.AccessToken) {
			return nil, errors.Errorf("wrong access token format for %v", f)
		}
	}
	for _, ef := range episodes {
		e := copyEpisode(&ef.Episode)
		if e.Status == "" {
			e.Status = models.EpisodeStatusNew
		}
		if !e.Status.IsValid() {
			return nil, errors.Errorf("wrong status %q for %v", e.Status, e)
		}
		if e.SourceType == "" {
			e.SourceType = models.SourceTypeYoutube
		}
		if e.AudioID == nil && ef.FileSize > 0 {
			f := &models.File{
				ID:          nextFileID(d.files),
				Type:        models.FileTypeAudio,
				Size:        ef.FileSize,
				Available:   e.Status == models.EpisodeStatusPublished,
				AccessToken: models.GenerateFileToken(),
				OwnerID:     e.OwnerID,
			}
			f.Path = "audio/" + e.AudioFilename(fixtureSalt)
			d.files = append(d.files, f)
			e.AudioID = &f.ID
		}
		d.episodes = append(d.episodes, e)
	}
	for _, ownerID := range owners(d) {
		if findUser(d.users, ownerID) == nil {
			d.users = append(d.users, &models.User{ID: ownerID, Email: fmt.Sprintf("user%d@localhost", ownerID)})
		}
	}
	log.WithFields(log.Fields{
		"podcasts": len(d.podcasts),
		"episodes": len(d.episodes),
		"files":    len(d.files),
	}).Info("fixtures loaded")
	return &Fixtures{data: d}, nil
}

func readFixture(dir string, name string, v any, required bool) error {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if os.IsNotExist(err) && !required {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read fixture %s", name)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Wrapf(err, "failed to parse fixture %s", name)
	}
	return nil
}

func owners(d *fixtureData) []int {
	seen := map[int]bool{}
	var res []int
	add := func(id int) {
		if id != 0 && !seen[id] {
			seen[id] = true
			res = append(res, id)
		}
	}
	for _, p := range d.podcasts {
		add(p.OwnerID)
	}
	for _, e := range d.episodes {
		add(e.OwnerID)
	}
	for _, f := range d.files {
		add(f.OwnerID)
	}
	return res
}

func findUser(users []*models.User, id int) *models.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func nextFileID(files []*models.File) int {
	var m int
	for _, f := range files {
		m = max(m, f.ID)
	}
	return m + 1
}

func (s *Fixtures) read(fn func(d *fixtureData)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Fixtures) write(fn func(d *fixtureData) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Fixtures) Podcasts() Podcasts {
	return &fixturePodcasts{s: s}
}

func (s *Fixtures) Episodes() Episodes {
	return &fixtureEpisodes{s: s}
}

func (s *Fixtures) Files() Files {
	return &fixtureFiles{s: s}
}

func (s *Fixtures) Users() Users {
	return &fixtureUsers{s: s}
}

// InTx runs fn over a copy of the data and swaps it in when fn succeeds.
// Units of work are serialized with all other writes.
func (s *Fixtures) InTx(_ context.Context, fn func(r Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.RLock()
	tx := &Fixtures{data: s.data.clone()}
	s.mu.RUnlock()
	if err := fn(tx); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = tx.data
	s.mu.Unlock()
	return nil
}

// Snapshot returns copies of all stored rows without relations.
func (s *Fixtures) Snapshot() (users []*models.User, files []*models.File, podcasts []*models.Podcast, episodes []*models.Episode) {
	s.read(func(d *fixtureData) {
		c := d.clone()
		users, files, podcasts, episodes = c.users, c.files, c.podcasts, c.episodes
	})
	return
}

type fixturePodcasts struct {
	s *Fixtures
}

func (s *fixturePodcasts) Create(_ context.Context, p *models.Podcast) error {
	return s.s.write(func(d *fixtureData) error {
		if p.PublishID == "" {
			p.PublishID = models.GeneratePublishID()
		}
		for _, v := range d.podcasts {
			if v.PublishID == p.PublishID {
				return errors.Errorf("podcast with publish id %s already exists", p.PublishID)
			}
		}
		if p.ID == 0 {
			for _, v := range d.podcasts {
				p.ID = max(p.ID, v.ID)
			}
			p.ID++
		} else if d.podcast(p.ID) != nil {
			return errors.Errorf("podcast %d already exists", p.ID)
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now()
		}
		d.podcasts = append(d.podcasts, copyPodcast(p))
		return nil
	})
}

func (s *fixturePodcasts) Get(_ context.Context, id int) (res *models.Podcast, err error) {
	s.s.read(func(d *fixtureData) {
		if p := d.podcast(id); p != nil {
			res = d.hydratePodcast(p)
		}
	})
	return
}

func (s *fixturePodcasts) GetByRSS(_ context.Context, fileID int) (res *models.Podcast, err error) {
	s.s.read(func(d *fixtureData) {
		for _, p := range d.podcasts {
			if p.RSSID != nil && *p.RSSID == fileID {
				res = d.hydratePodcast(p)
				return
			}
		}
	})
	return
}

func (s *fixturePodcasts) List(_ context.Context, ownerID int) (res []*models.Podcast, err error) {
	s.s.read(func(d *fixtureData) {
		counts := map[int]int{}
		for _, e := range d.episodes {
			if e.OwnerID == ownerID {
				counts[e.PodcastID]++
			}
		}
		for _, p := range d.podcasts {
			if p.OwnerID != ownerID {
				continue
			}
			h := d.hydratePodcast(p)
			h.EpisodesCount = counts[p.ID]
			res = append(res, h)
		}
	})
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return
}

func (s *fixturePodcasts) Update(_ context.Context, p *models.Podcast) error {
	return s.s.write(func(d *fixtureData) error {
		for i, v := range d.podcasts {
			if v.ID == p.ID {
				t := now()
				p.UpdatedAt = &t
				c := copyPodcast(p)
				c.PublishID = v.PublishID
				c.OwnerID = v.OwnerID
				c.CreatedAt = v.CreatedAt
				d.podcasts[i] = c
				return nil
			}
		}
		return errors.Errorf("podcast %d not found", p.ID)
	})
}

func (s *fixturePodcasts) Delete(_ context.Context, id int) error {
	return services.NewNotSupportedError("podcast %d removal is not supported", id)
}

type fixtureEpisodes struct {
	s *Fixtures
}

func (s *fixtureEpisodes) Create(_ context.Context, e *models.Episode) error {
	return s.s.write(func(d *fixtureData) error {
		if e.Status == "" {
			e.Status = models.EpisodeStatusNew
		}
		if e.SourceType == "" {
			e.SourceType = models.SourceTypeYoutube
		}
		if d.podcast(e.PodcastID) == nil {
			return errors.Errorf("podcast %d not found for %v", e.PodcastID, e)
		}
		if e.ID == 0 {
			for _, v := range d.episodes {
				e.ID = max(e.ID, v.ID)
			}
			e.ID++
		} else {
			for _, v := range d.episodes {
				if v.ID == e.ID {
					return errors.Errorf("episode %d already exists", e.ID)
				}
			}
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now()
		}
		d.episodes = append(d.episodes, copyEpisode(e))
		return nil
	})
}

func (s *fixtureEpisodes) Get(_ context.Context, id int) (res *models.Episode, err error) {
	s.s.read(func(d *fixtureData) {
		for _, e := range d.episodes {
			if e.ID == id {
				res = d.hydrateEpisode(e)
				return
			}
		}
	})
	return
}

func (s *fixtureEpisodes) List(_ context.Context, q *models.EpisodeQuery) (res []*models.Episode, err error) {
	statuses := map[models.EpisodeStatus]bool{}
	for _, st := range q.Statuses {
		statuses[st] = true
	}
	s.s.read(func(d *fixtureData) {
		for _, e := range d.episodes {
			if q.OwnerID != 0 && e.OwnerID != q.OwnerID {
				continue
			}
			if q.PodcastID != 0 && e.PodcastID != q.PodcastID {
				continue
			}
			if len(statuses) > 0 && !statuses[e.Status] {
				continue
			}
			res = append(res, d.hydrateEpisode(e))
		}
	})
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	if q.Limit > 0 && len(res) > q.Limit {
		res = res[:q.Limit]
	}
	return
}

func (s *fixtureEpisodes) ListInProgress(ctx context.Context, ownerID int) ([]*models.Episode, error) {
	return s.List(ctx, &models.EpisodeQuery{
		OwnerID:  ownerID,
		Statuses: models.ProgressStatuses,
	})
}

func (s *fixtureEpisodes) Update(_ context.Context, e *models.Episode) error {
	if !e.Status.IsValid() {
		return errors.Errorf("wrong status %q for %v", e.Status, e)
	}
	return s.s.write(func(d *fixtureData) error {
		for i, v := range d.episodes {
			if v.ID == e.ID {
				c := copyEpisode(e)
				c.CreatedAt = v.CreatedAt
				d.episodes[i] = c
				return nil
			}
		}
		return errors.Errorf("episode %d not found", e.ID)
	})
}

func (s *fixtureEpisodes) Delete(_ context.Context, id int) error {
	return services.NewNotSupportedError("episode %d removal is not supported", id)
}

type fixtureFiles struct {
	s *Fixtures
}

func (s *fixtureFiles) Create(_ context.Context, f *models.File) error {
	if f.AccessToken == "" {
		f.AccessToken = models.GenerateFileToken()
	}
	if !models.TokenIsCorrect(f.AccessToken) {
		return errors.Errorf("wrong access token format for %v", f)
	}
	return s.s.write(func(d *fixtureData) error {
		for _, v := range d.files {
			if v.AccessToken == f.AccessToken {
				return errors.Errorf("file with the same access token already exists")
			}
		}
		if f.ID == 0 {
			f.ID = nextFileID(d.files)
		} else if d.file(&f.ID) != nil {
			return errors.Errorf("file %d already exists", f.ID)
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = now()
		}
		c := *f
		d.files = append(d.files, &c)
		return nil
	})
}

func (s *fixtureFiles) Get(_ context.Context, id int) (res *models.File, err error) {
	s.s.read(func(d *fixtureData) {
		res = d.file(&id)
	})
	return
}

func (s *fixtureFiles) GetByToken(_ context.Context, token string) (res *models.File, err error) {
	s.s.read(func(d *fixtureData) {
		for _, f := range d.files {
			if f.AccessToken == token {
				c := *f
				res = &c
				return
			}
		}
	})
	return
}

func (s *fixtureFiles) List(_ context.Context, ownerID int) (res []*models.File, err error) {
	s.s.read(func(d *fixtureData) {
		for _, f := range d.files {
			if f.OwnerID == ownerID {
				c := *f
				res = append(res, &c)
			}
		}
	})
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].ID < res[j].ID
	})
	return
}

func (s *fixtureFiles) Update(_ context.Context, f *models.File) error {
	if !models.TokenIsCorrect(f.AccessToken) {
		return errors.Errorf("wrong access token format for %v", f)
	}
	return s.s.write(func(d *fixtureData) error {
		for i, v := range d.files {
			if v.ID == f.ID {
				c := *f
				d.files[i] = &c
				return nil
			}
		}
		return errors.Errorf("file %d not found", f.ID)
	})
}

func (s *fixtureFiles) Delete(_ context.Context, id int) error {
	return services.NewNotSupportedError("file %d removal is not supported", id)
}

type fixtureUsers struct {
	s *Fixtures
}

func (s *fixtureUsers) Create(_ context.Context, u *models.User) error {
	return s.s.write(func(d *fixtureData) error {
		for _, v := range d.users {
			if v.Email == u.Email {
				return errors.Errorf("user %s already exists", u.Email)
			}
		}
		if u.ID == 0 {
			for _, v := range d.users {
				u.ID = max(u.ID, v.ID)
			}
			u.ID++
		} else if findUser(d.users, u.ID) != nil {
			return errors.Errorf("user %d already exists", u.ID)
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = now()
		}
		c := *u
		d.users = append(d.users, &c)
		return nil
	})
}

func (s *fixtureUsers) Get(_ context.Context, id int) (res *models.User, err error) {
	s.s.read(func(d *fixtureData) {
		if u := findUser(d.users, id); u != nil {
			c := *u
			res = &c
		}
	})
	return
}

func (s *fixtureUsers) GetByEmail(_ context.Context, email string) (res *models.User, err error) {
	s.s.read(func(d *fixtureData) {
		for _, u := range d.users {
			if u.Email == email {
				c := *u
				res = &c
				return
			}
		}
	})
	return
}

func (s *fixtureUsers) Update(_ context.Context, u *models.User) error {
	return s.s.write(func(d *fixtureData) error {
		for i, v := range d.users {
			if v.ID == u.ID {
				c := *u
				c.CreatedAt = v.CreatedAt
				d.users[i] = &c
				return nil
			}
		}
		return errors.Errorf("user %d not found", u.ID)
	})
}

package models

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/common"
)

// ChapterData is a chapter as it is stored. Offsets are either seconds
// or "HH:MM:SS" strings.
type ChapterData struct {
	Title string `json:"title"`
	Start any    `json:"start"`
	End   any    `json:"end"`
}

type Chapter struct {
	Title string
	Start int
	End   int
}

func (s Chapter) StartStr() string {
	return formatClock(s.Start)
}

func (s Chapter) EndStr() string {
	return formatClock(s.End)
}

func formatClock(sec int) string {
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, sec%3600/60, sec%60)
}

type EpisodeMetadata struct {
	PodcastName    string
	EpisodeID      int
	EpisodeTitle   string
	EpisodeAuthor  string
	EpisodeChapter []Chapter
}

type Episode struct {
	tableName struct{} `pg:"podcast_episodes,alias:episode"`

	ID          int           `pg:"id,pk" json:"id"`
	Title       string        `pg:"title,notnull" json:"title"`
	SourceID    string        `pg:"source_id,notnull" json:"source_id"`
	SourceType  SourceType    `pg:"source_type,notnull,default:'youtube'" json:"source_type"`
	PodcastID   int           `pg:"podcast_id,notnull" json:"podcast_id"`
	AudioID     *int          `pg:"audio_id" json:"audio_id,omitempty"`
	ImageID     *int          `pg:"image_id" json:"image_id,omitempty"`
	OwnerID     int           `pg:"owner_id,notnull" json:"owner_id"`
	WatchURL    string        `pg:"watch_url" json:"watch_url"`
	Length      int           `pg:"length,notnull,use_zero" json:"length"`
	Description string        `pg:"description" json:"description"`
	Chapters    []ChapterData `pg:"chapters,type:jsonb" json:"chapters,omitempty"`
	Author      string        `pg:"author" json:"author"`
	Status      EpisodeStatus `pg:"status,notnull,default:'new'" json:"status"`
	CreatedAt   time.Time     `pg:"created_at,notnull,default:now()" json:"created_at"`
	PublishedAt *time.Time    `pg:"published_at" json:"published_at,omitempty"`

	Podcast *Podcast `pg:"rel:has-one,fk:podcast_id" json:"-"`
	Audio   *File    `pg:"rel:has-one,fk:audio_id" json:"-"`
	Image   *File    `pg:"rel:has-one,fk:image_id" json:"-"`
}

func (s *Episode) String() string {
	title := []rune(s.Title)
	if len(title) > 10 {
		title = title[:10]
	}
	return fmt.Sprintf("<Episode #%d %s [%s] %q...>", s.ID, s.SourceID, s.Status, string(title))
}

func (s *Episode) InProgress() bool {
	return s.Status.InProgress()
}

func (s *Episode) ImageURL(st *common.Settings) string {
	if s.Image != nil {
		if u := s.Image.URL(st); u != "" {
			return u
		}
	}
	return st.DefaultEpisodeCover
}

// AudioURL fails for a published episode without an available audio file.
func (s *Episode) AudioURL(st *common.Settings) (string, error) {
	var u string
	if s.Audio != nil {
		u = s.Audio.URL(st)
	}
	if u == "" && s.Status == EpisodeStatusPublished {
		return "", services.NewApplicationError("can't retrieve audio url for published episode %d without available audio file", s.ID)
	}
	return u, nil
}

func (s *Episode) ListChapters() []Chapter {
	if len(s.Chapters) == 0 {
		return nil
	}
	res := make([]Chapter, 0, len(s.Chapters))
	for _, c := range s.Chapters {
		res = append(res, Chapter{
			Title: c.Title,
			Start: parseOffset(c.Start),
			End:   parseOffset(c.End),
		})
	}
	return res
}

func parseOffset(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		parts := strings.Split(t, ":")
		if len(parts) != 3 {
			return 0
		}
		var total int
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return 0
			}
			total = total*60 + n
		}
		return total
	default:
		return 0
	}
}

// RSSDescription renders the description as paragraphs for feed readers.
func (s *Episode) RSSDescription() string {
	if s.Description == "" {
		return ""
	}
	var sb strings.Builder
	for _, p := range strings.Split(strings.ReplaceAll(s.Description, "[LINK]", ""), "\n") {
		if p != "" {
			sb.WriteString("<p>")
			sb.WriteString(p)
			sb.WriteString("</p>")
		}
	}
	return sb.String()
}

func (s *Episode) Metadata() *EpisodeMetadata {
	author := s.Author
	if author == "" {
		author = "Unknown"
	}
	var podcastName string
	if s.Podcast != nil {
		podcastName = s.Podcast.Name
	}
	return &EpisodeMetadata{
		PodcastName:    podcastName,
		EpisodeID:      s.ID,
		EpisodeTitle:   s.Title,
		EpisodeAuthor:  author,
		EpisodeChapter: s.ListChapters(),
	}
}

// AudioFilename keeps the stored file name unless there is none or the file
// still lives in a temporary location.
func (s *Episode) AudioFilename(salt string) string {
	var name string
	if s.Audio != nil {
		name = s.Audio.Name()
	}
	if name != "" && !strings.Contains(s.Audio.Path, "tmp") {
		return name
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%s", s.SourceID, salt)))
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".mp3"
	}
	return fmt.Sprintf("%s_%s%s", s.SourceID, hex.EncodeToString(sum[:]), ext)
}

func GenerateEpisodeImageName(sourceID string) string {
	return fmt.Sprintf("%s_%s.png", sourceID, uuidHex())
}

type EpisodeQuery struct {
	OwnerID   int
	PodcastID int
	Statuses  []EpisodeStatus
	Limit     int
}

// GetEpisodeList returns episodes newest first.
func GetEpisodeList(ctx context.Context, db pg.DBI, q *EpisodeQuery) ([]*Episode, error) {
	var list []*Episode
	query := db.Model(&list).
		Context(ctx).
		Relation("Podcast").
		Relation("Audio").
		Relation("Image")
	if q.OwnerID != 0 {
		query.Where("episode.owner_id = ?", q.OwnerID)
	}
	if q.PodcastID != 0 {
		query.Where("episode.podcast_id = ?", q.PodcastID)
	}
	if len(q.Statuses) > 0 {
		query.WhereIn("episode.status IN (?)", q.Statuses)
	}
	if q.Limit > 0 {
		query.Limit(q.Limit)
	}
	err := query.OrderExpr("episode.created_at DESC, episode.id DESC").Select()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list episodes")
	}
	return list, nil
}

func GetEpisodesInProgress(ctx context.Context, db pg.DBI, ownerID int) ([]*Episode, error) {
	return GetEpisodeList(ctx, db, &EpisodeQuery{
		OwnerID:  ownerID,
		Statuses: ProgressStatuses,
	})
}

func GetEpisode(ctx context.Context, db pg.DBI, id int) (*Episode, error) {
	e := &Episode{}
	err := db.Model(e).
		Context(ctx).
		Relation("Podcast").
		Relation("Audio").
		Relation("Image").
		Where("episode.id = ?", id).
		Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get episode %d", id)
	}
	return e, nil
}

func CreateEpisode(ctx context.Context, db pg.DBI, e *Episode) error {
	if e.Status == "" {
		e.Status = EpisodeStatusNew
	}
	if e.SourceType == "" {
		e.SourceType = SourceTypeYoutube
	}
	_, err := db.Model(e).
		Context(ctx).
		Returning("*").
		Insert()
	if err != nil {
		return errors.Wrap(err, "failed to create episode")
	}
	return nil
}

func UpdateEpisode(ctx context.Context, db pg.DBI, e *Episode) error {
	if !e.Status.IsValid() {
		return errors.Errorf("wrong status %q for %v", e.Status, e)
	}
	_, err := db.Model(e).
		Context(ctx).
		ExcludeColumn("created_at").
		WherePK().
		Update()
	if err != nil {
		return errors.Wrapf(err, "failed to update episode %d", e.ID)
	}
	return nil
}

type episodeCount struct {
	PodcastID int
	Count     int
}

func CountEpisodesByPodcast(ctx context.Context, db pg.DBI, ownerID int) (map[int]int, error) {
	var rows []episodeCount
	err := db.Model((*Episode)(nil)).
		Context(ctx).
		ColumnExpr("episode.podcast_id, count(*) AS count").
		Where("episode.owner_id = ?", ownerID).
		Group("episode.podcast_id").
		Select(&rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count episodes")
	}
	res := make(map[int]int, len(rows))
	for _, r := range rows {
		res[r.PodcastID] = r.Count
	}
	return res, nil
}

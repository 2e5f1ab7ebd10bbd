package models

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/podcast-io/web-ui/services/common"
)

type Podcast struct {
	tableName struct{} `pg:"podcast_podcasts,alias:podcast"`

	ID                    int        `pg:"id,pk" json:"id"`
	PublishID             string     `pg:"publish_id,notnull,unique" json:"publish_id"`
	Name                  string     `pg:"name,notnull" json:"name"`
	Description           string     `pg:"description" json:"description"`
	CreatedAt             time.Time  `pg:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt             *time.Time `pg:"updated_at" json:"updated_at,omitempty"`
	DownloadAutomatically bool       `pg:"download_automatically,notnull,use_zero" json:"download_automatically"`
	RSSID                 *int       `pg:"rss_id" json:"rss_id,omitempty"`
	ImageID               *int       `pg:"image_id" json:"image_id,omitempty"`
	OwnerID               int        `pg:"owner_id,notnull" json:"owner_id"`

	RSS   *File `pg:"rel:has-one,fk:rss_id" json:"-"`
	Image *File `pg:"rel:has-one,fk:image_id" json:"-"`

	EpisodesCount int `pg:"-" json:"episodes_count"`
}

func (s *Podcast) String() string {
	return fmt.Sprintf("<Podcast #%d %q>", s.ID, s.Name)
}

func (s *Podcast) ImageURL(st *common.Settings) string {
	if s.Image != nil {
		if u := s.Image.URL(st); u != "" {
			return u
		}
	}
	return st.DefaultPodcastCover
}

// Icon returns the leading emoji of the podcast name, if any.
func (s *Podcast) Icon() string {
	r, _ := utf8.DecodeRuneInString(s.Name)
	if r == utf8.RuneError || !unicode.IsSymbol(r) {
		return ""
	}
	return string(r)
}

// GeneratePublishID returns 16 hex characters taken from an md5 of a random uuid.
func GeneratePublishID() string {
	sum := md5.Sum([]byte(uuidHex()))
	h := hex.EncodeToString(sum[:])
	var sb strings.Builder
	for i := 0; i < len(h); i += 2 {
		sb.WriteByte(h[i])
	}
	return sb.String()
}

func (s *Podcast) GenerateImageName() string {
	return fmt.Sprintf("%s_%s.png", s.PublishID, uuidHex())
}

func uuidHex() string {
	return strings.ReplaceAll(uuid.NewV4().String(), "-", "")
}

func GetPodcast(ctx context.Context, db pg.DBI, id int) (*Podcast, error) {
	p := &Podcast{}
	err := db.Model(p).
		Context(ctx).
		Relation("RSS").
		Relation("Image").
		Where("podcast.id = ?", id).
		Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get podcast %d", id)
	}
	return p, nil
}

func GetPodcastByRSSID(ctx context.Context, db pg.DBI, rssID int) (*Podcast, error) {
	p := &Podcast{}
	err := db.Model(p).
		Context(ctx).
		Relation("RSS").
		Relation("Image").
		Where("podcast.rss_id = ?", rssID).
		Limit(1).
		Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get podcast by rss")
	}
	return p, nil
}

// GetPodcastList returns owner's podcasts with their episode counters filled in.
func GetPodcastList(ctx context.Context, db pg.DBI, ownerID int) ([]*Podcast, error) {
	var list []*Podcast
	err := db.Model(&list).
		Context(ctx).
		Relation("RSS").
		Relation("Image").
		Where("podcast.owner_id = ?", ownerID).
		OrderExpr("podcast.created_at DESC, podcast.id DESC").
		Select()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list podcasts")
	}
	counts, err := CountEpisodesByPodcast(ctx, db, ownerID)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		p.EpisodesCount = counts[p.ID]
	}
	return list, nil
}

func CreatePodcast(ctx context.Context, db pg.DBI, p *Podcast) error {
	if p.PublishID == "" {
		p.PublishID = GeneratePublishID()
	}
	_, err := db.Model(p).
		Context(ctx).
		Returning("*").
		Insert()
	if err != nil {
		return errors.Wrap(err, "failed to create podcast")
	}
	return nil
}

func UpdatePodcast(ctx context.Context, db pg.DBI, p *Podcast) error {
	now := time.Now()
	p.UpdatedAt = &now
	_, err := db.Model(p).
		Context(ctx).
		Column("name", "description", "download_automatically", "rss_id", "image_id", "updated_at").
		WherePK().
		Update()
	if err != nil {
		return errors.Wrapf(err, "failed to update podcast %d", p.ID)
	}
	return nil
}

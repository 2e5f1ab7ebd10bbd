package repository

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"

	"github.com/podcast-io/web-ui/models"
)

const (
	fixturesDirFlag = "fixtures-dir"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   fixturesDirFlag,
			Usage:  "directory with podcasts.json and episodes.json used when no database is configured",
			Value:  ".local/fixtures",
			EnvVar: "FIXTURES_DIR",
		},
	)
}

func FixturesDir(c *cli.Context) string {
	return c.String(fixturesDirFlag)
}

type Podcasts interface {
	Create(ctx context.Context, p *models.Podcast) error
	Get(ctx context.Context, id int) (*models.Podcast, error)
	GetByRSS(ctx context.Context, fileID int) (*models.Podcast, error)
	List(ctx context.Context, ownerID int) ([]*models.Podcast, error)
	Update(ctx context.Context, p *models.Podcast) error
	Delete(ctx context.Context, id int) error
}

type Episodes interface {
	Create(ctx context.Context, e *models.Episode) error
	Get(ctx context.Context, id int) (*models.Episode, error)
	List(ctx context.Context, q *models.EpisodeQuery) ([]*models.Episode, error)
	ListInProgress(ctx context.Context, ownerID int) ([]*models.Episode, error)
	Update(ctx context.Context, e *models.Episode) error
	Delete(ctx context.Context, id int) error
}

type Files interface {
	Create(ctx context.Context, f *models.File) error
	Get(ctx context.Context, id int) (*models.File, error)
	GetByToken(ctx context.Context, token string) (*models.File, error)
	List(ctx context.Context, ownerID int) ([]*models.File, error)
	Update(ctx context.Context, f *models.File) error
	Delete(ctx context.Context, id int) error
}

type Users interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
}

// Repository gives access to every entity store. Get methods return nil
// without an error when nothing is found.
type Repository interface {
	Podcasts() Podcasts
	Episodes() Episodes
	Files() Files
	Users() Users
	// InTx runs fn as one unit of work. Changes made through the repository
	// passed to fn are discarded when fn returns an error.
	InTx(ctx context.Context, fn func(r Repository) error) error
}

// New returns the PostgreSQL backed repository or, without a configured
// database, the one loaded from fixtures.
func New(c *cli.Context, pg *cs.PG) (Repository, error) {
	if pg != nil {
		if db := pg.Get(); db != nil {
			return NewPG(db), nil
		}
	}
	dir := FixturesDir(c)
	log.WithField("dir", dir).Warn("database not configured, using fixtures")
	f, err := LoadFixtures(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load fixtures")
	}
	return f, nil
}

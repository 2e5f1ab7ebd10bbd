package repository

import (
	"context"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"

	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services"
)

// PG is the repository over a go-pg connection or transaction.
type PG struct {
	db pg.DBI
}

func NewPG(db pg.DBI) *PG {
	return &PG{db: db}
}

func (s *PG) Podcasts() Podcasts {
	return &pgPodcasts{db: s.db}
}

func (s *PG) Episodes() Episodes {
	return &pgEpisodes{db: s.db}
}

func (s *PG) Files() Files {
	return &pgFiles{db: s.db}
}

func (s *PG) Users() Users {
	return &pgUsers{db: s.db}
}

func (s *PG) InTx(ctx context.Context, fn func(r Repository) error) error {
	err := s.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		return fn(&PG{db: tx})
	})
	var se *services.Error
	if err != nil && !errors.As(err, &se) {
		return services.NewDatabaseError(err, "unit of work failed")
	}
	return err
}

type pgPodcasts struct {
	db pg.DBI
}

func (s *pgPodcasts) Create(ctx context.Context, p *models.Podcast) error {
	return models.CreatePodcast(ctx, s.db, p)
}

func (s *pgPodcasts) Get(ctx context.Context, id int) (*models.Podcast, error) {
	return models.GetPodcast(ctx, s.db, id)
}

func (s *pgPodcasts) GetByRSS(ctx context.Context, fileID int) (*models.Podcast, error) {
	return models.GetPodcastByRSSID(ctx, s.db, fileID)
}

func (s *pgPodcasts) List(ctx context.Context, ownerID int) ([]*models.Podcast, error) {
	return models.GetPodcastList(ctx, s.db, ownerID)
}

func (s *pgPodcasts) Update(ctx context.Context, p *models.Podcast) error {
	return models.UpdatePodcast(ctx, s.db, p)
}

func (s *pgPodcasts) Delete(_ context.Context, id int) error {
	return services.NewNotSupportedError("podcast %d removal is not supported", id)
}

type pgEpisodes struct {
	db pg.DBI
}

func (s *pgEpisodes) Create(ctx context.Context, e *models.Episode) error {
	return models.CreateEpisode(ctx, s.db, e)
}

func (s *pgEpisodes) Get(ctx context.Context, id int) (*models.Episode, error) {
	return models.GetEpisode(ctx, s.db, id)
}

func (s *pgEpisodes) List(ctx context.Context, q *models.EpisodeQuery) ([]*models.Episode, error) {
	return models.GetEpisodeList(ctx, s.db, q)
}

func (s *pgEpisodes) ListInProgress(ctx context.Context, ownerID int) ([]*models.Episode, error) {
	return models.GetEpisodesInProgress(ctx, s.db, ownerID)
}

func (s *pgEpisodes) Update(ctx context.Context, e *models.Episode) error {
	return models.UpdateEpisode(ctx, s.db, e)
}

func (s *pgEpisodes) Delete(_ context.Context, id int) error {
	return services.NewNotSupportedError("episode %d removal is not supported", id)
}

type pgFiles struct {
	db pg.DBI
}

func (s *pgFiles) Create(ctx context.Context, f *models.File) error {
	return models.CreateFile(ctx, s.db, f)
}

func (s *pgFiles) Get(ctx context.Context, id int) (*models.File, error) {
	return models.GetFile(ctx, s.db, id)
}

func (s *pgFiles) GetByToken(ctx context.Context, token string) (*models.File, error) {
	return models.GetFileByAccessToken(ctx, s.db, token)
}

func (s *pgFiles) List(ctx context.Context, ownerID int) ([]*models.File, error) {
	return models.GetFilesByOwner(ctx, s.db, ownerID)
}

func (s *pgFiles) Update(ctx context.Context, f *models.File) error {
	return models.UpdateFile(ctx, s.db, f)
}

func (s *pgFiles) Delete(_ context.Context, id int) error {
	return services.NewNotSupportedError("file %d removal is not supported", id)
}

type pgUsers struct {
	db pg.DBI
}

func (s *pgUsers) Create(ctx context.Context, u *models.User) error {
	return models.CreateUser(ctx, s.db, u)
}

func (s *pgUsers) Get(ctx context.Context, id int) (*models.User, error) {
	return models.GetUser(ctx, s.db, id)
}

func (s *pgUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return models.GetUserByEmail(ctx, s.db, email)
}

func (s *pgUsers) Update(ctx context.Context, u *models.User) error {
	return models.UpdateUser(ctx, s.db, u)
}

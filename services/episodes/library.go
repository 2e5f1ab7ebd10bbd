package episodes

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services"
	"github.com/podcast-io/web-ui/services/repository"
)

// Item is an episode row as it is listed on pages.
type Item struct {
	*models.Episode
	PodcastName string
	FileSize    int64
	Duration    int
}

func NewItem(e *models.Episode) *Item {
	it := &Item{
		Episode:  e,
		Duration: e.Length,
	}
	if e.Podcast != nil {
		it.PodcastName = e.Podcast.Name
	}
	if e.Audio != nil {
		it.FileSize = e.Audio.Size
	}
	return it
}

func NewItems(list []*models.Episode) []*Item {
	res := make([]*Item, 0, len(list))
	for _, e := range list {
		res = append(res, NewItem(e))
	}
	return res
}

type Library struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Library {
	return &Library{repo: repo}
}

// List returns owner's episodes newest first.
func (s *Library) List(ctx context.Context, ownerID int) ([]*Item, error) {
	list, err := s.repo.Episodes().List(ctx, &models.EpisodeQuery{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	return NewItems(list), nil
}

func (s *Library) ListByPodcast(ctx context.Context, ownerID int, podcastID int) ([]*Item, error) {
	list, err := s.repo.Episodes().List(ctx, &models.EpisodeQuery{
		OwnerID:   ownerID,
		PodcastID: podcastID,
	})
	if err != nil {
		return nil, err
	}
	return NewItems(list), nil
}

// InProgress returns owner's episodes that are downloading or being canceled.
func (s *Library) InProgress(ctx context.Context, ownerID int) ([]*Item, error) {
	list, err := s.repo.Episodes().ListInProgress(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return NewItems(list), nil
}

// Search returns owner's episodes matching f along with the number of
// episodes before filtering.
func (s *Library) Search(ctx context.Context, ownerID int, f *Filter) ([]*Item, int, error) {
	items, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	return f.Apply(items), len(items), nil
}

// Cancel moves a downloading episode to canceling.
func (s *Library) Cancel(ctx context.Context, ownerID int, id int) (*models.Episode, error) {
	var res *models.Episode
	err := s.repo.InTx(ctx, func(r repository.Repository) error {
		e, err := r.Episodes().Get(ctx, id)
		if err != nil {
			return err
		}
		if e == nil || e.OwnerID != ownerID {
			return services.NewNotFoundError("episode %d not found", id)
		}
		if e.Status != models.EpisodeStatusDownloading {
			return services.NewConflictError("episode %d is %s and can't be canceled", id, e.Status.Label())
		}
		e.Status = models.EpisodeStatusCanceling
		if err := r.Episodes().Update(ctx, e); err != nil {
			return err
		}
		res = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.WithField("episode", res).Info("episode canceling")
	return res, nil
}

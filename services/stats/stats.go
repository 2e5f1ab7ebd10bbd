package stats

import (
	"context"
	"strconv"
	"time"

	"github.com/urfave/cli"
	"github.com/webtor-io/lazymap"

	"github.com/podcast-io/web-ui/models"
	"github.com/podcast-io/web-ui/services/episodes"
	"github.com/podcast-io/web-ui/services/repository"
)

const (
	cacheExpireFlag = "stats-cache-expire"
)

const (
	AverageEpisodeSize = 50 * 1024 * 1024
	RecentLimit        = 5
	noEpisodesText     = "No episodes yet"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.DurationFlag{
			Name:   cacheExpireFlag,
			Usage:  "dashboard statistics cache expiration time",
			Value:  30 * time.Second,
			EnvVar: "STATS_CACHE_EXPIRE",
		},
	)
}

type Stats struct {
	PodcastsCount    int
	EpisodesCount    int
	DownloadingCount int
	StorageUsed      int64
	RecentEpisode    string
}

// Compute builds statistics from owner's podcasts and episodes. Items are
// expected newest first.
func Compute(podcasts []*models.Podcast, items []*episodes.Item) *Stats {
	st := &Stats{
		PodcastsCount: len(podcasts),
		RecentEpisode: noEpisodesText,
	}
	for _, p := range podcasts {
		st.EpisodesCount += p.EpisodesCount
	}
	for _, it := range items {
		if it.Status == models.EpisodeStatusDownloading {
			st.DownloadingCount++
		}
	}
	st.StorageUsed = int64(st.EpisodesCount) * AverageEpisodeSize
	if len(items) > 0 {
		st.RecentEpisode = items[0].Title
	}
	return st
}

type Dashboard struct {
	Stats      *Stats
	Podcasts   []*models.Podcast
	Recent     []*episodes.Item
	InProgress []*episodes.Item
}

type Service struct {
	repo  repository.Repository
	lib   *episodes.Library
	cache *lazymap.LazyMap[*Dashboard]
}

func New(c *cli.Context, repo repository.Repository, lib *episodes.Library) *Service {
	return NewWithExpire(repo, lib, c.Duration(cacheExpireFlag))
}

func NewWithExpire(repo repository.Repository, lib *episodes.Library, expire time.Duration) *Service {
	return &Service{
		repo: repo,
		lib:  lib,
		cache: lazymap.New[*Dashboard](&lazymap.Config{
			Expire:      expire,
			ErrorExpire: 5 * time.Second,
		}),
	}
}

// Get returns owner's dashboard. Results are cached for a short time.
func (s *Service) Get(ctx context.Context, ownerID int) (*Dashboard, error) {
	return s.cache.Get(strconv.Itoa(ownerID), func() (*Dashboard, error) {
		podcasts, err := s.repo.Podcasts().List(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		items, err := s.lib.List(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		inProgress, err := s.lib.InProgress(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		recent := items
		if len(recent) > RecentLimit {
			recent = recent[:RecentLimit]
		}
		return &Dashboard{
			Stats:      Compute(podcasts, items),
			Podcasts:   podcasts,
			Recent:     recent,
			InProgress: inProgress,
		}, nil
	})
}

func (s *Service) Invalidate(ownerID int) {
	s.cache.Drop(strconv.Itoa(ownerID))
}

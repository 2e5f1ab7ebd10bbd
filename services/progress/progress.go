package progress

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	cs "github.com/webtor-io/common-services"
)

const (
	enabledFlag  = "progress-pubsub"
	progressFlag = "progress-pubsub-channel"
	stopFlag     = "stop-downloading-pubsub-channel"
)

const (
	EpisodesUpdatedSignal          = "EPISODES_UPDATED"
	EpisodeCancelDownloadingSignal = "EPISODE_CANCEL_DOWNLOADING"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.BoolFlag{
			Name:   enabledFlag,
			Usage:  "relay episode progress through redis pub/sub",
			EnvVar: "REDIS_PROGRESS_PUBSUB",
		},
		cli.StringFlag{
			Name:   progressFlag,
			Usage:  "redis channel with episode progress signals",
			Value:  "channel:episodes-progress",
			EnvVar: "REDIS_PROGRESS_PUBSUB_CH",
		},
		cli.StringFlag{
			Name:   stopFlag,
			Usage:  "redis channel with stop downloading signals",
			Value:  "channel:episodes-stop-downloading",
			EnvVar: "REDIS_STOP_DOWNLOADING_PUBSUB_CH",
		},
	)
}

// Event is a signal sent over pub/sub. Workers may publish a bare signal
// name instead of JSON.
type Event struct {
	Signal    string `json:"signal"`
	EpisodeID int    `json:"episode_id,omitempty"`
}

func ParseEvent(payload string) *Event {
	payload = strings.TrimSpace(payload)
	e := &Event{}
	if strings.HasPrefix(payload, "{") && json.Unmarshal([]byte(payload), e) == nil && e.Signal != "" {
		return e
	}
	return &Event{Signal: payload}
}

type Broker interface {
	PublishCancel(ctx context.Context, episodeID int) error
	PublishUpdated(ctx context.Context) error
	// Subscribe delivers progress events until ctx is done.
	Subscribe(ctx context.Context) (<-chan *Event, error)
}

type Progress struct {
	cl         redis.UniversalClient
	progressCh string
	stopCh     string
}

// New returns nil when progress relaying is disabled.
func New(c *cli.Context, cl *cs.RedisClient) *Progress {
	if !c.Bool(enabledFlag) || cl == nil {
		return nil
	}
	return &Progress{
		cl:         cl.Get(),
		progressCh: c.String(progressFlag),
		stopCh:     c.String(stopFlag),
	}
}

func (s *Progress) publish(ctx context.Context, ch string, e *Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "failed to marshal event")
	}
	if err := s.cl.Publish(ctx, ch, b).Err(); err != nil {
		return errors.Wrapf(err, "failed to publish %s to %s", e.Signal, ch)
	}
	return nil
}

func (s *Progress) PublishCancel(ctx context.Context, episodeID int) error {
	return s.publish(ctx, s.stopCh, &Event{Signal: EpisodeCancelDownloadingSignal, EpisodeID: episodeID})
}

func (s *Progress) PublishUpdated(ctx context.Context) error {
	return s.publish(ctx, s.progressCh, &Event{Signal: EpisodesUpdatedSignal})
}

func (s *Progress) Subscribe(ctx context.Context) (<-chan *Event, error) {
	ps := s.cl.Subscribe(ctx, s.progressCh)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, errors.Wrapf(err, "failed to subscribe to %s", s.progressCh)
	}
	out := make(chan *Event)
	go func() {
		defer close(out)
		defer func() {
			if err := ps.Close(); err != nil {
				log.WithError(err).Warn("failed to close subscription")
			}
		}()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- ParseEvent(m.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

package progress

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/podcast-io/web-ui/handlers/common"
	"github.com/podcast-io/web-ui/models"
	sc "github.com/podcast-io/web-ui/services/common"
	"github.com/podcast-io/web-ui/services/episodes"
	"github.com/podcast-io/web-ui/services/progress"
	"github.com/podcast-io/web-ui/services/stats"
)

const eventName = "progress"

// Location is where the progress page lives: the episode list narrowed to
// downloads.
var Location = "/episodes?" + url.Values{
	episodes.StatusParam: {string(models.EpisodeStatusDownloading)},
}.Encode()

type Handler struct {
	st     *sc.Settings
	stats  *stats.Service
	broker progress.Broker
}

// RegisterHandler registers progress routes. broker may be nil, then no
// events are streamed.
func RegisterHandler(r *gin.Engine, st *sc.Settings, ss *stats.Service, broker progress.Broker) {
	h := &Handler{
		st:     st,
		stats:  ss,
		broker: broker,
	}
	r.GET("/progress", h.redirect)
	r.GET("/progress/events", h.events)
}

func (s *Handler) redirect(c *gin.Context) {
	c.Redirect(http.StatusFound, Location)
}

func (s *Handler) events(c *gin.Context) {
	if s.broker == nil {
		c.Status(http.StatusNoContent)
		return
	}
	ctx := c.Request.Context()
	ch, err := s.broker.Subscribe(ctx)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if e.Signal == progress.EpisodesUpdatedSignal {
				s.stats.Invalidate(s.st.OwnerID)
			}
			log.WithField("event", e).Debug("relaying progress event")
			c.SSEvent(eventName, e)
			c.Writer.Flush()
		}
	}
}

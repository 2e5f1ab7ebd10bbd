package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEvent(t *testing.T) {
	assert.Equal(t, &Event{Signal: EpisodesUpdatedSignal}, ParseEvent("EPISODES_UPDATED"))
	assert.Equal(t, &Event{Signal: EpisodesUpdatedSignal}, ParseEvent(" EPISODES_UPDATED\n"))
	assert.Equal(t,
		&Event{Signal: EpisodeCancelDownloadingSignal, EpisodeID: 7},
		ParseEvent(`{"signal": "EPISODE_CANCEL_DOWNLOADING", "episode_id": 7}`))
	assert.Equal(t, &Event{Signal: `{"foo": 1}`}, ParseEvent(`{"foo": 1}`))
	assert.Equal(t, &Event{Signal: "{broken"}, ParseEvent("{broken"))
}

package models

import "strings"

// EpisodeStatus is the download pipeline state of an episode.
type EpisodeStatus string

const (
	EpisodeStatusNew         EpisodeStatus = "new"
	EpisodeStatusPending     EpisodeStatus = "pending"
	EpisodeStatusDownloading EpisodeStatus = "downloading"
	EpisodeStatusCanceling   EpisodeStatus = "canceling"
	EpisodeStatusPublished   EpisodeStatus = "published"
	EpisodeStatusError       EpisodeStatus = "error"
)

var AllEpisodeStatuses = []EpisodeStatus{
	EpisodeStatusNew,
	EpisodeStatusPending,
	EpisodeStatusDownloading,
	EpisodeStatusCanceling,
	EpisodeStatusPublished,
	EpisodeStatusError,
}

// ProgressStatuses are the states of an episode that is being worked on.
var ProgressStatuses = []EpisodeStatus{
	EpisodeStatusDownloading,
	EpisodeStatusCanceling,
}

func ParseEpisodeStatus(s string) (EpisodeStatus, bool) {
	st := EpisodeStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range AllEpisodeStatuses {
		if v == st {
			return st, true
		}
	}
	return "", false
}

func (s EpisodeStatus) String() string {
	return string(s)
}

func (s EpisodeStatus) IsValid() bool {
	st, ok := ParseEpisodeStatus(string(s))
	return ok && st == s
}

func (s EpisodeStatus) InProgress() bool {
	return s == EpisodeStatusDownloading || s == EpisodeStatusCanceling
}

func (s EpisodeStatus) Label() string {
	switch s {
	case EpisodeStatusNew:
		return "New"
	case EpisodeStatusPending:
		return "Pending"
	case EpisodeStatusDownloading:
		return "Downloading"
	case EpisodeStatusCanceling:
		return "Canceling"
	case EpisodeStatusPublished:
		return "Published"
	case EpisodeStatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

type SourceType string

const (
	SourceTypeYoutube SourceType = "youtube"
)

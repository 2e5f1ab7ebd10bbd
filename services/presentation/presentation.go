package presentation

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// StatusStyle is the set of css classes an episode status is drawn with.
type StatusStyle struct {
	Background string
	Text       string
	Border     string
}

func (s StatusStyle) String() string {
	return fmt.Sprintf("%s %s %s", s.Background, s.Text, s.Border)
}

const unknownStatusLabel = "Unknown"

// Statuses are the statuses episodes are filtered by on pages.
var Statuses = []string{"published", "downloading", "error", "pending"}

var (
	pendingStyle = StatusStyle{Background: "bg-yellow-100", Text: "text-yellow-800", Border: "border-yellow-200"}

	statusLabels = map[string]string{
		"published":   "Published",
		"downloading": "Downloading",
		"error":       "Error",
		"pending":     "Pending",
	}

	statusStyles = map[string]StatusStyle{
		"published":   {Background: "bg-green-100", Text: "text-green-800", Border: "border-green-200"},
		"downloading": {Background: "bg-blue-100", Text: "text-blue-800", Border: "border-blue-200"},
		"error":       {Background: "bg-red-100", Text: "text-red-800", Border: "border-red-200"},
		"pending":     pendingStyle,
	}
)

func StatusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return unknownStatusLabel
}

// StatusColor falls back to the pending style for unknown statuses.
func StatusColor(status string) StatusStyle {
	if st, ok := statusStyles[status]; ok {
		return st
	}
	return pendingStyle
}

const (
	kb = 1024
	mb = kb * 1024
	gb = mb * 1024
)

func FormatFileSize(size int64) string {
	switch {
	case size < kb:
		return fmt.Sprintf("%d B", size)
	case size < mb:
		return fmt.Sprintf("%.2f KB", float64(size)/kb)
	case size < gb:
		return fmt.Sprintf("%.2f MB", float64(size)/mb)
	default:
		return fmt.Sprintf("%.2f GB", float64(size)/gb)
	}
}

// FormatDuration renders seconds as HH:MM:SS, or MM:SS below an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Helper exposes presentation functions to templates.
type Helper struct{}

func NewHelper() *Helper {
	return &Helper{}
}

func (s *Helper) StatusLabel(status any) string {
	return StatusLabel(fmt.Sprint(status))
}

func (s *Helper) StatusColor(status any) StatusStyle {
	return StatusColor(fmt.Sprint(status))
}

func (s *Helper) Statuses() []string {
	return Statuses
}

func (s *Helper) FileSize(size int64) string {
	return FormatFileSize(size)
}

func (s *Helper) Duration(seconds int) string {
	return FormatDuration(seconds)
}

func (s *Helper) TimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func (s *Helper) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func (s *Helper) Comma(n int) string {
	return humanize.Comma(int64(n))
}

package episodes

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/podcast-io/web-ui/models"
)

const (
	StatusParam  = "status"
	SizeMinParam = "size_min"
	SizeMaxParam = "size_max"
	PodcastParam = "podcast"
	SearchParam  = "search"
)

const bytesInMB = 1024 * 1024

// Filter holds optional criteria. Nil or empty fields match everything.
type Filter struct {
	Statuses []models.EpisodeStatus
	SizeMin  *int64
	SizeMax  *int64
	Podcast  string
	Search   string
}

// ParseFilter reads criteria from the query string. Statuses may be given
// comma separated or as repeated params. Empty values are skipped as well
// as sizes that are not numbers.
func ParseFilter(v url.Values) *Filter {
	f := &Filter{
		Podcast: v.Get(PodcastParam),
		Search:  strings.TrimSpace(v.Get(SearchParam)),
	}
	for _, sts := range v[StatusParam] {
		for _, st := range strings.Split(sts, ",") {
			st = strings.ToLower(strings.TrimSpace(st))
			if st != "" && !f.HasStatus(st) {
				f.Statuses = append(f.Statuses, models.EpisodeStatus(st))
			}
		}
	}
	f.SizeMin = parseMB(v.Get(SizeMinParam), math.Ceil)
	f.SizeMax = parseMB(v.Get(SizeMaxParam), math.Floor)
	return f
}

// parseMB converts megabytes to whole bytes. round picks the side so that
// the byte bound is never looser than the given one. Values out of the
// int64 range are clamped.
func parseMB(s string, round func(float64) float64) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	mb, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(mb) {
		return nil
	}
	v := round(mb * bytesInMB)
	var b int64
	switch {
	case v >= math.MaxInt64:
		b = math.MaxInt64
	case v <= math.MinInt64:
		b = math.MinInt64
	default:
		b = int64(v)
	}
	return &b
}

func (s *Filter) IsEmpty() bool {
	return len(s.Statuses) == 0 && s.SizeMin == nil && s.SizeMax == nil && s.Podcast == "" && s.Search == ""
}

// Values returns criteria in the form ParseFilter accepts.
func (s *Filter) Values() url.Values {
	v := url.Values{}
	if len(s.Statuses) > 0 {
		sts := make([]string, 0, len(s.Statuses))
		for _, st := range s.Statuses {
			sts = append(sts, string(st))
		}
		v.Set(StatusParam, strings.Join(sts, ","))
	}
	if s.SizeMin != nil {
		v.Set(SizeMinParam, formatMB(*s.SizeMin))
	}
	if s.SizeMax != nil {
		v.Set(SizeMaxParam, formatMB(*s.SizeMax))
	}
	if s.Podcast != "" {
		v.Set(PodcastParam, s.Podcast)
	}
	if s.Search != "" {
		v.Set(SearchParam, s.Search)
	}
	return v
}

func formatMB(b int64) string {
	return strconv.FormatFloat(float64(b)/bytesInMB, 'f', -1, 64)
}

func (s *Filter) HasStatus(st string) bool {
	for _, v := range s.Statuses {
		if string(v) == st {
			return true
		}
	}
	return false
}

// Apply keeps the items matching every criterion. Input order is preserved.
func (s *Filter) Apply(items []*Item) []*Item {
	if s.IsEmpty() {
		return items
	}
	fold := cases.Fold()
	search := fold.String(s.Search)
	res := make([]*Item, 0, len(items))
	for _, it := range items {
		if len(s.Statuses) > 0 && !s.HasStatus(string(it.Status)) {
			continue
		}
		if s.SizeMin != nil && it.FileSize < *s.SizeMin {
			continue
		}
		if s.SizeMax != nil && it.FileSize > *s.SizeMax {
			continue
		}
		if s.Podcast != "" && it.PodcastName != s.Podcast {
			continue
		}
		if search != "" &&
			!strings.Contains(fold.String(it.Title), search) &&
			!strings.Contains(fold.String(it.Description), search) {
			continue
		}
		res = append(res, it)
	}
	return res
}

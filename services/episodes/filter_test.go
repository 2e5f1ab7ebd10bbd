package episodes

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podcast-io/web-ui/models"
)

func testItems() []*Item {
	mk := func(id int, title, descr string, st models.EpisodeStatus, podcast string, size int64) *Item {
		return &Item{
			Episode:     &models.Episode{ID: id, Title: title, Description: descr, Status: st},
			PodcastName: podcast,
			FileSize:    size,
		}
	}
	return []*Item{
		mk(1, "Go Routines", "concurrency basics", models.EpisodeStatusPublished, "Tech", 5*bytesInMB),
		mk(2, "Rome", "the EMPIRE strikes", models.EpisodeStatusDownloading, "History", 0),
		mk(3, "Channels", "more go", models.EpisodeStatusError, "Tech", 10*bytesInMB),
		mk(4, "Σίσυφος", "greek myths", models.EpisodeStatusDownloading, "Tech", 20*bytesInMB),
		mk(5, "Pending one", "", models.EpisodeStatusPending, "History", 10*bytesInMB+1),
	}
}

func ids(items []*Item) []int {
	res := []int{}
	for _, it := range items {
		res = append(res, it.ID)
	}
	return res
}

func TestParseFilter(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		f := ParseFilter(url.Values{})
		assert.True(t, f.IsEmpty())
	})

	t.Run("empty values are absent", func(t *testing.T) {
		f := ParseFilter(url.Values{
			StatusParam:  {""},
			SizeMinParam: {""},
			PodcastParam: {""},
			SearchParam:  {"  "},
		})
		assert.True(t, f.IsEmpty())
	})

	t.Run("all criteria", func(t *testing.T) {
		f := ParseFilter(url.Values{
			StatusParam:  {"Downloading, error,"},
			SizeMinParam: {"1.5"},
			SizeMaxParam: {"10"},
			PodcastParam: {"Tech"},
			SearchParam:  {"go"},
		})
		assert.Equal(t, []models.EpisodeStatus{models.EpisodeStatusDownloading, models.EpisodeStatusError}, f.Statuses)
		require.NotNil(t, f.SizeMin)
		assert.Equal(t, int64(1572864), *f.SizeMin)
		require.NotNil(t, f.SizeMax)
		assert.Equal(t, int64(10*1024*1024), *f.SizeMax)
		assert.Equal(t, "Tech", f.Podcast)
		assert.Equal(t, "go", f.Search)
		assert.Equal(t, "downloading,error", f.Values().Get(StatusParam))
		assert.Equal(t, "1.5", f.Values().Get(SizeMinParam))
	})

	t.Run("repeated status params", func(t *testing.T) {
		f := ParseFilter(url.Values{StatusParam: {"pending", "error,pending"}})
		assert.Equal(t, []models.EpisodeStatus{models.EpisodeStatusPending, models.EpisodeStatusError}, f.Statuses)
	})

	t.Run("non numeric sizes are ignored", func(t *testing.T) {
		f := ParseFilter(url.Values{SizeMinParam: {"abc"}, SizeMaxParam: {"1e"}})
		assert.Nil(t, f.SizeMin)
		assert.Nil(t, f.SizeMax)
		assert.True(t, f.IsEmpty())
	})

	t.Run("not a number is ignored", func(t *testing.T) {
		f := ParseFilter(url.Values{SizeMinParam: {"NaN"}, SizeMaxParam: {"nan"}})
		assert.Nil(t, f.SizeMin)
		assert.Nil(t, f.SizeMax)
	})

	t.Run("huge sizes are clamped", func(t *testing.T) {
		for _, v := range []string{"1e300", "Inf", "+Inf"} {
			f := ParseFilter(url.Values{SizeMinParam: {v}, SizeMaxParam: {v}})
			require.NotNil(t, f.SizeMin, v)
			require.NotNil(t, f.SizeMax, v)
			assert.Equal(t, int64(math.MaxInt64), *f.SizeMin, v)
			assert.Equal(t, int64(math.MaxInt64), *f.SizeMax, v)
		}
		f := ParseFilter(url.Values{SizeMinParam: {"-Inf"}, SizeMaxParam: {"-1e300"}})
		assert.Equal(t, int64(math.MinInt64), *f.SizeMin)
		assert.Equal(t, int64(math.MinInt64), *f.SizeMax)
	})

	t.Run("fractional sizes round inwards", func(t *testing.T) {
		f := ParseFilter(url.Values{SizeMinParam: {"0.1"}, SizeMaxParam: {"0.1"}})
		assert.Equal(t, int64(104858), *f.SizeMin)
		assert.Equal(t, int64(104857), *f.SizeMax)
	})
}

func TestFilterApply(t *testing.T) {
	items := testItems()

	t.Run("no criteria keeps everything", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3, 4, 5}, ids((&Filter{}).Apply(items)))
	})

	t.Run("status list keeps exactly those in order", func(t *testing.T) {
		f := ParseFilter(url.Values{StatusParam: {"downloading,error"}})
		assert.Equal(t, []int{2, 3, 4}, ids(f.Apply(items)))
	})

	t.Run("single status", func(t *testing.T) {
		f := ParseFilter(url.Values{StatusParam: {"published"}})
		assert.Equal(t, []int{1}, ids(f.Apply(items)))
	})

	t.Run("unknown status matches nothing", func(t *testing.T) {
		f := ParseFilter(url.Values{StatusParam: {"archived"}})
		assert.Empty(t, f.Apply(items))
	})

	t.Run("size min is inclusive", func(t *testing.T) {
		f := ParseFilter(url.Values{SizeMinParam: {"10"}})
		assert.Equal(t, []int{3, 4, 5}, ids(f.Apply(items)))
	})

	t.Run("size max is inclusive", func(t *testing.T) {
		f := ParseFilter(url.Values{SizeMaxParam: {"10"}})
		assert.Equal(t, []int{1, 2, 3}, ids(f.Apply(items)))
	})

	t.Run("huge size min keeps nothing", func(t *testing.T) {
		for _, v := range []string{"1e300", "Inf"} {
			assert.Empty(t, ParseFilter(url.Values{SizeMinParam: {v}}).Apply(items), v)
		}
	})

	t.Run("huge size max keeps everything", func(t *testing.T) {
		for _, v := range []string{"1e300", "Inf"} {
			assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(ParseFilter(url.Values{SizeMaxParam: {v}}).Apply(items)), v)
		}
	})

	t.Run("negative size max keeps nothing", func(t *testing.T) {
		assert.Empty(t, ParseFilter(url.Values{SizeMaxParam: {"-1e300"}}).Apply(items))
	})

	t.Run("fractional size min is not loosened", func(t *testing.T) {
		small := []*Item{
			{Episode: &models.Episode{ID: 1}, FileSize: 104857},
			{Episode: &models.Episode{ID: 2}, FileSize: 104858},
		}
		assert.Equal(t, []int{2}, ids(ParseFilter(url.Values{SizeMinParam: {"0.1"}}).Apply(small)))
		assert.Equal(t, []int{1}, ids(ParseFilter(url.Values{SizeMaxParam: {"0.1"}}).Apply(small)))
	})

	t.Run("podcast is exact", func(t *testing.T) {
		assert.Equal(t, []int{2, 5}, ids(ParseFilter(url.Values{PodcastParam: {"History"}}).Apply(items)))
		assert.Empty(t, ParseFilter(url.Values{PodcastParam: {"history"}}).Apply(items))
	})

	t.Run("search is case insensitive over title and description", func(t *testing.T) {
		assert.Equal(t, []int{1, 3}, ids(ParseFilter(url.Values{SearchParam: {"GO"}}).Apply(items)))
		assert.Equal(t, []int{2}, ids(ParseFilter(url.Values{SearchParam: {"empire"}}).Apply(items)))
		assert.Equal(t, []int{4}, ids(ParseFilter(url.Values{SearchParam: {"ΣΊΣΥΦΟΣ"}}).Apply(items)))
	})

	t.Run("criteria are combined", func(t *testing.T) {
		f := ParseFilter(url.Values{
			StatusParam:  {"downloading,error"},
			PodcastParam: {"Tech"},
			SizeMinParam: {"15"},
		})
		assert.Equal(t, []int{4}, ids(f.Apply(items)))
	})

	t.Run("input is not modified", func(t *testing.T) {
		ParseFilter(url.Values{StatusParam: {"error"}}).Apply(items)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(items))
	})
}

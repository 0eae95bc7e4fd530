package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2025, time.January, n, 12, 0, 0, 0, time.UTC)
}

func testChannel() ChannelResult {
	return ChannelResult{
		Summary: ChannelSummary{ChannelID: "UC1", Title: "Chan One", SubscriberCount: 1000},
		Videos: []VideoRecord{
			{VideoID: "aaa", ViewCount: 100, EngagementRateViews: 5.0, ViewRate: 10, PublishedAt: day(1)},
			{VideoID: "bbb", ViewCount: 300, EngagementRateViews: 2.0, ViewRate: 30, PublishedAt: day(3)},
			{VideoID: "ccc", ViewCount: 200, EngagementRateViews: 5.0, ViewRate: 20, PublishedAt: day(2)},
		},
	}
}

func TestBestVideosOrderAndTieBreaks(t *testing.T) {
	c := testChannel()
	got := c.BestVideos(3)

	// equal engagement: higher views win, then lower id
	require.Len(t, got, 3)
	assert.Equal(t, "ccc", got[0].VideoID)
	assert.Equal(t, "aaa", got[1].VideoID)
	assert.Equal(t, "bbb", got[2].VideoID)
}

func TestBestVideosTieBreakByID(t *testing.T) {
	c := ChannelResult{Videos: []VideoRecord{
		{VideoID: "zzz", ViewCount: 100, EngagementRateViews: 5.0},
		{VideoID: "aaa", ViewCount: 100, EngagementRateViews: 5.0},
	}}
	got := c.BestVideos(2)
	require.Len(t, got, 2)
	assert.Equal(t, "aaa", got[0].VideoID)
	assert.Equal(t, "zzz", got[1].VideoID)
}

func TestBestVideosDoesNotMutate(t *testing.T) {
	c := testChannel()
	_ = c.BestVideos(3)
	assert.Equal(t, "aaa", c.Videos[0].VideoID, "source order must survive ranking")
}

func TestBestVideosLimit(t *testing.T) {
	c := testChannel()
	assert.Len(t, c.BestVideos(2), 2)
	assert.Len(t, c.BestVideos(10), 3, "limit above len returns everything")
	assert.Len(t, c.BestVideos(-1), 3, "negative limit means no limit")
	assert.Empty(t, c.BestVideos(0))
}

func TestLatestVideosNewestFirst(t *testing.T) {
	c := testChannel()
	got := c.LatestVideos(-1)
	require.Len(t, got, 3)
	assert.Equal(t, "bbb", got[0].VideoID)
	assert.Equal(t, "ccc", got[1].VideoID)
	assert.Equal(t, "aaa", got[2].VideoID)
}

func TestTopViewed(t *testing.T) {
	c := testChannel()
	got := c.TopViewed(2)
	require.Len(t, got, 2)
	assert.Equal(t, "bbb", got[0].VideoID)
	assert.Equal(t, "ccc", got[1].VideoID)
}

func TestAverages(t *testing.T) {
	c := testChannel()
	avg := c.Averages()
	assert.InDelta(t, 200.0, avg.Views, 1e-9)
	assert.InDelta(t, 4.0, avg.EngagementRateViews, 1e-9)
	assert.InDelta(t, 20.0, avg.ViewRate, 1e-9)
}

func TestAveragesEmptyChannel(t *testing.T) {
	var c ChannelResult
	assert.Zero(t, c.Averages())
}

func TestAggregatedDatasetTotals(t *testing.T) {
	ds := &AggregatedDataset{}
	ds.Add(testChannel())
	ds.Add(ChannelResult{
		Summary: ChannelSummary{ChannelID: "UC2", Title: "Chan Two"},
		Videos: []VideoRecord{
			{VideoID: "ddd", ViewCount: 50, LikeCount: 5, CommentCount: 1},
		},
	})

	assert.Equal(t, 4, ds.TotalVideos())
	videos, views, likes, comments := ds.GlobalTotals()
	assert.Equal(t, 4, videos)
	assert.Equal(t, int64(650), views)
	assert.Equal(t, int64(5), likes)
	assert.Equal(t, int64(1), comments)
}

func TestTrendRankingSkipsEmptyChannels(t *testing.T) {
	ds := &AggregatedDataset{}
	ds.Add(testChannel())
	ds.Add(ChannelResult{Summary: ChannelSummary{ChannelID: "UC2", Title: "Empty"}})

	rows := ds.TrendRanking()
	require.Len(t, rows, 1)
	assert.Equal(t, "Chan One", rows[0].Title)
	assert.InDelta(t, 4.0, rows[0].AvgEngagement, 1e-9)
}

func TestTrendRankingOrder(t *testing.T) {
	ds := &AggregatedDataset{}
	ds.Add(ChannelResult{
		Summary: ChannelSummary{Title: "Low"},
		Videos:  []VideoRecord{{VideoID: "a", EngagementRateViews: 1.0, ViewRate: 50}},
	})
	ds.Add(ChannelResult{
		Summary: ChannelSummary{Title: "High"},
		Videos:  []VideoRecord{{VideoID: "b", EngagementRateViews: 9.0, ViewRate: 5}},
	})

	byEngagement := ds.TrendRanking()
	require.Len(t, byEngagement, 2)
	assert.Equal(t, "High", byEngagement[0].Title)

	byViewRate := ds.TrendRankingByViewRate()
	require.Len(t, byViewRate, 2)
	assert.Equal(t, "Low", byViewRate[0].Title)
}

func TestTopEngagementOverall(t *testing.T) {
	ds := &AggregatedDataset{}
	ds.Add(testChannel())
	ds.Add(ChannelResult{
		Summary: ChannelSummary{Title: "Chan Two"},
		Videos:  []VideoRecord{{VideoID: "ddd", ViewCount: 10, EngagementRateViews: 7.0}},
	})

	got := ds.TopEngagementOverall(2)
	require.Len(t, got, 2)
	assert.Equal(t, "ddd", got[0].VideoID)
	assert.Equal(t, "Chan Two", got[0].ChannelTitle)
	assert.Equal(t, "ccc", got[1].VideoID)
	assert.Equal(t, "Chan One", got[1].ChannelTitle)
}

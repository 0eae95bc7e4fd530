package models

import "sort"

// ChannelResult owns one resolved channel and its analyzed videos in API
// order. Built once per channel, read-only afterwards.
type ChannelResult struct {
	Summary ChannelSummary `json:"channel"`
	Videos  []VideoRecord  `json:"videos"`
}

// ChannelAverages are the arithmetic means over a channel's full video set.
// Ranking cutoffs never affect them.
type ChannelAverages struct {
	Views                     float64 `json:"views"`
	Likes                     float64 `json:"likes"`
	Comments                  float64 `json:"comments"`
	EngagementRateViews       float64 `json:"engagementRateViews"`
	EngagementRateSubscribers float64 `json:"engagementRateSubscribers"`
	ViewRate                  float64 `json:"viewRate"`
	LikeRate                  float64 `json:"likeRate"`
	CommentRate               float64 `json:"commentRate"`
}

// Averages computes the per-channel means across all videos.
func (r ChannelResult) Averages() ChannelAverages {
	var a ChannelAverages
	if len(r.Videos) == 0 {
		return a
	}
	for _, v := range r.Videos {
		a.Views += float64(v.ViewCount)
		a.Likes += float64(v.LikeCount)
		a.Comments += float64(v.CommentCount)
		a.EngagementRateViews += v.EngagementRateViews
		a.EngagementRateSubscribers += v.EngagementRateSubscribers
		a.ViewRate += v.ViewRate
		a.LikeRate += v.LikeRate
		a.CommentRate += v.CommentRate
	}
	n := float64(len(r.Videos))
	a.Views /= n
	a.Likes /= n
	a.Comments /= n
	a.EngagementRateViews /= n
	a.EngagementRateSubscribers /= n
	a.ViewRate /= n
	a.LikeRate /= n
	a.CommentRate /= n
	return a
}

// BestVideos returns up to n videos ordered by engagement rate descending.
// Ties break by view count descending, then video id ascending, so the order
// is fully deterministic. The underlying slice is never mutated.
func (r ChannelResult) BestVideos(n int) []VideoRecord {
	out := copyVideos(r.Videos)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EngagementRateViews != out[j].EngagementRateViews {
			return out[i].EngagementRateViews > out[j].EngagementRateViews
		}
		if out[i].ViewCount != out[j].ViewCount {
			return out[i].ViewCount > out[j].ViewCount
		}
		return out[i].VideoID < out[j].VideoID
	})
	return truncate(out, n)
}

// LatestVideos returns up to n videos ordered by publish time descending,
// ties broken by video id ascending.
func (r ChannelResult) LatestVideos(n int) []VideoRecord {
	out := copyVideos(r.Videos)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].VideoID < out[j].VideoID
	})
	return truncate(out, n)
}

// TopViewed returns up to n videos ordered by view count descending, ties
// broken by video id ascending.
func (r ChannelResult) TopViewed(n int) []VideoRecord {
	out := copyVideos(r.Videos)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ViewCount != out[j].ViewCount {
			return out[i].ViewCount > out[j].ViewCount
		}
		return out[i].VideoID < out[j].VideoID
	})
	return truncate(out, n)
}

// AggregatedDataset owns every ChannelResult of a run, in config order.
// Derived views are recomputed on demand and never stored.
type AggregatedDataset struct {
	Channels []ChannelResult `json:"channels"`
}

// Add appends a channel result, keeping config order.
func (d *AggregatedDataset) Add(r ChannelResult) {
	d.Channels = append(d.Channels, r)
}

// TotalVideos counts videos across all channels.
func (d *AggregatedDataset) TotalVideos() int {
	n := 0
	for _, c := range d.Channels {
		n += len(c.Videos)
	}
	return n
}

// GlobalTotals sums raw counts across all channels.
func (d *AggregatedDataset) GlobalTotals() (videos int, views, likes, comments int64) {
	for _, c := range d.Channels {
		videos += len(c.Videos)
		for _, v := range c.Videos {
			views += v.ViewCount
			likes += v.LikeCount
			comments += v.CommentCount
		}
	}
	return videos, views, likes, comments
}

// ChannelTrend is one row of the cross-channel comparison.
type ChannelTrend struct {
	Title         string  `json:"title"`
	Subscribers   int64   `json:"subscribers"`
	VideoCount    int     `json:"videoCount"`
	AvgEngagement float64 `json:"avgEngagement"`
	AvgViews      float64 `json:"avgViews"`
	AvgViewRate   float64 `json:"avgViewRate"`
}

func (d *AggregatedDataset) trendRows() []ChannelTrend {
	rows := make([]ChannelTrend, 0, len(d.Channels))
	for _, c := range d.Channels {
		if len(c.Videos) == 0 {
			continue
		}
		avg := c.Averages()
		rows = append(rows, ChannelTrend{
			Title:         c.Summary.Title,
			Subscribers:   c.Summary.SubscriberCount,
			VideoCount:    len(c.Videos),
			AvgEngagement: avg.EngagementRateViews,
			AvgViews:      avg.Views,
			AvgViewRate:   avg.ViewRate,
		})
	}
	return rows
}

// TrendRanking returns per-channel averages sorted by average engagement rate
// descending. Ties keep config order (stable sort).
func (d *AggregatedDataset) TrendRanking() []ChannelTrend {
	rows := d.trendRows()
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AvgEngagement > rows[j].AvgEngagement
	})
	return rows
}

// TrendRankingByViewRate returns the same rows ranked by average view rate.
func (d *AggregatedDataset) TrendRankingByViewRate() []ChannelTrend {
	rows := d.trendRows()
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AvgViewRate > rows[j].AvgViewRate
	})
	return rows
}

// ChannelVideo pairs a video with its owning channel title for cross-channel
// listings.
type ChannelVideo struct {
	ChannelTitle string `json:"channelTitle"`
	VideoRecord
}

func (d *AggregatedDataset) allVideos() []ChannelVideo {
	out := make([]ChannelVideo, 0, d.TotalVideos())
	for _, c := range d.Channels {
		for _, v := range c.Videos {
			out = append(out, ChannelVideo{ChannelTitle: c.Summary.Title, VideoRecord: v})
		}
	}
	return out
}

// TopEngagementOverall returns the n highest-engagement videos across every
// channel, ties broken by view count then video id.
func (d *AggregatedDataset) TopEngagementOverall(n int) []ChannelVideo {
	out := d.allVideos()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EngagementRateViews != out[j].EngagementRateViews {
			return out[i].EngagementRateViews > out[j].EngagementRateViews
		}
		if out[i].ViewCount != out[j].ViewCount {
			return out[i].ViewCount > out[j].ViewCount
		}
		return out[i].VideoID < out[j].VideoID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TopViewRateOverall returns the n highest view-rate videos across every
// channel, ties broken by view count then video id.
func (d *AggregatedDataset) TopViewRateOverall(n int) []ChannelVideo {
	out := d.allVideos()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ViewRate != out[j].ViewRate {
			return out[i].ViewRate > out[j].ViewRate
		}
		if out[i].ViewCount != out[j].ViewCount {
			return out[i].ViewCount > out[j].ViewCount
		}
		return out[i].VideoID < out[j].VideoID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func copyVideos(in []VideoRecord) []VideoRecord {
	out := make([]VideoRecord, len(in))
	copy(out, in)
	return out
}

func truncate(in []VideoRecord, n int) []VideoRecord {
	if n >= 0 && len(in) > n {
		return in[:n]
	}
	return in
}

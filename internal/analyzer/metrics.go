package analyzer

import "github.com/yt-insights/channel-analyzer/internal/models"

// Pure metric computation. No I/O, no rounding: values keep full precision so
// rankings stay stable; exporters round at presentation time.

// ComputeVideoMetrics fills the derived rate fields of a video from its raw
// counts and the channel's subscriber count. Every rate whose denominator is
// zero is 0, never NaN or an error.
func ComputeVideoMetrics(v *models.VideoRecord, subscriberCount int64) {
	views := float64(v.ViewCount)
	likes := float64(v.LikeCount)
	comments := float64(v.CommentCount)
	subs := float64(subscriberCount)

	v.EngagementRateViews = 0
	v.LikeRate = 0
	v.CommentRate = 0
	if v.ViewCount > 0 {
		v.EngagementRateViews = (likes + comments) / views * 100
		v.LikeRate = likes / views * 100
		v.CommentRate = comments / views * 100
	}

	v.EngagementRateSubscribers = 0
	v.ViewRate = 0
	if subscriberCount > 0 {
		v.EngagementRateSubscribers = (likes + comments) / subs * 100
		v.ViewRate = views / subs * 100
	}

	v.DurationSeconds = models.ParseDuration(v.Duration)
	v.ViewsPerMinute = 0
	if v.DurationSeconds > 0 {
		v.ViewsPerMinute = views / (float64(v.DurationSeconds) / 60)
	}
}

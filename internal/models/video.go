package models

import (
	"regexp"
	"strconv"
	"time"
)

// VideoRecord is one analyzed video. Raw counts come from the details request;
// the rate fields are filled in by the metrics layer. Counts absent from the
// API payload (disabled likes or comments) are zero, never missing.
type VideoRecord struct {
	VideoID   string `json:"videoId"`
	ChannelID string `json:"channelId"`
	Title     string `json:"title"`

	PublishedAt     time.Time `json:"publishedAt"`
	Duration        string    `json:"duration"`
	DurationSeconds int64     `json:"durationSeconds"`

	ViewCount    int64 `json:"viewCount"`
	LikeCount    int64 `json:"likeCount"`
	CommentCount int64 `json:"commentCount"`

	EngagementRateViews       float64 `json:"engagementRateViews"`
	EngagementRateSubscribers float64 `json:"engagementRateSubscribers"`
	ViewRate                  float64 `json:"viewRate"`
	LikeRate                  float64 `json:"likeRate"`
	CommentRate               float64 `json:"commentRate"`
	ViewsPerMinute            float64 `json:"viewsPerMinute"`
}

// URL renders the watch URL for the video.
func (v VideoRecord) URL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

var isoDurationRE = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts a YouTube ISO-8601 duration (PT#H#M#S) to seconds.
// Unparseable input yields 0.
func ParseDuration(duration string) int64 {
	m := isoDurationRE.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}
	hours, _ := strconv.ParseInt(m[1], 10, 64)
	minutes, _ := strconv.ParseInt(m[2], 10, 64)
	seconds, _ := strconv.ParseInt(m[3], 10, 64)
	return hours*3600 + minutes*60 + seconds
}

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/yt-insights/channel-analyzer/internal/models"
)

var csvHeader = []string{
	"Channel", "Subscribers", "Video Title", "Published Date", "Video URL",
	"Views", "Likes", "Comments", "Duration (seconds)",
	"Engagement Rate (Views %)", "Engagement Rate (Subscribers %)",
	"View Rate (%)", "Like Rate (%)", "Comment Rate (%)", "Views per Minute",
}

// writeCSV exports one row per video, channel-grouped in config order, with
// all raw and derived fields. Rates are rounded to two decimals here and only
// here; the in-memory values stay full precision.
func writeCSV(ds *models.AggregatedDataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, channel := range ds.Channels {
		for _, v := range channel.Videos {
			row := []string{
				channel.Summary.Title,
				strconv.FormatInt(channel.Summary.SubscriberCount, 10),
				v.Title,
				v.PublishedAt.UTC().Format(time.RFC3339),
				v.URL(),
				strconv.FormatInt(v.ViewCount, 10),
				strconv.FormatInt(v.LikeCount, 10),
				strconv.FormatInt(v.CommentCount, 10),
				strconv.FormatInt(v.DurationSeconds, 10),
				fmt.Sprintf("%.2f", v.EngagementRateViews),
				fmt.Sprintf("%.2f", v.EngagementRateSubscribers),
				fmt.Sprintf("%.2f", v.ViewRate),
				fmt.Sprintf("%.2f", v.LikeRate),
				fmt.Sprintf("%.2f", v.CommentRate),
				fmt.Sprintf("%.2f", v.ViewsPerMinute),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

package export

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yt-insights/channel-analyzer/internal/models"
)

// writeChannelStats exports the per-channel statistics report: a summary
// block per channel with averages, top-5 listings, performance distribution
// and the most recent uploads.
func writeChannelStats(ds *models.AggregatedDataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create stats report: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "YOUTUBE CHANNEL STATISTICS REPORT")
	fmt.Fprintf(w, "Generated on: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	for _, channel := range ds.Channels {
		writeChannelBlock(w, channel, thin)
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "End of Report - %d channels analyzed\n", len(ds.Channels))
	fmt.Fprintln(w, rule)
	return w.Flush()
}

func writeChannelBlock(w *bufio.Writer, channel models.ChannelResult, thin string) {
	summary := channel.Summary
	videos := channel.Videos

	fmt.Fprintln(w, thin)
	fmt.Fprintf(w, "CHANNEL: %s\n", summary.Title)
	fmt.Fprintln(w, thin)
	fmt.Fprintf(w, "URL: %s\n", summary.URL)
	fmt.Fprintf(w, "Subscribers: %s\n", formatCount(summary.SubscriberCount))
	fmt.Fprintf(w, "Total Views: %s\n", formatCount(summary.ViewCount))
	fmt.Fprintf(w, "Total Videos: %s\n", formatCount(summary.VideoCount))
	fmt.Fprintf(w, "Description: %s\n", truncateTitle(summary.Description, 100))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "ANALYZED VIDEOS: %d\n", len(videos))
	if len(videos) == 0 {
		fmt.Fprintln(w)
		return
	}

	// publish range and estimated upload cadence
	ordered := channel.LatestVideos(-1)
	latest := ordered[0]
	earliest := ordered[len(ordered)-1]
	fmt.Fprintf(w, "Earliest Video Date: %s\n", earliest.PublishedAt.Format("2006-01-02"))
	fmt.Fprintf(w, "Latest Video Date: %s\n", latest.PublishedAt.Format("2006-01-02"))
	if days := latest.PublishedAt.Sub(earliest.PublishedAt).Hours() / 24; len(videos) > 1 && days > 0 {
		fmt.Fprintf(w, "Estimated Upload Frequency: %.1f videos per month\n", float64(len(videos))/days*30)
	}

	avg := channel.Averages()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ENGAGEMENT METRICS ANALYSIS:")
	fmt.Fprintf(w, "Average Views per Video: %.0f\n", avg.Views)
	fmt.Fprintf(w, "Average Likes per Video: %.0f\n", avg.Likes)
	fmt.Fprintf(w, "Average Comments per Video: %.0f\n", avg.Comments)
	fmt.Fprintf(w, "Average Engagement Rate (by Views): %.3f%%\n", avg.EngagementRateViews)
	fmt.Fprintf(w, "Average Engagement Rate (by Subscribers): %.3f%%\n", avg.EngagementRateSubscribers)
	fmt.Fprintf(w, "Average View Rate: %.2f%%\n", avg.ViewRate)
	fmt.Fprintf(w, "Average Like Rate: %.3f%%\n", avg.LikeRate)
	fmt.Fprintf(w, "Average Comment Rate: %.3f%%\n", avg.CommentRate)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "TOP 5 MOST VIEWED VIDEOS:")
	for i, v := range channel.TopViewed(5) {
		fmt.Fprintf(w, "%d. %s\n", i+1, truncateTitle(v.Title, 60))
		fmt.Fprintf(w, "   Views: %s | Engagement: %.3f%%\n", formatCount(v.ViewCount), v.EngagementRateViews)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "TOP 5 HIGHEST ENGAGEMENT VIDEOS:")
	for i, v := range channel.BestVideos(5) {
		fmt.Fprintf(w, "%d. %s\n", i+1, truncateTitle(v.Title, 60))
		fmt.Fprintf(w, "   Views: %s | Engagement: %.3f%%\n", formatCount(v.ViewCount), v.EngagementRateViews)
	}

	high, low := 0, 0
	for _, v := range videos {
		if v.EngagementRateViews > avg.EngagementRateViews*1.5 {
			high++
		}
		if v.EngagementRateViews < avg.EngagementRateViews*0.5 {
			low++
		}
	}
	total := float64(len(videos))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PERFORMANCE DISTRIBUTION:")
	fmt.Fprintf(w, "High Performing Videos (>1.5x avg engagement): %d (%.1f%%)\n", high, float64(high)/total*100)
	fmt.Fprintf(w, "Low Performing Videos (<0.5x avg engagement): %d (%.1f%%)\n", low, float64(low)/total*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "RECENT VIDEOS WITH METRICS:")
	for i, v := range channel.LatestVideos(5) {
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, truncateTitle(v.Title, 50), v.PublishedAt.Format("2006-01-02"))
		fmt.Fprintf(w, "   Views: %s | Engagement: %.3f%% | Duration: %ds\n",
			formatCount(v.ViewCount), v.EngagementRateViews, v.DurationSeconds)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}

package export

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yt-insights/channel-analyzer/internal/models"
)

// Duration buckets for the content performance section, in seconds.
const (
	shortVideoMax  = 300 // 5 minutes
	mediumVideoMax = 900 // 15 minutes
)

// writeEngagementTrends exports the cross-channel comparison: global totals,
// channel rankings, duration buckets and the top performers across all
// channels.
func writeEngagementTrends(ds *models.AggregatedDataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trends report: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	rule := strings.Repeat("=", 100)
	thin := strings.Repeat("-", 50)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "YOUTUBE ENGAGEMENT TRENDS ANALYSIS REPORT")
	fmt.Fprintf(w, "Generated on: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	totalVideos, totalViews, totalLikes, totalComments := ds.GlobalTotals()
	if totalVideos == 0 {
		fmt.Fprintln(w, "No videos found for analysis.")
		return w.Flush()
	}

	fmt.Fprintln(w, "GLOBAL STATISTICS ACROSS ALL CHANNELS:")
	fmt.Fprintln(w, thin)
	fmt.Fprintf(w, "Total Videos Analyzed: %s\n", formatCount(int64(totalVideos)))
	fmt.Fprintf(w, "Total Views: %s\n", formatCount(totalViews))
	fmt.Fprintf(w, "Total Likes: %s\n", formatCount(totalLikes))
	fmt.Fprintf(w, "Total Comments: %s\n", formatCount(totalComments))
	fmt.Fprintf(w, "Average Views per Video: %.0f\n", float64(totalViews)/float64(totalVideos))
	fmt.Fprintf(w, "Average Likes per Video: %.0f\n", float64(totalLikes)/float64(totalVideos))
	fmt.Fprintf(w, "Average Comments per Video: %.0f\n", float64(totalComments)/float64(totalVideos))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "CHANNEL RANKING BY ENGAGEMENT METRICS:")
	fmt.Fprintln(w, thin)
	fmt.Fprintln(w, "BY AVERAGE ENGAGEMENT RATE (Views):")
	for i, row := range capTrends(ds.TrendRanking(), 10) {
		fmt.Fprintf(w, "%2d. %-40s | Engagement: %6.3f%% | Avg Views: %8.0f | Subscribers: %s\n",
			i+1, truncateTitle(row.Title, 40), row.AvgEngagement, row.AvgViews, formatCount(row.Subscribers))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "BY AVERAGE VIEW RATE (Views/Subscribers):")
	for i, row := range capTrends(ds.TrendRankingByViewRate(), 10) {
		fmt.Fprintf(w, "%2d. %-40s | View Rate: %6.2f%% | Avg Views: %8.0f | Subscribers: %s\n",
			i+1, truncateTitle(row.Title, 40), row.AvgViewRate, row.AvgViews, formatCount(row.Subscribers))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "CONTENT PERFORMANCE PATTERNS:")
	fmt.Fprintln(w, thin)
	writeDurationBuckets(w, ds)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "TOP PERFORMING CONTENT ACROSS ALL CHANNELS:")
	fmt.Fprintln(w, thin)
	fmt.Fprintln(w, "TOP 10 VIDEOS BY ENGAGEMENT RATE:")
	for i, v := range ds.TopEngagementOverall(10) {
		fmt.Fprintf(w, "%2d. %s | %s\n", i+1, v.ChannelTitle, truncateTitle(v.Title, 40))
		fmt.Fprintf(w, "     Engagement: %.3f%% | Views: %s | Duration: %ds\n",
			v.EngagementRateViews, formatCount(v.ViewCount), v.DurationSeconds)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "TOP 5 VIRAL VIDEOS (High View Rate):")
	for i, v := range ds.TopViewRateOverall(5) {
		fmt.Fprintf(w, "%d. %s | %s\n", i+1, v.ChannelTitle, truncateTitle(v.Title, 40))
		fmt.Fprintf(w, "   View Rate: %.2f%% | Views: %s\n", v.ViewRate, formatCount(v.ViewCount))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "End of Engagement Trends Report")
	fmt.Fprintln(w, rule)
	return w.Flush()
}

func writeDurationBuckets(w *bufio.Writer, ds *models.AggregatedDataset) {
	type bucket struct {
		label      string
		count      int
		engagement float64
	}
	buckets := []bucket{
		{label: "Short Videos (<5min)"},
		{label: "Medium Videos (5-15min)"},
		{label: "Long Videos (>15min)"},
	}
	for _, channel := range ds.Channels {
		for _, v := range channel.Videos {
			i := 2
			switch {
			case v.DurationSeconds < shortVideoMax:
				i = 0
			case v.DurationSeconds < mediumVideoMax:
				i = 1
			}
			buckets[i].count++
			buckets[i].engagement += v.EngagementRateViews
		}
	}
	for _, b := range buckets {
		if b.count == 0 {
			continue
		}
		fmt.Fprintf(w, "%s: %s videos | Avg Engagement: %.3f%%\n",
			b.label, formatCount(int64(b.count)), b.engagement/float64(b.count))
	}
}

func capTrends(rows []models.ChannelTrend, n int) []models.ChannelTrend {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

package export

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/yt-insights/channel-analyzer/internal/analyzer"
	"github.com/yt-insights/channel-analyzer/internal/models"
)

// writeReadme generates the run's README.md. It enumerates exactly the files
// the exporters managed to write plus every skipped channel, so the dataset's
// completeness is self-evident to whoever picks up the directory later.
func writeReadme(path, timestamp string, ds *models.AggregatedDataset, outcomes []analyzer.Outcome, artifacts []Artifact) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create README: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "# YouTube Analysis Report - %s\n\n", timestamp)
	fmt.Fprintf(w, "Generated on: %s\n\n", time.Now().Format("2006-01-02 at 15:04:05"))

	totalChannels := len(ds.Channels)
	totalVideos := ds.TotalVideos()
	fmt.Fprintln(w, "## Analysis Summary")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- **Channels Analyzed:** %d\n", totalChannels)
	fmt.Fprintf(w, "- **Total Videos:** %d\n", totalVideos)
	if totalChannels > 0 {
		fmt.Fprintf(w, "- **Average Videos per Channel:** %.1f\n", float64(totalVideos)/float64(totalChannels))
	}
	fmt.Fprintln(w)

	if skipped := skippedOutcomes(outcomes); len(skipped) > 0 {
		fmt.Fprintln(w, "## Warnings")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "The following configured channels were skipped and are absent from every report:")
		fmt.Fprintln(w)
		for _, o := range skipped {
			fmt.Fprintf(w, "- `%s`: %s\n", o.Ref.String(), o.Reason)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "## Generated Files")
	fmt.Fprintln(w)
	for i, a := range artifacts {
		if i > 0 {
			fmt.Fprintln(w, "---")
			fmt.Fprintln(w)
		}
		writeArtifactSection(w, a)
	}
	if len(artifacts) == 0 {
		fmt.Fprintln(w, "No report files could be written for this run.")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "## Engagement Metrics Explained")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Metric | Formula | Interpretation |")
	fmt.Fprintln(w, "|--------|---------|----------------|")
	fmt.Fprintln(w, "| **Engagement Rate (Views)** | `(likes + comments) / views × 100` | Higher = more audience interaction |")
	fmt.Fprintln(w, "| **Engagement Rate (Subscribers)** | `(likes + comments) / subscribers × 100` | Engagement relative to channel size |")
	fmt.Fprintln(w, "| **View Rate** | `views / subscribers × 100` | >100% indicates viral potential |")
	fmt.Fprintln(w, "| **Like Rate** | `likes / views × 100` | Viewer satisfaction indicator |")
	fmt.Fprintln(w, "| **Comment Rate** | `comments / views × 100` | Audience discussion level |")
	fmt.Fprintln(w, "| **Views per Minute** | `views / (duration / 60)` | Content efficiency metric |")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Channels Analyzed")
	fmt.Fprintln(w)
	for i, channel := range ds.Channels {
		fmt.Fprintf(w, "%d. **%s** - %s subscribers (%d videos analyzed)\n",
			i+1, channel.Summary.Title, formatCount(channel.Summary.SubscriberCount), len(channel.Videos))
	}
	fmt.Fprintln(w)

	return w.Flush()
}

func skippedOutcomes(outcomes []analyzer.Outcome) []analyzer.Outcome {
	var skipped []analyzer.Outcome
	for _, o := range outcomes {
		if o.Skipped {
			skipped = append(skipped, o)
		}
	}
	return skipped
}

func writeArtifactSection(w *bufio.Writer, a Artifact) {
	fmt.Fprintf(w, "### `%s`\n\n", a.Filename)
	switch a.Kind {
	case KindCSV:
		fmt.Fprintln(w, "**Format:** CSV (Comma-Separated Values)")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Raw data export with one row per video across all analyzed channels:")
		fmt.Fprintln(w, "channel name and subscribers, video title, published date and URL, raw")
		fmt.Fprintln(w, "statistics (views, likes, comments, duration) and every calculated rate.")
		fmt.Fprintln(w, "Suitable for spreadsheets, BI tools or further processing.")
	case KindStats:
		fmt.Fprintln(w, "**Format:** Plain text report")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Per-channel statistics: channel metadata, upload frequency, average")
		fmt.Fprintln(w, "engagement metrics, top 5 most viewed and top 5 highest engagement videos,")
		fmt.Fprintln(w, "performance distribution and the most recent uploads with metrics.")
	case KindTrends:
		fmt.Fprintln(w, "**Format:** Plain text report")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Cross-channel comparison: aggregate statistics, channel rankings by")
		fmt.Fprintln(w, "engagement rate and by view rate, performance by video duration, and the")
		fmt.Fprintln(w, "top videos by engagement and view rate across all channels.")
	case KindBest:
		fmt.Fprintf(w, "**Format:** Plain text (URL list)\n\n")
		fmt.Fprintf(w, "Top %d videos with the highest engagement rate from each channel, one\n", topN)
		fmt.Fprintln(w, "YouTube URL per line, sorted by engagement rate descending.")
	case KindLatest:
		fmt.Fprintf(w, "**Format:** Plain text (URL list)\n\n")
		fmt.Fprintf(w, "The %d most recent videos from each channel, one YouTube URL per line,\n", topN)
		fmt.Fprintln(w, "sorted by published date, newest first.")
	}
	fmt.Fprintln(w)
}

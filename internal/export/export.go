// Package export renders the aggregated dataset into the run's report files.
// Exporters are independent: any of them may fail without blocking the
// others, because partial output beats no output for a long analysis run.
package export

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yt-insights/channel-analyzer/internal/analyzer"
	"github.com/yt-insights/channel-analyzer/internal/models"
)

// topN is how many videos the best/latest URL lists carry per channel.
const topN = 15

// Kind identifies one report artifact.
type Kind string

const (
	KindCSV    Kind = "csv"
	KindStats  Kind = "channel_stats"
	KindTrends Kind = "engagement_trends"
	KindBest   Kind = "best_videos"
	KindLatest Kind = "latest_videos"
)

// Artifact describes one successfully written report file.
type Artifact struct {
	Kind     Kind
	Filename string
}

// ExportError reports a single failed artifact.
type ExportError struct {
	Artifact string
	Err      error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Artifact, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Runner writes every artifact of a run into its timestamped directory.
type Runner struct {
	log zerolog.Logger
}

func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{log: log}
}

// Export writes all report files under dir. Each exporter failure is caught,
// logged and recorded; the remaining exporters still run. The generated
// README is written last so it can list exactly the files that exist.
func (r *Runner) Export(result *analyzer.RunResult, dir, timestamp string) ([]Artifact, []error) {
	ds := result.Dataset

	steps := []struct {
		kind     Kind
		filename string
		write    func(*models.AggregatedDataset, string) error
	}{
		{KindCSV, fmt.Sprintf("youtube_channels_videos_%s.csv", timestamp), writeCSV},
		{KindStats, fmt.Sprintf("youtube_channel_stats_%s.txt", timestamp), writeChannelStats},
		{KindTrends, fmt.Sprintf("youtube_engagement_trends_%s.txt", timestamp), writeEngagementTrends},
		{KindBest, fmt.Sprintf("youtube_best_videos_%s.txt", timestamp), writeBestVideos},
		{KindLatest, fmt.Sprintf("youtube_latest_videos_%s.txt", timestamp), writeLatestVideos},
	}

	var artifacts []Artifact
	var errs []error
	for _, step := range steps {
		path := filepath.Join(dir, step.filename)
		if err := step.write(ds, path); err != nil {
			r.log.Error().Err(err).Str("artifact", step.filename).Msg("exporter failed")
			errs = append(errs, &ExportError{Artifact: step.filename, Err: err})
			continue
		}
		r.log.Info().Str("artifact", step.filename).Msg("report written")
		artifacts = append(artifacts, Artifact{Kind: step.kind, Filename: step.filename})
	}

	if err := writeReadme(filepath.Join(dir, "README.md"), timestamp, ds, result.Outcomes, artifacts); err != nil {
		r.log.Error().Err(err).Msg("README generation failed")
		errs = append(errs, &ExportError{Artifact: "README.md", Err: err})
	}
	return artifacts, errs
}

// formatCount renders an integer with thousand separators for the text
// reports.
func formatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// truncateTitle shortens a title for fixed-width report lines.
func truncateTitle(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

package analyzer

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/yt-insights/channel-analyzer/internal/models"
)

// DataSource is the capability the pipeline consumes. The production
// implementation talks to the YouTube Data API v3; tests substitute a fake.
type DataSource interface {
	// ResolveChannel turns a channel reference into a canonical summary.
	ResolveChannel(ctx context.Context, ref models.ChannelRef) (models.ChannelSummary, error)
	// ListVideoIDs returns one page of video ids for a channel, newest
	// first, plus the token for the next page ("" when exhausted).
	ListVideoIDs(ctx context.Context, channelID, pageToken string, pageSize int64) ([]string, string, error)
	// GetVideoDetails resolves full statistics for at most 50 ids.
	GetVideoDetails(ctx context.Context, ids []string) ([]models.VideoRecord, error)
}

// Status is the overall outcome of a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailure Status = "failure"
)

// Outcome records what happened to one configured channel.
type Outcome struct {
	Ref        models.ChannelRef `json:"ref"`
	ChannelID  string            `json:"channelId,omitempty"`
	Title      string            `json:"title,omitempty"`
	VideoCount int               `json:"videoCount"`
	Skipped    bool              `json:"skipped"`
	Reason     string            `json:"reason,omitempty"`
}

// RunResult is the structured result of a pipeline run, surfaced to the CLI.
type RunResult struct {
	Status   Status
	Outcomes []Outcome
	Dataset  *models.AggregatedDataset
}

// Analyzer is the channel-analysis pipeline. Channels are processed
// sequentially, in config order; the API quota is consumed serially on
// purpose so behavior stays deterministic and easy to rate-limit.
type Analyzer struct {
	src        DataSource
	maxResults int
	log        zerolog.Logger
}

// New creates an Analyzer. maxResults must be positive (validated at config
// load; defended here for library use).
func New(src DataSource, maxResults int, log zerolog.Logger) *Analyzer {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &Analyzer{src: src, maxResults: maxResults, log: log}
}

// Run processes every configured channel: resolve, fetch, score, accumulate.
// A channel that cannot be resolved or fetched is skipped with a recorded
// reason; the run continues. Only context cancellation aborts the run.
func (a *Analyzer) Run(ctx context.Context, refs []models.ChannelRef) (*RunResult, error) {
	result := &RunResult{Dataset: &models.AggregatedDataset{}}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		outcome := a.analyzeChannel(ctx, ref, result.Dataset)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	resolved := 0
	for _, o := range result.Outcomes {
		if !o.Skipped {
			resolved++
		}
	}
	switch {
	case resolved == 0:
		result.Status = StatusFailure
	case resolved < len(result.Outcomes):
		result.Status = StatusPartial
	default:
		result.Status = StatusSuccess
	}
	return result, nil
}

func (a *Analyzer) analyzeChannel(ctx context.Context, ref models.ChannelRef, dataset *models.AggregatedDataset) Outcome {
	log := a.log.With().Str("channel", ref.String()).Logger()

	if err := ref.Validate(); err != nil {
		log.Warn().Err(err).Msg("skipping channel")
		return Outcome{Ref: ref, Skipped: true, Reason: skipReason(err)}
	}

	summary, err := a.src.ResolveChannel(ctx, ref)
	if err != nil {
		log.Warn().Err(err).Msg("skipping channel")
		return Outcome{Ref: ref, Skipped: true, Reason: skipReason(err)}
	}

	videos, err := a.fetchVideos(ctx, summary.ChannelID)
	if err != nil {
		log.Warn().Err(err).Msg("skipping channel")
		return Outcome{Ref: ref, ChannelID: summary.ChannelID, Title: summary.Title, Skipped: true, Reason: skipReason(err)}
	}

	for i := range videos {
		ComputeVideoMetrics(&videos[i], summary.SubscriberCount)
	}
	// the ChannelResult is read-only from here on
	dataset.Add(models.ChannelResult{Summary: summary, Videos: videos})

	log.Info().Int("videos", len(videos)).Int64("subscribers", summary.SubscriberCount).Msg("channel analyzed")
	return Outcome{Ref: ref, ChannelID: summary.ChannelID, Title: summary.Title, VideoCount: len(videos)}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, models.ErrChannelNotFound):
		return "channel not found"
	case errors.Is(err, models.ErrAmbiguousReference):
		return "ambiguous channel reference"
	default:
		return err.Error()
	}
}

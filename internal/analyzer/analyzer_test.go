package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yt-insights/channel-analyzer/internal/models"
)

// fakeSource implements DataSource in memory. Channels are keyed by the
// reference's String() form; videos are served in stored order with numeric
// page tokens.
type fakeSource struct {
	channels map[string]models.ChannelSummary
	videos   map[string][]models.VideoRecord

	listErr     error
	detailErrAt int // 0-based batch index that fails, -1 for never

	listPageSizes []int64
	detailBatches [][]string
	omitted       map[string]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		channels:    map[string]models.ChannelSummary{},
		videos:      map[string][]models.VideoRecord{},
		detailErrAt: -1,
		omitted:     map[string]bool{},
	}
}

func (f *fakeSource) addChannel(ref models.ChannelRef, summary models.ChannelSummary, videoCount int) {
	f.channels[ref.String()] = summary
	videos := make([]models.VideoRecord, 0, videoCount)
	for i := 0; i < videoCount; i++ {
		videos = append(videos, models.VideoRecord{
			VideoID:     fmt.Sprintf("%s-vid-%03d", summary.ChannelID, i),
			Title:       fmt.Sprintf("Video %d", i),
			PublishedAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Hour),
			Duration:    "PT5M",
			ViewCount:   int64(1000 - i),
			LikeCount:   int64(100 - i),
		})
	}
	f.videos[summary.ChannelID] = videos
}

func (f *fakeSource) ResolveChannel(ctx context.Context, ref models.ChannelRef) (models.ChannelSummary, error) {
	summary, ok := f.channels[ref.String()]
	if !ok {
		return models.ChannelSummary{}, models.ErrChannelNotFound
	}
	return summary, nil
}

func (f *fakeSource) ListVideoIDs(ctx context.Context, channelID, pageToken string, pageSize int64) ([]string, string, error) {
	if f.listErr != nil {
		return nil, "", f.listErr
	}
	f.listPageSizes = append(f.listPageSizes, pageSize)

	offset := 0
	if pageToken != "" {
		offset, _ = strconv.Atoi(pageToken)
	}
	all := f.videos[channelID]
	end := offset + int(pageSize)
	if end > len(all) {
		end = len(all)
	}
	ids := make([]string, 0, end-offset)
	for _, v := range all[offset:end] {
		ids = append(ids, v.VideoID)
	}
	next := ""
	if end < len(all) {
		next = strconv.Itoa(end)
	}
	return ids, next, nil
}

func (f *fakeSource) GetVideoDetails(ctx context.Context, ids []string) ([]models.VideoRecord, error) {
	if len(ids) > 50 {
		return nil, fmt.Errorf("details request exceeds 50 ids: %d", len(ids))
	}
	batch := len(f.detailBatches)
	f.detailBatches = append(f.detailBatches, ids)
	if f.detailErrAt == batch {
		return nil, errors.New("quota exceeded")
	}

	byID := map[string]models.VideoRecord{}
	for _, videos := range f.videos {
		for _, v := range videos {
			byID[v.VideoID] = v
		}
	}
	var out []models.VideoRecord
	for _, id := range ids {
		if f.omitted[id] {
			continue
		}
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func testAnalyzer(src DataSource, maxResults int) *Analyzer {
	return New(src, maxResults, zerolog.Nop())
}

func TestRunSuccess(t *testing.T) {
	src := newFakeSource()
	refOne := models.ChannelRef{ChannelID: "UC1"}
	refTwo := models.ChannelRef{Username: "second"}
	src.addChannel(refOne, models.ChannelSummary{ChannelID: "UC1", Title: "One", SubscriberCount: 1000}, 3)
	src.addChannel(refTwo, models.ChannelSummary{ChannelID: "UC2", Title: "Two", SubscriberCount: 500}, 2)

	result, err := testAnalyzer(src, 50).Run(context.Background(), []models.ChannelRef{refOne, refTwo})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, result.Status)
	require.Len(t, result.Outcomes, 2)
	assert.False(t, result.Outcomes[0].Skipped)
	assert.Equal(t, 3, result.Outcomes[0].VideoCount)
	assert.Equal(t, "Two", result.Outcomes[1].Title)

	require.Len(t, result.Dataset.Channels, 2)
	assert.Equal(t, "UC1", result.Dataset.Channels[0].Summary.ChannelID)
	assert.Equal(t, 5, result.Dataset.TotalVideos())

	// metrics are computed for every stored video
	for _, c := range result.Dataset.Channels {
		for _, v := range c.Videos {
			assert.Positive(t, v.EngagementRateViews, "video %s", v.VideoID)
			assert.Equal(t, int64(300), v.DurationSeconds)
		}
	}
}

func TestRunSkipsUnresolvableChannel(t *testing.T) {
	src := newFakeSource()
	good := models.ChannelRef{ChannelID: "UC1"}
	bad := models.ChannelRef{CustomURL: "@nope"}
	src.addChannel(good, models.ChannelSummary{ChannelID: "UC1", Title: "One", SubscriberCount: 10}, 1)

	result, err := testAnalyzer(src, 50).Run(context.Background(), []models.ChannelRef{bad, good})
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, result.Status)
	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Outcomes[0].Skipped)
	assert.Equal(t, "channel not found", result.Outcomes[0].Reason)
	assert.False(t, result.Outcomes[1].Skipped)
	assert.Len(t, result.Dataset.Channels, 1)
}

func TestRunSkipsAmbiguousReference(t *testing.T) {
	src := newFakeSource()
	ambiguous := models.ChannelRef{ChannelID: "UC1", Username: "also"}
	src.addChannel(models.ChannelRef{ChannelID: "UC1"}, models.ChannelSummary{ChannelID: "UC1"}, 1)

	result, err := testAnalyzer(src, 50).Run(context.Background(), []models.ChannelRef{ambiguous})
	require.NoError(t, err)

	assert.Equal(t, StatusFailure, result.Status)
	require.Len(t, result.Outcomes, 1)
	assert.True(t, result.Outcomes[0].Skipped)
	assert.Equal(t, "ambiguous channel reference", result.Outcomes[0].Reason)
	assert.Empty(t, src.detailBatches, "ambiguous references must not reach the API")
}

func TestRunAllChannelsSkippedIsFailure(t *testing.T) {
	src := newFakeSource()
	refs := []models.ChannelRef{{ChannelID: "UC404"}, {Username: "ghost"}}

	result, err := testAnalyzer(src, 50).Run(context.Background(), refs)
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, result.Status)
	assert.Empty(t, result.Dataset.Channels)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := newFakeSource()
	_, err := testAnalyzer(src, 50).Run(ctx, []models.ChannelRef{{ChannelID: "UC1"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchPaginationAndBatching(t *testing.T) {
	src := newFakeSource()
	ref := models.ChannelRef{ChannelID: "UC1"}
	src.addChannel(ref, models.ChannelSummary{ChannelID: "UC1", Title: "Big", SubscriberCount: 1}, 120)

	result, err := testAnalyzer(src, 120).Run(context.Background(), []models.ChannelRef{ref})
	require.NoError(t, err)
	require.Len(t, result.Dataset.Channels, 1)

	videos := result.Dataset.Channels[0].Videos
	require.Len(t, videos, 120)
	// listing order survives batching
	for i, v := range videos {
		assert.Equal(t, fmt.Sprintf("UC1-vid-%03d", i), v.VideoID)
		assert.Equal(t, "UC1", v.ChannelID)
	}

	assert.Equal(t, []int64{50, 50, 20}, src.listPageSizes)
	require.Len(t, src.detailBatches, 3)
	assert.Len(t, src.detailBatches[0], 50)
	assert.Len(t, src.detailBatches[2], 20)
}

func TestFetchRespectsMaxResults(t *testing.T) {
	src := newFakeSource()
	ref := models.ChannelRef{ChannelID: "UC1"}
	src.addChannel(ref, models.ChannelSummary{ChannelID: "UC1", SubscriberCount: 1}, 10)

	result, err := testAnalyzer(src, 3).Run(context.Background(), []models.ChannelRef{ref})
	require.NoError(t, err)
	require.Len(t, result.Dataset.Channels, 1)
	assert.Len(t, result.Dataset.Channels[0].Videos, 3)
}

func TestFetchMissingDetailsGetPlaceholder(t *testing.T) {
	src := newFakeSource()
	ref := models.ChannelRef{ChannelID: "UC1"}
	src.addChannel(ref, models.ChannelSummary{ChannelID: "UC1", SubscriberCount: 100}, 3)
	src.omitted["UC1-vid-001"] = true

	result, err := testAnalyzer(src, 50).Run(context.Background(), []models.ChannelRef{ref})
	require.NoError(t, err)
	require.Len(t, result.Dataset.Channels, 1)

	videos := result.Dataset.Channels[0].Videos
	require.Len(t, videos, 3, "omitted ids keep their slot")
	placeholder := videos[1]
	assert.Equal(t, "UC1-vid-001", placeholder.VideoID)
	assert.Zero(t, placeholder.ViewCount)
	assert.Zero(t, placeholder.EngagementRateViews)
	assert.Zero(t, placeholder.DurationSeconds)
}

func TestFetchBatchFailureSkipsWholeChannel(t *testing.T) {
	src := newFakeSource()
	ref := models.ChannelRef{ChannelID: "UC1"}
	src.addChannel(ref, models.ChannelSummary{ChannelID: "UC1", Title: "Flaky", SubscriberCount: 1}, 80)
	src.detailErrAt = 1

	result, err := testAnalyzer(src, 80).Run(context.Background(), []models.ChannelRef{ref})
	require.NoError(t, err)

	assert.Equal(t, StatusFailure, result.Status)
	require.Len(t, result.Outcomes, 1)
	assert.True(t, result.Outcomes[0].Skipped)
	assert.Equal(t, "Flaky", result.Outcomes[0].Title)
	assert.Empty(t, result.Dataset.Channels, "a half-fetched channel is discarded entirely")
}

func TestFetchErrorMessage(t *testing.T) {
	inner := errors.New("boom")
	err := &FetchError{ChannelID: "UC1", Batch: 2, Err: inner}
	assert.Contains(t, err.Error(), "UC1")
	assert.ErrorIs(t, err, inner)

	listing := &FetchError{ChannelID: "UC1", Batch: -1, Err: inner}
	assert.Contains(t, listing.Error(), "UC1")
}

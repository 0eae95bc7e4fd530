package analyzer

import (
	"context"

	"github.com/yt-insights/channel-analyzer/internal/models"
)

// detailsBatchSize is the YouTube API maximum number of ids per details
// request.
const detailsBatchSize = 50

// fetchVideos retrieves up to maxResults videos for a channel: it pages
// through the uploads listing collecting ids, then resolves full details in
// batches of at most 50 ids, merging results in listing order. Any failed
// request aborts the whole channel; results from earlier batches are
// discarded so a channel is never partially reported.
func (a *Analyzer) fetchVideos(ctx context.Context, channelID string) ([]models.VideoRecord, error) {
	ids, err := a.listIDs(ctx, channelID)
	if err != nil {
		return nil, &FetchError{ChannelID: channelID, Batch: -1, Err: err}
	}

	videos := make([]models.VideoRecord, 0, len(ids))
	for i := 0; i < len(ids); i += detailsBatchSize {
		end := i + detailsBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[i:end]

		records, err := a.src.GetVideoDetails(ctx, batch)
		if err != nil {
			return nil, &FetchError{ChannelID: channelID, Batch: i / detailsBatchSize, Err: err}
		}

		// Merge in listing order. Ids the details call omitted (deleted or
		// private videos) keep a zero-count placeholder like the listing
		// promised, so row counts stay consistent.
		byID := make(map[string]models.VideoRecord, len(records))
		for _, r := range records {
			byID[r.VideoID] = r
		}
		for _, id := range batch {
			r, ok := byID[id]
			if !ok {
				r = models.VideoRecord{VideoID: id, Duration: "PT0S"}
			}
			r.ChannelID = channelID
			videos = append(videos, r)
		}
	}
	return videos, nil
}

func (a *Analyzer) listIDs(ctx context.Context, channelID string) ([]string, error) {
	var ids []string
	pageToken := ""
	for len(ids) < a.maxResults {
		pageSize := int64(detailsBatchSize)
		if remaining := int64(a.maxResults - len(ids)); remaining < pageSize {
			pageSize = remaining
		}
		pageIDs, next, err := a.src.ListVideoIDs(ctx, channelID, pageToken, pageSize)
		if err != nil {
			return nil, err
		}
		ids = append(ids, pageIDs...)
		if next == "" {
			break
		}
		pageToken = next
	}
	if len(ids) > a.maxResults {
		ids = ids[:a.maxResults]
	}
	return ids, nil
}

package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yt-insights/channel-analyzer/internal/models"
)

// Client wraps the YouTube Data API v3 service. It implements
// analyzer.DataSource.
type Client struct {
	service *youtube.Service

	// uploads playlist ids, keyed by channel id. The pipeline is sequential
	// so plain map access is fine.
	uploadsCache map[string]string
}

// NewClient creates a YouTube client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{service: service, uploadsCache: make(map[string]string)}, nil
}

// ValidateKey makes a minimal API call so key problems (invalid key, expired
// key, exhausted quota, API not enabled) surface before the run starts.
func (c *Client) ValidateKey(ctx context.Context) error {
	_, err := c.service.I18nRegions.List([]string{"snippet"}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("YouTube API key validation failed: %w", err)
	}
	return nil
}

// ResolveChannel turns a channel reference into a canonical summary. A
// reference carrying more than one identifier is rejected, never guessed.
func (c *Client) ResolveChannel(ctx context.Context, ref models.ChannelRef) (models.ChannelSummary, error) {
	if err := ref.Validate(); err != nil {
		return models.ChannelSummary{}, err
	}

	channelID := ref.ChannelID
	var err error
	switch {
	case ref.Username != "":
		channelID, err = c.channelIDFromUsername(ctx, ref.Username)
	case ref.CustomURL != "":
		channelID, err = c.channelIDFromHandle(ctx, ref.CustomURL)
	}
	if err != nil {
		return models.ChannelSummary{}, err
	}

	return c.channelSummary(ctx, channelID)
}

// channelIDFromUsername resolves a legacy username to a channel id.
func (c *Client) channelIDFromUsername(ctx context.Context, username string) (string, error) {
	resp, err := c.service.Channels.List([]string{"id"}).
		ForUsername(username).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("look up username %s: %w", username, err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("username %s: %w", username, models.ErrChannelNotFound)
	}
	return resp.Items[0].Id, nil
}

// channelIDFromHandle resolves a custom URL / @handle to a channel id. The
// direct handle lookup is tried first; a channel-type search is the fallback
// for channels whose handle predates the forHandle parameter.
func (c *Client) channelIDFromHandle(ctx context.Context, handle string) (string, error) {
	handle = strings.TrimPrefix(handle, "@")

	resp, err := c.service.Channels.List([]string{"id"}).
		ForHandle(handle).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("look up handle @%s: %w", handle, err)
	}
	if len(resp.Items) > 0 {
		return resp.Items[0].Id, nil
	}

	searchResp, err := c.service.Search.List([]string{"snippet"}).
		Q(handle).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("search for handle @%s: %w", handle, err)
	}
	if len(searchResp.Items) == 0 {
		return "", fmt.Errorf("handle @%s: %w", handle, models.ErrChannelNotFound)
	}
	return searchResp.Items[0].Snippet.ChannelId, nil
}

func (c *Client) channelSummary(ctx context.Context, channelID string) (models.ChannelSummary, error) {
	resp, err := c.service.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return models.ChannelSummary{}, fmt.Errorf("fetch channel %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return models.ChannelSummary{}, fmt.Errorf("channel id %s: %w", channelID, models.ErrChannelNotFound)
	}

	item := resp.Items[0]
	summary := models.ChannelSummary{
		ChannelID: channelID,
		URL:       models.ChannelURL(channelID),
	}
	if item.Snippet != nil {
		summary.Title = item.Snippet.Title
		summary.Description = item.Snippet.Description
	}
	if item.Statistics != nil {
		summary.SubscriberCount = int64(item.Statistics.SubscriberCount)
		summary.ViewCount = int64(item.Statistics.ViewCount)
		summary.VideoCount = int64(item.Statistics.VideoCount)
	}
	return summary, nil
}

// uploadsPlaylistID resolves the channel's uploads playlist, caching per
// channel so paging costs one extra call per channel, not per page.
func (c *Client) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	if id, ok := c.uploadsCache[channelID]; ok {
		return id, nil
	}

	resp, err := c.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("fetch content details for %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("channel id %s: %w", channelID, models.ErrChannelNotFound)
	}
	item := resp.Items[0]
	if item.ContentDetails == nil || item.ContentDetails.RelatedPlaylists == nil ||
		item.ContentDetails.RelatedPlaylists.Uploads == "" {
		return "", fmt.Errorf("channel %s has no uploads playlist", channelID)
	}

	id := item.ContentDetails.RelatedPlaylists.Uploads
	c.uploadsCache[channelID] = id
	return id, nil
}

// ListVideoIDs returns one page of video ids from the channel's uploads
// playlist plus the next page token ("" when exhausted).
func (c *Client) ListVideoIDs(ctx context.Context, channelID, pageToken string, pageSize int64) ([]string, string, error) {
	playlistID, err := c.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, "", err
	}

	call := c.service.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(pageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("list uploads for %s: %w", channelID, err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
			ids = append(ids, item.ContentDetails.VideoId)
		}
	}
	return ids, resp.NextPageToken, nil
}

// GetVideoDetails fetches statistics and content details for up to 50 ids in
// a single request. Counts the API omits (disabled likes or comments) map to
// zero at this boundary so later arithmetic never sees missing data.
func (c *Client) GetVideoDetails(ctx context.Context, ids []string) ([]models.VideoRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > 50 {
		return nil, fmt.Errorf("details request limited to 50 ids, got %d", len(ids))
	}

	resp, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetch video details: %w", err)
	}

	records := make([]models.VideoRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		record := models.VideoRecord{VideoID: item.Id, Duration: "PT0S"}
		if item.Snippet != nil {
			record.Title = item.Snippet.Title
			record.ChannelID = item.Snippet.ChannelId
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				record.PublishedAt = t
			}
		}
		if item.Statistics != nil {
			record.ViewCount = int64(item.Statistics.ViewCount)
			record.LikeCount = int64(item.Statistics.LikeCount)
			record.CommentCount = int64(item.Statistics.CommentCount)
		}
		if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
			record.Duration = item.ContentDetails.Duration
		}
		records = append(records, record)
	}
	return records, nil
}

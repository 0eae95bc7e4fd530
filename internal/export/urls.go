package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/yt-insights/channel-analyzer/internal/models"
)

// writeBestVideos exports one watch URL per line: up to topN highest
// engagement videos per channel, channels in config order.
func writeBestVideos(ds *models.AggregatedDataset, path string) error {
	return writeURLList(path, ds, func(c models.ChannelResult) []models.VideoRecord {
		return c.BestVideos(topN)
	})
}

// writeLatestVideos exports one watch URL per line: up to topN most recent
// videos per channel, channels in config order.
func writeLatestVideos(ds *models.AggregatedDataset, path string) error {
	return writeURLList(path, ds, func(c models.ChannelResult) []models.VideoRecord {
		return c.LatestVideos(topN)
	})
}

func writeURLList(path string, ds *models.AggregatedDataset, pick func(models.ChannelResult) []models.VideoRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create url list: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, channel := range ds.Channels {
		for _, v := range pick(channel) {
			fmt.Fprintln(w, v.URL())
		}
	}
	return w.Flush()
}

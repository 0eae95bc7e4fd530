package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yt-insights/channel-analyzer/internal/models"
)

var ErrMissingAPIKey = errors.New("YouTube API key is required")

// Config holds the run configuration. It is built once at startup and passed
// into the pipeline; components never read the environment themselves.
type Config struct {
	// YouTubeAPIKey is the YouTube Data API v3 key (required).
	YouTubeAPIKey string `env:"YOUTUBE_API_KEY"`

	// MaxResultsPerChannel caps how many videos are analyzed per channel.
	// The canonical default is 50, matching the API page size.
	MaxResultsPerChannel int `env:"MAX_RESULTS_PER_CHANNEL" envDefault:"50"`

	// OutputDir is the base directory; each run writes into a timestamped
	// subdirectory underneath it.
	OutputDir string `env:"OUTPUT_DIR" envDefault:"./output"`

	// ChannelsFile is the YAML list of channel references.
	ChannelsFile string `env:"CHANNELS_FILE" envDefault:"channels.yml"`

	// VideoID is the default video for transcript mode.
	VideoID string `env:"VIDEO_ID"`

	// TranscriptFixturesDir optionally holds local <video_id>.txt transcripts
	// used when the video has no downloadable transcript.
	TranscriptFixturesDir string `env:"YOUTUBE_TRANSCRIPT_FIXTURES_DIR"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Port     string `env:"PORT" envDefault:"8080"`
}

// Load reads the configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks invariants that would otherwise surface deep in the run.
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: set YOUTUBE_API_KEY", ErrMissingAPIKey)
	}
	if c.MaxResultsPerChannel <= 0 {
		return fmt.Errorf("MAX_RESULTS_PER_CHANNEL must be positive, got %d", c.MaxResultsPerChannel)
	}
	return nil
}

// LoadChannels reads the channel list from a YAML file. An entry with no
// identifier at all is a configuration error and aborts before any API call.
// Entries with several identifiers pass loading and are rejected per channel
// at resolve time, so one bad entry cannot sink the whole run.
func LoadChannels(path string) ([]models.ChannelRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channels file %s: %w", path, err)
	}
	return ParseChannels(data)
}

// ParseChannels parses the YAML channel list.
func ParseChannels(data []byte) ([]models.ChannelRef, error) {
	var refs []models.ChannelRef
	if err := yaml.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("parse channels file: %w", err)
	}
	if len(refs) == 0 {
		return nil, errors.New("channels file contains no channel definitions")
	}
	for i, ref := range refs {
		if ref.IdentifierCount() == 0 {
			return nil, fmt.Errorf("channel %d: needs one of channel_id, username or custom_url", i)
		}
	}
	return refs, nil
}

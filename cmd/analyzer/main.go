package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yt-insights/channel-analyzer/internal/analyzer"
	"github.com/yt-insights/channel-analyzer/internal/api"
	"github.com/yt-insights/channel-analyzer/internal/config"
	"github.com/yt-insights/channel-analyzer/internal/export"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "analyzer",
		Short:         "Analyze YouTube channels and download transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = newLogger(cfg.LogLevel)
			return nil
		},
	}

	root.AddCommand(newChannelsCmd(a), newVideoCmd(a), newServeCmd(a))
	return root
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
		Timestamp().
		Str("service", "channel-analyzer").
		Logger()
}

func newChannelsCmd(a *app) *cobra.Command {
	var maxResults int
	var outputDir string

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Analyze configured channels and generate reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxResults > 0 {
				a.cfg.MaxResultsPerChannel = maxResults
			}
			if outputDir != "" {
				a.cfg.OutputDir = outputDir
			}
			return a.runChannels(cmd)
		},
	}
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "max videos per channel (default 50)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "base output directory (default ./output)")
	return cmd
}

func (a *app) runChannels(cmd *cobra.Command) error {
	ctx := cmd.Context()

	refs, err := config.LoadChannels(a.cfg.ChannelsFile)
	if err != nil {
		return err
	}

	client, err := api.NewClient(ctx, a.cfg.YouTubeAPIKey)
	if err != nil {
		return err
	}

	a.log.Info().Msg("validating YouTube API key")
	if err := client.ValidateKey(ctx); err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102_150405")
	runDir := filepath.Join(a.cfg.OutputDir, timestamp)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	a.log.Info().
		Int("channels", len(refs)).
		Int("max_results", a.cfg.MaxResultsPerChannel).
		Str("output", runDir).
		Msg("starting analysis")

	an := analyzer.New(client, a.cfg.MaxResultsPerChannel, a.log)
	result, err := an.Run(ctx, refs)
	if err != nil {
		return err
	}

	if result.Status == analyzer.StatusFailure {
		for _, o := range result.Outcomes {
			a.log.Error().Str("channel", o.Ref.String()).Str("reason", o.Reason).Msg("channel skipped")
		}
		return fmt.Errorf("no channel data retrieved")
	}

	artifacts, exportErrs := export.NewRunner(a.log).Export(result, runDir, timestamp)

	for _, o := range result.Outcomes {
		if o.Skipped {
			a.log.Warn().Str("channel", o.Ref.String()).Str("reason", o.Reason).Msg("channel skipped")
		} else {
			a.log.Info().Str("channel", o.Title).Int("videos", o.VideoCount).Msg("channel analyzed")
		}
	}
	a.log.Info().
		Str("status", string(result.Status)).
		Int("reports", len(artifacts)).
		Int("export_errors", len(exportErrs)).
		Str("output", runDir).
		Msg("run finished")
	return nil
}

func newVideoCmd(a *app) *cobra.Command {
	var langs string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "video [VIDEO_ID]",
		Short: "Download a video transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID := a.cfg.VideoID
			if len(args) > 0 {
				videoID = args[0]
			}
			if videoID == "" {
				return fmt.Errorf("video id required: pass it as an argument or set VIDEO_ID")
			}

			var languages []string
			if langs != "" {
				languages = strings.Split(langs, ",")
			}
			dir := a.cfg.OutputDir
			if outputDir != "" {
				dir = outputDir
			}

			downloader := api.NewTranscriptDownloader(languages, a.cfg.TranscriptFixturesDir, a.log)
			path, err := downloader.Save(cmd.Context(), videoID, dir)
			if err != nil {
				return err
			}
			a.log.Info().Str("video", videoID).Str("path", path).Msg("transcript saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&langs, "langs", "", "preferred languages, comma separated (e.g. en,es)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory (default ./output)")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve channel reports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := api.NewClient(cmd.Context(), a.cfg.YouTubeAPIKey)
			if err != nil {
				return err
			}
			p := a.cfg.Port
			if port != "" {
				p = port
			}
			server := api.NewServer(client, a.cfg.MaxResultsPerChannel, a.log)
			return server.Start(p)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default 8080)")
	return cmd
}

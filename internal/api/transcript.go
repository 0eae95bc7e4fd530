package api

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Transcript fetching goes through the Innertube player endpoint: the caption
// track list is public there and needs no OAuth, unlike the official captions
// API.

const (
	innertubePlayerURL = "https://www.youtube.com/youtubei/v1/player"
	// ANDROID client: its player responses carry caption tracks from
	// datacenter IPs where the web client is often blocked.
	innertubeClientName    = "ANDROID"
	innertubeClientVersion = "19.09.37"
)

var defaultTranscriptLanguages = []string{"es", "en"}

// ErrNoTranscript is returned when a video has no caption tracks at all.
var ErrNoTranscript = errors.New("no transcript available for this video")

// TranscriptDownloader fetches a single video's transcript as plain text.
type TranscriptDownloader struct {
	httpClient  *http.Client
	languages   []string
	fixturesDir string
	log         zerolog.Logger
}

// NewTranscriptDownloader creates a downloader preferring the given languages
// in order. fixturesDir may be empty; when set, <video_id>.txt files there are
// used as a fallback for videos without downloadable transcripts.
func NewTranscriptDownloader(languages []string, fixturesDir string, log zerolog.Logger) *TranscriptDownloader {
	if len(languages) == 0 {
		languages = defaultTranscriptLanguages
	}
	return &TranscriptDownloader{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		languages:   languages,
		fixturesDir: fixturesDir,
		log:         log,
	}
}

// Fetch returns the transcript text for a video, one caption line per line.
func (d *TranscriptDownloader) Fetch(ctx context.Context, videoID string) (string, error) {
	text, err := d.fetchFromInnertube(ctx, videoID)
	if err == nil {
		return text, nil
	}

	if fallback, ok := d.loadFixture(videoID); ok {
		d.log.Info().Str("video", videoID).Msg("using local transcript fixture")
		return fallback, nil
	}
	return "", err
}

// Save fetches the transcript and writes it to <video_id>_transcript.txt
// under outputDir, returning the written path.
func (d *TranscriptDownloader) Save(ctx context.Context, videoID, outputDir string) (string, error) {
	text, err := d.Fetch(ctx, videoID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outputDir, videoID+"_transcript.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

func (d *TranscriptDownloader) fetchFromInnertube(ctx context.Context, videoID string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"videoId": videoID,
		"context": map[string]any{
			"client": map[string]any{
				"clientName":        innertubeClientName,
				"clientVersion":     innertubeClientVersion,
				"androidSdkVersion": 30,
				"hl":                "en",
			},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, innertubePlayerURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "com.google.android.youtube/"+innertubeClientVersion)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("player request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("player request: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	tracks, err := parseCaptionTracks(data)
	if err != nil {
		return "", err
	}
	track := pickCaptionTrack(tracks, d.languages)
	if track == nil {
		return "", ErrNoTranscript
	}
	if !matchesLanguages(*track, d.languages) {
		d.log.Info().
			Strs("preferred", d.languages).
			Str("using", track.LanguageCode).
			Msg("no transcript in preferred languages, using available track")
	}

	return d.fetchTrack(ctx, track.BaseURL)
}

func (d *TranscriptDownloader) fetchTrack(ctx context.Context, baseURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption track request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption track request: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return parseTimedText(data)
}

func (d *TranscriptDownloader) loadFixture(videoID string) (string, bool) {
	if d.fixturesDir == "" {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(d.fixturesDir, videoID+".txt"))
	if err != nil {
		return "", false
	}
	text := strings.TrimSpace(string(data))
	return text, text != ""
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

func parseCaptionTracks(data []byte) ([]captionTrack, error) {
	var resp playerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse player response: %w", err)
	}
	tracks := resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, ErrNoTranscript
	}
	return tracks, nil
}

// pickCaptionTrack prefers, in order: a manual track in a preferred language,
// an auto-generated ("asr") track in a preferred language, any first track.
func pickCaptionTrack(tracks []captionTrack, languages []string) *captionTrack {
	for _, lang := range languages {
		for i, t := range tracks {
			if t.Kind != "asr" && languageMatches(t.LanguageCode, lang) {
				return &tracks[i]
			}
		}
	}
	for _, lang := range languages {
		for i, t := range tracks {
			if languageMatches(t.LanguageCode, lang) {
				return &tracks[i]
			}
		}
	}
	if len(tracks) > 0 {
		return &tracks[0]
	}
	return nil
}

func matchesLanguages(t captionTrack, languages []string) bool {
	for _, lang := range languages {
		if languageMatches(t.LanguageCode, lang) {
			return true
		}
	}
	return false
}

// languageMatches treats regional variants ("en-US") as matching their base
// language ("en").
func languageMatches(code, lang string) bool {
	return code == lang || strings.HasPrefix(code, lang+"-")
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// parseTimedText extracts plain text from a timedtext XML document, one
// caption per line, entities unescaped, empty captions dropped.
func parseTimedText(data []byte) (string, error) {
	var doc timedText
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse timedtext: %w", err)
	}
	lines := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		line := strings.TrimSpace(html.UnescapeString(t.Value))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

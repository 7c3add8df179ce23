package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"vidgrab/internal/core/domain"
)

// ErrNoMetadata reports that every metadata attempt failed. Callers are
// expected to continue with placeholder metadata.
var ErrNoMetadata = errors.New("no metadata after all attempts")

// maxDescriptionLen bounds the description carried around in memory;
// the full text can be pages long.
const maxDescriptionLen = 200

// rawVideoInfo mirrors the fields of the tool's --dump-json output the
// CLI cares about.
type rawVideoInfo struct {
	Title       string  `json:"title"`
	Uploader    string  `json:"uploader"`
	Duration    float64 `json:"duration"`
	ViewCount   int64   `json:"view_count"`
	UploadDate  string  `json:"upload_date"`
	Description string  `json:"description"`
	WebpageURL  string  `json:"webpage_url"`
	Extractor   string  `json:"extractor"`
}

// FetchMetadata runs yt-dlp --dump-json and maps the result into the
// domain. Attempts are bounded; once they are spent the error wraps
// ErrNoMetadata so callers can fall back to placeholder metadata.
func (r *Runner) FetchMetadata(ctx context.Context, videoURL string) (*domain.VideoMetadata, error) {
	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		r.notify.Infof("Getting video information (attempt %d/%d)...", attempt, r.opts.MaxAttempts)

		info, err := r.dumpJSON(ctx, videoURL)
		if err == nil {
			return metadataFromInfo(info, videoURL), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if errors.Is(err, context.DeadlineExceeded) {
			r.notify.Infof("Timeout getting video info (attempt %d)", attempt)
		} else {
			r.notify.Infof("Error getting video info (attempt %d): %v", attempt, err)
		}

		if attempt < r.opts.MaxAttempts {
			select {
			case <-time.After(r.opts.MetadataRetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	r.notify.Infof("Failed to get video information after all retries")
	return nil, fmt.Errorf("%w: %v", ErrNoMetadata, lastErr)
}

// dumpJSON runs one metadata attempt under the configured timeout.
func (r *Runner) dumpJSON(ctx context.Context, videoURL string) (*rawVideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.MetadataTimeout)
	defer cancel()

	// --dump-json: print metadata as a single JSON document, no download
	cmd := exec.CommandContext(ctx, r.binary, "--dump-json", "--no-warnings", videoURL)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, context.DeadlineExceeded
		}
		return nil, fmt.Errorf("yt-dlp failed: %w, stderr: %s", err, stderr.String())
	}

	var info rawVideoInfo
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}
	return &info, nil
}

// metadataFromInfo maps the raw dump onto domain metadata, filling the
// documented defaults for missing fields.
func metadataFromInfo(info *rawVideoInfo, videoURL string) *domain.VideoMetadata {
	meta := &domain.VideoMetadata{
		Title:      "Unknown Title",
		Uploader:   "Unknown Uploader",
		Platform:   "Unknown Platform",
		Duration:   int(info.Duration),
		ViewCount:  info.ViewCount,
		UploadDate: info.UploadDate,
		WebpageURL: videoURL,
	}
	if info.Title != "" {
		meta.Title = info.Title
	}
	if info.Uploader != "" {
		meta.Uploader = info.Uploader
	}
	if info.Extractor != "" {
		meta.Platform = info.Extractor
	}
	if info.WebpageURL != "" {
		meta.WebpageURL = info.WebpageURL
	}
	meta.Description = truncateRunes(info.Description, maxDescriptionLen)
	return meta
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

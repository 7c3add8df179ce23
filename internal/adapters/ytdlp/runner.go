package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"vidgrab/internal/core/ports"
)

// Defaults applied by NewRunner when Options fields are zero.
const (
	DefaultAvailabilityTimeout = 10 * time.Second
	DefaultMetadataTimeout     = 30 * time.Second
	DefaultMetadataRetryDelay  = 2 * time.Second
	DefaultDownloadTimeout     = 15 * time.Minute
	DefaultMaxAttempts         = 3
	DefaultRetryDelay          = 3 * time.Second
)

// Options configures a Runner.
type Options struct {
	// BinaryPath overrides binary discovery.
	BinaryPath string

	AvailabilityTimeout time.Duration
	MetadataTimeout     time.Duration
	MetadataRetryDelay  time.Duration

	// DownloadTimeout bounds one download attempt. PlaylistTimeout
	// bounds one playlist attempt and may stay zero: playlists run
	// without a wall-clock ceiling.
	DownloadTimeout time.Duration
	PlaylistTimeout time.Duration

	MaxAttempts int
	RetryDelay  time.Duration
}

// Runner drives the local yt-dlp binary.
type Runner struct {
	binary string
	opts   Options
	notify ports.Notifier
}

// NewRunner creates a Runner over the resolved yt-dlp binary.
func NewRunner(opts Options, notify ports.Notifier) *Runner {
	binary := opts.BinaryPath
	if binary == "" {
		binary = DetectBinary()
	}
	if opts.AvailabilityTimeout <= 0 {
		opts.AvailabilityTimeout = DefaultAvailabilityTimeout
	}
	if opts.MetadataTimeout <= 0 {
		opts.MetadataTimeout = DefaultMetadataTimeout
	}
	if opts.MetadataRetryDelay <= 0 {
		opts.MetadataRetryDelay = DefaultMetadataRetryDelay
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = DefaultDownloadTimeout
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Runner{binary: binary, opts: opts, notify: notify}
}

// DetectBinary finds yt-dlp: a yt-dlp.exe dropped into the working
// directory wins, otherwise whatever PATH resolves.
func DetectBinary() string {
	if _, err := os.Stat("yt-dlp.exe"); err == nil {
		return ".\\yt-dlp.exe"
	}
	return "yt-dlp" // Assumes yt-dlp is in PATH
}

// Version checks that the binary is present and responsive by running
// yt-dlp --version. Returns the trimmed version string.
func (r *Runner) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.AvailabilityTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.binary, "--version")

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("yt-dlp did not answer within %s: %w", r.opts.AvailabilityTimeout, err)
		}
		return "", fmt.Errorf("yt-dlp failed: %w, stderr: %s", err, stderr.String())
	}

	version := strings.TrimSpace(out.String())
	if version == "" {
		return "", fmt.Errorf("yt-dlp returned an empty version")
	}
	return version, nil
}

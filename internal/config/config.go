// Package config holds the runtime settings for the downloader CLI.
// Settings start from built-in defaults and may be overridden through
// VIDGRAB_* environment variables (a .env file is honored when present)
// and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Environment variable names recognized by Load.
const (
	EnvBinaryPath          = "VIDGRAB_YTDLP_PATH"
	EnvOutputDir           = "VIDGRAB_OUTPUT_DIR"
	EnvAvailabilityTimeout = "VIDGRAB_AVAILABILITY_TIMEOUT"
	EnvMetadataTimeout     = "VIDGRAB_METADATA_TIMEOUT"
	EnvMetadataRetryDelay  = "VIDGRAB_METADATA_RETRY_DELAY"
	EnvDownloadTimeout     = "VIDGRAB_DOWNLOAD_TIMEOUT"
	EnvPlaylistTimeout     = "VIDGRAB_PLAYLIST_TIMEOUT"
	EnvMaxAttempts         = "VIDGRAB_MAX_ATTEMPTS"
	EnvRetryDelay          = "VIDGRAB_RETRY_DELAY"
	EnvBatchDelay          = "VIDGRAB_BATCH_DELAY"
)

// defaultDirName is the output folder created next to the executable
// when no directory is configured.
const defaultDirName = "Video Downloads"

// Config carries every tunable the CLI needs. It is built once in main
// and passed to the components that use it.
type Config struct {
	// BinaryPath points at the yt-dlp executable. Empty means probe the
	// working directory for yt-dlp.exe, then fall back to PATH.
	BinaryPath string

	// OutputDir is the root folder for downloads. Empty means a
	// "Video Downloads" folder next to the executable.
	OutputDir string

	// AvailabilityTimeout bounds the startup yt-dlp --version probe.
	AvailabilityTimeout time.Duration

	// MetadataTimeout bounds one metadata attempt; MetadataRetryDelay
	// is the pause between attempts.
	MetadataTimeout    time.Duration
	MetadataRetryDelay time.Duration

	// DownloadTimeout bounds one download attempt. PlaylistTimeout does
	// the same for playlist attempts; zero means no ceiling.
	DownloadTimeout time.Duration
	PlaylistTimeout time.Duration

	// MaxAttempts is the total number of tries for metadata fetches and
	// downloads. RetryDelay is the pause between download attempts.
	MaxAttempts int
	RetryDelay  time.Duration

	// BatchDelay is the pause between consecutive URLs in batch mode.
	BatchDelay time.Duration
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		AvailabilityTimeout: 10 * time.Second,
		MetadataTimeout:     30 * time.Second,
		MetadataRetryDelay:  2 * time.Second,
		DownloadTimeout:     15 * time.Minute,
		PlaylistTimeout:     0,
		MaxAttempts:         3,
		RetryDelay:          3 * time.Second,
		BatchDelay:          3 * time.Second,
	}
}

// Load builds a Config from the defaults and environment overrides.
func Load() Config {
	cfg := Default()
	cfg.BinaryPath = getEnv(EnvBinaryPath, cfg.BinaryPath)
	cfg.OutputDir = getEnv(EnvOutputDir, cfg.OutputDir)
	cfg.AvailabilityTimeout = getEnvDuration(EnvAvailabilityTimeout, cfg.AvailabilityTimeout)
	cfg.MetadataTimeout = getEnvDuration(EnvMetadataTimeout, cfg.MetadataTimeout)
	cfg.MetadataRetryDelay = getEnvDuration(EnvMetadataRetryDelay, cfg.MetadataRetryDelay)
	cfg.DownloadTimeout = getEnvDuration(EnvDownloadTimeout, cfg.DownloadTimeout)
	cfg.PlaylistTimeout = getEnvDuration(EnvPlaylistTimeout, cfg.PlaylistTimeout)
	cfg.MaxAttempts = getEnvInt(EnvMaxAttempts, cfg.MaxAttempts)
	cfg.RetryDelay = getEnvDuration(EnvRetryDelay, cfg.RetryDelay)
	cfg.BatchDelay = getEnvDuration(EnvBatchDelay, cfg.BatchDelay)

	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return cfg
}

// ResolveOutputDir returns the configured output root, or the default
// folder beside the executable. When the executable path cannot be
// determined the folder is created under the working directory.
func (c Config) ResolveOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	exe, err := os.Executable()
	if err != nil {
		return defaultDirName
	}
	return filepath.Join(filepath.Dir(exe), defaultDirName)
}

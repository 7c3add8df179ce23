package ports

import (
	"context"

	"vidgrab/internal/core/domain"
)

// Notifier posts human-readable status lines to the user. Progress is
// for transient lines that may be redrawn in place on a terminal.
type Notifier interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Successf(format string, args ...any)
	Progress(line string)
}

// MetadataFetcher defines the contract for extracting video metadata.
type MetadataFetcher interface {
	// FetchMetadata retrieves metadata for the given URL. Attempts are
	// bounded and retried internally; when all of them fail the caller
	// is expected to proceed with placeholder metadata.
	FetchMetadata(ctx context.Context, videoURL string) (*domain.VideoMetadata, error)
}

// VideoDownloader defines the contract for running downloads through
// the external tool.
type VideoDownloader interface {
	// DownloadVideo fetches a single video into destDir. Attempts are
	// bounded and retried internally; a nil error means one of them
	// finished cleanly.
	DownloadVideo(ctx context.Context, videoURL, destDir string) error

	// DownloadPlaylist fetches every entry of a playlist into destDir.
	// The returned stats reflect the last attempt and are valid even
	// when the error is non-nil.
	DownloadPlaylist(ctx context.Context, playlistURL, destDir string) (domain.PlaylistStats, error)
}

// OutputStore manages the on-disk layout for finished downloads.
type OutputStore interface {
	// Root returns the output root directory.
	Root() string

	// PlatformDir ensures a per-platform folder exists and returns it.
	// On failure it returns the root alongside the error; the caller
	// may keep going with the returned directory.
	PlatformDir(platform string) (string, error)

	// PlaylistDir ensures a fresh timestamped playlist folder exists.
	PlaylistDir() (string, error)

	// LocateDownload finds the file a finished download most likely
	// produced: the newest container file whose name contains the
	// sanitized title, else the newest container file outright.
	LocateDownload(dir, title string) (*domain.DownloadedFile, error)
}

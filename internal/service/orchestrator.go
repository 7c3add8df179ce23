package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vidgrab/internal/console"
	"vidgrab/internal/core/domain"
	"vidgrab/internal/core/ports"
)

// ErrInvalidURL reports a URL without an http or https scheme.
var ErrInvalidURL = errors.New("invalid URL format")

// Orchestrator coordinates the download workflow.
type Orchestrator struct {
	fetcher    ports.MetadataFetcher
	downloader ports.VideoDownloader
	store      ports.OutputStore
	console    *console.Console
	batchDelay time.Duration
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	fetcher ports.MetadataFetcher,
	downloader ports.VideoDownloader,
	store ports.OutputStore,
	console *console.Console,
	batchDelay time.Duration,
) *Orchestrator {
	return &Orchestrator{
		fetcher:    fetcher,
		downloader: downloader,
		store:      store,
		console:    console,
		batchDelay: batchDelay,
	}
}

// ProcessURL validates one URL, classifies it and runs the matching
// download flow. The returned outcome is never nil; a rejected URL
// never reaches the external tool.
func (o *Orchestrator) ProcessURL(ctx context.Context, rawURL string, forcePlaylist bool) *domain.Outcome {
	kind, err := classifyURL(rawURL)
	if err != nil {
		o.console.Errorf("Invalid URL format. Please include http:// or https://")
		return &domain.Outcome{
			Task:         domain.NewTask(rawURL, domain.KindVideo),
			ErrorMessage: err.Error(),
			CompletedAt:  time.Now().UTC(),
		}
	}

	if forcePlaylist {
		kind = domain.KindPlaylist
	} else if kind == domain.KindPlaylist {
		o.console.Infof("Detected playlist, downloading all videos...")
	} else {
		o.console.Infof("Detected single video, downloading...")
	}

	task := domain.NewTask(rawURL, kind)
	if kind == domain.KindPlaylist {
		return o.runPlaylistTask(ctx, task)
	}
	return o.runVideoTask(ctx, task)
}

// runVideoTask fetches metadata (best effort), picks the platform
// folder and supervises a single-video download.
func (o *Orchestrator) runVideoTask(ctx context.Context, task domain.Task) *domain.Outcome {
	outcome := &domain.Outcome{Task: task}
	defer func() { outcome.CompletedAt = time.Now().UTC() }()

	o.console.Infof("Processing URL: %s", task.URL)

	meta, err := o.fetcher.FetchMetadata(ctx, task.URL)
	if err != nil {
		if ctx.Err() != nil {
			outcome.ErrorMessage = ctx.Err().Error()
			return outcome
		}
		o.console.Infof("Could not get video information, proceeding with download...")
		meta = domain.PlaceholderMetadata(task.URL)
	} else {
		o.console.Infof("Title: %s", meta.Title)
		o.console.Infof("Uploader: %s", meta.Uploader)
		o.console.Infof("Platform: %s", meta.Platform)
		if meta.Duration > 0 {
			o.console.Infof("Duration: %s", meta.DurationClock())
		}
		if meta.ViewCount > 0 {
			o.console.Infof("Views: %s", meta.FormatViews())
		}
	}

	destDir, err := o.store.PlatformDir(meta.Platform)
	if err != nil {
		// The store hands back the root; downloads continue unsorted.
		o.console.Infof("Error creating directory: %v", err)
	}
	o.console.Infof("Downloading to: %s", destDir)

	if err := o.downloader.DownloadVideo(ctx, task.URL, destDir); err != nil {
		outcome.ErrorMessage = err.Error()
		if ctx.Err() == nil {
			o.console.Errorf("Download failed after all retries")
		}
		return outcome
	}
	outcome.Success = true

	file, err := o.store.LocateDownload(destDir, meta.Title)
	if err != nil {
		o.console.Successf("Download completed but could not locate the specific file")
		o.console.Infof("Check directory: %s", destDir)
		return outcome
	}
	outcome.File = file
	o.console.Successf("Download complete: %s", file.Name())
	o.console.Successf("File size: %.2f MB", file.SizeMB())
	o.console.Successf("Location: %s", file.Path)
	return outcome
}

// runPlaylistTask supervises a playlist download into a fresh
// timestamped folder.
func (o *Orchestrator) runPlaylistTask(ctx context.Context, task domain.Task) *domain.Outcome {
	outcome := &domain.Outcome{Task: task}
	defer func() { outcome.CompletedAt = time.Now().UTC() }()

	o.console.Infof("Processing playlist: %s", task.URL)

	dir, err := o.store.PlaylistDir()
	if err != nil {
		o.console.Errorf("Error creating playlist directory: %v", err)
		outcome.ErrorMessage = err.Error()
		return outcome
	}
	o.console.Infof("Downloading playlist to: %s", dir)

	stats, err := o.downloader.DownloadPlaylist(ctx, task.URL, dir)
	if err != nil {
		outcome.ErrorMessage = err.Error()
		if ctx.Err() == nil {
			o.console.Errorf("Playlist download completed with errors: %v", err)
			o.console.Infof("Successfully downloaded: %d/%d videos", stats.Completed, stats.Videos)
		}
		return outcome
	}

	o.console.Successf("Playlist download completed! Downloaded %d/%d videos successfully.", stats.Completed, stats.Videos)
	outcome.Success = true
	return outcome
}

// classifyURL validates rawURL and decides how to treat it. Playlist
// detection follows the URL shape: a "playlist" marker anywhere in the
// lowercased URL, or a list= query parameter.
func classifyURL(rawURL string) (domain.TaskKind, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", ErrInvalidURL
	}
	if strings.Contains(strings.ToLower(rawURL), "playlist") || strings.Contains(rawURL, "list=") {
		return domain.KindPlaylist, nil
	}
	return domain.KindVideo, nil
}

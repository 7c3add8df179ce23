package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/alessio/shellescape"

	"vidgrab/internal/core/domain"
)

// formatSpec asks for mp4 video plus m4a audio when available, then
// the best standalone mp4, then whatever is best overall.
const formatSpec = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

// waitGrace bounds how long a finished or killed yt-dlp may keep the
// output pipe open through a leftover child before it is forced shut.
const waitGrace = 5 * time.Second

// ErrAttemptTimeout marks a download attempt that was killed for
// exceeding its wall-clock budget.
var ErrAttemptTimeout = errors.New("download attempt timed out")

// buildVideoArgs assembles the single-video invocation.
func buildVideoArgs(videoURL, destDir string) []string {
	return []string{
		"-f", formatSpec,
		"--merge-output-format", "mp4",
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
		"--no-warnings",
		"--newline",
		videoURL,
	}
}

// buildPlaylistArgs assembles the playlist invocation; entries land in
// a folder named after the playlist.
func buildPlaylistArgs(playlistURL, destDir string) []string {
	return []string{
		"-f", formatSpec,
		"--merge-output-format", "mp4",
		"-o", filepath.Join(destDir, "%(playlist_title)s", "%(title)s.%(ext)s"),
		"--no-warnings",
		"--newline",
		playlistURL,
	}
}

// DownloadVideo fetches one video into destDir, retrying failed or
// timed-out attempts up to the configured bound.
func (r *Runner) DownloadVideo(ctx context.Context, videoURL, destDir string) error {
	_, err := r.runAttempts(ctx, buildVideoArgs(videoURL, destDir), r.opts.DownloadTimeout)
	if err != nil {
		return err
	}
	r.notify.Successf("Download completed successfully!")
	return nil
}

// DownloadPlaylist fetches a whole playlist into destDir. The returned
// stats reflect the last attempt even when it failed.
func (r *Runner) DownloadPlaylist(ctx context.Context, playlistURL, destDir string) (domain.PlaylistStats, error) {
	return r.runAttempts(ctx, buildPlaylistArgs(playlistURL, destDir), r.opts.PlaylistTimeout)
}

func (r *Runner) runAttempts(ctx context.Context, args []string, timeout time.Duration) (domain.PlaylistStats, error) {
	r.notify.Infof("Download command: %s", shellescape.QuoteCommand(append([]string{r.binary}, args...)))

	var stats domain.PlaylistStats
	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		r.notify.Infof("Download attempt %d/%d", attempt, r.opts.MaxAttempts)
		r.notify.Infof("Starting download...")

		stats, lastErr = r.superviseOnce(ctx, args, timeout)
		if lastErr == nil {
			return stats, nil
		}
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		var exitErr *exec.ExitError
		switch {
		case errors.Is(lastErr, ErrAttemptTimeout):
			r.notify.Infof("Download timed out after %s!", timeout)
		case errors.As(lastErr, &exitErr):
			r.notify.Errorf("Download failed with exit code: %d", exitErr.ExitCode())
		default:
			r.notify.Errorf("Download error: %v", lastErr)
		}

		if attempt < r.opts.MaxAttempts {
			r.notify.Infof("Retrying in %s...", r.opts.RetryDelay)
			select {
			case <-time.After(r.opts.RetryDelay):
			case <-ctx.Done():
				return stats, ctx.Err()
			}
		}
	}
	r.notify.Errorf("Download failed after %d attempts", r.opts.MaxAttempts)
	return stats, fmt.Errorf("all %d download attempts failed: %w", r.opts.MaxAttempts, lastErr)
}

// superviseOnce runs a single attempt, streaming the tool's merged
// output through the classifier. A zero timeout means no wall-clock
// ceiling for the attempt.
func (r *Runner) superviseOnce(parent context.Context, args []string, timeout time.Duration) (domain.PlaylistStats, error) {
	ctx := parent
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, timeout)
		defer cancel()
	}

	var stats domain.PlaylistStats

	cmd := exec.CommandContext(ctx, r.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return stats, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	// Fold stderr into the stdout pipe so progress and errors arrive as
	// one ordered stream.
	cmd.Stderr = cmd.Stdout
	cmd.WaitDelay = waitGrace

	if err := cmd.Start(); err != nil {
		return stats, fmt.Errorf("failed to start %s: %w", r.binary, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		r.renderLine(scanner.Text(), &stats)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		// The stream broke; don't leave the process writing into the void.
		_ = cmd.Process.Kill()
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() == context.DeadlineExceeded && parent.Err() == nil {
			return stats, ErrAttemptTimeout
		}
		return stats, err
	}
	return stats, nil
}

// renderLine classifies one output line, forwards it to the user and
// keeps the playlist tally current.
func (r *Runner) renderLine(line string, stats *domain.PlaylistStats) {
	c := classifyLine(line)
	switch c.kind {
	case lineError:
		r.notify.Errorf("Error: %s", line)
	case lineWarning:
		r.notify.Warnf("%s", line)
	case linePlaylistItem:
		stats.Videos++
		if c.item > 0 && c.total > 0 {
			r.notify.Infof("Downloading video %d of %d", c.item, c.total)
		} else {
			r.notify.Infof("%s", line)
		}
	case lineCompleted:
		stats.Completed++
		r.notify.Progress(line)
	case lineProgress, linePercent:
		r.notify.Progress(line)
	default:
		r.notify.Infof("%s", line)
	}
}

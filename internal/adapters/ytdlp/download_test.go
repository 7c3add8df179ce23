package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestBuildVideoArgs(t *testing.T) {
	got := buildVideoArgs("https://example.com/watch?v=abc", "/tmp/out")
	expected := []string{
		"-f", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		"--merge-output-format", "mp4",
		"-o", filepath.Join("/tmp/out", "%(title)s.%(ext)s"),
		"--no-warnings",
		"--newline",
		"https://example.com/watch?v=abc",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("buildVideoArgs() = %v, expected %v", got, expected)
	}
}

func TestBuildPlaylistArgs(t *testing.T) {
	got := buildPlaylistArgs("https://example.com/playlist?list=PL1", "/tmp/out")
	expected := []string{
		"-f", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		"--merge-output-format", "mp4",
		"-o", filepath.Join("/tmp/out", "%(playlist_title)s", "%(title)s.%(ext)s"),
		"--no-warnings",
		"--newline",
		"https://example.com/playlist?list=PL1",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("buildPlaylistArgs() = %v, expected %v", got, expected)
	}
}

func TestDownloadVideo(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	binary := writeScript(t, dir, "fake-yt-dlp", `echo "[youtube] abc: Downloading webpage"
echo "[download] Destination: clip.mp4"
echo "[download]  50.0% of 10.00MiB at 2.00MiB/s ETA 00:02"
echo "[download] 100% of 10.00MiB in 00:05"
exit 0
`)

	r, notify := newTestRunner(t, binary, Options{MaxAttempts: 3, RetryDelay: time.Millisecond})

	if err := r.DownloadVideo(context.Background(), "https://example.com/watch?v=abc", dir); err != nil {
		t.Fatalf("DownloadVideo() error = %v", err)
	}
	if len(notify.progress) != 3 {
		t.Errorf("progress lines = %d, expected 3 (destination, percent, completion)", len(notify.progress))
	}
	if len(notify.errs) != 0 {
		t.Errorf("unexpected error output: %v", notify.errs)
	}
}

func TestDownloadVideoRetriesThenSucceeds(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	countFile := filepath.Join(dir, "attempts")
	binary := writeScript(t, dir, "fake-yt-dlp", fmt.Sprintf(`echo x >> %q
n=$(wc -l < %q)
if [ "$n" -lt 3 ]; then
  echo "ERROR: connection reset"
  exit 1
fi
echo "[download] 100%% of 10.00MiB in 00:05"
exit 0
`, countFile, countFile))

	r, notify := newTestRunner(t, binary, Options{MaxAttempts: 3, RetryDelay: time.Millisecond})

	if err := r.DownloadVideo(context.Background(), "https://example.com/watch?v=abc", dir); err != nil {
		t.Fatalf("DownloadVideo() error = %v", err)
	}

	data, err := os.ReadFile(countFile)
	if err != nil {
		t.Fatalf("failed to read attempt counter: %v", err)
	}
	if attempts := strings.Count(string(data), "x"); attempts != 3 {
		t.Errorf("fake binary invoked %d times, expected 3", attempts)
	}

	var exitNotices int
	for _, msg := range notify.errs {
		if strings.Contains(msg, "exit code") {
			exitNotices++
		}
	}
	if exitNotices != 2 {
		t.Errorf("exit-code notices = %d, expected 2", exitNotices)
	}
}

func TestDownloadVideoExhaustsAttempts(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	countFile := filepath.Join(dir, "attempts")
	binary := writeScript(t, dir, "fake-yt-dlp", fmt.Sprintf(`echo x >> %q
echo "ERROR: video unavailable"
exit 1
`, countFile))

	r, _ := newTestRunner(t, binary, Options{MaxAttempts: 2, RetryDelay: time.Millisecond})

	err := r.DownloadVideo(context.Background(), "https://example.com/watch?v=abc", dir)
	if err == nil {
		t.Fatal("DownloadVideo() expected error after exhausting attempts")
	}
	if !strings.Contains(err.Error(), "all 2 download attempts failed") {
		t.Errorf("error = %v, expected attempt summary", err)
	}

	data, readErr := os.ReadFile(countFile)
	if readErr != nil {
		t.Fatalf("failed to read attempt counter: %v", readErr)
	}
	if attempts := strings.Count(string(data), "x"); attempts != 2 {
		t.Errorf("fake binary invoked %d times, expected 2", attempts)
	}
}

func TestDownloadVideoTimeoutKillsProcess(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	binary := writeScript(t, dir, "fake-yt-dlp", "exec sleep 30\n")

	r, _ := newTestRunner(t, binary, Options{
		MaxAttempts:     2,
		RetryDelay:      time.Millisecond,
		DownloadTimeout: 150 * time.Millisecond,
	})

	start := time.Now()
	err := r.DownloadVideo(context.Background(), "https://example.com/watch?v=abc", dir)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrAttemptTimeout) {
		t.Fatalf("DownloadVideo() error = %v, expected ErrAttemptTimeout", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("DownloadVideo() took %s, expected both attempts to be killed at the timeout", elapsed)
	}
}

func TestDownloadVideoCancelStopsRetrying(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	binary := writeScript(t, dir, "fake-yt-dlp", "exec sleep 30\n")

	r, _ := newTestRunner(t, binary, Options{MaxAttempts: 3, RetryDelay: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := r.DownloadVideo(ctx, "https://example.com/watch?v=abc", dir)
	elapsed := time.Since(start)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("DownloadVideo() error = %v, expected context.Canceled", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("DownloadVideo() took %s after cancel", elapsed)
	}
}

func TestDownloadPlaylistCountsEntries(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	binary := writeScript(t, dir, "fake-yt-dlp", `echo "[download] Downloading video 1 of 3"
echo "[download] Destination: one.mp4"
echo "[download] 100% of 1.00MiB in 00:01"
echo "[download] Downloading video 2 of 3"
echo "ERROR: member-only content"
echo "[download] Downloading video 3 of 3"
echo "[download] 100% of 3.00MiB in 00:03"
exit 0
`)

	r, notify := newTestRunner(t, binary, Options{MaxAttempts: 1})

	stats, err := r.DownloadPlaylist(context.Background(), "https://example.com/playlist?list=PL1", dir)
	if err != nil {
		t.Fatalf("DownloadPlaylist() error = %v", err)
	}
	if stats.Videos != 3 {
		t.Errorf("Videos = %d, expected 3", stats.Videos)
	}
	if stats.Completed != 2 {
		t.Errorf("Completed = %d, expected 2", stats.Completed)
	}
	if len(notify.errs) != 1 {
		t.Errorf("error notices = %d, expected 1", len(notify.errs))
	}
}

func TestDownloadPlaylistKeepsStatsOnFailure(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	binary := writeScript(t, dir, "fake-yt-dlp", `echo "[download] Downloading video 1 of 2"
echo "[download] 100% of 1.00MiB in 00:01"
echo "ERROR: network gone"
exit 1
`)

	r, _ := newTestRunner(t, binary, Options{MaxAttempts: 1})

	stats, err := r.DownloadPlaylist(context.Background(), "https://example.com/playlist?list=PL1", dir)
	if err == nil {
		t.Fatal("DownloadPlaylist() expected error")
	}
	if stats.Videos != 1 || stats.Completed != 1 {
		t.Errorf("stats = %+v, expected the tally from the failed attempt", stats)
	}
}

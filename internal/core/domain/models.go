package domain

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskKind tells the pipeline how to treat a URL.
type TaskKind string

const (
	KindVideo    TaskKind = "video"
	KindPlaylist TaskKind = "playlist"
)

// String returns the kind name.
func (k TaskKind) String() string {
	return string(k)
}

// Task represents a single unit of work: one URL to download.
type Task struct {
	ID        string    `json:"task_id"`
	URL       string    `json:"url"`
	Kind      TaskKind  `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTask creates a Task with a fresh ID.
func NewTask(url string, kind TaskKind) Task {
	return Task{
		ID:        uuid.New().String(),
		URL:       url,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// ShortID returns the leading segment of the task ID, enough to tell
// tasks apart in batch output.
func (t Task) ShortID() string {
	if i := strings.Index(t.ID, "-"); i > 0 {
		return t.ID[:i]
	}
	return t.ID
}

// Outcome holds the result of a finished task.
type Outcome struct {
	Task         Task
	Success      bool
	File         *DownloadedFile
	ErrorMessage string
	CompletedAt  time.Time
}

// VideoMetadata is the subset of the tool's JSON dump the CLI reports.
type VideoMetadata struct {
	Title       string
	Uploader    string
	Platform    string
	Duration    int // seconds
	ViewCount   int64
	UploadDate  string // YYYYMMDD as reported by the tool
	Description string
	WebpageURL  string
}

// PlaceholderMetadata stands in when metadata extraction fails; the
// download proceeds regardless.
func PlaceholderMetadata(url string) *VideoMetadata {
	return &VideoMetadata{
		Title:      "Unknown Video",
		Uploader:   "Unknown",
		Platform:   "Unknown",
		WebpageURL: url,
	}
}

// DurationClock renders the duration as minutes:seconds.
func (m *VideoMetadata) DurationClock() string {
	if m.Duration <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", m.Duration/60, m.Duration%60)
}

// FormatViews renders the view count with thousands separators.
func (m *VideoMetadata) FormatViews() string {
	return groupDigits(m.ViewCount)
}

func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	var negative bool
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// DownloadedFile points at a file the locator attributed to a task.
type DownloadedFile struct {
	Path string
	Size int64
}

// SizeMB returns the file size in megabytes.
func (f *DownloadedFile) SizeMB() float64 {
	return float64(f.Size) / (1024 * 1024)
}

// Name returns the file's base name.
func (f *DownloadedFile) Name() string {
	return filepath.Base(f.Path)
}

// PlaylistStats counts per-entry progress within one playlist download.
type PlaylistStats struct {
	Videos    int // entries the tool announced
	Completed int // entries that reached a completion marker
}

package localstorage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vidgrab/internal/core/domain"
	"vidgrab/internal/sanitize"
)

// containerExt is what finished downloads end with; the tool merges
// everything into mp4.
const containerExt = ".mp4"

// playlistsDirName groups playlist folders under the output root.
const playlistsDirName = "Playlists"

// ErrNoDownloads reports that the locator found no candidate files.
var ErrNoDownloads = errors.New("no downloaded files found")

// Store implements ports.OutputStore on the local filesystem.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the output root directory.
func (s *Store) Root() string {
	return s.root
}

// EnsureRoot creates the output root directory.
func (s *Store) EnsureRoot() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.root, err)
	}
	return nil
}

// PlatformDir creates <root>/<platform> and returns it. On failure the
// root comes back together with the error, so downloads can continue
// unsorted.
func (s *Store) PlatformDir(platform string) (string, error) {
	dir := filepath.Join(s.root, sanitize.Clean(platform))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return s.root, fmt.Errorf("failed to create platform directory %s: %w", dir, err)
	}
	return dir, nil
}

// PlaylistDir creates a fresh timestamped folder under the Playlists
// directory. When that fails the bare Playlists folder is tried before
// giving up.
func (s *Store) PlaylistDir() (string, error) {
	base := filepath.Join(s.root, playlistsDirName)
	dir := filepath.Join(base, fmt.Sprintf("Playlist_%d", time.Now().Unix()))
	if err := os.MkdirAll(dir, 0755); err == nil {
		return dir, nil
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", fmt.Errorf("failed to create playlist directory %s: %w", base, err)
	}
	return base, nil
}

// LocateDownload attributes a finished download to a file in dir: the
// newest container file whose name contains the sanitized title, else
// the newest container file outright. Attribution is best effort; a
// title rewritten by the tool can still fool the match and drop through
// to the newest file.
func (s *Store) LocateDownload(dir, title string) (*domain.DownloadedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	type candidate struct {
		path    string
		size    int64
		modTime time.Time
	}
	var files []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), containerExt) {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, candidate{
			path:    filepath.Join(dir, entry.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	if len(files) == 0 {
		return nil, ErrNoDownloads
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	want := strings.ToLower(sanitize.Clean(title))
	for _, f := range files {
		stem := strings.TrimSuffix(filepath.Base(f.path), filepath.Ext(f.path))
		if strings.Contains(strings.ToLower(stem), want) {
			return &domain.DownloadedFile{Path: f.path, Size: f.size}, nil
		}
	}

	newest := files[0]
	return &domain.DownloadedFile{Path: newest.path, Size: newest.size}, nil
}

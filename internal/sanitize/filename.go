// Package sanitize produces names that are safe to use on common
// filesystems, Windows included.
package sanitize

import (
	"regexp"
	"strings"
)

// MaxNameLength caps sanitized names so nested output paths stay well
// under filesystem path limits.
const MaxNameLength = 150

// DefaultName is used when sanitization leaves nothing behind.
const DefaultName = "video"

var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Clean removes characters that are invalid in Windows filenames, caps
// the result at MaxNameLength runes and trims surrounding whitespace.
// An empty result becomes DefaultName.
func Clean(name string) string {
	cleaned := unsafeChars.ReplaceAllString(name, "")
	if runes := []rune(cleaned); len(runes) > MaxNameLength {
		cleaned = string(runes[:MaxNameLength])
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return DefaultName
	}
	return cleaned
}

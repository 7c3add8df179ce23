package ytdlp

import (
	"regexp"
	"strconv"
	"strings"
)

// lineKind labels one line of merged tool output.
type lineKind int

const (
	lineInfo lineKind = iota
	lineProgress
	linePercent
	lineCompleted
	linePlaylistItem
	lineWarning
	lineError
)

// classification is the outcome of classifyLine for a single line.
type classification struct {
	kind  lineKind
	item  int // playlist position, when kind is linePlaylistItem
	total int
}

var playlistItemRe = regexp.MustCompile(`Downloading video (\d+) of (\d+)`)

// classifyLine sorts a line of tool output into exactly one bucket.
// Rules are checked in order and the first match wins:
//
//	1. contains "ERROR"                              -> lineError
//	2. contains "WARNING"                            -> lineWarning
//	3. contains "[download]" + "Downloading video "  -> linePlaylistItem
//	4. contains "[download]" + "100%"                -> lineCompleted
//	5. contains "[download]"                         -> lineProgress
//	6. contains "ETA" or "%"                         -> linePercent
//	7. anything else                                 -> lineInfo
//
// So a line carrying both an error keyword and a percentage is an
// error, and a playlist entry announcement is never mistaken for
// transfer progress.
func classifyLine(line string) classification {
	isDownload := strings.Contains(line, "[download]")
	switch {
	case strings.Contains(line, "ERROR"):
		return classification{kind: lineError}
	case strings.Contains(line, "WARNING"):
		return classification{kind: lineWarning}
	case isDownload && strings.Contains(line, "Downloading video "):
		item, total := parsePlaylistItem(line)
		return classification{kind: linePlaylistItem, item: item, total: total}
	case isDownload && strings.Contains(line, "100%"):
		return classification{kind: lineCompleted}
	case isDownload:
		return classification{kind: lineProgress}
	case strings.Contains(line, "ETA") || strings.Contains(line, "%"):
		return classification{kind: linePercent}
	default:
		return classification{kind: lineInfo}
	}
}

// parsePlaylistItem pulls N and M out of a "Downloading video N of M"
// line. Zeros mean the counts were not recognizable after all.
func parsePlaylistItem(line string) (item, total int) {
	m := playlistItemRe.FindStringSubmatch(line)
	if m == nil {
		return 0, 0
	}
	item, _ = strconv.Atoi(m[1])
	total, _ = strconv.Atoi(m[2])
	return item, total
}

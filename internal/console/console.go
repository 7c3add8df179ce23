// Package console implements the terminal front-end: tagged status
// lines, in-place progress redraws and the interactive banner.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	colorable "github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"

	clearScreen = "\x1b[2J\x1b[H"

	ruleWidth = 60
)

// Console writes all user-facing output. The CLI is strictly
// sequential, so no locking is needed.
type Console struct {
	out io.Writer
	tty bool

	// afterProgress remembers that the cursor sits at the end of an
	// in-place progress line, so the next full line needs a newline
	// first.
	afterProgress bool
}

// New returns a Console over stdout. Colors and in-place progress are
// enabled only when stdout is a terminal.
func New() *Console {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return &Console{out: colorable.NewColorableStdout(), tty: tty}
}

// NewWithWriter returns a Console over an arbitrary writer.
func NewWithWriter(w io.Writer, tty bool) *Console {
	return &Console{out: w, tty: tty}
}

// Infof prints an informational line.
func (c *Console) Infof(format string, args ...any) {
	c.line("[*] ", "", format, args...)
}

// Warnf prints a warning line.
func (c *Console) Warnf(format string, args ...any) {
	c.line("[*] Warning: ", ansiYellow, format, args...)
}

// Errorf prints an error line.
func (c *Console) Errorf(format string, args ...any) {
	c.line("[!] ", ansiRed, format, args...)
}

// Successf prints a success line.
func (c *Console) Successf(format string, args ...any) {
	c.line("[+] ", ansiGreen, format, args...)
}

func (c *Console) line(prefix, color string, format string, args ...any) {
	c.breakProgress()
	if color != "" && c.tty {
		prefix = color + prefix + ansiReset
	}
	fmt.Fprintf(c.out, prefix+format+"\n", args...)
}

// Progress redraws line in place on a terminal. Elsewhere it falls
// back to plain lines so piped output stays readable.
func (c *Console) Progress(line string) {
	if !c.tty {
		fmt.Fprintln(c.out, line)
		return
	}
	fmt.Fprintf(c.out, "\r%s", line)
	c.afterProgress = true
}

// breakProgress terminates a pending in-place progress line.
func (c *Console) breakProgress() {
	if c.afterProgress {
		fmt.Fprintln(c.out)
		c.afterProgress = false
	}
}

// Prompt prints the input prompt without a trailing newline. Until
// LineRead is called, the next full line breaks out of the prompt
// line first.
func (c *Console) Prompt(text string) {
	c.breakProgress()
	fmt.Fprintf(c.out, "\n%s", text)
	c.afterProgress = true
}

// LineRead notes that the user finished the prompt line with Enter, so
// no break is pending anymore.
func (c *Console) LineRead() {
	c.afterProgress = false
}

// Rule prints a separator line of ch characters.
func (c *Console) Rule(ch string) {
	c.breakProgress()
	fmt.Fprintln(c.out, strings.Repeat(ch, ruleWidth))
}

// Clear wipes the screen on a terminal. Piped output is left alone.
func (c *Console) Clear() {
	c.breakProgress()
	if c.tty {
		fmt.Fprint(c.out, clearScreen)
	}
}

var banner = []string{
	"       _      _ _       ",
	"      | |    | | |      ",
	" _   _| |_ __| | |_ __  ",
	"| | | | __/ _` | | '_ \\ ",
	"| |_| | || (_| | | |_) |",
	" \\__, |\\__\\__,_|_| .__/ ",
	"  __/ |          | |    ",
	" |___/           |_|    ",
}

// Header prints the interactive-mode banner.
func (c *Console) Header(outputDir string) {
	c.breakProgress()
	for _, line := range banner {
		fmt.Fprintln(c.out, line)
	}
	fmt.Fprintln(c.out, "     Developed by: @Finnapple")
	fmt.Fprintln(c.out)
	c.Infof("Universal Video Downloader - Highest Quality MP4")
	c.Infof("Download videos in best MP4 quality using yt-dlp")
	c.Infof("Supports: YouTube, Facebook, TikTok, Instagram, Twitter, etc.")
	c.Infof("Paste any video URL. Type 'exit' to quit.")
	c.Infof("Type 'clear' to clear the screen.")
	c.Infof("Downloading to: %s", outputDir)
	c.Rule("-")
}

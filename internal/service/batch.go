package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"vidgrab/internal/core/domain"
)

// RunBatch processes every URL in the file sequentially. The returned
// error reports an unusable file; individual task failures are counted
// and summarized instead.
func (o *Orchestrator) RunBatch(ctx context.Context, path string) error {
	urls, err := readBatchFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			o.console.Errorf("File not found: %s", path)
		case errors.Is(err, fs.ErrPermission):
			o.console.Errorf("Permission denied accessing file: %s", path)
		default:
			o.console.Errorf("Error processing file: %v", err)
		}
		return err
	}
	if len(urls) == 0 {
		o.console.Errorf("No URLs found in the file")
		return nil
	}

	o.console.Infof("Found %d URLs in file", len(urls))

	var succeeded int
	var failed []*domain.Outcome
	for i, url := range urls {
		if ctx.Err() != nil {
			break
		}

		o.console.Rule("=")
		o.console.Infof("Processing URL %d/%d: %s", i+1, len(urls), url)
		o.console.Rule("=")

		outcome := o.ProcessURL(ctx, url, false)
		if outcome.Success {
			succeeded++
		} else {
			failed = append(failed, outcome)
		}

		if i < len(urls)-1 && ctx.Err() == nil {
			o.console.Infof("Waiting %s before next download...", o.batchDelay)
			select {
			case <-time.After(o.batchDelay):
			case <-ctx.Done():
			}
		}
	}

	o.console.Infof("Completed: %d/%d downloads successful", succeeded, len(urls))
	for _, outcome := range failed {
		o.console.Errorf("Failed: [%s] %s", outcome.Task.ShortID(), outcome.Task.URL)
	}
	return nil
}

// readBatchFile loads URLs from path. Blank lines are skipped, and so
// is any line whose first column is '#'; an indented '#' is kept and
// will fail URL validation later.
func readBatchFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, trimmed)
	}
	return urls, nil
}

// RunInteractive prompts for URLs until an exit sentinel, end of
// input or cancellation.
func (o *Orchestrator) RunInteractive(ctx context.Context, in io.Reader) {
	o.console.Header(o.store.Root())

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		o.console.Prompt("[*] Enter Video URL: ")

		select {
		case <-ctx.Done():
			o.console.Infof("Exiting...")
			return
		case line, ok := <-lines:
			if !ok {
				o.console.Infof("Exiting...")
				return
			}
			o.console.LineRead()

			input := strings.TrimSpace(line)
			switch strings.ToLower(input) {
			case "exit", "quit", "q":
				o.console.Infof("Goodbye!")
				return
			case "clear", "cls":
				o.console.Clear()
				o.console.Header(o.store.Root())
				continue
			case "":
				continue
			}

			o.ProcessURL(ctx, input, false)
		}
	}
}

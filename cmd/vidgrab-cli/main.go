package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"vidgrab/internal/adapters/localstorage"
	"vidgrab/internal/adapters/ytdlp"
	"vidgrab/internal/config"
	"vidgrab/internal/console"
	"vidgrab/internal/service"
)

const appVersion = "1.0.0"

func main() {
	// Load .env file if it exists; environment variables might also be
	// set manually.
	_ = godotenv.Load()

	// Parse flags
	var (
		filePath    string
		playlist    bool
		showVersion bool
	)
	flag.StringVar(&filePath, "file", "", "Path to a text file with one URL per line")
	flag.StringVar(&filePath, "f", "", "Shorthand for -file")
	flag.BoolVar(&playlist, "playlist", false, "Treat the URL as a playlist")
	flag.BoolVar(&playlist, "p", false, "Shorthand for -playlist")
	dir := flag.String("dir", "", "Output directory (overrides "+config.EnvOutputDir+")")
	flag.BoolVar(&showVersion, "version", false, "Print the program version")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Println("vidgrab " + appVersion)
		return
	}
	if flag.NArg() > 1 {
		usage()
		os.Exit(1)
	}
	url := flag.Arg(0)

	term := console.New()

	cfg := config.Load()
	if *dir != "" {
		cfg.OutputDir = *dir
	}

	// Initialize adapters
	runner := ytdlp.NewRunner(ytdlp.Options{
		BinaryPath:          cfg.BinaryPath,
		AvailabilityTimeout: cfg.AvailabilityTimeout,
		MetadataTimeout:     cfg.MetadataTimeout,
		MetadataRetryDelay:  cfg.MetadataRetryDelay,
		DownloadTimeout:     cfg.DownloadTimeout,
		PlaylistTimeout:     cfg.PlaylistTimeout,
		MaxAttempts:         cfg.MaxAttempts,
		RetryDelay:          cfg.RetryDelay,
	}, term)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown. Cancelling the context also kills any
	// yt-dlp process still running.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		term.Infof("Received interrupt signal, cancelling...")
		cancel()
	}()

	if _, err := runner.Version(ctx); err != nil {
		term.Errorf("yt-dlp is not installed or not working: %v", err)
		term.Errorf("Please install it with: pip install yt-dlp")
		os.Exit(1)
	}

	store := localstorage.NewStore(cfg.ResolveOutputDir())
	if err := store.EnsureRoot(); err != nil {
		term.Errorf("Could not create output directory: %v", err)
		os.Exit(1)
	}

	// Create orchestrator
	orchestrator := service.NewOrchestrator(runner, runner, store, term, cfg.BatchDelay)

	switch {
	case filePath != "":
		if err := orchestrator.RunBatch(ctx, filePath); err != nil {
			os.Exit(1)
		}
	case url != "":
		orchestrator.ProcessURL(ctx, url, playlist)
	default:
		orchestrator.RunInteractive(ctx, os.Stdin)
	}
}

func usage() {
	fmt.Println("Usage: vidgrab-cli [flags] [url]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -file, -f <path>   Download every URL listed in the file (lines starting with # are skipped)")
	fmt.Println("  -playlist, -p      Treat the URL as a playlist")
	fmt.Println("  -dir <path>        Output directory (default: \"Video Downloads\" next to the executable)")
	fmt.Println("  -version           Print the program version")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  vidgrab-cli https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	fmt.Println("  vidgrab-cli -p https://www.youtube.com/playlist?list=PLdU2XZile5CliGO3dAGYU")
	fmt.Println("  vidgrab-cli -f urls.txt")
	fmt.Println()
	fmt.Println("With no url and no -file, an interactive prompt starts.")
}

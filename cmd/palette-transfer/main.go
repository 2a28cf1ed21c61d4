// Package main is the palette-transfer command line tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/ironsheep/palette-transfer/internal/imaging"
	"github.com/ironsheep/palette-transfer/internal/palette"
	"github.com/ironsheep/palette-transfer/internal/transfer"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// errVersion is returned by parseFlags when version output was requested.
var errVersion = errors.New("version requested")

type options struct {
	Input   string
	Output  string
	Colors  string
	Workers int
	Timing  bool
}

func main() {
	os.Exit(run())
}

func run() int {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errVersion):
		fmt.Printf("palette-transfer %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return 0
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var logger *slog.Logger
	if os.Getenv("PALETTE_LOG_LEVEL") == "debug" {
		log.Printf("palette-transfer v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	showProgress := term.IsTerminal(int(os.Stderr.Fd()))
	if err := transferImage(ctx, opts, logger, os.Stdout, progressWriter(showProgress)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("palette-transfer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Colors, "colors", "", "Comma-separated hex palette (default $PALETTE_COLORS, then Nord)")
	fs.StringVar(&opts.Colors, "c", "", "Comma-separated hex palette (shorthand)")
	fs.StringVar(&opts.Output, "output", "", "Output image path (default out.<ext>)")
	fs.StringVar(&opts.Output, "o", "", "Output image path (shorthand)")
	fs.BoolVar(&opts.Timing, "timing", false, "Print read, transfer and write durations")
	fs.BoolVar(&opts.Timing, "t", false, "Print read, transfer and write durations (shorthand)")
	fs.IntVar(&opts.Workers, "workers", runtime.GOMAXPROCS(0), "Number of mapping workers")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "palette-transfer - map an image onto the colors a palette can reach\n\n")
		fmt.Fprintf(stderr, "Usage: palette-transfer [options] <image>\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment variables:\n")
		fmt.Fprintf(stderr, "  PALETTE_COLORS=...         Default palette when -colors is not given\n")
		fmt.Fprintf(stderr, "  PALETTE_LOG_LEVEL=debug    Enable debug logging\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  palette-transfer photo.png                       Map onto Nord, write out.png\n")
		fmt.Fprintf(stderr, "  palette-transfer -c 000,fff,f00,0f0 photo.jpg    Use a custom palette\n")
		fmt.Fprintf(stderr, "  palette-transfer -o mapped.png -t photo.jpg      Pick output, print timings\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if showVersion {
		return opts, errVersion
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return opts, fmt.Errorf("expected exactly one input image, got %d", fs.NArg())
	}
	opts.Input = fs.Arg(0)

	if opts.Workers < 1 {
		return opts, fmt.Errorf("workers must be at least 1, got %d", opts.Workers)
	}
	return opts, nil
}

// paletteColors resolves the palette from the flag, then PALETTE_COLORS,
// then Nord.
func paletteColors(flagValue string) ([]palette.RGB, error) {
	list := strings.TrimSpace(flagValue)
	if list == "" {
		list = strings.TrimSpace(os.Getenv("PALETTE_COLORS"))
	}
	if list == "" {
		return palette.NordColors(), nil
	}
	return palette.ParseList(list)
}

// transferImage maps opts.Input onto the palette and writes the result.
// The palette is validated before the image is read. A nil progress
// disables the progress display.
func transferImage(ctx context.Context, opts options, logger *slog.Logger, stdout io.Writer, progress io.Writer) error {
	colors, err := paletteColors(opts.Colors)
	if err != nil {
		return fmt.Errorf("invalid palette: %w", err)
	}
	spaceOpts := []palette.Option{}
	if logger != nil {
		spaceOpts = append(spaceOpts, palette.WithLogger(logger))
	}
	space, err := palette.NewSpace(colors, spaceOpts...)
	if err != nil {
		return err
	}

	start := time.Now()
	img, inputFormat, err := imaging.Decode(opts.Input)
	if err != nil {
		return err
	}
	readTook := time.Since(start)

	bounds := img.Bounds()
	counter := transfer.NewProgress(bounds.Dx() * bounds.Dy())
	mapper := transfer.NewMapper(space,
		transfer.WithWorkers(opts.Workers),
		transfer.WithProgress(counter),
	)

	watchCtx, stopWatch := context.WithCancel(ctx)
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		if progress == nil {
			return
		}
		counter.Watch(watchCtx, 100*time.Millisecond, func(done, total uint64) {
			drawProgress(progress, done, total)
		})
		fmt.Fprintln(progress)
	}()

	start = time.Now()
	out, err := mapper.MapImage(ctx, img)
	stopWatch()
	<-watched
	if err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}
	transferTook := time.Since(start)

	format := imaging.FormatFor(opts.Output, inputFormat)
	output := imaging.OutputPath(opts.Output, format)

	start = time.Now()
	if err := imaging.Save(out, output, format); err != nil {
		return err
	}
	writeTook := time.Since(start)

	if opts.Timing {
		fmt.Fprintf(stdout, "Read took %v\n", readTook)
		fmt.Fprintf(stdout, "Transfer took %v\n", transferTook)
		fmt.Fprintf(stdout, "Write took %v\n", writeTook)
	}
	fmt.Fprintf(stdout, "Wrote %s (%dx%d, %d cached colors)\n", output, bounds.Dx(), bounds.Dy(), mapper.Cache().Len())
	return nil
}

// progressWriter returns stderr when a progress bar should be drawn.
func progressWriter(enabled bool) io.Writer {
	if !enabled {
		return nil
	}
	return os.Stderr
}

const barWidth = 40

func drawProgress(w io.Writer, done, total uint64) {
	fraction := 1.0
	if total > 0 {
		fraction = min(float64(done)/float64(total), 1)
	}
	filled := int(fraction * barWidth)
	fmt.Fprintf(w, "\r[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat(" ", barWidth-filled), int(fraction*100))
}

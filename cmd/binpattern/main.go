// Command binpattern finds byte patterns shared by the code sections of a
// corpus of PE samples and absent from a clean reference build.
//
//	binpattern [flags] <folder> <pattern_length> <exclude_binary>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ossf/binpattern/internal/corpus"
	"github.com/ossf/binpattern/internal/featureflags"
	"github.com/ossf/binpattern/internal/log"
	"github.com/ossf/binpattern/internal/report"
	"github.com/ossf/binpattern/internal/scanner"
	"github.com/ossf/binpattern/internal/utils"
	"github.com/ossf/binpattern/internal/worker"
)

var (
	search       = flag.String("search", scanner.Naive.Name(), "substring search strategy, one of naive or suffixarray")
	workers      = flag.Int("workers", 1, "number of goroutines evaluating offsets")
	info         = flag.Bool("info", false, "print binary information for each discovered sample and the reference")
	noColor      = flag.Bool("no-color", false, "disable coloured output")
	noProgress   = flag.Bool("no-progress", false, "do not draw a progress bar on stderr")
	features     = flag.String("features", "", "override features that are enabled/disabled by default")
	listFeatures = flag.Bool("list-features", false, "list available features that can be toggled")
	help         = flag.Bool("help", false, "print help on available options")
	extensions   = utils.CommaSeparatedFlags("extensions", []string{"bin"},
		"list of sample file extensions, separated by commas")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] <folder> <pattern_length> <exclude_binary>\n\n", os.Args[0])
	fmt.Fprintf(out, "Finds patterns of pattern_length bytes in the .text sections of the samples\n")
	fmt.Fprintf(out, "under folder that do not occur in the .text section of exclude_binary.\n\n")
	flag.PrintDefaults()
}

func printFeatureFlags() {
	fmt.Printf("Feature List\n\n")
	fmt.Printf("%-30s %s\n", "Name", "Default")
	fmt.Printf("----------------------------------------\n")

	// print features in sorted order
	state := featureflags.State()
	sortedFeatures := maps.Keys(state)
	slices.Sort(sortedFeatures)

	// print Off/On rather than 'false' and 'true'
	stateStrings := map[bool]string{false: "Off", true: "On"}
	for _, feature := range sortedFeatures {
		fmt.Printf("%-30s %s\n", feature, stateStrings[state[feature]])
	}

	fmt.Println()
}

func printSampleInfo(ctx context.Context, w io.Writer, job *worker.Job) error {
	descs, err := corpus.Inspect(ctx, job.Request.Corpus, job.Files)
	if err != nil {
		return err
	}
	for _, d := range descs {
		if d.Err != nil {
			fmt.Fprintf(w, "%s %s %d bytes: %v\n", d.Key, d.SHA256, d.Size, d.Err)
			continue
		}
		fmt.Fprintf(w, "%s %s %d bytes %s\n", d.Key, d.SHA256, d.Size, d.Info)
	}
	fmt.Fprintf(w, "%s %s %d bytes %s (reference)\n", job.Request.Reference, job.Reference.SHA256, len(job.Reference.Blob), job.Reference.Info)
	return nil
}

// parsePatternLength parses the pattern_length argument, which must be a
// positive integer.
func parsePatternLength(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("pattern_length must be positive, got %d", n)
	}
	return n, nil
}

// nothingToScan returns the sentinel explaining why err left nothing to scan,
// or nil.
func nothingToScan(err error) error {
	for _, reason := range []error{worker.ErrNoFiles, worker.ErrNoBlobs, worker.ErrNoReference} {
		if errors.Is(err, reason) {
			return reason
		}
	}
	return nil
}

// progressObserver draws scan progress on stderr.
func progressObserver() (func(scanner.Progress), func()) {
	var bar *progressbar.ProgressBar
	observe := func(p scanner.Progress) {
		if bar == nil {
			bar = progressbar.NewOptions(p.Total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("progress"),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionClearOnFinish())
		}
		_ = bar.Set(p.Done)
	}
	finish := func() {
		if bar != nil {
			_ = bar.Finish()
		}
	}
	return observe, finish
}

func main() {
	log.Initialize(os.Getenv("LOGGER_ENV"))

	extensions.InitFlag()
	flag.Usage = usage
	flag.Parse()

	if err := featureflags.Update(*features); err != nil {
		slog.Error("Failed to parse flags", "error", err)
		return
	}

	if *help {
		flag.Usage()
		return
	}

	if *listFeatures {
		printFeatureFlags()
		return
	}

	if flag.NArg() != 3 {
		flag.Usage()
		return
	}
	n, err := parsePatternLength(flag.Arg(1))
	if err != nil {
		fmt.Fprintf(flag.CommandLine.Output(), "invalid pattern_length %q: %v\n\n", flag.Arg(1), err)
		flag.Usage()
		return
	}

	strategy, err := scanner.StrategyFromString(*search)
	if err != nil {
		slog.Error("Unknown search strategy", "search", *search, "error", err)
		return
	}

	req := worker.Request{
		Corpus:        flag.Arg(0),
		PatternLength: n,
		Reference:     flag.Arg(2),
		Extensions:    extensions.Values,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = log.ContextWithAttrs(ctx, slog.String("corpus", req.Corpus), slog.Int("pattern_length", n))

	fmt.Println("loading ...")
	job, err := worker.LoadJob(ctx, req)
	if reason := nothingToScan(err); reason != nil {
		slog.DebugContext(ctx, "Nothing to scan", "error", err)
		fmt.Println(reason)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load corpus", "error", err)
		os.Exit(1)
	}
	fmt.Printf("loaded %d .text blobs\n", len(job.Samples))

	if *info {
		if err := printSampleInfo(ctx, os.Stdout, job); err != nil {
			slog.ErrorContext(ctx, "Failed to describe samples", "error", err)
		}
	}

	opts := []scanner.Option{scanner.WithSearch(strategy), scanner.WithWorkers(*workers)}
	finishProgress := func() {}
	if !*noProgress {
		var observe func(scanner.Progress)
		observe, finishProgress = progressObserver()
		opts = append(opts, scanner.WithProgress(observe))
	}

	summary := job.NewSummary()
	useColor := featureflags.ColorOutput.Enabled() && !*noColor && !color.NoColor
	printer := report.NewPrinter(os.Stdout, len(job.Samples), report.WithColor(useColor), report.WithSummary(summary))

	s := scanner.New(opts...)
	slog.DebugContext(ctx, "Scanning corpus",
		"source", job.Samples[0].Key,
		"strategy", s.Strategy().Name(),
		"workers", *workers)
	for m := range job.Scan(ctx, s) {
		if err := printer.Print(m); err != nil {
			slog.ErrorContext(ctx, "Failed to write pattern", "error", err)
			break
		}
	}
	finishProgress()

	worker.LogScanResult(ctx, req, summary, ctx.Err())
}

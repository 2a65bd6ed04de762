package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/gcppubsub"
	_ "gocloud.dev/pubsub/kafkapubsub"
	_ "gocloud.dev/pubsub/mempubsub"

	"github.com/ossf/binpattern/cmd/worker/pubsubextender"
	"github.com/ossf/binpattern/internal/featureflags"
	"github.com/ossf/binpattern/internal/log"
	"github.com/ossf/binpattern/internal/notification"
	"github.com/ossf/binpattern/internal/scanner"
	"github.com/ossf/binpattern/internal/utils"
	"github.com/ossf/binpattern/internal/worker"
)

// progressLogInterval bounds how often scan progress is logged.
const progressLogInterval = 30 * time.Second

var errInvalidRequest = errors.New("invalid request")

// requestFromMessage reads the scan request carried in the message metadata.
func requestFromMessage(msg *pubsub.Message) (worker.Request, error) {
	req := worker.Request{
		Corpus:    msg.Metadata["corpus"],
		Reference: msg.Metadata["reference"],
	}
	if req.Corpus == "" {
		return req, fmt.Errorf("%w: corpus is empty", errInvalidRequest)
	}
	if req.Reference == "" {
		return req, fmt.Errorf("%w: reference is empty", errInvalidRequest)
	}
	n, err := strconv.Atoi(msg.Metadata["pattern_length"])
	if err != nil || n <= 0 {
		return req, fmt.Errorf("%w: pattern_length %q is not a positive integer", errInvalidRequest, msg.Metadata["pattern_length"])
	}
	req.PatternLength = n

	if exts := msg.Metadata["extensions"]; exts != "" {
		flags := utils.CommaSeparatedFlags("extensions", nil, "")
		if err := flags.Set(exts); err != nil {
			return req, fmt.Errorf("%w: %w", errInvalidRequest, err)
		}
		req.Extensions = flags.Values
	}
	return req, nil
}

// progressLogger turns scan progress into periodic log entries.
func progressLogger(ctx context.Context) (func(scanner.Progress), func()) {
	w := log.NewWriter(ctx, slog.Default(), slog.LevelInfo)
	var bar *progressbar.ProgressBar
	observe := func(p scanner.Progress) {
		if bar == nil {
			bar = progressbar.NewOptions(p.Total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("scan progress"),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(progressLogInterval))
		}
		_ = bar.Set(p.Done)
	}
	finish := func() {
		if bar != nil {
			_ = bar.Finish()
		}
		w.Close()
	}
	return observe, finish
}

func handleMessage(ctx context.Context, msg *pubsub.Message, cfg *config, extender *pubsubextender.Extender, notificationTopic *pubsub.Topic) error {
	req, err := requestFromMessage(msg)
	if err != nil {
		slog.WarnContext(ctx, "Ignoring message", "error", err)
		msg.Ack()
		return nil
	}

	ctx = log.ContextWithAttrs(ctx,
		slog.String("corpus", req.Corpus),
		slog.Int("pattern_length", req.PatternLength))
	worker.LogRequest(ctx, req)

	me, err := extender.Start(ctx, msg, func(deadline time.Duration) {
		slog.DebugContext(ctx, "Extended message deadline", "deadline", deadline)
	})
	if err != nil {
		return fmt.Errorf("failed to start message extender: %w", err)
	}
	defer func() {
		if err := me.Stop(); err != nil {
			slog.ErrorContext(ctx, "Message extender failed", "error", err)
		}
	}()

	job, err := worker.LoadJob(ctx, req)
	if errors.Is(err, worker.ErrNoFiles) || errors.Is(err, worker.ErrNoBlobs) || errors.Is(err, worker.ErrNoReference) {
		worker.LogScanSkipped(ctx, req, err)
		msg.Ack()
		return nil
	}
	if err != nil {
		return err
	}

	observe, finish := progressLogger(ctx)
	s := scanner.New(append(cfg.scannerOptions(), scanner.WithProgress(observe))...)
	slog.InfoContext(ctx, "Scanning corpus",
		"source", job.Samples[0].Key,
		"strategy", s.Strategy().Name(),
		"workers", cfg.workers)
	summary := job.NewSummary()
	var matches []scanner.Match
	for m := range job.Scan(ctx, s) {
		summary.Add(m)
		matches = append(matches, m)
	}
	finish()

	worker.LogScanResult(ctx, req, summary, ctx.Err())
	if err := ctx.Err(); err != nil {
		return err
	}

	if notificationTopic != nil {
		completion := notification.NewScanCompletion(req.Corpus, req.Reference, matches, summary)
		if err := notification.PublishScanCompletion(ctx, notificationTopic, completion); err != nil {
			return err
		}
	}

	msg.Ack()
	return nil
}

func messageLoop(ctx context.Context, cfg *config) error {
	sub, err := pubsub.OpenSubscription(ctx, cfg.subURL)
	if err != nil {
		return err
	}
	defer sub.Shutdown(ctx)

	extender, err := pubsubextender.New(ctx, cfg.subURL, sub)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Subscription deadline extender",
		"deadline", extender.Deadline,
		"grace_period", extender.GracePeriod)

	// Without a topic no completion notifications are published.
	var notificationTopic *pubsub.Topic
	if cfg.notificationTopicURL != "" {
		notificationTopic, err = pubsub.OpenTopic(ctx, cfg.notificationTopicURL)
		if err != nil {
			return err
		}
		defer notificationTopic.Shutdown(ctx)
	}

	slog.InfoContext(ctx, "Listening for messages to process...")
	for {
		msg, err := sub.Receive(ctx)
		if err != nil {
			// All subsequent receive calls will return the same error, so we bail out.
			return fmt.Errorf("error receiving message: %w", err)
		}

		if err := handleMessage(ctx, msg, cfg, extender, notificationTopic); err != nil {
			slog.ErrorContext(ctx, "Failed to process message", "error", err)
		}
	}
}

func main() {
	ctx := context.Background()

	log.Initialize(os.Getenv("LOGGER_ENV"))

	cfg, err := configFromEnv()
	if err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}
	if err := featureflags.Update(cfg.features); err != nil {
		slog.Error("Failed to parse feature flags", "error", err)
		os.Exit(1)
	}

	// Log the configuration of the worker at startup so we can observe it.
	slog.InfoContext(ctx, "Starting worker", "log_env", log.Env(), "config", cfg)

	if err := messageLoop(ctx, cfg); err != nil {
		slog.ErrorContext(ctx, "Error encountered", "error", err)
	}
}

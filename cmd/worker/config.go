package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/ossf/binpattern/internal/scanner"
)

type config struct {
	subURL               string
	notificationTopicURL string

	search   scanner.Strategy
	workers  int
	features string
}

func (c *config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("subscription", c.subURL),
		slog.String("topic_notification", c.notificationTopicURL),
		slog.String("search", c.search.Name()),
		slog.Int("workers", c.workers),
		slog.String("features", c.features),
	)
}

// scannerOptions returns the options every scan of the worker uses.
func (c *config) scannerOptions() []scanner.Option {
	return []scanner.Option{scanner.WithSearch(c.search), scanner.WithWorkers(c.workers)}
}

func configFromEnv() (*config, error) {
	c := &config{
		subURL:               os.Getenv("BINPATTERN_WORKER_SUBSCRIPTION"),
		notificationTopicURL: os.Getenv("BINPATTERN_NOTIFICATION_TOPIC"),
		search:               scanner.Naive,
		workers:              1,
		features:             os.Getenv("BINPATTERN_FEATURES"),
	}
	if s := os.Getenv("BINPATTERN_SEARCH"); s != "" {
		strategy, err := scanner.StrategyFromString(s)
		if err != nil {
			return nil, fmt.Errorf("BINPATTERN_SEARCH: %w", err)
		}
		c.search = strategy
	}
	if s := os.Getenv("BINPATTERN_WORKERS"); s != "" {
		workers, err := strconv.Atoi(s)
		if err != nil || workers < 1 {
			return nil, fmt.Errorf("BINPATTERN_WORKERS: invalid worker count %q", s)
		}
		c.workers = workers
	}
	return c, nil
}

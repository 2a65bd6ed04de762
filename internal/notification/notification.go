package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"gocloud.dev/pubsub"

	"github.com/ossf/binpattern/internal/report"
	"github.com/ossf/binpattern/internal/scanner"
	"github.com/ossf/binpattern/pkg/notification"
)

// NewScanCompletion builds the completion message for a scan of corpus
// excluding reference.
func NewScanCompletion(corpus, reference string, matches []scanner.Match, summary *report.Summary) notification.ScanCompletion {
	patterns := make([]notification.Pattern, len(matches))
	for i, m := range matches {
		patterns[i] = notification.Pattern{Hex: report.Hex(m.Pattern), Count: m.Count}
	}
	return notification.ScanCompletion{
		Corpus:        corpus,
		PatternLength: summary.PatternLength,
		Reference:     reference,
		Patterns:      patterns,
		Summary: notification.Summary{
			Blobs:         summary.Blobs,
			PatternLength: summary.PatternLength,
			Patterns:      summary.Patterns,
			FullCoverage:  summary.FullCoverage,
			Counts:        summary.Counts,
			BlobSize:      notification.BlobSize(summary.BlobSize),
		},
	}
}

func PublishScanCompletion(ctx context.Context, notificationTopic *pubsub.Topic, completion notification.ScanCompletion) error {
	notificationMsg, err := json.Marshal(completion)
	if err != nil {
		return fmt.Errorf("failed to encode completion notification: %w", err)
	}
	err = notificationTopic.Send(ctx, &pubsub.Message{
		Body: notificationMsg,
		Metadata: map[string]string{
			"corpus":         completion.Corpus,
			"pattern_length": fmt.Sprint(completion.PatternLength),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send completion notification: %w", err)
	}
	return nil
}

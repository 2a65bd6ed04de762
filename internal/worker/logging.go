package worker

import (
	"context"
	"log/slog"

	"github.com/ossf/binpattern/internal/log"
	"github.com/ossf/binpattern/internal/report"
)

/*
NOTE: These strings may be referenced externally by log based metrics, and so
should be changed with care.
*/
const (
	gotRequestLogMsg   = "Got request"
	scanCompleteLogMsg = "Scan completed successfully"
	scanAbortedLogMsg  = "Scan aborted"
	scanSkippedLogMsg  = "Scan skipped"
)

// LogRequest records that a scan request was received.
func LogRequest(ctx context.Context, req Request) {
	slog.InfoContext(ctx, gotRequestLogMsg,
		log.LabelAttr("corpus", req.Corpus),
		log.LabelAttr("reference", req.Reference),
		"request", req)
}

// LogScanSkipped records that a request had nothing to scan.
func LogScanSkipped(ctx context.Context, req Request, err error) {
	slog.WarnContext(ctx, scanSkippedLogMsg,
		log.LabelAttr("corpus", req.Corpus),
		"reason", err)
}

// LogScanResult records the outcome of a scan. A non-nil err means the scan
// stopped before visiting every offset.
func LogScanResult(ctx context.Context, req Request, summary *report.Summary, err error) {
	if err != nil {
		slog.WarnContext(ctx, scanAbortedLogMsg,
			log.LabelAttr("corpus", req.Corpus),
			"summary", summary,
			"error", err)
		return
	}
	slog.InfoContext(ctx, scanCompleteLogMsg,
		log.LabelAttr("corpus", req.Corpus),
		"summary", summary)
}

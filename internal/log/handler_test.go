package log_test

import (
	"context"
	"log/slog"
	"testing"
)

// recordingHandler keeps every record it is asked to handle.
type recordingHandler struct {
	records []slog.Record
}

func (h *recordingHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *recordingHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *recordingHandler) last() slog.Record {
	if len(h.records) == 0 {
		return slog.Record{}
	}
	return h.records[len(h.records)-1]
}

func (h *recordingHandler) messages() []string {
	var msgs []string
	for _, r := range h.records {
		msgs = append(msgs, r.Message)
	}
	return msgs
}

func assertRecordAttrs(t *testing.T, r slog.Record, attrs []slog.Attr) {
	t.Helper()

	if got, want := r.NumAttrs(), len(attrs); got != want {
		t.Errorf("record.NumAttrs() = %v; want %v", got, want)
	}

	r.Attrs(func(a slog.Attr) bool {
		for _, attr := range attrs {
			if a.Equal(attr) {
				return true
			}
		}
		t.Errorf("unexpected attr %v", a)
		return true
	})
}

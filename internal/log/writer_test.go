package log_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/exp/slices"

	"github.com/ossf/binpattern/internal/log"
)

func writeAll(t *testing.T, w io.WriteCloser, chunks ...string) {
	t.Helper()
	for i, c := range chunks {
		if _, err := io.Copy(w, strings.NewReader(c)); err != nil {
			t.Fatalf("Writing #%d failed: %v", i+1, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v; want nil", err)
	}
}

func TestNewWriter(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
	}{
		{
			name:   "single line",
			chunks: []string{"loaded 3 .text blobs"},
			want:   []string{"loaded 3 .text blobs"},
		},
		{
			name:   "trailing newline",
			chunks: []string{"loaded 3 .text blobs\n"},
			want:   []string{"loaded 3 .text blobs"},
		},
		{
			name:   "multi line",
			chunks: []string{"one\ntwo\nthree\nfour"},
			want:   []string{"one", "two", "three", "four"},
		},
		{
			name:   "empty lines swallowed",
			chunks: []string{"one\ntwo\n\nfour"},
			want:   []string{"one", "two", "four"},
		},
		{
			name:   "trailing spaces trimmed",
			chunks: []string{"one    \ntwo \t \f \v \n\t\t\t\t\nfour"},
			want:   []string{"one", "two", "four"},
		},
		{
			name:   "carriage return progress",
			chunks: []string{"progress: 10%\rprogress: 20%\rprogress: 30%\r"},
			want:   []string{"progress: 10%", "progress: 20%", "progress: 30%"},
		},
		{
			name:   "multiple writes",
			chunks: []string{"one\ntwo\n\nfourty ", "two\n...\ndone"},
			want:   []string{"one", "two", "fourty two", "...", "done"},
		},
		{
			name:   "empty",
			chunks: []string{""},
			want:   nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := &recordingHandler{}
			w := log.NewWriter(context.Background(), slog.New(h), slog.LevelInfo)

			writeAll(t, w, test.chunks...)

			if got := h.messages(); !slices.Equal(got, test.want) {
				t.Errorf("Got log entries = %q; want %q", got, test.want)
			}
		})
	}
}

func TestNewWriter_Level(t *testing.T) {
	h := &recordingHandler{}
	w := log.NewWriter(context.Background(), slog.New(h), slog.LevelDebug)

	writeAll(t, w, "scan progress\n")

	if len(h.records) != 1 {
		t.Fatalf("Got %d log entries; want 1", len(h.records))
	}
	if got := h.records[0].Level; got != slog.LevelDebug {
		t.Errorf("Level = %v; want %v", got, slog.LevelDebug)
	}
}

package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"unicode"
)

// NewWriter returns an io.WriteCloser that turns every line written to it into
// a single log entry at level. Carriage returns are treated as line breaks so
// that terminal-style progress output ("42%\r") becomes one entry per update.
//
// Close() flushes a trailing partial line.
func NewWriter(ctx context.Context, logger *slog.Logger, level slog.Level) io.WriteCloser {
	return &lineWriter{
		ctx:    ctx,
		logger: logger,
		level:  level,
	}
}

type lineWriter struct {
	ctx     context.Context
	logger  *slog.Logger
	level   slog.Level
	pending bytes.Buffer
}

// Write implements the io.Writer interface.
func (w *lineWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		i := bytes.IndexAny(p, "\r\n")
		if i == -1 {
			n, err := w.pending.Write(p)
			return written + n, err
		}
		n, err := w.pending.Write(p[:i])
		written += n
		if err != nil {
			return written, err
		}
		// consume the line break itself
		p = p[i+1:]
		written++
		w.flush()
	}
	return written, nil
}

func (w *lineWriter) flush() {
	line := bytes.TrimRightFunc(w.pending.Bytes(), unicode.IsSpace)
	if len(line) > 0 {
		w.logger.Log(w.ctx, w.level, string(line))
	}
	w.pending.Reset()
}

// Close implements the io.Closer interface.
func (w *lineWriter) Close() error {
	if w.pending.Len() > 0 {
		w.flush()
	}
	return nil
}

// Package report renders scan matches for people and machines.
package report

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ossf/binpattern/internal/scanner"
)

// FullCoverageMarker is appended to lines whose pattern occurs in every
// corpus Blob.
const FullCoverageMarker = " !!!!!!!!!!!"

// Hex renders patt as lowercase hexadecimal without separators.
func Hex(patt scanner.Pattern) string {
	return hex.EncodeToString(patt)
}

// IsFullCoverage reports whether m was found in all total Blobs.
func IsFullCoverage(m scanner.Match, total int) bool {
	return total > 0 && m.Count == total
}

// Line formats m as "{count} of {total} {hex}", marked when the pattern
// covers the whole corpus.
func Line(m scanner.Match, total int) string {
	line := fmt.Sprintf("%d of %d %s", m.Count, total, Hex(m.Pattern))
	if IsFullCoverage(m, total) {
		line += FullCoverageMarker
	}
	return line
}

// Printer writes one line per match.
type Printer struct {
	w       io.Writer
	total   int
	full    *color.Color
	summary *Summary
}

type (
	Option interface{ set(*Printer) }
	option func(*Printer) // option implements Option.
)

func (o option) set(p *Printer) { o(p) }

// WithColor renders full-coverage lines in bold red. Colour is off by
// default and does not depend on whether w is a terminal.
func WithColor(enabled bool) Option {
	return option(func(p *Printer) {
		if enabled {
			p.full.EnableColor()
		} else {
			p.full.DisableColor()
		}
	})
}

// WithSummary records every printed match in s.
func WithSummary(s *Summary) Option {
	return option(func(p *Printer) { p.summary = s })
}

// NewPrinter returns a Printer for a corpus of total Blobs.
func NewPrinter(w io.Writer, total int, options ...Option) *Printer {
	p := &Printer{
		w:     w,
		total: total,
		full:  color.New(color.FgRed, color.Bold),
	}
	p.full.DisableColor()
	for _, o := range options {
		o.set(p)
	}
	return p
}

// Print writes the line for m.
func (p *Printer) Print(m scanner.Match) error {
	if p.summary != nil {
		p.summary.Add(m)
	}
	line := Line(m, p.total)
	if IsFullCoverage(m, p.total) {
		line = p.full.Sprint(line)
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

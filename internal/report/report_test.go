package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ossf/binpattern/internal/report"
	"github.com/ossf/binpattern/internal/scanner"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name  string
		match scanner.Match
		total int
		want  string
	}{
		{
			name:  "partial",
			match: scanner.Match{Pattern: scanner.Pattern{0xaa, 0xbb, 0xcc}, Count: 1},
			total: 2,
			want:  "1 of 2 aabbcc",
		},
		{
			name:  "full coverage",
			match: scanner.Match{Pattern: scanner.Pattern{0xaa, 0xbb, 0xcc}, Count: 2},
			total: 2,
			want:  "2 of 2 aabbcc !!!!!!!!!!!",
		},
		{
			name:  "leading zero bytes",
			match: scanner.Match{Pattern: scanner.Pattern{0x00, 0x0f, 0x10}, Count: 3},
			total: 10,
			want:  "3 of 10 000f10",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := report.Line(test.match, test.total); got != test.want {
				t.Errorf("Line() = %q; want %q", got, test.want)
			}
		})
	}
}

func TestPrinter(t *testing.T) {
	matches := []scanner.Match{
		{Offset: 0, Pattern: scanner.Pattern{0xaa, 0xbb, 0xcc}, Count: 2},
		{Offset: 1, Pattern: scanner.Pattern{0xbb, 0xcc, 0xdd}, Count: 1},
	}

	var buf bytes.Buffer
	p := report.NewPrinter(&buf, 2)
	for _, m := range matches {
		if err := p.Print(m); err != nil {
			t.Fatalf("Print() = %v", err)
		}
	}
	want := "2 of 2 aabbcc !!!!!!!!!!!\n1 of 2 bbccdd\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q; want %q", got, want)
	}
}

func TestPrinter_Color(t *testing.T) {
	full := scanner.Match{Pattern: scanner.Pattern{0xaa, 0xbb, 0xcc}, Count: 2}
	partial := scanner.Match{Pattern: scanner.Pattern{0xbb, 0xcc, 0xdd}, Count: 1}

	var buf bytes.Buffer
	p := report.NewPrinter(&buf, 2, report.WithColor(true))
	if err := p.Print(full); err != nil {
		t.Fatalf("Print() = %v", err)
	}
	if err := p.Print(partial); err != nil {
		t.Fatalf("Print() = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines; want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "\x1b[") || !strings.Contains(lines[0], report.Line(full, 2)) {
		t.Errorf("full coverage line = %q; want it coloured", lines[0])
	}
	if lines[1] != report.Line(partial, 2) {
		t.Errorf("partial line = %q; want %q", lines[1], report.Line(partial, 2))
	}
}

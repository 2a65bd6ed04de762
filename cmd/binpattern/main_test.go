package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ossf/binpattern/internal/binfile/binfiletest"
	"github.com/ossf/binpattern/internal/corpus"
	"github.com/ossf/binpattern/internal/utils"
	"github.com/ossf/binpattern/internal/worker"
)

func TestParsePatternLength(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{arg: "15", want: 15},
		{arg: "1", want: 1},
		{arg: "0", wantErr: true},
		{arg: "-3", wantErr: true},
		{arg: "ten", wantErr: true},
		{arg: "", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.arg, func(t *testing.T) {
			got, err := parsePatternLength(test.arg)
			if (err != nil) != test.wantErr {
				t.Fatalf("parsePatternLength(%q) error = %v; wantErr %v", test.arg, err, test.wantErr)
			}
			if got != test.want {
				t.Errorf("parsePatternLength(%q) = %d; want %d", test.arg, got, test.want)
			}
		})
	}
}

func TestNothingToScan(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no error", err: nil, want: nil},
		{name: "no files", err: worker.ErrNoFiles, want: worker.ErrNoFiles},
		{name: "no blobs", err: worker.ErrNoBlobs, want: worker.ErrNoBlobs},
		{
			name: "wrapped reference",
			err:  fmt.Errorf("%w: %w", worker.ErrNoReference, corpus.ErrNoCode),
			want: worker.ErrNoReference,
		},
		{name: "other error", err: errors.New("bucket unavailable"), want: nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := nothingToScan(test.err); got != test.want {
				t.Errorf("nothingToScan(%v) = %v; want %v", test.err, got, test.want)
			}
		})
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() = %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() = %v", err)
	}
}

func TestPrintSampleInfo(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "samples")
	sample := binfiletest.WithCode([]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee})
	notes := []byte("plain text")
	writeFile(t, filepath.Join(root, "a.bin"), sample)
	writeFile(t, filepath.Join(root, "notes.bin"), notes)
	refPath := filepath.Join(dir, "clean.exe")
	writeFile(t, refPath, binfiletest.WithCode([]byte{0x00, 0x00, 0x00}))

	ctx := context.Background()
	job, err := worker.LoadJob(ctx, worker.Request{Corpus: root, Reference: refPath, PatternLength: 3})
	if err != nil {
		t.Fatalf("LoadJob() = %v", err)
	}

	var buf bytes.Buffer
	if err := printSampleInfo(ctx, &buf, job); err != nil {
		t.Fatalf("printSampleInfo() = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("printSampleInfo() wrote %d lines; want 3:\n%s", len(lines), buf.String())
	}

	wantPrefixes := []string{
		fmt.Sprintf("a.bin %s %d bytes ", utils.GetSHA256Hash(sample), len(sample)),
		fmt.Sprintf("notes.bin %s %d bytes: ", utils.GetSHA256Hash(notes), len(notes)),
		refPath + " ",
	}
	for i, want := range wantPrefixes {
		if !strings.HasPrefix(lines[i], want) {
			t.Errorf("line %d = %q; want prefix %q", i, lines[i], want)
		}
	}
	if !strings.Contains(lines[0], job.Samples[0].Info.String()) {
		t.Errorf("line 0 = %q; want binary info %q", lines[0], job.Samples[0].Info)
	}
	if !strings.HasSuffix(lines[2], "(reference)") {
		t.Errorf("line 2 = %q; want reference marker", lines[2])
	}
}

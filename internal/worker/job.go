package worker

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/ossf/binpattern/internal/corpus"
	"github.com/ossf/binpattern/internal/report"
	"github.com/ossf/binpattern/internal/scanner"
)

var (
	// ErrNoFiles means the corpus root holds no file with a wanted extension.
	ErrNoFiles = errors.New("no files")

	// ErrNoBlobs means none of the discovered files has a code section.
	ErrNoBlobs = errors.New("no .text blobs found")

	// ErrNoReference means the reference sample could not be loaded.
	ErrNoReference = errors.New("runtime not valid or not found")
)

// Request describes one scan.
type Request struct {
	// Corpus is the root holding the samples, a local directory or a bucket URL.
	Corpus string

	// Reference is the clean sample, a local path or an object URL.
	Reference string

	PatternLength int

	// Extensions selects which corpus files are samples. Empty means
	// corpus.DefaultExtension.
	Extensions []string
}

func (r Request) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("corpus", r.Corpus),
		slog.String("reference", r.Reference),
		slog.Int("pattern_length", r.PatternLength),
		slog.String("extensions", strings.Join(r.Extensions, ",")),
	)
}

// Job is a Request whose samples have been loaded.
type Job struct {
	Request Request
	// Files holds every discovered key, including those without code.
	Files     []string
	Samples   []corpus.Sample
	Reference corpus.Sample
}

// LoadJob discovers and loads the corpus and the reference of req.
//
// The returned error wraps ErrNoFiles, ErrNoBlobs or ErrNoReference when the
// scan has nothing to work with.
func LoadJob(ctx context.Context, req Request) (*Job, error) {
	keys, err := corpus.Discover(ctx, req.Corpus, req.Extensions)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, ErrNoFiles
	}

	samples, err := corpus.Load(ctx, req.Corpus, keys)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoBlobs
	}

	ref, err := corpus.LoadReference(ctx, req.Reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoReference, err)
	}

	slog.DebugContext(ctx, "Loaded scan job",
		"files", len(keys),
		"samples", len(samples),
		"source", samples[0].Key)

	return &Job{
		Request:   req,
		Files:     keys,
		Samples:   samples,
		Reference: ref,
	}, nil
}

// Corpus returns the code Blobs of the job. The first one is the enumeration
// source.
func (j *Job) Corpus() scanner.Corpus {
	return corpus.Blobs(j.Samples)
}

// Scan runs s over the job.
func (j *Job) Scan(ctx context.Context, s *scanner.Scanner) iter.Seq[scanner.Match] {
	blobs := j.Corpus()
	return s.Scan(ctx, blobs[0], blobs, j.Reference.Blob, j.Request.PatternLength)
}

// NewSummary returns an empty summary for the job.
func (j *Job) NewSummary() *report.Summary {
	return report.NewSummary(j.Corpus(), j.Request.PatternLength)
}

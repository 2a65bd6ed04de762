/*
Package scanner mines a corpus of code Blobs for fixed-length byte patterns.

Every window of length n taken from the enumeration source is a candidate.
Candidates that look like padding are dropped (see IsDegenerate), the rest are
counted across the corpus and reported unless the reference Blob, typically
the code of a clean build using the same runtime, also contains them.
*/
package scanner

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

// Blob is the code section of one sample. Blobs are never modified.
type Blob []byte

// Corpus is an ordered list of Blobs. By convention the first Blob is the
// enumeration source.
type Corpus []Blob

// Pattern is a window of the enumeration source.
type Pattern []byte

// Match is a pattern that survived filtering, together with the number of
// corpus Blobs containing it.
//
// Pattern aliases the source Blob; copy it to keep it beyond the source.
type Match struct {
	Offset  int
	Pattern Pattern
	Count   int
}

// Progress reports how many of the Total source offsets have been evaluated.
type Progress struct {
	Done  int
	Total int
}

// Percent returns the completed share of the scan in whole percent.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 100
	}
	return p.Done * 100 / p.Total
}

// parallelBlockSize is the number of offsets evaluated per worker between two
// ordered flushes of results.
const parallelBlockSize = 4096

type Scanner struct {
	strategy Strategy
	progress func(Progress)
	workers  int
}

type (
	Option interface{ set(*Scanner) }
	option func(*Scanner) // option implements Option.
)

func (o option) set(s *Scanner) { o(s) }

// WithSearch selects the substring search strategy. The default is Naive.
func WithSearch(strategy Strategy) Option {
	return option(func(s *Scanner) { s.strategy = strategy })
}

// WithProgress installs an observer that is called each time the completed
// percentage changes and once when the scan finishes. It is called from the
// goroutine consuming the scan results.
func WithProgress(observer func(Progress)) Option {
	return option(func(s *Scanner) { s.progress = observer })
}

// WithWorkers evaluates offsets on k goroutines. Results are still produced
// in offset order. Values below 2 keep the scan on the calling goroutine.
func WithWorkers(k int) Option {
	return option(func(s *Scanner) { s.workers = k })
}

func New(options ...Option) *Scanner {
	s := &Scanner{
		strategy: Naive,
		workers:  1,
	}
	for _, o := range options {
		o.set(s)
	}
	return s
}

// Strategy returns the search strategy used by s.
func (s *Scanner) Strategy() Strategy {
	return s.strategy
}

type progressTracker struct {
	observer    func(Progress)
	total       int
	lastPercent int
}

func newProgressTracker(total int, observer func(Progress)) *progressTracker {
	return &progressTracker{observer: observer, total: total, lastPercent: -1}
}

func (t *progressTracker) update(done int) {
	if t.observer == nil {
		return
	}
	p := Progress{Done: done, Total: t.total}
	if pct := p.Percent(); pct != t.lastPercent || done == t.total {
		t.lastPercent = pct
		t.observer(p)
	}
}

// scanState holds the prepared inputs of one scan.
type scanState struct {
	source    Blob
	n         int
	haystacks []Haystack
	reference Haystack
}

// evaluate applies the filters to the window at offset i.
func (st *scanState) evaluate(i int) (Match, bool) {
	patt := Pattern(st.source[i : i+st.n : i+st.n])
	if IsDegenerate(patt, st.n) {
		return Match{}, false
	}
	count := CountOccurrences(patt, st.haystacks)
	if count == 0 {
		return Match{}, false
	}
	if st.reference.Contains(patt) {
		return Match{}, false
	}
	return Match{Offset: i, Pattern: patt, Count: count}, true
}

/*
Scan returns the sequence of patterns of length n taken from source that occur
in at least one Blob of corpus and nowhere in reference.

Offsets are visited in increasing order over [0, len(source)-n). The same byte
sequence is produced once per offset it occurs at. corpus should contain
source; a pattern is then always counted at least once.

The sequence is empty when n <= 0 or len(source) <= n. The scan stops early
when ctx is cancelled; callers check ctx.Err() to tell a cancelled scan from
a complete one.
*/
func (s *Scanner) Scan(ctx context.Context, source Blob, corpus Corpus, reference Blob, n int) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		if n <= 0 || len(source) <= n {
			return
		}

		st := &scanState{
			source:    source,
			n:         n,
			haystacks: IndexCorpus(s.strategy, corpus),
			reference: s.strategy.Index(reference),
		}
		total := len(source) - n
		tracker := newProgressTracker(total, s.progress)

		if s.workers < 2 {
			s.scanSerial(ctx, st, total, tracker, yield)
		} else {
			s.scanParallel(ctx, st, total, tracker, yield)
		}
	}
}

func (s *Scanner) scanSerial(ctx context.Context, st *scanState, total int, tracker *progressTracker, yield func(Match) bool) {
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			return
		}
		tracker.update(i)
		if m, ok := st.evaluate(i); ok {
			if !yield(m) {
				return
			}
		}
	}
	tracker.update(total)
}

func (s *Scanner) scanParallel(ctx context.Context, st *scanState, total int, tracker *progressTracker, yield func(Match) bool) {
	block := parallelBlockSize * s.workers
	matches := make([]Match, block)
	found := make([]bool, block)

	for start := 0; start < total; start += block {
		end := min(start+block, total)
		clear(found)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for lo := start; lo < end; lo += parallelBlockSize {
			hi := min(lo+parallelBlockSize, end)
			g.Go(func() error {
				for i := lo; i < hi; i++ {
					if err := gctx.Err(); err != nil {
						return err
					}
					matches[i-start], found[i-start] = st.evaluate(i)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return
		}

		for i := 0; i < end-start; i++ {
			if ctx.Err() != nil {
				return
			}
			if found[i] && !yield(matches[i]) {
				return
			}
		}
		tracker.update(end)
	}
}

package scanner

import (
	"bytes"
	"fmt"
	"index/suffixarray"
	"strings"
)

// Haystack answers containment queries against one Blob.
type Haystack interface {
	// Contains reports whether patt occurs anywhere in the Blob.
	Contains(patt Pattern) bool
}

// Strategy prepares Blobs for containment queries. The scanner depends only
// on this interface so the search algorithm can change without touching the
// filtering rules.
type Strategy interface {
	Name() string
	Index(b Blob) Haystack
}

var (
	// Naive searches every Blob linearly for each pattern.
	Naive Strategy = naiveStrategy{}

	// SuffixArray builds a suffix array per Blob once, making each lookup
	// logarithmic in the Blob size. Memory use is several times the corpus
	// size.
	SuffixArray Strategy = suffixArrayStrategy{}
)

// Strategies lists the available search strategies.
func Strategies() []Strategy {
	return []Strategy{Naive, SuffixArray}
}

// StrategyFromString returns the strategy with the given name.
func StrategyFromString(name string) (Strategy, error) {
	for _, s := range Strategies() {
		if strings.EqualFold(s.Name(), name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown search strategy %q", name)
}

type naiveStrategy struct{}

func (naiveStrategy) Name() string { return "naive" }

func (naiveStrategy) Index(b Blob) Haystack { return naiveHaystack(b) }

type naiveHaystack []byte

func (h naiveHaystack) Contains(patt Pattern) bool {
	return bytes.Contains(h, patt)
}

type suffixArrayStrategy struct{}

func (suffixArrayStrategy) Name() string { return "suffixarray" }

func (suffixArrayStrategy) Index(b Blob) Haystack {
	return &suffixArrayHaystack{index: suffixarray.New(b)}
}

type suffixArrayHaystack struct {
	index *suffixarray.Index
}

func (h *suffixArrayHaystack) Contains(patt Pattern) bool {
	return len(h.index.Lookup(patt, 1)) > 0
}

// IndexCorpus prepares every Blob of corpus with strategy, in corpus order.
func IndexCorpus(strategy Strategy, corpus Corpus) []Haystack {
	haystacks := make([]Haystack, len(corpus))
	for i, b := range corpus {
		haystacks[i] = strategy.Index(b)
	}
	return haystacks
}

// CountOccurrences returns how many haystacks contain patt at least once.
// Each haystack is asked a single existence question; repeated occurrences
// within one Blob count once.
func CountOccurrences(patt Pattern, haystacks []Haystack) int {
	count := 0
	for _, h := range haystacks {
		if h.Contains(patt) {
			count++
		}
	}
	return count
}

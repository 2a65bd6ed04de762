package report

import (
	"log/slog"

	"github.com/montanaflynn/stats"

	"github.com/ossf/binpattern/internal/scanner"
	"github.com/ossf/binpattern/pkg/valuecounts"
)

// SizeStats describes the distribution of Blob sizes in bytes.
type SizeStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
}

// Summary aggregates the matches of one scan.
type Summary struct {
	Blobs         int                     `json:"blobs"`
	PatternLength int                     `json:"pattern_length"`
	Patterns      int                     `json:"patterns"`
	FullCoverage  int                     `json:"full_coverage"`
	Counts        valuecounts.ValueCounts `json:"counts"`
	BlobSize      SizeStats               `json:"blob_size"`
}

// NewSummary prepares a Summary for a scan with window length n over corpus.
func NewSummary(corpus scanner.Corpus, n int) *Summary {
	sizes := make([]int, len(corpus))
	for i, b := range corpus {
		sizes[i] = len(b)
	}
	return &Summary{
		Blobs:         len(corpus),
		PatternLength: n,
		Counts:        valuecounts.New(),
		BlobSize:      sizeStats(sizes),
	}
}

func sizeStats(sizes []int) SizeStats {
	data := stats.LoadRawData(sizes)
	if data.Len() == 0 {
		return SizeStats{}
	}
	// Errors are only returned for empty input, handled above.
	minimum, _ := stats.Min(data)
	maximum, _ := stats.Max(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	stdDev, _ := stats.StandardDeviation(data)
	return SizeStats{
		Min:    minimum,
		Max:    maximum,
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
	}
}

// Add records m.
func (s *Summary) Add(m scanner.Match) {
	s.Patterns++
	s.Counts.Add(m.Count)
	if IsFullCoverage(m, s.Blobs) {
		s.FullCoverage++
	}
}

// LogValue implements the slog.LogValuer interface.
func (s *Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("blobs", s.Blobs),
		slog.Int("pattern_length", s.PatternLength),
		slog.Int("patterns", s.Patterns),
		slog.Int("full_coverage", s.FullCoverage),
		slog.Any("counts", s.Counts.ToPairs()),
		slog.Group("blob_size",
			slog.Float64("min", s.BlobSize.Min),
			slog.Float64("max", s.BlobSize.Max),
			slog.Float64("mean", s.BlobSize.Mean),
			slog.Float64("median", s.BlobSize.Median),
			slog.Float64("stddev", s.BlobSize.StdDev)),
	)
}

// Package notification defines the messages published when a scan finishes.
package notification

import (
	"encoding/json"
	"fmt"

	"gocloud.dev/pubsub"

	"github.com/ossf/binpattern/pkg/valuecounts"
)

// Pattern is one reported byte pattern.
type Pattern struct {
	Hex   string `json:"hex"`
	Count int    `json:"count"`
}

// BlobSize describes the distribution of code section sizes in bytes.
type BlobSize struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
}

// Summary aggregates the patterns of one scan.
type Summary struct {
	Blobs         int                     `json:"blobs"`
	PatternLength int                     `json:"pattern_length"`
	Patterns      int                     `json:"patterns"`
	FullCoverage  int                     `json:"full_coverage"`
	Counts        valuecounts.ValueCounts `json:"counts"`
	BlobSize      BlobSize                `json:"blob_size"`
}

// ScanCompletion is the message sent to notify that a scan of a corpus
// has completed.
type ScanCompletion struct {
	Corpus        string    `json:"corpus"`
	PatternLength int       `json:"pattern_length"`
	Reference     string    `json:"reference"`
	Patterns      []Pattern `json:"patterns"`
	Summary       Summary   `json:"summary"`
}

// ParseJSON takes in a notification JSON and returns a ScanCompletion struct.
func ParseJSON(msg *pubsub.Message) (ScanCompletion, error) {
	notification := ScanCompletion{}
	if err := json.Unmarshal(msg.Body, &notification); err != nil {
		return notification, fmt.Errorf("error unmarshalling json: %w", err)
	}
	return notification, nil
}

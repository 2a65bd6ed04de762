package notification

import (
	"reflect"
	"testing"

	"gocloud.dev/pubsub"

	"github.com/ossf/binpattern/pkg/valuecounts"
)

func TestParseJSON(t *testing.T) {
	body := `{
		"corpus": "samples/",
		"pattern_length": 15,
		"reference": "clean.bin",
		"patterns": [{"hex": "4889e5", "count": 3}],
		"summary": {"blobs": 3, "pattern_length": 15, "patterns": 1, "full_coverage": 1,
			"counts": [{"value": 3, "count": 1}],
			"blob_size": {"min": 10, "max": 30, "mean": 20, "median": 20, "stddev": 8}}
	}`
	got, err := ParseJSON(&pubsub.Message{Body: []byte(body)})
	if err != nil {
		t.Fatalf("ParseJSON() = %v", err)
	}
	want := ScanCompletion{
		Corpus:        "samples/",
		PatternLength: 15,
		Reference:     "clean.bin",
		Patterns:      []Pattern{{Hex: "4889e5", Count: 3}},
		Summary: Summary{
			Blobs:         3,
			PatternLength: 15,
			Patterns:      1,
			FullCoverage:  1,
			Counts:        valuecounts.ValueCounts{3: 1},
			BlobSize:      BlobSize{Min: 10, Max: 30, Mean: 20, Median: 20, StdDev: 8},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseJSON() = %+v; want %+v", got, want)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	for _, body := range []string{"", "{", `{"pattern_length": "15"}`, `{"summary": {"counts": [{"value": 1}, {"value": 1}]}}`} {
		if _, err := ParseJSON(&pubsub.Message{Body: []byte(body)}); err == nil {
			t.Errorf("ParseJSON(%q) = nil error; want error", body)
		}
	}
}

package valuecounts

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ValueCounts stores unordered counts of integer values as a map
// from value (int) to count (int). It can be serialized to JSON
// as an array of (value, count) pairs.
type ValueCounts map[int]int

// Pair stores a single value and associated count pair
type Pair struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

func New() ValueCounts {
	return ValueCounts{}
}

// Add records one more occurrence of value.
func (vc ValueCounts) Add(value int) {
	vc[value]++
}

// ToPairs converts this ValueCounts into a list of (value, count) pairs.
// The values are sorted in increasing order so that the output is deterministic.
// If this ValueCounts is empty, returns an empty slice.
func (vc ValueCounts) ToPairs() []Pair {
	pairs := make([]Pair, 0, len(vc))

	values := maps.Keys(vc)
	slices.Sort(values)

	for _, value := range values {
		pairs = append(pairs, Pair{Value: value, Count: vc[value]})
	}

	return pairs
}

// FromPairs converts a list of (value, count) pairs back into ValueCounts.
// If the same value occurs multiple times in the list, an error is raised.
func FromPairs(pairs []Pair) (ValueCounts, error) {
	valueCounts := New()

	for _, item := range pairs {
		if _, seen := valueCounts[item.Value]; seen {
			return nil, fmt.Errorf("value occurs multiple times: %d", item.Value)
		}
		valueCounts[item.Value] = item.Count
	}

	return valueCounts, nil
}

// MarshalJSON serialises this ValueCounts into a JSON array of {value, count} pairs.
func (vc ValueCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(vc.ToPairs())
}

// UnmarshalJSON decodes data produced by MarshalJSON. Existing counts are
// discarded. If any error is encountered, vc is not modified.
func (vc *ValueCounts) UnmarshalJSON(data []byte) error {
	var pairs []Pair

	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}

	valueCounts, err := FromPairs(pairs)
	if err != nil {
		return err
	}

	*vc = valueCounts
	return nil
}

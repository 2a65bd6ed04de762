// Package binfile reads the parts of an executable container that the pattern
// miner needs: the raw bytes of the code section and a handful of header
// fields used to describe a sample.
//
// Only PE images are understood.
package binfile

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/Binject/debug/pe"
)

// CodeSectionPrefix is matched against section names to find the code section.
const CodeSectionPrefix = ".text"

var (
	// ErrNotExecutable is returned when data cannot be parsed as a PE image.
	ErrNotExecutable = errors.New("not a valid executable")

	// ErrNoCodeSection is returned when the image has no usable code section.
	ErrNoCodeSection = errors.New("no code section")
)

// open parses data as a PE image. The parser panics on some malformed
// headers, which is turned into ErrNotExecutable.
func open(data []byte) (f *pe.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			f = nil
			err = fmt.Errorf("%w: parser panic: %v", ErrNotExecutable, r)
		}
	}()

	f, err = pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotExecutable, err)
	}
	return f, nil
}

// ExtractCode returns the raw bytes of the first section whose name begins
// with CodeSectionPrefix.
//
// A section whose raw data lies outside data is skipped, and the search
// continues with the next matching section. An empty section counts as absent.
// The returned slice aliases data.
func ExtractCode(data []byte) ([]byte, error) {
	f, err := open(data)
	if err != nil {
		return nil, err
	}

	for _, s := range f.Sections {
		if !strings.HasPrefix(s.Name, CodeSectionPrefix) {
			continue
		}
		start := uint64(s.Offset)
		end := start + uint64(s.Size)
		if end > uint64(len(data)) {
			continue
		}
		if start == end {
			break
		}
		return data[start:end], nil
	}

	return nil, ErrNoCodeSection
}

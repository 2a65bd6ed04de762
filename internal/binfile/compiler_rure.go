//go:build rure

package binfile

import (
	"github.com/BurntSushi/rure-go"
)

// rureMatcher runs toolchain signatures on Rust's regex engine.
// Build with -tags rure and librure installed.
type rureMatcher struct {
	re *rure.Regex
}

func (m rureMatcher) match(data []byte) bool {
	return m.re.IsMatch(string(data))
}

func compileSignature(expr string) (matcher, error) {
	re, err := rure.Compile(expr)
	if err != nil {
		return nil, err
	}
	return rureMatcher{re: re}, nil
}

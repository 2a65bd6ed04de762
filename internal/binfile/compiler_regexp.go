//go:build !rure

package binfile

import "regexp"

type regexpMatcher struct {
	re *regexp.Regexp
}

func (m regexpMatcher) match(data []byte) bool {
	return m.re.Match(data)
}

func compileSignature(expr string) (matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return regexpMatcher{re: re}, nil
}

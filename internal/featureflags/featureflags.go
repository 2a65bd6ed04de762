package featureflags

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUndefinedFlag = errors.New("undefined feature flag")

var flagRegistry = make(map[string]*FeatureFlag)

// FeatureFlag stores the state for a single flag.
//
// Call Enabled() to see if the flag is enabled.
type FeatureFlag struct {
	isEnabled bool
}

// new registers the flag and sets the default enabled state.
func new(name string, defaultEnabled bool) *FeatureFlag {
	ff := &FeatureFlag{
		isEnabled: defaultEnabled,
	}
	flagRegistry[name] = ff
	return ff
}

// Enabled returns whether or not the feature is enabled.
func (ff *FeatureFlag) Enabled() bool {
	return ff.isEnabled
}

// Update changes the internal state of the flags based on flags passed in.
//
// flags is a comma separated list of flag names. If a flag name is present it
// will be enabled. If a flag name is preceded with a "-" character it will be
// disabled. Surrounding whitespace and empty entries are ignored.
//
// For example: "ColorOutput,-CompressedSamples" enables "ColorOutput" and
// disables "CompressedSamples".
//
// If a flag is undefined an error wrapping ErrUndefinedFlag is returned and
// no flag state is changed.
func Update(flags string) error {
	if strings.TrimSpace(flags) == "" {
		return nil
	}
	updates := make(map[*FeatureFlag]bool)
	for _, n := range strings.Split(flags, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		isEnabled := true
		if n[0] == '-' {
			isEnabled = false
			n = n[1:]
		}
		ff, ok := flagRegistry[n]
		if !ok {
			return fmt.Errorf("%w %q", ErrUndefinedFlag, n)
		}
		updates[ff] = isEnabled
	}
	for ff, isEnabled := range updates {
		ff.isEnabled = isEnabled
	}
	return nil
}

// State returns a representation of the flags that are enabled and disabled.
func State() map[string]bool {
	s := make(map[string]bool)
	for k, v := range flagRegistry {
		s[k] = v.Enabled()
	}
	return s
}

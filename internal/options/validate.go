// Package options holds validation helpers shared by the functional-option
// constructors of the public packages.
package options

import "github.com/erraggy/oasconnect/oaserrors"

// ValidateSingleInputSource checks that exactly one input source was chosen.
// pkg prefixes the message and hint names the options that select a source.
func ValidateSingleInputSource(pkg, hint string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}
	switch {
	case count == 0:
		return &oaserrors.ConfigError{Option: "input", Message: pkg + ": must specify an input source (use " + hint + ")"}
	case count > 1:
		return &oaserrors.ConfigError{Option: "input", Message: pkg + ": must specify exactly one input source"}
	}
	return nil
}

// ValidatePositive rejects negative limits; zero means "use the default".
func ValidatePositive(option string, value int) error {
	if value < 0 {
		return &oaserrors.ConfigError{Option: option, Value: value, Message: "must not be negative"}
	}
	return nil
}

package loaders

import "fmt"

// ConfigError reports a malformed scene or options file. Token is the
// 1-based position of the offending token in a scene file, or 0 when the
// error is not tied to a token.
type ConfigError struct {
	Token int
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Token > 0 {
		return fmt.Sprintf("token %d (%s): %v", e.Token, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

package record

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingEnv is reported when a placeholder had no value in the environment.
	ErrMissingEnv = errors.New("environment variable is not set")
	// ErrMalformedURL is reported when a network URL is not an absolute RPC address.
	ErrMalformedURL = errors.New("malformed RPC URL")
	// ErrMalformedKey is reported when an account is not a 32-byte hex private key.
	ErrMalformedKey = errors.New("malformed private key")
	// ErrInvalidCompilerVersion is reported when the compiler version is not a semantic version.
	ErrInvalidCompilerVersion = errors.New("invalid compiler version")
	// ErrNoNetworks is reported when the record defines no networks.
	ErrNoNetworks = errors.New("no networks defined")
	// ErrUnsupportedFormat is returned for definition files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported definition format")
)

// ValidationError locates a single validation problem inside a Record.
type ValidationError struct {
	Network string
	Field   string
	Err     error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Network == "" && e.Field == "":
		return e.Err.Error()
	case e.Network == "":
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("networks.%s.%s: %v", e.Network, e.Field, e.Err)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

package record

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/Masterminds/semver/v3"
)

var rpcSchemes = map[string]struct{}{
	"http":  {},
	"https": {},
	"ws":    {},
	"wss":   {},
}

// Validate checks the record before anything reaches the network. It returns
// nil or a joined error of *ValidationError values: missing environment values
// first, then the remaining problems in network name order. Fields whose
// placeholder was never resolved are only reported as ErrMissingEnv.
func (r Record) Validate() error {
	var errs []error
	missing := r.missingFields()

	for _, p := range r.Unresolved {
		errs = append(errs, &ValidationError{
			Network: p.Network,
			Field:   p.Field,
			Err:     fmt.Errorf("%w: %s", ErrMissingEnv, p.Variable),
		})
	}

	if _, skip := missing[[2]string{"", "solidity"}]; !skip {
		if _, err := semver.NewVersion(r.CompilerVersion); err != nil {
			errs = append(errs, &ValidationError{
				Field: "solidity",
				Err:   fmt.Errorf("%w %q: %v", ErrInvalidCompilerVersion, r.CompilerVersion, err),
			})
		}
	}

	if len(r.Networks) == 0 {
		errs = append(errs, &ValidationError{Field: "networks", Err: ErrNoNetworks})
	}

	for _, name := range r.NetworkNames() {
		endpoint := r.Networks[name]

		if _, skip := missing[[2]string{name, "url"}]; !skip {
			if err := validateURL(endpoint.URL); err != nil {
				errs = append(errs, &ValidationError{Network: name, Field: "url", Err: err})
			}
		}

		for i, account := range endpoint.Accounts {
			field := fmt.Sprintf("accounts[%d]", i)
			if _, skip := missing[[2]string{name, field}]; skip {
				continue
			}
			if _, err := ParseKey(account); err != nil {
				errs = append(errs, &ValidationError{Network: name, Field: field, Err: err})
			}
		}
	}

	return errors.Join(errs...)
}

// Problems flattens the result of Validate into one message per problem.
func (r Record) Problems() []string {
	err := r.Validate()
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}
	errs := joined.Unwrap()
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty", ErrMalformedURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if _, ok := rpcSchemes[u.Scheme]; !ok {
		return fmt.Errorf("%w: unsupported scheme %q", ErrMalformedURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrMalformedURL)
	}
	return nil
}

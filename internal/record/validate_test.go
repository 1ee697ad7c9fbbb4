package record

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDefaultWithEnvironment(t *testing.T) {
	t.Parallel()

	rec := Load(mapLookup(map[string]string{
		RinkebyURLEnv: testRinkebyURL,
		RinkebyKeyEnv: testRinkebyKey,
	}))
	if err := rec.Validate(); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
	if problems := rec.Problems(); problems != nil {
		t.Fatalf("expected no problems, got %v", problems)
	}
}

func TestValidateReportsMissingEnvironmentOnly(t *testing.T) {
	t.Parallel()

	rec := Load(nil)
	err := rec.Validate()
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("expected ErrMissingEnv, got %v", err)
	}
	if errors.Is(err, ErrMalformedURL) || errors.Is(err, ErrMalformedKey) {
		t.Fatalf("unresolved fields should not be reported twice: %v", err)
	}

	problems := rec.Problems()
	if len(problems) != 2 {
		t.Fatalf("expected two problems, got %v", problems)
	}
	if !strings.Contains(problems[0], RinkebyKeyEnv) || !strings.Contains(problems[1], RinkebyURLEnv) {
		t.Fatalf("unexpected problem order: %v", problems)
	}
}

func TestValidateReportsEmptyEnvironmentAsMissing(t *testing.T) {
	t.Parallel()

	rec := Load(mapLookup(map[string]string{
		RinkebyURLEnv: "",
		RinkebyKeyEnv: "",
	}))
	err := rec.Validate()
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("expected ErrMissingEnv, got %v", err)
	}
	if errors.Is(err, ErrMalformedURL) || errors.Is(err, ErrMalformedKey) {
		t.Fatalf("empty values should only be reported as missing: %v", err)
	}
	if problems := rec.Problems(); len(problems) != 2 {
		t.Fatalf("expected two problems, got %v", problems)
	}
}

func TestValidateTaxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rec     Record
		wantErr error
		field   string
	}{
		{
			name: "BadScheme",
			rec: Record{CompilerVersion: "0.8.0", Networks: map[string]NetworkEndpoint{
				"dev": {URL: "ftp://localhost:8545"},
			}},
			wantErr: ErrMalformedURL,
			field:   "url",
		},
		{
			name: "MissingHost",
			rec: Record{CompilerVersion: "0.8.0", Networks: map[string]NetworkEndpoint{
				"dev": {URL: "http://"},
			}},
			wantErr: ErrMalformedURL,
			field:   "url",
		},
		{
			name: "EmptyURL",
			rec: Record{CompilerVersion: "0.8.0", Networks: map[string]NetworkEndpoint{
				"dev": {URL: ""},
			}},
			wantErr: ErrMalformedURL,
			field:   "url",
		},
		{
			name: "ShortKey",
			rec: Record{CompilerVersion: "0.8.0", Networks: map[string]NetworkEndpoint{
				"dev": {URL: "ws://localhost:8546", Accounts: []string{"0x1234"}},
			}},
			wantErr: ErrMalformedKey,
			field:   "accounts[0]",
		},
		{
			name: "CompilerVersion",
			rec: Record{CompilerVersion: "latest", Networks: map[string]NetworkEndpoint{
				"dev": {URL: "http://localhost:8545"},
			}},
			wantErr: ErrInvalidCompilerVersion,
			field:   "solidity",
		},
		{
			name:    "NoNetworks",
			rec:     Record{CompilerVersion: "0.8.0"},
			wantErr: ErrNoNetworks,
			field:   "networks",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Network: "rinkeby", Field: "url", Err: ErrMalformedURL}
	if got, want := err.Error(), "networks.rinkeby.url: malformed RPC URL"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	err = &ValidationError{Field: "solidity", Err: ErrInvalidCompilerVersion}
	if got, want := err.Error(), "solidity: invalid compiler version"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

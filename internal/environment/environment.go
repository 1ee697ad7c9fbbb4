// Package environment provides the lookup capability used to resolve record
// placeholders: the process environment layered over optional dotenv files.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/alexjait/AuditBookContract/internal/record"
)

// New builds a lookup from the process environment and the given dotenv files.
// Process variables win over file values, and earlier files win over later
// ones. Files that do not exist are skipped.
func New(dotenvPaths ...string) (record.Lookup, error) {
	fileValues := make(map[string]string)

	for _, path := range dotenvPaths {
		if path == "" {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read dotenv %s: %w", path, err)
		}
		for key, value := range values {
			if _, exists := fileValues[key]; !exists {
				fileValues[key] = value
			}
		}
	}

	return layered(os.LookupEnv, FromMap(fileValues)), nil
}

// FromMap returns a lookup backed by a copy of values.
func FromMap(values map[string]string) record.Lookup {
	snapshot := make(map[string]string, len(values))
	for k, v := range values {
		snapshot[k] = v
	}
	return func(key string) (string, bool) {
		v, ok := snapshot[key]
		return v, ok
	}
}

func layered(lookups ...record.Lookup) record.Lookup {
	return func(key string) (string, bool) {
		for _, lookup := range lookups {
			if v, ok := lookup(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a definition file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the definition format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadDefinitionFile reads a YAML or TOML definition from disk.
func LoadDefinitionFile(path string) (Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Definition{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read file: %w", err)
	}

	return ParseDefinition(data, format)
}

// ParseDefinition decodes a definition. A missing solidity key falls back to
// DefaultCompilerVersion; duplicate network names are rejected by the decoders.
func ParseDefinition(data []byte, format Format) (Definition, error) {
	var def Definition

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
			return Definition{}, fmt.Errorf("parse YAML: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &def)
		if err != nil {
			return Definition{}, fmt.Errorf("parse TOML: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Definition{}, fmt.Errorf("parse TOML: unknown key %q", undecoded[0].String())
		}
	default:
		return Definition{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if def.Solidity == "" {
		def.Solidity = DefaultCompilerVersion
	}
	if def.Networks == nil {
		def.Networks = map[string]NetworkDefinition{}
	}
	return def, nil
}

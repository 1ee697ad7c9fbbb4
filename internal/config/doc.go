// Package config loads the runtime settings of the toolchain CLI and its HTTP
// surface from multiple sources (YAML files, environment variables, CLI flags)
// with precedence: CLI flags > YAML config > Environment variables > Defaults.
// The configuration record itself lives in package record.
package config

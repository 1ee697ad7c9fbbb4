package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexjait/AuditBookContract/internal/application"
	"github.com/alexjait/AuditBookContract/internal/config"
	"github.com/alexjait/AuditBookContract/internal/probe"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// runShow prints the record. Signing keys are replaced by addresses unless reveal is set.
func runShow(w io.Writer, cfg config.Config, format string, reveal bool) error {
	rec, err := application.LoadRecord(cfg)
	if err != nil {
		return err
	}
	if !reveal {
		rec = rec.Redacted()
	}

	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// runValidate prints one line per problem and reports whether the record is valid.
// Strict mode does not apply here: the point is to list every problem.
func runValidate(w io.Writer, cfg config.Config) (bool, error) {
	rec, err := application.NewLoader(cfg)()
	if err != nil {
		return false, err
	}

	problems := rec.Problems()
	if len(problems) == 0 {
		_, err := fmt.Fprintf(w, "ok: %d networks, solidity %s\n", len(rec.Networks), rec.CompilerVersion)
		return true, err
	}
	for _, problem := range problems {
		if _, err := fmt.Fprintln(w, problem); err != nil {
			return false, err
		}
	}
	return false, nil
}

// runProbe prints the chain id of every network and reports whether all answered.
func runProbe(ctx context.Context, w io.Writer, cfg config.Config, prober *probe.Prober) (bool, error) {
	rec, err := application.LoadRecord(cfg)
	if err != nil {
		return false, err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NETWORK\tCHAIN ID\tLATENCY\tSTATUS")

	allOK := true
	for _, result := range prober.Probe(ctx, rec) {
		switch {
		case result.OK():
			fmt.Fprintf(tw, "%s\t%s\t%s\tok\n", result.Network, result.ChainID, result.Latency.Round(time.Millisecond))
		case errors.Is(result.Err, probe.ErrEmptyURL):
			allOK = false
			fmt.Fprintf(tw, "%s\t-\t-\tskipped: %v\n", result.Network, result.Err)
		default:
			allOK = false
			fmt.Fprintf(tw, "%s\t-\t-\tfailed: %v\n", result.Network, result.Err)
		}
	}

	return allOK, tw.Flush()
}

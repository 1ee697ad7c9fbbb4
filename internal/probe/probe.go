// Package probe asks each configured network endpoint for its chain id so a
// broken URL surfaces before any deployment is attempted.
package probe

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/alexjait/AuditBookContract/internal/record"
)

// ErrEmptyURL marks networks skipped because their URL resolved to nothing.
var ErrEmptyURL = errors.New("network has no RPC URL")

// ChainIDReader is the subset of the ethclient API used by the prober.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// DialFunc opens a client for an RPC URL.
type DialFunc func(ctx context.Context, rawURL string) (ChainIDReader, error)

// Result is the outcome of probing one network.
type Result struct {
	Network string        `json:"network" yaml:"network"`
	URL     string        `json:"url" yaml:"url"`
	ChainID *big.Int      `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	Latency time.Duration `json:"latency" yaml:"latency"`
	Err     error         `json:"-" yaml:"-"`
}

// OK reports whether the endpoint answered.
func (r Result) OK() bool {
	return r.Err == nil
}

// Prober checks RPC endpoints one network at a time.
type Prober struct {
	dial    DialFunc
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Prober. A nil dial uses ethclient.DialContext.
func New(dial DialFunc, timeout time.Duration, logger *zap.Logger) *Prober {
	if dial == nil {
		dial = dialEthclient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{dial: dial, timeout: timeout, logger: logger}
}

func dialEthclient(ctx context.Context, rawURL string) (ChainIDReader, error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Probe queries every network in name order. Each network gets its own
// timeout; cancelling ctx stops the remaining probes.
func (p *Prober) Probe(ctx context.Context, rec record.Record) []Result {
	names := rec.NetworkNames()
	results := make([]Result, 0, len(names))

	for _, name := range names {
		endpoint := rec.Networks[name]
		result := Result{Network: name, URL: endpoint.URL}

		if err := ctx.Err(); err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		if endpoint.URL == "" {
			result.Err = ErrEmptyURL
			results = append(results, result)
			continue
		}

		start := time.Now()
		chainID, err := p.chainID(ctx, endpoint.URL)
		result.Latency = time.Since(start)
		result.ChainID = chainID
		result.Err = err

		if err != nil {
			p.logger.Warn("network probe failed", zap.String("network", name), zap.Error(err))
		} else {
			p.logger.Info("network probe succeeded",
				zap.String("network", name),
				zap.String("chain_id", chainID.String()),
				zap.Duration("latency", result.Latency),
			)
		}
		results = append(results, result)
	}

	return results
}

func (p *Prober) chainID(ctx context.Context, rawURL string) (*big.Int, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	client, err := p.dial(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer client.Close()

	id, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	return id, nil
}

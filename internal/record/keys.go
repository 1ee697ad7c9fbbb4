package record

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	keyHexLength = 64

	redactedUnset   = "<unset>"
	redactedInvalid = "<invalid>"
)

// ParseKey decodes a 32-byte hex private key with an optional 0x prefix.
func ParseKey(raw string) (*ecdsa.PrivateKey, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if len(trimmed) != keyHexLength {
		return nil, fmt.Errorf("%w: expected %d hex characters, got %d", ErrMalformedKey, keyHexLength, len(trimmed))
	}
	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return key, nil
}

// KeyAddress returns the checksummed address controlled by the private key.
func KeyAddress(raw string) (string, error) {
	key, err := ParseKey(raw)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// Addresses derives the account addresses of every network. Entries that are
// unset or not valid keys are reported with a marker instead of an address.
func (r Record) Addresses() map[string][]string {
	out := make(map[string][]string, len(r.Networks))
	for name, endpoint := range r.Networks {
		addresses := make([]string, 0, len(endpoint.Accounts))
		for _, account := range endpoint.Accounts {
			addresses = append(addresses, redactAccount(account))
		}
		out[name] = addresses
	}
	return out
}

// Redacted returns a copy with every signing key replaced by its address.
func (r Record) Redacted() Record {
	out := r.Clone()
	for name, addresses := range r.Addresses() {
		endpoint := out.Networks[name]
		endpoint.Accounts = addresses
		out.Networks[name] = endpoint
	}
	return out
}

func redactAccount(account string) string {
	if account == "" {
		return redactedUnset
	}
	address, err := KeyAddress(account)
	if err != nil {
		return redactedInvalid
	}
	return address
}

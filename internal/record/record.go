package record

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"slices"
)

const (
	// DefaultCompilerVersion is the solidity release used when nothing overrides it.
	DefaultCompilerVersion = "0.8.0"

	// RinkebyURLEnv names the variable holding the rinkeby RPC endpoint.
	RinkebyURLEnv = "ALCHEMY_RINKEBY_URL"
	// RinkebyKeyEnv names the variable holding the rinkeby signing key.
	RinkebyKeyEnv = "RINKEBY_PRIVATE_KEY"

	localhostURL = "http://localhost:8545"
	localhostKey = "0xdf57089febbacf7ba0bc227dafbffa9fc08a93fdc68e1e42411a14efcf23656e"
)

// Placeholder identifies a field whose environment variable was unset or empty.
type Placeholder struct {
	Network  string `json:"network,omitempty" yaml:"network,omitempty"`
	Field    string `json:"field" yaml:"field"`
	Variable string `json:"variable" yaml:"variable"`
}

// DefaultDefinition returns a fresh copy of the built-in template.
func DefaultDefinition() Definition {
	return Definition{
		Solidity: DefaultCompilerVersion,
		Networks: map[string]NetworkDefinition{
			"rinkeby": {
				URL:      "${" + RinkebyURLEnv + "}",
				Accounts: []string{"${" + RinkebyKeyEnv + "}"},
			},
			"localhost": {
				URL:      localhostURL,
				Accounts: []string{localhostKey},
			},
		},
	}
}

// Load resolves the built-in definition against lookup.
func Load(lookup Lookup) Record {
	return Resolve(DefaultDefinition(), lookup)
}

// Resolve substitutes environment placeholders in def. Unset and empty
// variables become empty strings and are listed in Record.Unresolved;
// resolution never fails.
func Resolve(def Definition, lookup Lookup) Record {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}

	r := &resolver{lookup: lookup}
	rec := Record{
		CompilerVersion: r.expand("", "solidity", def.Solidity),
		Networks:        make(map[string]NetworkEndpoint, len(def.Networks)),
	}

	for _, name := range slices.Sorted(maps.Keys(def.Networks)) {
		netDef := def.Networks[name]
		endpoint := NetworkEndpoint{
			URL:      r.expand(name, "url", netDef.URL),
			Accounts: make([]string, 0, len(netDef.Accounts)),
		}
		for i, account := range netDef.Accounts {
			endpoint.Accounts = append(endpoint.Accounts, r.expand(name, fmt.Sprintf("accounts[%d]", i), account))
		}
		rec.Networks[name] = endpoint
	}

	slices.SortFunc(r.missing, comparePlaceholders)
	rec.Unresolved = slices.Compact(r.missing)
	return rec
}

type resolver struct {
	lookup  Lookup
	missing []Placeholder
}

func (r *resolver) expand(network, field, value string) string {
	return os.Expand(value, func(name string) string {
		v, ok := r.lookup(name)
		if !ok || v == "" {
			r.missing = append(r.missing, Placeholder{Network: network, Field: field, Variable: name})
		}
		return v
	})
}

// NetworkNames returns the network names in sorted order.
func (r Record) NetworkNames() []string {
	return slices.Sorted(maps.Keys(r.Networks))
}

// Network returns a copy of the named endpoint.
func (r Record) Network(name string) (NetworkEndpoint, bool) {
	endpoint, ok := r.Networks[name]
	if !ok {
		return NetworkEndpoint{}, false
	}
	return endpoint.clone(), true
}

// Clone returns a deep copy that shares no memory with r.
func (r Record) Clone() Record {
	out := Record{
		CompilerVersion: r.CompilerVersion,
		Networks:        make(map[string]NetworkEndpoint, len(r.Networks)),
		Unresolved:      slices.Clone(r.Unresolved),
	}
	for name, endpoint := range r.Networks {
		out.Networks[name] = endpoint.clone()
	}
	return out
}

// Equal reports whether both records hold the same values.
func (r Record) Equal(other Record) bool {
	if r.CompilerVersion != other.CompilerVersion {
		return false
	}
	if !slices.Equal(r.Unresolved, other.Unresolved) {
		return false
	}
	return maps.EqualFunc(r.Networks, other.Networks, func(a, b NetworkEndpoint) bool {
		return a.URL == b.URL && slices.Equal(a.Accounts, b.Accounts)
	})
}

// missingFields indexes Unresolved by network and field.
func (r Record) missingFields() map[[2]string]Placeholder {
	out := make(map[[2]string]Placeholder, len(r.Unresolved))
	for _, p := range r.Unresolved {
		out[[2]string{p.Network, p.Field}] = p
	}
	return out
}

func (e NetworkEndpoint) clone() NetworkEndpoint {
	accounts := make([]string, len(e.Accounts))
	copy(accounts, e.Accounts)
	return NetworkEndpoint{URL: e.URL, Accounts: accounts}
}

func comparePlaceholders(a, b Placeholder) int {
	return cmp.Or(
		cmp.Compare(a.Network, b.Network),
		cmp.Compare(a.Field, b.Field),
		cmp.Compare(a.Variable, b.Variable),
	)
}

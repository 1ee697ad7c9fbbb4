package record

// Lookup resolves an environment variable. os.LookupEnv satisfies it.
type Lookup func(key string) (string, bool)

// NetworkEndpoint describes one deployment target.
type NetworkEndpoint struct {
	URL      string   `json:"url" yaml:"url"`
	Accounts []string `json:"accounts" yaml:"accounts"`
}

// Record is the resolved configuration handed to the toolchain.
// It is never mutated after construction; use Clone for an independent copy.
type Record struct {
	CompilerVersion string                     `json:"solidity" yaml:"solidity"`
	Networks        map[string]NetworkEndpoint `json:"networks" yaml:"networks"`

	// Unresolved lists the fields whose placeholder the lookup could not
	// satisfy or satisfied with an empty value.
	Unresolved []Placeholder `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

// NetworkDefinition is the template form of a NetworkEndpoint.
type NetworkDefinition struct {
	URL      string   `yaml:"url" toml:"url"`
	Accounts []string `yaml:"accounts" toml:"accounts"`
}

// Definition is the unresolved template of a Record. Any string may contain
// ${NAME} or $NAME placeholders.
type Definition struct {
	Solidity string                       `yaml:"solidity" toml:"solidity"`
	Networks map[string]NetworkDefinition `yaml:"networks" toml:"networks"`
}

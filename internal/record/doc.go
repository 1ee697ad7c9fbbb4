// Package record builds the toolchain configuration record: the compiler
// version and the named networks (RPC endpoint plus signing keys) consumed by
// the smart-contract build and deployment tooling. A Definition holds the
// template with environment placeholders; Resolve turns it into a read-only
// Record using an explicit environment lookup.
package record

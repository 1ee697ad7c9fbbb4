// Package application provides application initialization and dependency wiring.
// It builds the record loader from the runtime configuration, and creates the
// storage, handlers, router and HTTP server instances, keeping the main package
// focused on CLI parsing and orchestration.
package application

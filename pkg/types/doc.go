// Package types defines the insert events the reconciliation engine emits,
// the output table schema, the Sink interface and the sink configuration
// shared by the nuclibre packages.
package types

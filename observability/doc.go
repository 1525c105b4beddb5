// Package observability wires OpenTelemetry tracing and metrics for pivot
// execution.
//
// Init functions build OTLP HTTP exporters and install global providers;
// Metrics carries the instruments recorded by pivot runs and threat
// intelligence lookups.
package observability

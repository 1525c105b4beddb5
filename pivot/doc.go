// Package pivot assembles a pivot environment: it discovers providers from
// a namespace, attaches their queries as pivot functions on entity types,
// wires threat-intelligence lookups, and registers the declarative pivots
// shipped in the embedded definition file.
//
// All pivots of one environment share a mutable query window. The window is
// read when a pivot runs, never when it is registered, so changing it
// affects every pivot registered earlier.
package pivot

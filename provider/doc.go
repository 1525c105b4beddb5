// Package provider defines the capability interfaces a pivot environment
// discovers at construction time, and the discovery rules themselves.
//
// Two categories exist. Data providers execute queries against a data
// source and are keyed by their environment name; at most one provider per
// environment survives discovery. Threat-intelligence providers are
// singleton-like: the environment keeps exactly one under the "TILookup"
// key, building the default aggregator when none is supplied.
//
// Concrete production providers live outside this module; pivotkit consumes
// them through these interfaces.
package provider

// Package entity defines the domain entity types that pivot functions
// attach to, and the registry that holds those attachments.
//
// Entities are the nouns of an investigation: hosts, IP addresses,
// accounts, URLs, domains, and file hashes. Pivot functions are registered
// against an entity type name and grouped into named containers ("ti",
// "other", or a data provider's environment name). Registration order is
// preserved within a container; re-registering a container/name pair
// replaces the earlier entry in place.
package entity

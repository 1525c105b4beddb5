package entity

import (
	"context"

	"github.com/skillsenselab/pivotkit/timespan"
)

// Entity is an investigation subject that pivot functions operate on.
type Entity interface {
	// Type returns the entity type name (e.g. "Host", "IpAddress").
	Type() string
	// QueryValue returns the attribute a pivot feeds into a query.
	QueryValue() string
	// Properties returns the entity's attributes for query parameter binding.
	Properties() map[string]any
}

// Builtin entity type names. These match the names used in pivot
// definition files.
const (
	TypeHost      = "Host"
	TypeIPAddress = "IpAddress"
	TypeAccount   = "Account"
	TypeURL       = "Url"
	TypeDNS       = "Dns"
	TypeFileHash  = "FileHash"
)

// PivotFunc executes a pivot query for one entity within a time range.
type PivotFunc func(ctx context.Context, e Entity, ts timespan.TimeSpan) (any, error)

// Pivot is a query function attached to an entity type.
type Pivot struct {
	// Name identifies the pivot within its container.
	Name string
	// Container groups related pivots ("ti", "other", provider environment).
	Container string
	// Source identifies the registration that added the pivot, so a
	// re-constructed environment can replace its own registrations.
	Source string
	// Description is a human-readable summary shown by the pivot browser.
	Description string
	// Run executes the pivot.
	Run PivotFunc
}

// Host is a computer or device.
type Host struct {
	HostName  string
	DNSDomain string
	OS        string
}

func (h Host) Type() string       { return TypeHost }
func (h Host) QueryValue() string { return h.HostName }
func (h Host) Properties() map[string]any {
	return map[string]any{"host_name": h.HostName, "dns_domain": h.DNSDomain, "os": h.OS}
}

// IPAddress is a single IPv4 or IPv6 address.
type IPAddress struct {
	Address string
}

func (ip IPAddress) Type() string       { return TypeIPAddress }
func (ip IPAddress) QueryValue() string { return ip.Address }
func (ip IPAddress) Properties() map[string]any {
	return map[string]any{"address": ip.Address}
}

// Account is a user or service account.
type Account struct {
	Name   string
	Domain string
	SID    string
}

func (a Account) Type() string       { return TypeAccount }
func (a Account) QueryValue() string { return a.Name }
func (a Account) Properties() map[string]any {
	return map[string]any{"name": a.Name, "domain": a.Domain, "sid": a.SID}
}

// URL is a uniform resource locator observed in the environment.
type URL struct {
	URL string
}

func (u URL) Type() string       { return TypeURL }
func (u URL) QueryValue() string { return u.URL }
func (u URL) Properties() map[string]any {
	return map[string]any{"url": u.URL}
}

// DNS is a DNS domain name.
type DNS struct {
	Domain string
}

func (d DNS) Type() string       { return TypeDNS }
func (d DNS) QueryValue() string { return d.Domain }
func (d DNS) Properties() map[string]any {
	return map[string]any{"domain": d.Domain}
}

// FileHash is a file content hash of any common algorithm.
type FileHash struct {
	Hash      string
	Algorithm string
}

func (f FileHash) Type() string       { return TypeFileHash }
func (f FileHash) QueryValue() string { return f.Hash }
func (f FileHash) Properties() map[string]any {
	return map[string]any{"hash": f.Hash, "algorithm": f.Algorithm}
}

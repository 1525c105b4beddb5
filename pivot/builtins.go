package pivot

import (
	"context"
	"net"
	"net/url"
	"strings"

	"github.com/skillsenselab/pivotkit/errors"
	"github.com/skillsenselab/pivotkit/pivotreg"
	"github.com/skillsenselab/pivotkit/timespan"
)

// Builtins returns the handler namespace backing the embedded pivot
// definition file. User namespace entries of the same key take precedence
// during construction.
func Builtins() map[string]any {
	return map[string]any{
		"util.defang_url":        pivotreg.Handler(defangURL),
		"util.url_to_domain":     pivotreg.Handler(urlToDomain),
		"util.domain_components": pivotreg.Handler(domainComponents),
		"util.ip_version":        pivotreg.Handler(ipVersion),
		"util.hash_algo":         pivotreg.Handler(hashAlgo),
	}
}

func requireParam(params map[string]string, name string) (string, error) {
	v, exists := params[name]
	if !exists || v == "" {
		return "", errors.MissingField(name)
	}
	return v, nil
}

// defangURL rewrites a URL so it cannot be followed accidentally.
func defangURL(ctx context.Context, params map[string]string, ts timespan.TimeSpan) (any, error) {
	raw, err := requireParam(params, "url")
	if err != nil {
		return nil, err
	}
	defanged := strings.ReplaceAll(raw, "http", "hxxp")
	defanged = strings.ReplaceAll(defanged, ".", "[.]")
	return defanged, nil
}

func urlToDomain(ctx context.Context, params map[string]string, ts timespan.TimeSpan) (any, error) {
	raw, err := requireParam(params, "url")
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.InvalidInput("url", err.Error())
	}
	host := u.Hostname()
	if host == "" {
		return nil, errors.InvalidInput("url", "no host component")
	}
	return host, nil
}

func domainComponents(ctx context.Context, params map[string]string, ts timespan.TimeSpan) (any, error) {
	domain, err := requireParam(params, "domain")
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.Trim(domain, "."), "."), nil
}

func ipVersion(ctx context.Context, params map[string]string, ts timespan.TimeSpan) (any, error) {
	raw, err := requireParam(params, "ip")
	if err != nil {
		return nil, err
	}
	ip := net.ParseIP(raw)
	if ip == nil {
		return nil, errors.InvalidInput("ip", "not a valid IP address")
	}
	if ip.To4() != nil {
		return "v4", nil
	}
	return "v6", nil
}

func hashAlgo(ctx context.Context, params map[string]string, ts timespan.TimeSpan) (any, error) {
	hash, err := requireParam(params, "hash")
	if err != nil {
		return nil, err
	}
	switch len(hash) {
	case 32:
		return "md5", nil
	case 40:
		return "sha1", nil
	case 64:
		return "sha256", nil
	case 128:
		return "sha512", nil
	}
	return "unknown", nil
}

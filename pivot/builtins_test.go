package pivot

import (
	"context"
	"reflect"
	"testing"

	"github.com/skillsenselab/pivotkit/pivotreg"
	"github.com/skillsenselab/pivotkit/timespan"
)

func callBuiltin(t *testing.T, name string, params map[string]string) (any, error) {
	t.Helper()
	v, ok := Builtins()[name]
	if !ok {
		t.Fatalf("builtin %q not found", name)
	}
	handler, ok := v.(pivotreg.Handler)
	if !ok {
		t.Fatalf("builtin %q is not a handler, got %T", name, v)
	}
	return handler(context.Background(), params, timespan.TimeSpan{})
}

func TestDefangURL(t *testing.T) {
	res, err := callBuiltin(t, "util.defang_url", map[string]string{"url": "https://bad.example.com"})
	if err != nil {
		t.Fatalf("defang_url failed: %v", err)
	}
	if res != "hxxps://bad[.]example[.]com" {
		t.Errorf("unexpected defang: %v", res)
	}
}

func TestURLToDomain(t *testing.T) {
	res, err := callBuiltin(t, "util.url_to_domain", map[string]string{"url": "https://www.example.com/path?q=1"})
	if err != nil {
		t.Fatalf("url_to_domain failed: %v", err)
	}
	if res != "www.example.com" {
		t.Errorf("unexpected domain: %v", res)
	}

	if _, err := callBuiltin(t, "util.url_to_domain", map[string]string{"url": "not-a-url"}); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestDomainComponents(t *testing.T) {
	res, err := callBuiltin(t, "util.domain_components", map[string]string{"domain": "mail.corp.example.com"})
	if err != nil {
		t.Fatalf("domain_components failed: %v", err)
	}
	want := []string{"mail", "corp", "example", "com"}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("expected %v, got %v", want, res)
	}
}

func TestIPVersion(t *testing.T) {
	cases := []struct {
		ip   string
		want string
	}{
		{"192.0.2.1", "v4"},
		{"2001:db8::1", "v6"},
	}
	for _, tc := range cases {
		res, err := callBuiltin(t, "util.ip_version", map[string]string{"ip": tc.ip})
		if err != nil {
			t.Fatalf("ip_version(%s) failed: %v", tc.ip, err)
		}
		if res != tc.want {
			t.Errorf("ip_version(%s) = %v, want %s", tc.ip, res, tc.want)
		}
	}

	if _, err := callBuiltin(t, "util.ip_version", map[string]string{"ip": "not-an-ip"}); err == nil {
		t.Error("expected error for invalid IP")
	}
}

func TestHashAlgo(t *testing.T) {
	cases := []struct {
		length int
		want   string
	}{
		{32, "md5"},
		{40, "sha1"},
		{64, "sha256"},
		{128, "sha512"},
		{10, "unknown"},
	}
	for _, tc := range cases {
		hash := make([]byte, tc.length)
		for i := range hash {
			hash[i] = 'a'
		}
		res, err := callBuiltin(t, "util.hash_algo", map[string]string{"hash": string(hash)})
		if err != nil {
			t.Fatalf("hash_algo failed: %v", err)
		}
		if res != tc.want {
			t.Errorf("hash_algo(len %d) = %v, want %s", tc.length, res, tc.want)
		}
	}
}

func TestBuiltinsRequireParams(t *testing.T) {
	for _, name := range []string{
		"util.defang_url", "util.url_to_domain", "util.domain_components",
		"util.ip_version", "util.hash_algo",
	} {
		if _, err := callBuiltin(t, name, map[string]string{}); err == nil {
			t.Errorf("builtin %s should reject missing params", name)
		}
	}
}

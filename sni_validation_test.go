package sslhs

import "testing"

func TestValidateSNIValidHostnames(t *testing.T) {
	valid := []string{
		"example.com",
		"www.example.com",
		"sub.domain.example.com",
		"test-site.example.com",
		"123.example.com",
		"a-b-c.example.com",
		"xn--nxasmq5b.example.com",
		"a.co",
		"a1.b2.c3.example.com",
	}
	for _, hostname := range valid {
		t.Run(hostname, func(t *testing.T) {
			if err := validateSNI(hostname); err != nil {
				t.Errorf("validateSNI(%q) returned error: %v", hostname, err)
			}
		})
	}
}

func TestValidateSNIInvalidHostnames(t *testing.T) {
	cases := []struct {
		hostname string
		reason   string
	}{
		{"", "empty"},
		{"-example.com", "leading hyphen"},
		{"example-.com", "trailing hyphen"},
		{"exa..mple.com", "consecutive dots"},
		{"192.168.1.1", "IPv4 literal"},
		{"[::1]", "IPv6 literal"},
		{"exa_mple.com", "underscore not allowed"},
	}
	for _, c := range cases {
		t.Run(c.reason, func(t *testing.T) {
			if err := validateSNI(c.hostname); err == nil {
				t.Errorf("validateSNI(%q) expected error for %s, got nil", c.hostname, c.reason)
			}
		})
	}
}

func TestNormalizeSNI(t *testing.T) {
	got := normalizeSNI("EXAMPLE.com.")
	if got != "example.com" {
		t.Errorf("normalizeSNI lowercased+trimmed = %q, want example.com", got)
	}
}

func TestValidateAndNormalizeSNI(t *testing.T) {
	got, err := validateAndNormalizeSNI("WWW.Example.COM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "www.example.com" {
		t.Errorf("got %q, want www.example.com", got)
	}

	if _, err := validateAndNormalizeSNI("bad..host"); err == nil {
		t.Error("expected error for malformed hostname")
	}
}

// Copyright 2017 Google Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sslhs

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// Hostname validation for the server_name extension (RFC 6066 §3), applied
// before the configured SNI callback ever sees the bytes the client sent.
//
// References:
// - RFC 6066 Section 3 (TLS SNI Extension)
// - RFC 1035 Section 2.3.1 (DNS label format)
// - RFC 5891 (IDNA 2008)
// - RFC 952/1123 (hostname restrictions)

const (
	// maxSNIHostnameLength is RFC 1035's 253-octet FQDN limit.
	maxSNIHostnameLength = 253
	// maxSNILabelLength is RFC 1035's 63-octet label limit.
	maxSNILabelLength = 63
)

// sniValidationError describes why a server_name hostname was rejected.
type sniValidationError struct {
	Hostname string
	Reason   string
	Label    string // the offending label, if any
}

func (e *sniValidationError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("sslhs: invalid SNI hostname %q: %s (label: %q)", e.Hostname, e.Reason, e.Label)
	}
	return fmt.Sprintf("sslhs: invalid SNI hostname %q: %s", e.Hostname, e.Reason)
}

// validateSNI checks a server_name hostname per RFC 6066/1035/1123:
//   - non-empty, at most 253 characters, at most 63 per label
//   - labels contain only a-z, A-Z, 0-9, hyphen; no leading/trailing hyphen
//   - no empty labels (consecutive dots); a single trailing dot is ignored
//   - not an IP address literal (RFC 6066 forbids those in server_name)
func validateSNI(hostname string) error {
	if len(hostname) == 0 {
		return &sniValidationError{Hostname: hostname, Reason: "hostname is empty"}
	}

	hostname = strings.TrimSuffix(hostname, ".")

	if len(hostname) > maxSNIHostnameLength {
		return &sniValidationError{
			Hostname: hostname,
			Reason:   fmt.Sprintf("hostname exceeds maximum length of %d characters (got %d)", maxSNIHostnameLength, len(hostname)),
		}
	}

	if isIPAddress(hostname) {
		return &sniValidationError{Hostname: hostname, Reason: "IP addresses are not valid for SNI"}
	}

	labels := strings.Split(hostname, ".")
	for _, label := range labels {
		if err := validateSNILabel(label); err != nil {
			return &sniValidationError{Hostname: hostname, Reason: err.Error(), Label: label}
		}
	}

	return nil
}

func validateSNILabel(label string) error {
	if len(label) == 0 {
		return fmt.Errorf("empty label (consecutive dots)")
	}
	if len(label) > maxSNILabelLength {
		return fmt.Errorf("label exceeds maximum length of %d characters (got %d)", maxSNILabelLength, len(label))
	}
	if label[0] == '-' {
		return fmt.Errorf("label cannot start with hyphen")
	}
	if label[len(label)-1] == '-' {
		return fmt.Errorf("label cannot end with hyphen")
	}
	for i := 0; i < len(label); i++ {
		if !isValidSNILabelChar(label[i]) {
			return fmt.Errorf("invalid character %q at position %d", label[i], i)
		}
	}
	return nil
}

func isValidSNILabelChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-'
}

func isIPAddress(s string) bool {
	if len(s) > 2 && s[0] == '[' && s[len(s)-1] == ']' {
		s = s[1 : len(s)-1]
	}
	if idx := strings.LastIndex(s, "%"); idx > 0 {
		s = s[:idx]
	}
	return net.ParseIP(s) != nil
}

// normalizeSNI lowercases, strips a trailing dot, and converts IDN labels to
// Punycode before the hostname is compared against any configured value or
// handed to the SNI callback.
func normalizeSNI(hostname string) string {
	if len(hostname) == 0 {
		return hostname
	}
	hostname = strings.ToLower(hostname)
	hostname = strings.TrimSuffix(hostname, ".")
	ascii, err := idna.Lookup.ToASCII(hostname)
	if err != nil {
		return hostname
	}
	return ascii
}

// validateAndNormalizeSNI normalizes then validates, returning the
// normalized hostname on success.
func validateAndNormalizeSNI(hostname string) (string, error) {
	normalized := normalizeSNI(hostname)
	if err := validateSNI(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

package sslhs

// Protocol version minor numbers. Major is always 3 for every version this
// engine speaks; only the minor number varies, matching the wire encoding
// (SSLv3 = 3.0, TLS 1.0 = 3.1, TLS 1.1 = 3.2, TLS 1.2 = 3.3).
const (
	MinorSSL30 = 0
	MinorTLS10 = 1
	MinorTLS11 = 2
	MinorTLS12 = 3

	recordMajor = 3
)

// minMinor returns the smaller of two minor-version numbers.
func minMinor(a, b int) int {
	if a < b {
		return a
	}
	return b
}

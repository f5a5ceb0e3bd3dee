// Package hash provides the xxHash64-based fingerprints used to detect
// stale cached tables.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Fingerprint computes a single xxHash64 over an identifier and the parts
// that parameterize its decode (selected column names, in order). Any change
// to the identifier or the selection yields a different fingerprint.
func Fingerprint(id string, parts ...string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(id)
	for _, p := range parts {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(p)
	}

	return d.Sum64()
}

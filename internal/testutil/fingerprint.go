// Package testutil provides test-only helpers shared across this module's
// packages. Fingerprint uses xxHash64 (as arloliu/mebo's internal/hash does
// for metric-name identification) to compare golden corpus files compactly
// in round-trip tests instead of dumping multi-kilobyte diffs on failure.
package testutil

import "github.com/cespare/xxhash/v2"

// Fingerprint returns the xxHash64 digest of data.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

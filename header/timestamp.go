package header

import (
	"fmt"
	"math"
	"time"
)

// decodeTimestamp converts a uint32 "seconds since epoch" field into a UTC
// time, per spec.md §4.3's timestamp encoding.
func decodeTimestamp(secs uint32) time.Time {
	return epoch.Add(time.Duration(secs) * time.Second)
}

// encodeTimestamp converts t into seconds since epoch, returning an error if
// t predates the epoch or falls far enough after it to overflow a uint32
// (around the year 2040), matching the overflow a fixed-width write would
// hit in the source format.
func encodeTimestamp(t time.Time) (uint32, error) {
	secs := t.UTC().Sub(epoch).Seconds()
	if secs < 0 {
		return 0, fmt.Errorf("timestamp %s predates epoch %s", t, epoch)
	}
	if secs > math.MaxUint32 {
		return 0, fmt.Errorf("timestamp %s overflows the uint32 seconds-since-%s field", t, epoch)
	}
	return uint32(secs), nil
}

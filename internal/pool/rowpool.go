// Package pool provides float32-slice pooling for the spectrum codec's
// per-range-cell row reads, adapted from arloliu/mebo's internal/pool
// (ByteBuffer / Get*Slice) for csfile's fixed-width float32 rows instead of
// mebo's variable-length columnar payloads.
package pool

import "sync"

var float32RowPool = sync.Pool{
	New: func() any { return &[]float32{} },
}

// GetFloat32Row retrieves a float32 slice of exactly n elements from the
// pool, reusing capacity when available. The caller must call the returned
// cleanup function (typically via defer) once the row's contents have been
// copied out or otherwise no longer needed.
func GetFloat32Row(n int) ([]float32, func()) {
	ptr, _ := float32RowPool.Get().(*[]float32)
	row := (*ptr)[:0]

	if cap(row) < n {
		row = make([]float32, n)
	} else {
		row = row[:n]
	}
	*ptr = row

	return row, func() { float32RowPool.Put(ptr) }
}

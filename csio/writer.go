package csio

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer performs sequential, unbuffered big-endian writes to an io.Writer.
// Each Write* call writes exactly the declared width; string padding and
// length are entirely the caller's responsibility.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for big-endian scalar writes.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteBytes writes b verbatim.
func (w *Writer) WriteBytes(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

// WriteString writes s as raw ASCII bytes, with no padding or length
// prefix; the caller controls both.
func (w *Writer) WriteString(s string) error {
	return w.WriteBytes([]byte(s))
}

// WriteInt8 writes a single signed 8-bit integer.
func (w *Writer) WriteInt8(v int8) error {
	return w.WriteUint8(uint8(v))
}

// WriteUint8 writes a single unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteBytes([]byte{v})
}

// WriteInt16 writes a single big-endian signed 16-bit integer.
func (w *Writer) WriteInt16(v int16) error {
	return w.WriteUint16(uint16(v))
}

// WriteUint16 writes a single big-endian unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return w.WriteBytes(buf[:])
}

// WriteInt32 writes a single big-endian signed 32-bit integer.
func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

// WriteUint32 writes a single big-endian unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return w.WriteBytes(buf[:])
}

// WriteFloat32 writes a single big-endian IEEE-754 binary32 float.
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteFloat32N writes a slice of float32 values, back to back.
func (w *Writer) WriteFloat32N(vs []float32) error {
	buf := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.BigEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return w.WriteBytes(buf)
}

// WriteFloat64 writes a single big-endian IEEE-754 binary64 float.
func (w *Writer) WriteFloat64(v float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	return w.WriteBytes(buf[:])
}

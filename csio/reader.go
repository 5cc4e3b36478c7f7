// Package csio provides the big-endian binary scalar I/O that every layer of
// the CS file format is built on: fixed-width integers and floats, and
// fixed-length byte strings.
//
// All CS files are big-endian (network byte order); Reader and Writer do not
// take a byte-order parameter because the format never varies it, unlike
// github.com/arloliu/mebo's EndianEngine abstraction which this package's
// shape is otherwise grounded on.
package csio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hfradar/csfile/errs"
)

// Reader performs sequential, unbuffered big-endian reads from an
// io.Reader. It never reads more bytes than a caller explicitly requests, so
// a Reader can safely be followed by other protocol bytes on the same
// stream (e.g. a server's trailing ack byte).
type Reader struct {
	r   io.Reader
	off int64 // bytes consumed so far, reported by Offset and in error messages
}

// NewReader wraps r for big-endian scalar reads.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 { return r.off }

// ReadBytes reads exactly n bytes, returning errs.ErrTruncated if fewer
// remain.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, r.off, errs.ErrTruncated)
	}
	r.off += int64(n)
	return buf, nil
}

// ReadString reads exactly n bytes and decodes them as ASCII/Latin-1,
// stripping trailing NUL bytes.
func (r *Reader) ReadString(n int) (string, error) {
	buf, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	end := len(buf)
	for end > 0 && buf[end-1] == 0 {
		end--
	}
	return string(buf[:end]), nil
}

// ReadInt8 reads a single signed 8-bit integer.
func (r *Reader) ReadInt8() (int8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// ReadUint8 reads a single unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt16 reads a single big-endian signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint16 reads a single big-endian unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadInt32 reads a single big-endian signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint32 reads a single big-endian unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadFloat32 reads a single big-endian IEEE-754 binary32 float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat32N reads n consecutive big-endian float32 values.
func (r *Reader) ReadFloat32N(n int) ([]float32, error) {
	buf, err := r.ReadBytes(n * 4)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(buf[i*4 : i*4+4]))
	}
	return out, nil
}

// ReadFloat64 reads a single big-endian IEEE-754 binary64 float.
func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// Package block implements the v6 tagged-block registry: a mapping from
// 4-character tags to (decoder, encoder) pairs, as specified by spec.md §4.2
// and §6.2. It replaces the original Python implementation's
// subclass-registration-by-side-effect registry (radarqc/reader.py's
// _CSBlockReader.__init_subclass__, radarqc/registry.py's ClassRegistry)
// with an explicit, frozen builder, per spec.md §9's "Global registry"
// design note.
package block

import (
	"github.com/hfradar/csfile/csio"
)

// Tag is a 4-character ASCII block identifier, e.g. "ZONE" or "TIME".
type Tag string

// Decoder reads a block's payload of exactly size bytes from r and returns
// its decoded value. A decoder must consume exactly size bytes; the caller
// (Registry.Decode) enforces this and returns errs.ErrMalformedBlockSection
// if it doesn't.
type Decoder func(r *csio.Reader, size uint32) (any, error)

// Encoder writes v's wire representation to w.
type Encoder func(w *csio.Writer, v any) error

// Codec pairs a block's decoder and encoder.
type Codec struct {
	Decode Decoder
	Encode Encoder
}

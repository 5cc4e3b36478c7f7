package block

import (
	"fmt"

	"github.com/hfradar/csfile/csio"
)

// rawCodec is the byte-passthrough codec used for unknown tags and for the
// built-in tags that carry no structured schema of their own (spec.md
// §4.2): it round-trips a block's payload losslessly without interpreting
// it, which is what makes unknown blocks forward-compatible.
var rawCodec = Codec{Decode: rawDecode, Encode: rawEncode}

func rawDecode(r *csio.Reader, size uint32) (any, error) {
	return r.ReadBytes(int(size))
}

func rawEncode(w *csio.Writer, v any) error {
	b, ok := v.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", v)
	}
	return w.WriteBytes(b)
}

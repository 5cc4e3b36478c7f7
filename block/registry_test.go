package block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hfradar/csfile/csio"
	"github.com/hfradar/csfile/errs"
)

func TestNewRegistry_BuiltinTagsPresent(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	for _, tag := range []Tag{TagTIME, TagZONE, TagCITY, TagLOCA, TagSITD, TagRCVI, TagTOOL, TagGLRM, TagFOLS, TagEND6} {
		_, ok := reg.codecs[tag]
		require.Truef(t, ok, "expected builtin tag %q to be registered", tag)
	}
}

func TestNewRegistry_DuplicateTag(t *testing.T) {
	_, err := NewRegistry(
		WithCodec(TagZONE, rawCodec),
		WithCodec(TagZONE, rawCodec),
	)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrDuplicateTag)
}

func TestRegistry_UnknownTagFallsBackToRaw(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.Write([]byte{1, 2, 3, 4, 5})
	r := csio.NewReader(&buf)

	value, err := reg.Decode("XXXX", r, 5)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5}, value)

	var out bytes.Buffer
	w := csio.NewWriter(&out)
	require.NoError(t, reg.Encode("XXXX", w, value))
	require.Equal(t, []byte{1, 2, 3, 4, 5}, out.Bytes())
}

func TestRegistry_Decode_MalformedSection(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	// TIME's decoder consumes a fixed 31 bytes regardless of the declared
	// size; a mismatched size must surface as malformed.
	timeBytes := bytes.NewBuffer(make([]byte, 31))
	r := csio.NewReader(timeBytes)

	_, err = reg.Decode(TagTIME, r, 30)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrMalformedBlockSection)
}

func TestRegistry_WithCodec_NewTag(t *testing.T) {
	custom := Codec{
		Decode: func(r *csio.Reader, size uint32) (any, error) { return r.ReadBytes(int(size)) },
		Encode: rawEncode,
	}
	reg, err := NewRegistry(WithCodec("ZNEW", custom))
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.WriteByte(0xAB)
	r := csio.NewReader(&buf)
	v, err := reg.Decode("ZNEW", r, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAB}, v)
}

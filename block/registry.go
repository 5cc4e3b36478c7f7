package block

import (
	"fmt"

	"github.com/hfradar/csfile/csio"
	"github.com/hfradar/csfile/errs"
	"github.com/hfradar/csfile/internal/obslog"
	"github.com/hfradar/csfile/internal/options"
)

// Registry maps tags to codecs. It is frozen once built by NewRegistry:
// lookups (Decode/Encode) are safe for concurrent use, but there is no way
// to mutate a Registry after construction, matching spec.md §5's
// requirement that registry writes are not required to be concurrency-safe
// with other writes or readers (there simply are no writes after New).
type Registry struct {
	codecs map[Tag]Codec
}

// RegistryOption configures a Registry under construction.
type RegistryOption = options.Setter[*registryBuilder]

type registryBuilder struct {
	codecs map[Tag]Codec
	log    *obslog.Logger
}

// WithCodec registers a codec for an additional tag. Registering a tag that
// is already present, whether a built-in tag or one added by an earlier
// WithCodec in the same NewRegistry call, is an error; built-in codecs
// cannot be overridden.
func WithCodec(tag Tag, codec Codec) RegistryOption {
	return func(b *registryBuilder) error {
		if _, exists := b.codecs[tag]; exists {
			b.log.Debugw("duplicate block tag registration attempted", "tag", string(tag))
			return fmt.Errorf("tag %q: %w", tag, errs.ErrDuplicateTag)
		}
		b.codecs[tag] = codec
		b.log.Debugw("registered block tag", "tag", string(tag))
		return nil
	}
}

// WithLogger attaches a logger used only during construction, to observe
// registration (and duplicate-registration failures) as they happen.
func WithLogger(l *obslog.Logger) RegistryOption {
	return func(b *registryBuilder) error {
		b.log = l
		return nil
	}
}

// NewRegistry builds a frozen Registry containing the built-in tags from
// spec.md §6.2, plus any additional tags supplied via WithCodec. The
// built-ins are registered before any option is applied, so their
// registration is never logged; options are applied in order, and a logger
// supplied via WithLogger observes only the WithCodec options after it.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{codecs: make(map[Tag]Codec), log: obslog.Noop()}

	for tag, codec := range builtinCodecs() {
		b.codecs[tag] = codec
		b.log.Debugw("registered block tag", "tag", string(tag))
	}

	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return &Registry{codecs: b.codecs}, nil
}

// Decode looks up tag's decoder (falling back to the raw passthrough codec
// for unknown tags) and decodes exactly size bytes from r.
func (reg *Registry) Decode(tag Tag, r *csio.Reader, size uint32) (any, error) {
	codec, ok := reg.codecs[tag]
	if !ok {
		codec = rawCodec
	}

	before := r.Offset()
	value, err := codec.Decode(r, size)
	if err != nil {
		return nil, errs.NewBlockDecodeError(string(tag), err)
	}

	if consumed := r.Offset() - before; consumed != int64(size) {
		return nil, fmt.Errorf("tag %q declared %d bytes but decoder consumed %d: %w",
			tag, size, consumed, errs.ErrMalformedBlockSection)
	}

	return value, nil
}

// Encode looks up tag's encoder (falling back to raw passthrough for
// unknown tags) and writes v's wire representation to w.
func (reg *Registry) Encode(tag Tag, w *csio.Writer, v any) error {
	codec, ok := reg.codecs[tag]
	if !ok {
		codec = rawCodec
	}
	if err := codec.Encode(w, v); err != nil {
		return errs.NewBlockDecodeError(string(tag), err)
	}
	return nil
}

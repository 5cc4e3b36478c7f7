package header

import (
	"bytes"
	"fmt"

	"github.com/hfradar/csfile/block"
	"github.com/hfradar/csfile/csio"
	"github.com/hfradar/csfile/errs"
)

// layerSize is the cumulative header size, in bytes, through the end of
// each version layer's fields and its trailing extent (spec.md §6.1):
// version 1 ends at byte 10, version 2 at 16, and so on through version 5
// at 100. Version 6 has no fixed size of its own; it appends a
// section_size-prefixed tagged-block section after the version-5 layer.
var layerSize = map[int]int{1: 10, 2: 16, 3: 24, 4: 72, 5: 100}

const tagSize = 4

// ReadHeader parses a CS file header from r, resolving v6 blocks against
// reg. Every layer beyond version 1 is gated by the version field read up
// front; a field belongs to the header only if version is high enough to
// have introduced it (spec.md §3, §4.3).
func ReadHeader(r *csio.Reader, reg *block.Registry) (*Header, error) {
	version, err := r.ReadInt16()
	if err != nil {
		return nil, err
	}
	if version < 1 || version > 6 {
		return nil, fmt.Errorf("version %d: %w", version, errs.ErrUnsupportedVersion)
	}
	h := &Header{Version: int(version)}

	// v1: timestamp, extent.
	secs, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	h.Timestamp = decodeTimestamp(secs)
	if _, err := r.ReadInt32(); err != nil { // v1 extent; recorded by the writer, not enforced on read
		return nil, err
	}
	if h.Version == 1 {
		return h, nil
	}

	// v2: cskind, extent.
	cskind, err := r.ReadInt16()
	if err != nil {
		return nil, err
	}
	h.CSKind = int(cskind)
	if _, err := r.ReadInt32(); err != nil {
		return nil, err
	}
	if h.Version == 2 {
		return h, nil
	}

	// v3: site_code, extent.
	if h.SiteCode, err = r.ReadString(4); err != nil {
		return nil, err
	}
	if _, err := r.ReadInt32(); err != nil {
		return nil, err
	}
	if h.Version == 3 {
		return h, nil
	}

	// v4: acquisition/geometry fields, extent.
	if h.CoverMinutes, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	deleted, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	h.DeletedSource = deleted != 0
	override, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	h.OverrideSource = override != 0
	if h.StartFreqMHz, err = r.ReadFloat32(); err != nil {
		return nil, err
	}
	if h.RepFreqMHz, err = r.ReadFloat32(); err != nil {
		return nil, err
	}
	if h.BandwidthKHz, err = r.ReadFloat32(); err != nil {
		return nil, err
	}
	sweepUp, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	h.SweepUp = sweepUp != 0
	numDoppler, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	h.NumDopplerCells = int(numDoppler)
	numRange, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	h.NumRangeCells = int(numRange)
	if h.FirstRangeCell, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if h.RangeCellDistKM, err = r.ReadFloat32(); err != nil {
		return nil, err
	}
	if _, err := r.ReadInt32(); err != nil {
		return nil, err
	}
	if h.Version == 4 {
		return h, nil
	}

	// v5: output/creator metadata, extent.
	if h.OutputInterval, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if h.CreateTypeCode, err = r.ReadString(4); err != nil {
		return nil, err
	}
	if h.CreatorVersion, err = r.ReadString(4); err != nil {
		return nil, err
	}
	if h.NumActiveChannels, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if h.NumSpectraChannels, err = r.ReadInt32(); err != nil {
		return nil, err
	}
	if h.ActiveChannels, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if _, err := r.ReadInt32(); err != nil {
		return nil, err
	}
	if h.Version == 5 {
		return h, nil
	}

	// v6: section_size-prefixed tagged-block loop.
	sectionSize, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	remaining := int64(sectionSize)
	for remaining > 0 {
		tagBytes, err := r.ReadBytes(tagSize)
		if err != nil {
			return nil, err
		}
		tag := block.Tag(tagBytes)
		size, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		consumed := int64(tagSize) + 4 + int64(size)
		if remaining-consumed < 0 {
			return nil, fmt.Errorf("block %q declares %d bytes, overrunning the %d-byte section: %w",
				tag, size, sectionSize, errs.ErrMalformedBlockSection)
		}

		value, err := reg.Decode(tag, r, size)
		if err != nil {
			return nil, err
		}
		h.Blocks = append(h.Blocks, BlockEntry{Tag: tag, Value: value})
		remaining -= consumed
	}
	return h, nil
}

// WriteHeader emits h's wire representation to w, computing every extent and
// the v6 section_size from the actual lengths produced, per spec.md §6.1's
// requirement that extents describe the bytes that were actually written
// rather than a value copied in from the source header.
func WriteHeader(w *csio.Writer, h *Header, reg *block.Registry) error {
	blockBytes, err := encodeBlocks(h.Blocks, reg)
	if err != nil {
		return err
	}

	headerSize := headerSizeFor(h.Version, blockBytes)

	if err := w.WriteInt16(int16(h.Version)); err != nil {
		return err
	}

	secs, err := encodeTimestamp(h.Timestamp)
	if err != nil {
		return err
	}
	if err := w.WriteUint32(secs); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(headerSize - layerSize[1])); err != nil {
		return err
	}
	if h.Version == 1 {
		return nil
	}

	if err := w.WriteInt16(int16(h.CSKind)); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(headerSize - layerSize[2])); err != nil {
		return err
	}
	if h.Version == 2 {
		return nil
	}

	if err := w.WriteString(pad(h.SiteCode, 4)); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(headerSize - layerSize[3])); err != nil {
		return err
	}
	if h.Version == 3 {
		return nil
	}

	if err := w.WriteInt32(h.CoverMinutes); err != nil {
		return err
	}
	if err := w.WriteInt32(boolInt32(h.DeletedSource)); err != nil {
		return err
	}
	if err := w.WriteInt32(boolInt32(h.OverrideSource)); err != nil {
		return err
	}
	if err := w.WriteFloat32(h.StartFreqMHz); err != nil {
		return err
	}
	if err := w.WriteFloat32(h.RepFreqMHz); err != nil {
		return err
	}
	if err := w.WriteFloat32(h.BandwidthKHz); err != nil {
		return err
	}
	if err := w.WriteInt32(boolInt32(h.SweepUp)); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(h.NumDopplerCells)); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(h.NumRangeCells)); err != nil {
		return err
	}
	if err := w.WriteInt32(h.FirstRangeCell); err != nil {
		return err
	}
	if err := w.WriteFloat32(h.RangeCellDistKM); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(headerSize - layerSize[4])); err != nil {
		return err
	}
	if h.Version == 4 {
		return nil
	}

	if err := w.WriteInt32(h.OutputInterval); err != nil {
		return err
	}
	if err := w.WriteString(pad(h.CreateTypeCode, 4)); err != nil {
		return err
	}
	if err := w.WriteString(pad(h.CreatorVersion, 4)); err != nil {
		return err
	}
	if err := w.WriteInt32(h.NumActiveChannels); err != nil {
		return err
	}
	if err := w.WriteInt32(h.NumSpectraChannels); err != nil {
		return err
	}
	if err := w.WriteUint32(h.ActiveChannels); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(headerSize - layerSize[5])); err != nil {
		return err
	}
	if h.Version == 5 {
		return nil
	}

	sectionSize := uint32(headerSize - layerSize[5] - 4)
	if err := w.WriteUint32(sectionSize); err != nil {
		return err
	}
	for i, entry := range h.Blocks {
		if err := w.WriteString(pad(string(entry.Tag), tagSize)); err != nil {
			return err
		}
		if err := w.WriteUint32(uint32(len(blockBytes[i]))); err != nil {
			return err
		}
		if err := w.WriteBytes(blockBytes[i]); err != nil {
			return err
		}
	}
	return nil
}

// encodeBlocks renders each block's payload independently so its length is
// known before any bytes reach w, which headerSizeFor and the section_size
// computation both depend on.
func encodeBlocks(blocks []BlockEntry, reg *block.Registry) ([][]byte, error) {
	out := make([][]byte, len(blocks))
	for i, entry := range blocks {
		var buf bytes.Buffer
		if err := reg.Encode(entry.Tag, csio.NewWriter(&buf), entry.Value); err != nil {
			return nil, err
		}
		out[i] = buf.Bytes()
	}
	return out, nil
}

// headerSizeFor computes the total header size: the fixed size of the
// layers up to min(version, 5), plus, for version 6, the 4-byte
// section_size field and every block's 8-byte (tag, size) prefix plus
// payload.
func headerSizeFor(version int, blockBytes [][]byte) int {
	maxFixedLayer := version
	if maxFixedLayer > 5 {
		maxFixedLayer = 5
	}
	size := layerSize[maxFixedLayer]
	if version == 6 {
		size += 4 // section_size
		for _, b := range blockBytes {
			size += tagSize + 4 + len(b)
		}
	}
	return size
}

func boolInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// pad truncates or zero-pads s to exactly n bytes, matching the format's
// fixed-width ASCII fields.
func pad(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	out := make([]byte, n)
	copy(out, s)
	return string(out)
}

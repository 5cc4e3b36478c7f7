package block

import (
	"fmt"

	"github.com/hfradar/csfile/csio"
)

// Built-in tag names from spec.md §6.2.
const (
	TagTIME Tag = "TIME"
	TagZONE Tag = "ZONE"
	TagCITY Tag = "CITY"
	TagLOCA Tag = "LOCA"
	TagSITD Tag = "SITD"
	TagRCVI Tag = "RCVI"
	TagTOOL Tag = "TOOL"
	TagGLRM Tag = "GLRM"
	TagFOLS Tag = "FOLS"
	TagEND6 Tag = "END6"

	// Opaque tags: recognized by name (per spec.md §6.2) but carry no
	// structured schema of their own, so they share the raw passthrough
	// codec with unknown tags.
	TagSUPI Tag = "SUPI"
	TagSUPM Tag = "SUPM"
	TagSUPP Tag = "SUPP"
	TagANTG Tag = "ANTG"
	TagFWIN Tag = "FWIN"
	TagIQAP Tag = "IQAP"
	TagFILL Tag = "FILL"
	TagWOLS Tag = "WOLS"
	TagBRGR Tag = "BRGR"
)

// TimeBlock is the "TIME" block payload: an acquisition time mark plus
// calendar fields and coverage/offset durations.
type TimeBlock struct {
	TimeMark        uint8
	Year            uint16
	Month           uint8
	Day             uint8
	Hour            uint8
	Minute          uint8
	Seconds         float64
	CoverageSeconds float64
	HoursFromUTC    float64
}

// LocationBlock is the "LOCA" block payload: site coordinates.
type LocationBlock struct {
	Latitude       float64
	Longitude      float64
	AltitudeMeters float64
}

// ReceiverBlock is the "RCVI" block payload: receiver/antenna identification.
type ReceiverBlock struct {
	ReceiverModel   uint32
	AntennaModel    uint32
	ReferenceGainDB float64
	// Firmware is stored on the wire as a fixed 32-byte field; Firmware
	// must be at most 32 bytes to encode.
	Firmware string
}

// GroundLoopRemovalBlock is the "GLRM" block payload: parameters and
// counters from a ground-loop removal pass.
type GroundLoopRemovalBlock struct {
	Method               uint8
	Version              uint8
	NumPointsRemoved     uint32
	NumTimesRemoved      uint32
	NumSegmentsRemoved   uint32
	PointPowerThreshold  float64
	RangePowerThreshold  float64
	RangeBinThreshold    float64
	RemoveDC             bool
}

// FirstOrderLineRow is one row of a "FOLS" block: four first-order-line
// boundary indices for a single range cell.
type FirstOrderLineRow [4]int32

func timeDecode(r *csio.Reader, _ uint32) (any, error) {
	b := TimeBlock{}
	var err error
	if b.TimeMark, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if b.Year, err = r.ReadUint16(); err != nil {
		return nil, err
	}
	if b.Month, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if b.Day, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if b.Hour, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if b.Minute, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if b.Seconds, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	if b.CoverageSeconds, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	if b.HoursFromUTC, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	return b, nil
}

func timeEncode(w *csio.Writer, v any) error {
	b, ok := v.(TimeBlock)
	if !ok {
		return fmt.Errorf("expected TimeBlock, got %T", v)
	}
	for _, step := range []func() error{
		func() error { return w.WriteUint8(b.TimeMark) },
		func() error { return w.WriteUint16(b.Year) },
		func() error { return w.WriteUint8(b.Month) },
		func() error { return w.WriteUint8(b.Day) },
		func() error { return w.WriteUint8(b.Hour) },
		func() error { return w.WriteUint8(b.Minute) },
		func() error { return w.WriteFloat64(b.Seconds) },
		func() error { return w.WriteFloat64(b.CoverageSeconds) },
		func() error { return w.WriteFloat64(b.HoursFromUTC) },
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// asciiDecode keeps the block's raw bytes verbatim, including any trailing
// NUL padding: spec.md §6.1 only guarantees ASCII/Latin-1 content, not NUL
// termination, so stripping trailing NULs here would silently shrink
// block_size on the next encode and shift every extent/section_size after
// it (mirrors original_source/radarqc/reader.py's raw read_bytes(block_size)
// for these tags).
func asciiDecode(r *csio.Reader, size uint32) (any, error) {
	b, err := r.ReadBytes(int(size))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func asciiEncode(w *csio.Writer, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", v)
	}
	return w.WriteString(s)
}

func locationDecode(r *csio.Reader, _ uint32) (any, error) {
	b := LocationBlock{}
	var err error
	if b.Latitude, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	if b.Longitude, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	if b.AltitudeMeters, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	return b, nil
}

func locationEncode(w *csio.Writer, v any) error {
	b, ok := v.(LocationBlock)
	if !ok {
		return fmt.Errorf("expected LocationBlock, got %T", v)
	}
	if err := w.WriteFloat64(b.Latitude); err != nil {
		return err
	}
	if err := w.WriteFloat64(b.Longitude); err != nil {
		return err
	}
	return w.WriteFloat64(b.AltitudeMeters)
}

const firmwareFieldSize = 32

func receiverDecode(r *csio.Reader, _ uint32) (any, error) {
	b := ReceiverBlock{}
	var err error
	if b.ReceiverModel, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if b.AntennaModel, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if b.ReferenceGainDB, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	if b.Firmware, err = r.ReadString(firmwareFieldSize); err != nil {
		return nil, err
	}
	return b, nil
}

func receiverEncode(w *csio.Writer, v any) error {
	b, ok := v.(ReceiverBlock)
	if !ok {
		return fmt.Errorf("expected ReceiverBlock, got %T", v)
	}
	if len(b.Firmware) > firmwareFieldSize {
		return fmt.Errorf("firmware field %q exceeds %d bytes", b.Firmware, firmwareFieldSize)
	}
	if err := w.WriteUint32(b.ReceiverModel); err != nil {
		return err
	}
	if err := w.WriteUint32(b.AntennaModel); err != nil {
		return err
	}
	if err := w.WriteFloat64(b.ReferenceGainDB); err != nil {
		return err
	}
	padded := make([]byte, firmwareFieldSize)
	copy(padded, b.Firmware)
	return w.WriteBytes(padded)
}

func glrmDecode(r *csio.Reader, _ uint32) (any, error) {
	b := GroundLoopRemovalBlock{}
	var err error
	if b.Method, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if b.Version, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if b.NumPointsRemoved, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if b.NumTimesRemoved, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if b.NumSegmentsRemoved, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if b.PointPowerThreshold, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	if b.RangePowerThreshold, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	if b.RangeBinThreshold, err = r.ReadFloat64(); err != nil {
		return nil, err
	}
	dc, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	b.RemoveDC = dc != 0
	return b, nil
}

func glrmEncode(w *csio.Writer, v any) error {
	b, ok := v.(GroundLoopRemovalBlock)
	if !ok {
		return fmt.Errorf("expected GroundLoopRemovalBlock, got %T", v)
	}
	for _, step := range []func() error{
		func() error { return w.WriteUint8(b.Method) },
		func() error { return w.WriteUint8(b.Version) },
		func() error { return w.WriteUint32(b.NumPointsRemoved) },
		func() error { return w.WriteUint32(b.NumTimesRemoved) },
		func() error { return w.WriteUint32(b.NumSegmentsRemoved) },
		func() error { return w.WriteFloat64(b.PointPowerThreshold) },
		func() error { return w.WriteFloat64(b.RangePowerThreshold) },
		func() error { return w.WriteFloat64(b.RangeBinThreshold) },
		func() error {
			if b.RemoveDC {
				return w.WriteUint8(1)
			}
			return w.WriteUint8(0)
		},
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

const folsRowSize = 16 // four int32s

func folsDecode(r *csio.Reader, size uint32) (any, error) {
	if size%folsRowSize != 0 {
		return nil, fmt.Errorf("FOLS block size %d is not a multiple of %d", size, folsRowSize)
	}
	rows := make([]FirstOrderLineRow, size/folsRowSize)
	for i := range rows {
		for j := 0; j < 4; j++ {
			v, err := r.ReadInt32()
			if err != nil {
				return nil, err
			}
			rows[i][j] = v
		}
	}
	return rows, nil
}

func folsEncode(w *csio.Writer, v any) error {
	rows, ok := v.([]FirstOrderLineRow)
	if !ok {
		return fmt.Errorf("expected []FirstOrderLineRow, got %T", v)
	}
	for _, row := range rows {
		for _, x := range row {
			if err := w.WriteInt32(x); err != nil {
				return err
			}
		}
	}
	return nil
}

// builtinCodecs returns the built-in block codecs from spec.md §6.2. The
// opaque tags (SUPI, SUPM, ...) and END6 share the raw passthrough codec:
// END6's role is unspecified by the source and preserved as-seen rather than
// synthesized (spec.md §9).
func builtinCodecs() map[Tag]Codec {
	structured := map[Tag]Codec{
		TagTIME: {Decode: timeDecode, Encode: timeEncode},
		TagZONE: {Decode: asciiDecode, Encode: asciiEncode},
		TagCITY: {Decode: asciiDecode, Encode: asciiEncode},
		TagLOCA: {Decode: locationDecode, Encode: locationEncode},
		TagSITD: {Decode: asciiDecode, Encode: asciiEncode},
		TagRCVI: {Decode: receiverDecode, Encode: receiverEncode},
		TagTOOL: {Decode: asciiDecode, Encode: asciiEncode},
		TagGLRM: {Decode: glrmDecode, Encode: glrmEncode},
		TagFOLS: {Decode: folsDecode, Encode: folsEncode},
	}

	for _, tag := range []Tag{
		TagEND6, TagSUPI, TagSUPM, TagSUPP, TagANTG, TagFWIN, TagIQAP, TagFILL, TagWOLS, TagBRGR,
	} {
		structured[tag] = rawCodec
	}

	return structured
}

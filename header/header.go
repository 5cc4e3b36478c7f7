// Package header implements the layered, version-gated CS file header
// (spec.md §3–4.3, §6.1): versions 1 through 6, each adding fields on top
// of the previous version's, terminated by a self-describing extent and,
// for version 6, an ordered tagged-block section.
package header

import (
	"fmt"
	"strings"
	"time"

	"github.com/hfradar/csfile/block"
)

// epoch is the CS file format's timestamp reference point: midnight,
// January 1 1904, with no timezone (spec.md §4.3 "Timestamp encoding").
var epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

// BlockEntry is one (tag, value) pair from a v6 header's tagged-block
// section, in file order.
type BlockEntry struct {
	Tag   block.Tag
	Value any
}

// Header holds every field a CS file header may carry. Fields introduced by
// a version layer higher than Header.Version are left at their zero value;
// spec.md §3's invariant is that every field introduced up to Version is
// present and well-typed, which this codec enforces by construction (it
// only ever populates fields up to Version).
type Header struct {
	Version int

	// v1
	Timestamp time.Time

	// v2
	CSKind int

	// v3
	SiteCode string

	// v4
	CoverMinutes    int32
	DeletedSource   bool
	OverrideSource  bool
	StartFreqMHz    float32
	RepFreqMHz      float32
	BandwidthKHz    float32
	SweepUp         bool
	NumDopplerCells int
	NumRangeCells   int
	FirstRangeCell  int32
	RangeCellDistKM float32

	// v5
	OutputInterval      int32
	CreateTypeCode      string
	CreatorVersion      string
	NumActiveChannels   int32
	NumSpectraChannels  int32
	ActiveChannels      uint32

	// v6
	Blocks []BlockEntry
}

// HasQuality reports whether a Spectrum decoded against this header should
// carry a quality channel (cskind >= 2, spec.md §3).
func (h *Header) HasQuality() bool {
	return h.CSKind >= 2
}

// Block returns the first block value registered under tag, and whether one
// was found. Blocks are not deduplicated by tag on load (a malformed file
// could repeat a tag); Block returns the first occurrence in file order.
func (h *Header) Block(tag block.Tag) (any, bool) {
	for _, b := range h.Blocks {
		if b.Tag == tag {
			return b.Value, true
		}
	}
	return nil, false
}

// String renders every populated field in version-layer order followed by
// blocks in file order, mirroring radarqc/header.py's CSFileHeader.__repr__.
func (h *Header) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Header:\n")
	fmt.Fprintf(&sb, "- %-24s %v\n", "version", h.Version)
	if h.Version >= 1 {
		fmt.Fprintf(&sb, "- %-24s %v\n", "timestamp", h.Timestamp)
	}
	if h.Version >= 2 {
		fmt.Fprintf(&sb, "- %-24s %v\n", "cskind", h.CSKind)
	}
	if h.Version >= 3 {
		fmt.Fprintf(&sb, "- %-24s %v\n", "site_code", h.SiteCode)
	}
	if h.Version >= 4 {
		fmt.Fprintf(&sb, "- %-24s %v\n", "cover_minutes", h.CoverMinutes)
		fmt.Fprintf(&sb, "- %-24s %v\n", "deleted_source", h.DeletedSource)
		fmt.Fprintf(&sb, "- %-24s %v\n", "override_source", h.OverrideSource)
		fmt.Fprintf(&sb, "- %-24s %v\n", "start_freq_mhz", h.StartFreqMHz)
		fmt.Fprintf(&sb, "- %-24s %v\n", "rep_freq_mhz", h.RepFreqMHz)
		fmt.Fprintf(&sb, "- %-24s %v\n", "bandwidth_khz", h.BandwidthKHz)
		fmt.Fprintf(&sb, "- %-24s %v\n", "sweep_up", h.SweepUp)
		fmt.Fprintf(&sb, "- %-24s %v\n", "num_doppler_cells", h.NumDopplerCells)
		fmt.Fprintf(&sb, "- %-24s %v\n", "num_range_cells", h.NumRangeCells)
		fmt.Fprintf(&sb, "- %-24s %v\n", "first_range_cell", h.FirstRangeCell)
		fmt.Fprintf(&sb, "- %-24s %v\n", "range_cell_dist_km", h.RangeCellDistKM)
	}
	if h.Version >= 5 {
		fmt.Fprintf(&sb, "- %-24s %v\n", "output_interval", h.OutputInterval)
		fmt.Fprintf(&sb, "- %-24s %v\n", "create_type_code", h.CreateTypeCode)
		fmt.Fprintf(&sb, "- %-24s %v\n", "creator_version", h.CreatorVersion)
		fmt.Fprintf(&sb, "- %-24s %v\n", "num_active_channels", h.NumActiveChannels)
		fmt.Fprintf(&sb, "- %-24s %v\n", "num_spectra_channels", h.NumSpectraChannels)
		fmt.Fprintf(&sb, "- %-24s %v\n", "active_channels", h.ActiveChannels)
	}
	for _, b := range h.Blocks {
		fmt.Fprintf(&sb, "- %-24s %v\n", string(b.Tag), b.Value)
	}
	return sb.String()
}

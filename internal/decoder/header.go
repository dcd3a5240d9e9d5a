package decoder

import (
	"fmt"
	"strings"

	"github.com/gvascope/gvascope/internal/gvas"
)

// header carries everything parsed from a GVAS header block. Only a subset
// travels over the wire; the rest is kept for logging and future surfacing.
type header struct {
	Magic                string
	SaveGameVersion      int
	PackageFileVersion   *int // single-version layout
	FileVersionUE4       *int // dual-version layout
	FileVersionUE5       *int
	Engine               engineVersion
	CustomVersionsFormat *int
	CustomVersions       []customVersion
	SaveGameClassName    string
}

type engineVersion struct {
	Major      uint16
	Minor      uint16
	Patch      uint16
	Changelist uint32
	Branch     string
}

type customVersion struct {
	GUID         string
	Version      int32
	FriendlyName string
}

// wire reduces the full header to the /api/upload schema. Dual-version saves
// report their UE4 file version as the package file version.
func (h header) wire() gvas.SaveHeader {
	out := gvas.SaveHeader{
		Magic:             h.Magic,
		SaveGameClassName: h.SaveGameClassName,
	}
	v := h.SaveGameVersion
	out.SaveGameVersion = &v
	switch {
	case h.PackageFileVersion != nil:
		out.PackageFileVersion = h.PackageFileVersion
	case h.FileVersionUE4 != nil:
		out.PackageFileVersion = h.FileVersionUE4
	}
	return out
}

func parseHeader(r *reader) (header, error) {
	var h header
	if string(r.take(4)) != magic {
		return h, fmt.Errorf("no GVAS magic at offset %d", r.off)
	}
	h.Magic = magic
	h.SaveGameVersion = int(r.i32())

	// Some saves carry both UE4 and UE5 file versions. Probe the dual
	// layout and keep it only when the engine version that would follow
	// looks plausible; otherwise a single package file version is present.
	probe := *r
	ue4 := int(probe.i32())
	ue5 := int(probe.i32())
	major := probe.u16()
	minor := probe.u16()
	if probe.err == nil && major <= 50 && minor <= 50 {
		h.FileVersionUE4 = &ue4
		h.FileVersionUE5 = &ue5
		r.skip(8)
	} else {
		single := int(r.i32())
		h.PackageFileVersion = &single
	}

	h.Engine = engineVersion{
		Major:      r.u16(),
		Minor:      r.u16(),
		Patch:      r.u16(),
		Changelist: r.u32(),
		Branch:     r.fstring(),
	}
	if r.err != nil {
		return h, fmt.Errorf("truncated header: %w", r.err)
	}

	parseCustomVersionBlock(r, &h)
	return h, nil
}

// cvLayout describes one known custom-version table shape. Engine releases
// disagree on whether a format field leads the table and whether entries
// carry a friendly name.
type cvLayout struct {
	hasFormat       bool
	hasFriendlyName bool
}

var cvLayouts = []cvLayout{
	{hasFormat: true, hasFriendlyName: false},
	{hasFormat: true, hasFriendlyName: true},
	{hasFormat: false, hasFriendlyName: false},
	{hasFormat: false, hasFriendlyName: true},
}

// parseCustomVersionBlock tries the known table layouts in order and commits
// the first whose trailing class name looks plausible. When none fits, a bare
// class name is attempted; failing that too, the cursor is left where it was
// and the class name stays empty.
func parseCustomVersionBlock(r *reader, h *header) {
	base := *r
	for _, layout := range cvLayouts {
		try := base
		format, versions, class, ok := parseCustomVersions(&try, layout)
		if !ok {
			continue
		}
		h.CustomVersionsFormat = format
		h.CustomVersions = versions
		h.SaveGameClassName = class
		*r = try
		return
	}

	try := base
	if class := try.fstring(); try.err == nil && plausibleClassName(class) {
		h.SaveGameClassName = class
		*r = try
	}
}

func parseCustomVersions(r *reader, layout cvLayout) (*int, []customVersion, string, bool) {
	var format *int
	if layout.hasFormat {
		f := int(r.i32())
		if r.err != nil || f < 0 || f > 10 {
			return nil, nil, "", false
		}
		format = &f
	}

	count := int(r.i32())
	if r.err != nil || count < 0 || count > 10000 {
		return nil, nil, "", false
	}

	versions := make([]customVersion, 0, count)
	for i := 0; i < count; i++ {
		cv := customVersion{GUID: r.guid(), Version: r.i32()}
		if layout.hasFriendlyName {
			cv.FriendlyName = r.fstring()
		}
		if r.err != nil {
			return nil, nil, "", false
		}
		versions = append(versions, cv)
	}

	class := r.fstring()
	if r.err != nil || !plausibleClassName(class) {
		return nil, nil, "", false
	}
	return format, versions, class, true
}

const classNameAllowed = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_./\\:-$[]()<>@!%+,' \""

// plausibleClassName filters out garbage strings produced by trying the wrong
// table layout: sane length and a high share of path-like characters.
func plausibleClassName(s string) bool {
	if len(s) < 1 || len(s) > 2048 {
		return false
	}
	allowed := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(classNameAllowed, s[i]) >= 0 {
			allowed++
		}
	}
	return float64(allowed)/float64(len(s)) >= 0.75
}

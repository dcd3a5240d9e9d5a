package decoder

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gvascope/gvascope/internal/gvas"
)

// noneSentinel terminates every property list on disk.
const noneSentinel = "None"

// parseProperties reads named properties until the None sentinel or the end
// of the region. Order is preserved exactly as read.
func parseProperties(r *reader, end int) ([]gvas.PropertyNode, error) {
	var nodes []gvas.PropertyNode
	for r.off < end {
		name := r.fstring()
		if r.err != nil {
			return nil, fmt.Errorf("property name: %w", r.err)
		}
		if name == noneSentinel {
			break
		}

		typ := r.fstring()
		size := int(r.u32())
		r.u32() // array index, unused
		if r.err != nil {
			return nil, fmt.Errorf("property %q: %w", name, r.err)
		}

		node, err := parseValue(r, name, typ, size)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// parseValue decodes one property body. Scalars become value leaves, structs
// and struct arrays become containers, and opaque payloads (maps, raw text)
// become bare nodes whose Meta describes what was skipped.
func parseValue(r *reader, name, typ string, size int) (gvas.PropertyNode, error) {
	n := gvas.PropertyNode{Name: name, Type: typ}

	switch typ {
	case "IntProperty":
		n.Value = int64(r.i32())
		r.skip(1)

	case "Int64Property":
		n.Value = r.i64()

	case "UInt64Property":
		n.Value = r.u64()

	case "FloatProperty":
		n.Value = float64(r.f32())

	case "DoubleProperty":
		n.Value = r.f64()

	case "BoolProperty":
		n.Value = r.u8() != 0
		r.skip(1)

	case "ByteProperty":
		enum := r.fstring()
		r.skip(1)
		n.Value = int64(r.u8())
		if enum != "" && enum != noneSentinel {
			n.Meta = enum
		}

	case "StrProperty", "NameProperty", "ObjectProperty":
		r.skip(1)
		n.Value = r.fstring()

	case "TextProperty":
		n.Value = textDisplay(r.take(size))

	case "MapProperty":
		keyType := r.fstring()
		valueType := r.fstring()
		r.skip(1)
		entries := r.u32()
		payload := size - 5
		r.skip(payload)
		r.skip(1)
		n.Meta = fmt.Sprintf("Map<%s, %s> %d entries, %d bytes", keyType, valueType, entries, payload)

	case "ArrayProperty":
		return parseArray(r, name, size)

	case "StructProperty":
		return parseStruct(r, name, size)

	default:
		return n, fmt.Errorf("unknown property type %q", typ)
	}

	if r.err != nil {
		return n, fmt.Errorf("property %q (%s): %w", name, typ, r.err)
	}
	return n, nil
}

func parseArray(r *reader, name string, size int) (gvas.PropertyNode, error) {
	n := gvas.PropertyNode{Name: name, Type: "ArrayProperty"}

	inner := r.fstring()
	r.skip(1)
	count := int(r.u32())
	if r.err != nil {
		return n, fmt.Errorf("array %q: %w", name, r.err)
	}
	n.Meta = inner

	switch inner {
	case "ByteProperty":
		r.skip(size - 4)
		if r.err != nil {
			return n, fmt.Errorf("array %q: %w", name, r.err)
		}
		n.Value = fmt.Sprintf("<%d bytes>", count)

	case "StructProperty":
		end := min(r.off+size-4, len(r.data))
		kids, err := parseProperties(r, end)
		if err != nil {
			return n, fmt.Errorf("array %q: %w", name, err)
		}
		n.Children = kids
		n.Meta = fmt.Sprintf("%s × %d", inner, count)

	default:
		return n, fmt.Errorf("array of %s not supported", inner)
	}
	return n, nil
}

func parseStruct(r *reader, name string, size int) (gvas.PropertyNode, error) {
	n := gvas.PropertyNode{Name: name, Type: "StructProperty"}

	structType := r.fstring()
	r.skip(16) // struct GUID, not surfaced
	r.skip(1)
	if r.err != nil {
		return n, fmt.Errorf("struct %q: %w", name, r.err)
	}
	n.Meta = structType

	switch structType {
	case "Quat":
		n.Children = floatFields(r, "X", "Y", "Z", "W")
	case "Vector":
		n.Children = floatFields(r, "X", "Y", "Z")
	default:
		end := min(r.off+size, len(r.data))
		kids, err := parseProperties(r, end)
		if err != nil {
			return n, fmt.Errorf("struct %q: %w", name, err)
		}
		n.Children = kids
	}

	if r.err != nil {
		return n, fmt.Errorf("struct %q: %w", name, r.err)
	}
	return n, nil
}

func floatFields(r *reader, names ...string) []gvas.PropertyNode {
	kids := make([]gvas.PropertyNode, 0, len(names))
	for _, fn := range names {
		kids = append(kids, gvas.PropertyNode{Name: fn, Type: "FloatProperty", Value: float64(r.f32())})
	}
	return kids
}

// textDisplay renders a raw text payload: printable content as-is, anything
// else as a byte-count placeholder.
func textDisplay(raw []byte) string {
	trimmed := strings.Trim(string(raw), "\x00")
	if trimmed != "" && utf8.ValidString(trimmed) && mostlyPrintable(trimmed) {
		return trimmed
	}
	return fmt.Sprintf("<%d bytes>", len(raw))
}

func mostlyPrintable(s string) bool {
	printable := 0
	total := 0
	for _, ch := range s {
		total++
		if unicode.IsPrint(ch) || ch == '\n' || ch == '\t' {
			printable++
		}
	}
	return total > 0 && float64(printable)/float64(total) >= 0.9
}

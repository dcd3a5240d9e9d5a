package decoder

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/binary"
	"math"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// fixture assembles GVAS byte streams for tests.
type fixture struct {
	bytes.Buffer
}

func (f *fixture) u8(v byte)    { f.WriteByte(v) }
func (f *fixture) u16(v uint16) { _ = binary.Write(f, binary.LittleEndian, v) }
func (f *fixture) u32(v uint32) { _ = binary.Write(f, binary.LittleEndian, v) }
func (f *fixture) i32(v int32)  { _ = binary.Write(f, binary.LittleEndian, v) }
func (f *fixture) f32(v float32) {
	f.u32(math.Float32bits(v))
}

func (f *fixture) fstring(s string) {
	if s == "" {
		f.i32(0)
		return
	}
	f.i32(int32(len(s) + 1))
	f.WriteString(s)
	f.u8(0)
}

// propHeader writes one (name, type, size, index) record.
func (f *fixture) propHeader(name, typ string, size uint32) {
	f.fstring(name)
	f.fstring(typ)
	f.u32(size)
	f.u32(0)
}

func (f *fixture) intProp(name string, v int32) {
	f.propHeader(name, "IntProperty", 4)
	f.i32(v)
	f.u8(0)
}

func (f *fixture) boolProp(name string, v bool) {
	f.propHeader(name, "BoolProperty", 0)
	if v {
		f.u8(1)
	} else {
		f.u8(0)
	}
	f.u8(0)
}

func (f *fixture) strProp(name, v string) {
	f.propHeader(name, "StrProperty", uint32(len(v)+4+1))
	f.u8(0)
	f.fstring(v)
}

// header writes a single-package-version GVAS header with an empty
// custom-version table. The changelist is chosen so the dual-version probe
// rejects this layout.
func (f *fixture) header(saveVersion, packageVersion int32, class string) {
	f.WriteString(magic)
	f.i32(saveVersion)
	f.i32(packageVersion)
	f.u16(4)      // engine major
	f.u16(27)     // engine minor
	f.u16(2)      // engine patch
	f.u32(123456) // changelist
	f.fstring("++UE4+Release-4.27")
	f.i32(3) // custom versions format
	f.i32(0) // custom versions count
	f.fstring(class)
}

func TestParse_HeaderSingleVersionLayout(t *testing.T) {
	var f fixture
	f.header(5, 522, "/Game/MyGame.MyGame_C")
	f.fstring(noneSentinel)

	save, err := Parse(f.Bytes())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	h := save.Header
	if h.Magic != "GVAS" {
		t.Fatalf("Magic = %q, want GVAS", h.Magic)
	}
	if h.SaveGameVersion == nil || *h.SaveGameVersion != 5 {
		t.Fatalf("SaveGameVersion = %v, want 5", h.SaveGameVersion)
	}
	if h.PackageFileVersion == nil || *h.PackageFileVersion != 522 {
		t.Fatalf("PackageFileVersion = %v, want 522", h.PackageFileVersion)
	}
	if h.SaveGameClassName != "/Game/MyGame.MyGame_C" {
		t.Fatalf("SaveGameClassName = %q, want class path", h.SaveGameClassName)
	}
	if len(save.Properties) != 0 {
		t.Fatalf("Properties = %d nodes, want 0", len(save.Properties))
	}
}

func TestParse_HeaderDualVersionLayout(t *testing.T) {
	var f fixture
	f.WriteString(magic)
	f.i32(3)   // save game version
	f.i32(522) // UE4 file version
	f.i32(600) // UE5 file version
	f.u16(5)   // engine major, plausible => dual layout
	f.u16(1)
	f.u16(0)
	f.u32(123456)
	f.fstring("++UE5+Release-5.1")
	f.i32(3)
	f.i32(0)
	f.fstring("/Game/Dual.Dual_C")
	f.fstring(noneSentinel)

	save, err := Parse(f.Bytes())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if save.Header.PackageFileVersion == nil || *save.Header.PackageFileVersion != 522 {
		t.Fatalf("PackageFileVersion = %v, want UE4 value 522", save.Header.PackageFileVersion)
	}
	if save.Header.SaveGameClassName != "/Game/Dual.Dual_C" {
		t.Fatalf("SaveGameClassName = %q", save.Header.SaveGameClassName)
	}
}

func TestParse_ScalarProperties(t *testing.T) {
	var f fixture
	f.header(5, 522, "/Game/MyGame.MyGame_C")
	f.intProp("Score", 42)
	f.boolProp("Alive", true)
	f.strProp("Slot", "Sword")
	f.fstring(noneSentinel)

	save, err := Parse(f.Bytes())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(save.Properties) != 3 {
		t.Fatalf("Properties = %d nodes, want 3", len(save.Properties))
	}

	score := save.Properties[0]
	if score.Name != "Score" || score.Type != "IntProperty" || score.Value != int64(42) {
		t.Fatalf("score = %+v, want IntProperty 42", score)
	}
	alive := save.Properties[1]
	if alive.Value != true {
		t.Fatalf("alive = %+v, want true", alive)
	}
	slot := save.Properties[2]
	if slot.Value != "Sword" {
		t.Fatalf("slot = %+v, want Sword", slot)
	}
}

func TestParse_VectorStructBecomesContainer(t *testing.T) {
	var f fixture
	f.header(5, 522, "/Game/MyGame.MyGame_C")
	f.propHeader("Position", "StructProperty", 12)
	f.fstring("Vector")
	f.Write(make([]byte, 16)) // struct GUID
	f.u8(0)
	f.f32(1.5)
	f.f32(-2)
	f.f32(0)
	f.fstring(noneSentinel)

	save, err := Parse(f.Bytes())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	pos := save.Properties[0]
	if pos.Meta != "Vector" {
		t.Fatalf("Meta = %q, want Vector", pos.Meta)
	}
	if len(pos.Children) != 3 {
		t.Fatalf("Children = %d, want X/Y/Z", len(pos.Children))
	}
	if pos.Children[0].Name != "X" || pos.Children[0].Value != float64(1.5) {
		t.Fatalf("X = %+v, want 1.5", pos.Children[0])
	}
	if pos.Children[1].Value != float64(-2) {
		t.Fatalf("Y = %+v, want -2", pos.Children[1])
	}
}

func TestParse_NestedStructProperties(t *testing.T) {
	// Build the struct payload first so the declared size is exact.
	var body fixture
	body.intProp("Level", 7)
	body.strProp("Zone", "Harbor")
	body.fstring(noneSentinel)

	var f fixture
	f.header(5, 522, "/Game/MyGame.MyGame_C")
	f.propHeader("Player", "StructProperty", uint32(body.Len()))
	f.fstring("PlayerState")
	f.Write(make([]byte, 16))
	f.u8(0)
	f.Write(body.Bytes())
	f.fstring(noneSentinel)

	save, err := Parse(f.Bytes())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	player := save.Properties[0]
	if player.Meta != "PlayerState" {
		t.Fatalf("Meta = %q, want PlayerState", player.Meta)
	}
	if len(player.Children) != 2 {
		t.Fatalf("Children = %d, want 2", len(player.Children))
	}
	if player.Children[0].Value != int64(7) || player.Children[1].Value != "Harbor" {
		t.Fatalf("children = %+v, want Level=7 Zone=Harbor", player.Children)
	}
}

func TestParse_StructArray(t *testing.T) {
	var body fixture
	body.intProp("A", 1)
	body.intProp("B", 2)
	body.fstring(noneSentinel)

	var f fixture
	f.header(5, 522, "/Game/MyGame.MyGame_C")
	f.propHeader("Items", "ArrayProperty", uint32(4+body.Len()))
	f.fstring("StructProperty")
	f.u8(0)
	f.u32(2)
	f.Write(body.Bytes())
	f.fstring(noneSentinel)

	save, err := Parse(f.Bytes())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	items := save.Properties[0]
	if len(items.Children) != 2 {
		t.Fatalf("Children = %d, want 2", len(items.Children))
	}
	if items.Meta != "StructProperty × 2" {
		t.Fatalf("Meta = %q, want struct count", items.Meta)
	}
}

func TestParse_ByteArrayBecomesPlaceholderLeaf(t *testing.T) {
	payload := []byte{9, 9, 9, 9, 9, 9}

	var f fixture
	f.header(5, 522, "/Game/MyGame.MyGame_C")
	f.propHeader("Thumbnail", "ArrayProperty", uint32(4+len(payload)))
	f.fstring("ByteProperty")
	f.u8(0)
	f.u32(uint32(len(payload)))
	f.Write(payload)
	f.fstring(noneSentinel)

	save, err := Parse(f.Bytes())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	thumb := save.Properties[0]
	if thumb.Value != "<6 bytes>" {
		t.Fatalf("Value = %v, want <6 bytes>", thumb.Value)
	}
	if len(thumb.Children) != 0 {
		t.Fatalf("byte array grew children: %+v", thumb.Children)
	}
}

func TestParse_UnknownPropertyTypeFails(t *testing.T) {
	var f fixture
	f.header(5, 522, "/Game/MyGame.MyGame_C")
	f.propHeader("Weird", "FancyProperty", 4)
	f.u32(0)
	f.fstring(noneSentinel)

	_, err := Parse(f.Bytes())
	if err == nil {
		t.Fatalf("Parse returned nil error for unknown property type")
	}
}

func TestParse_MagicSearchedWithinPrefix(t *testing.T) {
	var f fixture
	f.Write([]byte("JUNKHEADER--"))
	f.header(5, 522, "/Game/MyGame.MyGame_C")
	f.fstring(noneSentinel)

	save, err := Parse(f.Bytes())
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if save.Header.SaveGameClassName != "/Game/MyGame.MyGame_C" {
		t.Fatalf("SaveGameClassName = %q", save.Header.SaveGameClassName)
	}
}

func TestParse_NotAGVASFile(t *testing.T) {
	_, err := Parse([]byte("definitely not a save file"))
	if err == nil {
		t.Fatalf("Parse returned nil error for non-GVAS input")
	}
	_, err = Parse(nil)
	if err == nil {
		t.Fatalf("Parse returned nil error for empty input")
	}
}

func plainSave(t *testing.T) []byte {
	t.Helper()
	var f fixture
	f.header(5, 522, "/Game/MyGame.MyGame_C")
	f.intProp("Score", 42)
	f.fstring(noneSentinel)
	return f.Bytes()
}

func TestParse_AutoDecompression(t *testing.T) {
	plain := plainSave(t)

	compressors := map[string]func([]byte) []byte{
		"gzip": func(b []byte) []byte {
			var buf bytes.Buffer
			w := gzip.NewWriter(&buf)
			_, _ = w.Write(b)
			_ = w.Close()
			return buf.Bytes()
		},
		"zlib": func(b []byte) []byte {
			var buf bytes.Buffer
			w := zlib.NewWriter(&buf)
			_, _ = w.Write(b)
			_ = w.Close()
			return buf.Bytes()
		},
		"zstd": func(b []byte) []byte {
			enc, err := zstd.NewWriter(nil)
			if err != nil {
				t.Fatalf("zstd.NewWriter: %v", err)
			}
			defer func() { _ = enc.Close() }()
			return enc.EncodeAll(b, nil)
		},
		"lz4": func(b []byte) []byte {
			var buf bytes.Buffer
			w := lz4.NewWriter(&buf)
			_, _ = w.Write(b)
			_ = w.Close()
			return buf.Bytes()
		},
	}

	for name, compress := range compressors {
		t.Run(name, func(t *testing.T) {
			save, err := Parse(compress(plain))
			if err != nil {
				t.Fatalf("Parse(%s save) returned error: %v", name, err)
			}
			if len(save.Properties) != 1 || save.Properties[0].Value != int64(42) {
				t.Fatalf("decompressed save properties = %+v", save.Properties)
			}
		})
	}
}

func TestDecompress_ExplicitMethodErrors(t *testing.T) {
	if _, err := Decompress([]byte("junk"), "zlib"); err == nil {
		t.Fatalf("Decompress(junk, zlib) returned nil error")
	}
	if _, err := Decompress([]byte("junk"), "martian"); err == nil {
		t.Fatalf("Decompress with unknown method returned nil error")
	}
	out, err := Decompress([]byte("junk"), "none")
	if err != nil || string(out) != "junk" {
		t.Fatalf("Decompress(none) = %q, %v", out, err)
	}
}

func TestFString_UTF16RoundTrip(t *testing.T) {
	// Negative length marks UTF-16LE with -length characters including the
	// terminator.
	var f fixture
	f.i32(-3)
	f.u16('ü')
	f.u16('é')
	f.u16(0)

	r := &reader{data: f.Bytes()}
	if got := r.fstring(); got != "üé" {
		t.Fatalf("fstring = %q, want üé", got)
	}
	if r.err != nil {
		t.Fatalf("reader error: %v", r.err)
	}
}

func TestReader_TruncationLatches(t *testing.T) {
	r := &reader{data: []byte{1, 2}}
	_ = r.u32()
	if r.err == nil {
		t.Fatalf("u32 past end left err nil")
	}
	if v := r.u8(); v != 0 {
		t.Fatalf("read after latched error = %d, want zero value", v)
	}
}

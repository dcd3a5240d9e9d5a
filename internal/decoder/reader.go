package decoder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf16"
)

// reader is a little-endian cursor over decompressed save bytes. The first
// out-of-range read latches the error; subsequent reads return zero values,
// so parse code can read a whole record and check the error once. Copying a
// reader by value creates a savepoint for speculative layout attempts.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 {
		r.err = errors.New("negative field length")
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = io.ErrUnexpectedEOF
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) skip(n int) {
	_ = r.take(n)
}

func (r *reader) u8() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) i32() int32 { return int32(r.u32()) }
func (r *reader) i64() int64 { return int64(r.u64()) }

func (r *reader) f32() float32 { return math.Float32frombits(r.u32()) }
func (r *reader) f64() float64 { return math.Float64frombits(r.u64()) }

// fstring reads a UE FString: an int32 length followed by the bytes. A
// negative length means UTF-16LE with -length characters. The length usually
// includes the terminator; trailing NULs are stripped either way.
func (r *reader) fstring() string {
	n := r.i32()
	if r.err != nil || n == 0 {
		return ""
	}
	if n < 0 {
		count := int(-n)
		raw := r.take(count * 2)
		if raw == nil {
			return ""
		}
		units := make([]uint16, count)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(raw[i*2:])
		}
		return strings.TrimRight(string(utf16.Decode(units)), "\x00")
	}
	raw := r.take(int(n))
	if raw == nil {
		return ""
	}
	return strings.TrimRight(string(raw), "\x00")
}

// guid reads 16 raw bytes and renders them in canonical 4-2-2-2-6 form. The
// first three groups are stored little-endian and get byte-reversed for
// display.
func (r *reader) guid() string {
	g := r.take(16)
	if g == nil {
		return ""
	}
	rev := func(b []byte) []byte {
		out := make([]byte, len(b))
		for i := range b {
			out[len(b)-1-i] = b[i]
		}
		return out
	}
	return fmt.Sprintf("%x-%x-%x-%x-%x", rev(g[0:4]), rev(g[4:6]), rev(g[6:8]), g[8:10], g[10:16])
}

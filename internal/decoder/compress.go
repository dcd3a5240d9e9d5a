package decoder

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Decompress expands a save payload with the chosen method. Method "auto"
// probes frame magics first (gzip, zstd, lz4), then works through zlib, raw
// deflate, gzip, lz4, and zstd until one of them accepts the input.
func Decompress(raw []byte, method string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "", "auto":
		return autoDecompress(raw)
	case "none":
		return raw, nil
	case "zlib":
		out, err := unzlib(raw)
		if err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
		return out, nil
	case "deflate":
		out, err := inflate(raw)
		if err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		return out, nil
	case "gzip":
		out, err := ungzip(raw)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil
	case "lz4":
		out, err := unlz4(raw)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		return out, nil
	case "zstd":
		out, err := unzstd(raw)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown compression method %q", method)
	}
}

func autoDecompress(raw []byte) ([]byte, error) {
	// Cheap magic checks first.
	if bytes.HasPrefix(raw, gzipMagic) {
		if out, err := ungzip(raw); err == nil {
			return out, nil
		}
	}
	if bytes.HasPrefix(raw, zstdMagic) {
		if out, err := unzstd(raw); err == nil {
			return out, nil
		}
	}
	if bytes.HasPrefix(raw, lz4Magic) {
		if out, err := unlz4(raw); err == nil {
			return out, nil
		}
	}

	// Then ordered attempts, magic or not.
	for _, try := range []func([]byte) ([]byte, error){unzlib, inflate, ungzip, unlz4, unzstd} {
		if out, err := try(raw); err == nil {
			return out, nil
		}
	}
	return nil, errors.New("could not decompress payload; try an explicit method (none, zlib, deflate, gzip, lz4, zstd)")
}

func unzlib(raw []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func inflate(raw []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(raw))
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func ungzip(raw []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func unlz4(raw []byte) ([]byte, error) {
	var out bytes.Buffer
	if _, err := io.Copy(&out, lz4.NewReader(bytes.NewReader(raw))); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func unzstd(raw []byte) ([]byte, error) {
	d, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return d.DecodeAll(raw, nil)
}

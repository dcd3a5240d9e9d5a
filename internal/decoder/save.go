package decoder

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gvascope/gvascope/internal/gvas"
)

// magic opens every UE SaveGame header.
const magic = "GVAS"

var magicBytes = []byte(magic)

// magicScanWindow bounds how far into the payload the magic is searched;
// some games prepend a small custom header before the GVAS block.
const magicScanWindow = 256

// Save is a fully decoded save file in wire form.
type Save struct {
	Header     gvas.SaveHeader
	Properties []gvas.PropertyNode
}

// Parse decodes a GVAS save with automatic decompression.
func Parse(raw []byte) (*Save, error) {
	return ParseWithCompression(raw, "auto")
}

// ParseWithCompression decodes a GVAS save. Payloads that do not open with
// the magic are run through the decompression chain first; if the magic still
// is not at the start it is searched within the first 256 bytes.
func ParseWithCompression(raw []byte, method string) (*Save, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty save file")
	}

	data := raw
	if !bytes.HasPrefix(data, magicBytes) {
		if out, err := Decompress(data, method); err == nil {
			if bytes.Contains(out[:min(len(out), magicScanWindow)], magicBytes) {
				data = out
			}
		}
	}

	start := bytes.Index(data[:min(len(data), magicScanWindow)], magicBytes)
	if start < 0 {
		return nil, errors.New("GVAS magic not found; this may not be an Unreal Engine save file")
	}

	r := &reader{data: data, off: start}
	h, err := parseHeader(r)
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	props, err := parseProperties(r, len(data))
	if err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}

	return &Save{Header: h.wire(), Properties: props}, nil
}

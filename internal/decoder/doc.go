// Package decoder parses Unreal Engine GVAS save files into the wire model
// served by gvascoped.
//
// # Format
//
// A save opens with the "GVAS" magic, a save game version, one or two package
// file versions (UE4-only vs dual UE4/UE5 layouts), the engine version, an
// optional custom-version table whose shape varies by engine release, and the
// SaveGame class name. Properties follow as a flat list of
// (name, type, size, index) records terminated by a "None" sentinel; struct
// and struct-array properties nest further lists recursively.
//
// Saves are frequently compressed as a whole (zlib, raw deflate, gzip, lz4
// frame, or zstd); Parse probes for the magic and decompresses automatically
// when it is missing.
//
// # Output
//
// The decoder emits gvas.PropertyNode values directly: scalar properties
// become value leaves, structs and struct arrays become containers, and
// opaque payloads (maps, byte arrays) become nodes whose Meta records what
// was skipped. No intermediate AST exists to drift out of sync with the wire
// schema.
package decoder

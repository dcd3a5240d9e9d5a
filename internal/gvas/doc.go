// Package gvas defines the wire contract with the gvascoped decoder service
// and the HTTP client that speaks it.
//
// # Overview
//
// The decoder service accepts an uploaded Unreal Engine save file and returns
// its header record plus a structured property tree. This package owns the
// transport types shared by client and server, and a Client that performs the
// multipart upload.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: multipart upload, response decoding, and the failure message
//     fallback chain (detail, message, raw body, generic string)
//   - types.go: SaveHeader, PropertyNode, and UploadResponse mirroring the
//     /api/upload JSON schema
//
// # Client Usage
//
// Create a client using the API bind address from configuration:
//
//	client, err := gvas.NewClient("127.0.0.1:7845")
//	if err != nil {
//		return err
//	}
//	resp, err := client.Upload(ctx, "slot0.sav", file)
//
// A failed upload is returned as *UploadError whose Message is ready for
// display; the caller's previously shown data stays untouched.
package gvas

// Package server exposes the save-decoding HTTP API served by gvascoped.
package server

import (
	"io"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gvascope/gvascope/internal/decoder"
	"github.com/gvascope/gvascope/internal/gvas"
)

// maxUploadBytes caps multipart form memory and the save payload itself.
// Save files are small; anything beyond this is not a save.
const maxUploadBytes = 64 << 20

type server struct {
	log *slog.Logger
}

// NewServer creates the HTTP handler for the decode API.
func NewServer(log *slog.Logger) nethttp.Handler {
	if log == nil {
		log = slog.Default()
	}
	s := &server{log: log}
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/api/upload", s.handleUpload)
	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		HealthHandler().ServeHTTP(w, r)
	})
	return mux
}

// HealthHandler returns a simple health check endpoint.
func HealthHandler() nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusOK)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
}

type uploadResult struct {
	Header     gvas.SaveHeader     `json:"header"`
	Properties []gvas.PropertyNode `json:"properties"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (s *server) handleUpload(w nethttp.ResponseWriter, r *nethttp.Request) {
	reqID := uuid.NewString()
	start := time.Now()
	log := s.log.With("request_id", reqID)

	if r.Method != nethttp.MethodPost {
		w.Header().Set("Allow", nethttp.MethodPost)
		writeError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = nethttp.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Warn("bad multipart form", "err", err)
		writeError(w, nethttp.StatusBadRequest, "request too large or bad form")
		return
	}

	file, fh, err := r.FormFile("file")
	if err != nil {
		writeError(w, nethttp.StatusBadRequest, "file field required")
		return
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(file)
	if err != nil {
		log.Warn("read upload", "err", err)
		writeError(w, nethttp.StatusBadRequest, "could not read uploaded file")
		return
	}
	if len(raw) == 0 {
		writeError(w, nethttp.StatusBadRequest, "uploaded file is empty")
		return
	}

	method := r.FormValue("compression")
	if method == "" {
		method = "auto"
	}

	save, err := decoder.ParseWithCompression(raw, method)
	if err != nil {
		log.Info("decode failed",
			"file", fh.Filename,
			"size", len(raw),
			"err", err,
			"elapsed", time.Since(start))
		writeError(w, nethttp.StatusUnprocessableEntity, err.Error())
		return
	}

	log.Info("decoded save",
		"file", fh.Filename,
		"size", len(raw),
		"class", save.Header.SaveGameClassName,
		"properties", len(save.Properties),
		"elapsed", time.Since(start))

	writeJSON(w, nethttp.StatusOK, uploadResult{
		Header:     save.Header,
		Properties: save.Properties,
	})
}

func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w nethttp.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

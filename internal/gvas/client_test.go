package gvas

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_UploadSendsMultipartAndDecodes(t *testing.T) {
	t.Parallel()

	var gotField string
	var gotFilename string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/upload" {
			http.NotFound(w, r)
			return
		}
		mr, err := r.MultipartReader()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		part, err := mr.NextPart()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotField = part.FormName()
		gotFilename = part.FileName()
		gotBody, _ = io.ReadAll(part)

		five := 5
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(UploadResponse{
			Header: &SaveHeader{Magic: "GVAS", SaveGameVersion: &five},
			Properties: []PropertyNode{
				{Name: "Score", Type: "IntProperty", Value: 42},
			},
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	resp, err := c.Upload(ctx, "slot0.sav", strings.NewReader("GVAS-bytes"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if gotField != "file" {
		t.Fatalf("multipart field = %q, want %q", gotField, "file")
	}
	if gotFilename != "slot0.sav" {
		t.Fatalf("multipart filename = %q, want %q", gotFilename, "slot0.sav")
	}
	if string(gotBody) != "GVAS-bytes" {
		t.Fatalf("uploaded body = %q, want %q", gotBody, "GVAS-bytes")
	}
	if resp.Header == nil || resp.Header.Magic != "GVAS" {
		t.Fatalf("response header = %#v, want magic GVAS", resp.Header)
	}
	if len(resp.Properties) != 1 || resp.Properties[0].Name != "Score" {
		t.Fatalf("response properties = %#v, want 1 node named Score", resp.Properties)
	}
}

func TestClient_UploadFailureMessageFallbackChain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail preferred", http.StatusBadRequest, `{"detail":"not a GVAS file","message":"ignored"}`, "not a GVAS file"},
		{"message fallback", http.StatusUnprocessableEntity, `{"message":"decode failed"}`, "decode failed"},
		{"raw text fallback", http.StatusInternalServerError, "boom", "boom"},
		{"generic fallback", http.StatusBadGateway, "", genericFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			t.Cleanup(server.Close)

			c, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}

			_, err = c.Upload(context.Background(), "slot0.sav", strings.NewReader("x"))
			if err == nil {
				t.Fatalf("Upload returned nil error, want failure")
			}
			var ue *UploadError
			if !errors.As(err, &ue) {
				t.Fatalf("Upload error = %T, want *UploadError", err)
			}
			if ue.Status != tc.status {
				t.Fatalf("UploadError.Status = %d, want %d", ue.Status, tc.status)
			}
			if ue.Message != tc.want {
				t.Fatalf("UploadError.Message = %q, want %q", ue.Message, tc.want)
			}
		})
	}
}

func TestClient_UploadMalformedSuccessBodyUsesFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"header": not-json`)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Upload(context.Background(), "slot0.sav", strings.NewReader("x"))
	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("Upload error = %v (%T), want *UploadError", err, err)
	}
	if ue.Message != `{"header": not-json` {
		t.Fatalf("UploadError.Message = %q, want raw body text", ue.Message)
	}
}

func TestClient_UploadNetworkErrorIsUploadError(t *testing.T) {
	t.Parallel()

	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c, err := NewClient(addr)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Upload(context.Background(), "slot0.sav", strings.NewReader("x"))
	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("Upload error = %v (%T), want *UploadError", err, err)
	}
	if ue.Status != 0 {
		t.Fatalf("UploadError.Status = %d, want 0 for transport failure", ue.Status)
	}
}

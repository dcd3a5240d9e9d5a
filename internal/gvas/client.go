package gvas

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Uploader is the surface the UI needs from the decoder service. Implemented
// by *Client; fakes implement it in tests.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (*UploadResponse, error)
}

// Ensure Client implements Uploader at compile time.
var _ Uploader = (*Client)(nil)

// Client talks to the gvascoped HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7845"
	defaultUserAgent = "gvascope/0.1"
	uploadTimeout    = 30 * time.Second

	genericFailure = "upload failed"
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: uploadTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// UploadError is a failed upload attempt with a display-ready message derived
// from the response. It is terminal only to the attempt that produced it; the
// caller keeps whatever it was showing before.
type UploadError struct {
	Status  int // zero when the request never reached the service
	Message string
}

func (e *UploadError) Error() string { return e.Message }

// Upload posts a single save file as the multipart field "file" and decodes
// the resulting header and property tree. Any failure (transport error,
// non-2xx status, malformed body) is returned as an *UploadError.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (*UploadResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read save file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: "/api/upload"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UploadError{Message: fmt.Sprintf("%s: %v", genericFailure, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{Status: resp.StatusCode, Message: fmt.Sprintf("%s: %v", genericFailure, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UploadError{Status: resp.StatusCode, Message: failureMessage(raw)}
	}

	var payload UploadResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &UploadError{Status: resp.StatusCode, Message: failureMessage(raw)}
	}
	return &payload, nil
}

// failureMessage derives a display message from a failure body using the
// ordered fallback: structured detail field, generic message field, raw
// response text, fixed generic string.
func failureMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if s := strings.TrimSpace(body.Detail); s != "" {
			return s
		}
		if s := strings.TrimSpace(body.Message); s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return genericFailure
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

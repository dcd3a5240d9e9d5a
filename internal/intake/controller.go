package intake

import (
	"fmt"
	"path/filepath"
	"strings"
)

// State is the upload lifecycle position.
type State int

const (
	Idle State = iota
	Uploading
	Success
	Error
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Uploading:
		return "uploading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Controller is the file-intake state machine. All entry points (picker
// selection, typed path, watched drop directory) funnel into Begin; the
// decoder response drives Complete or Fail.
//
// Terminal states accept a new file and re-enter Uploading. In-flight uploads
// are never cancelled or serialized: starting a second upload while one is
// pending lets both proceed, and whichever response arrives last determines
// the displayed state.
type Controller struct {
	state  State
	status string
	file   string // basename of the most recently submitted file
}

const idleStatus = "no save loaded — press o to pick a file"

// New returns a controller in Idle with a neutral status line.
func New() *Controller {
	return &Controller{state: Idle, status: idleStatus}
}

// Begin funnels a batch of candidate paths into one submission and moves to
// Uploading. With zero usable paths no transition occurs and ok is false.
// With several, only the first is used; the rest are silently discarded
// (documented limitation, not a failure).
func (c *Controller) Begin(paths []string) (string, bool) {
	var path string
	for _, p := range paths {
		if strings.TrimSpace(p) != "" {
			path = strings.TrimSpace(p)
			break
		}
	}
	if path == "" {
		return "", false
	}

	c.state = Uploading
	c.file = filepath.Base(path)
	c.status = fmt.Sprintf("decoding %s…", c.file)
	return path, true
}

// Complete records a successful decode of the named file.
func (c *Controller) Complete(name string) {
	c.state = Success
	c.file = name
	c.status = fmt.Sprintf("loaded %s", name)
}

// Fail records a failed upload attempt with a display-ready message. The
// previously shown header and tree stay untouched; only the status changes.
func (c *Controller) Fail(name, message string) {
	c.state = Error
	c.file = name
	if strings.TrimSpace(message) == "" {
		message = "upload failed"
	}
	c.status = message
	if name != "" {
		c.status = fmt.Sprintf("%s: %s", name, message)
	}
}

// State returns the current lifecycle position.
func (c *Controller) State() State { return c.state }

// Status returns the human-readable status line.
func (c *Controller) Status() string { return c.status }

// File returns the basename of the most recent submission, "" before any.
func (c *Controller) File() string { return c.file }

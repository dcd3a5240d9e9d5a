package intake

import (
	"strings"
	"testing"
)

func TestController_StartsIdle(t *testing.T) {
	c := New()
	if c.State() != Idle {
		t.Fatalf("State() = %v, want Idle", c.State())
	}
	if c.Status() == "" {
		t.Fatalf("Status() empty, want a neutral idle line")
	}
}

func TestBegin_ZeroFilesIsNoTransition(t *testing.T) {
	c := New()
	before := c.Status()

	if _, ok := c.Begin(nil); ok {
		t.Fatalf("Begin(nil) = ok, want no transition")
	}
	if _, ok := c.Begin([]string{"", "   "}); ok {
		t.Fatalf("Begin(blank paths) = ok, want no transition")
	}
	if c.State() != Idle || c.Status() != before {
		t.Fatalf("state = %v status = %q, want untouched Idle/%q", c.State(), c.Status(), before)
	}
}

func TestBegin_TruncatesToFirstFile(t *testing.T) {
	c := New()
	path, ok := c.Begin([]string{"/saves/slot0.sav", "/saves/slot1.sav", "/saves/slot2.sav"})
	if !ok {
		t.Fatalf("Begin returned !ok, want submission")
	}
	if path != "/saves/slot0.sav" {
		t.Fatalf("Begin path = %q, want first file", path)
	}
	if c.State() != Uploading {
		t.Fatalf("State() = %v, want Uploading", c.State())
	}
	if !strings.Contains(c.Status(), "slot0.sav") {
		t.Fatalf("Status() = %q, want it to name slot0.sav", c.Status())
	}
}

func TestTransitions_TerminalStatesAcceptResubmission(t *testing.T) {
	c := New()

	if _, ok := c.Begin([]string{"a.sav"}); !ok {
		t.Fatalf("Begin(a.sav) failed")
	}
	c.Complete("a.sav")
	if c.State() != Success {
		t.Fatalf("State() = %v, want Success", c.State())
	}

	if _, ok := c.Begin([]string{"b.sav"}); !ok {
		t.Fatalf("Begin from Success failed, terminal states must accept files")
	}
	c.Fail("b.sav", "not a GVAS file")
	if c.State() != Error {
		t.Fatalf("State() = %v, want Error", c.State())
	}
	if c.Status() != "b.sav: not a GVAS file" {
		t.Fatalf("Status() = %q, want failure message", c.Status())
	}

	if _, ok := c.Begin([]string{"c.sav"}); !ok {
		t.Fatalf("Begin from Error failed, terminal states must accept files")
	}
	if c.State() != Uploading {
		t.Fatalf("State() = %v, want Uploading", c.State())
	}
}

func TestFail_EmptyMessageGetsGenericText(t *testing.T) {
	c := New()
	c.Fail("x.sav", "   ")
	if !strings.Contains(c.Status(), "upload failed") {
		t.Fatalf("Status() = %q, want generic failure text", c.Status())
	}
}

func TestOverlay_NestedEnterLeave(t *testing.T) {
	var o OverlayCounter

	// Enter three nested layers, then leave them in reverse order: the
	// overlay stays visible until the third (outermost) leave.
	o.Enter()
	o.Enter()
	o.Enter()
	if !o.Visible() || o.Depth() != 3 {
		t.Fatalf("depth = %d visible = %v, want 3/true", o.Depth(), o.Visible())
	}

	o.Leave()
	if !o.Visible() {
		t.Fatalf("overlay hidden after first leave, want still visible")
	}
	o.Leave()
	if !o.Visible() {
		t.Fatalf("overlay hidden after second leave, want still visible")
	}
	o.Leave()
	if o.Visible() {
		t.Fatalf("overlay visible after outermost leave, want hidden")
	}
}

func TestOverlay_LeaveFloorsAtZero(t *testing.T) {
	var o OverlayCounter
	o.Leave()
	o.Leave()
	if o.Depth() != 0 || o.Visible() {
		t.Fatalf("depth = %d, want stray leaves absorbed at 0", o.Depth())
	}
	o.Enter()
	if !o.Visible() {
		t.Fatalf("overlay hidden after enter following stray leaves")
	}
}

func TestOverlay_DropResetsUnconditionally(t *testing.T) {
	var o OverlayCounter
	o.Enter()
	o.Enter()
	o.Drop()
	if o.Visible() || o.Depth() != 0 {
		t.Fatalf("depth = %d after drop, want 0 and hidden", o.Depth())
	}
}

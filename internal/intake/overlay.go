package intake

// OverlayCounter decides when the page-wide intake overlay is visible.
//
// Drop-style sources fire nested begin/end pairs: the watcher reports a
// burst of activity per file, and each layer crossed produces its own
// enter/leave. A single boolean would hide the overlay as soon as any inner
// layer ends while an outer one is still active, so visibility is tracked as
// a non-negative reentrant counter instead: Enter increments, Leave
// decrements (floored at zero), and the overlay hides only when the counter
// returns to zero. A completed drop resets the counter unconditionally.
type OverlayCounter struct {
	depth int
}

// Enter records one nested layer of intake activity and shows the overlay.
func (o *OverlayCounter) Enter() {
	o.depth++
}

// Leave records the end of one nested layer. The counter never goes negative;
// stray leaves are absorbed.
func (o *OverlayCounter) Leave() {
	if o.depth > 0 {
		o.depth--
	}
}

// Drop resets the counter to zero and hides the overlay, regardless of how
// many enters are outstanding.
func (o *OverlayCounter) Drop() {
	o.depth = 0
}

// Visible reports whether the overlay should be shown.
func (o *OverlayCounter) Visible() bool {
	return o.depth > 0
}

// Depth returns the current nesting level.
func (o *OverlayCounter) Depth() int {
	return o.depth
}

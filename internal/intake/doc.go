// Package intake models how save files enter the application.
//
// # Overview
//
// Three entry points feed the explorer: the file picker, a typed path, and a
// watched drop directory. All of them funnel into a single state machine so
// the UI has one source of truth for "what is being loaded and how did it
// go".
//
// # State machine
//
//	        Begin()                Complete()
//	Idle ────────────► Uploading ─────────────► Success ──┐
//	  ▲                    │                              │ Begin()
//	  │                    │ Fail()                       ▼
//	  │                    └─────────────► Error ────► Uploading
//	  │                                      │
//	  └──────── (zero files: no transition) ─┘
//
// Both terminal states accept a new file. A failed attempt only changes the
// status line; the previously displayed header and tree survive it.
//
// # Overlay counter
//
// OverlayCounter keeps the intake overlay visible across nested begin/end
// pairs from the drop-directory watcher. Each layer of activity increments on
// enter and decrements on leave (floored at zero); the overlay hides only at
// depth zero, and a completed drop resets it unconditionally.
package intake

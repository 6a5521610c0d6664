package alert

// CursorState is one of the explicit states of the resolve-next workflow.
type CursorState string

const (
	CursorIdle       CursorState = "idle"
	CursorPresenting CursorState = "presenting"
	CursorResolving  CursorState = "resolving"
	CursorAdvancing  CursorState = "advancing"
)

// Cursor walks an operator through open alerts one at a time. It holds no
// source of truth: "resolving" an alert means performing the underlying
// action (logging a reading, completing a cleaning, disposing of a product);
// each Sync re-seeds the cursor from a freshly derived report, so entities
// changed by someone else simply disappear from the walk. Last write wins,
// no conflict detection.
type Cursor struct {
	state    CursorState
	current  *Alert
	resolved map[string]bool
	skipped  map[string]bool
}

// NewCursor returns an idle cursor with an empty resolved set.
func NewCursor() *Cursor {
	return &Cursor{
		state:    CursorIdle,
		resolved: make(map[string]bool),
		skipped:  make(map[string]bool),
	}
}

// State returns the current workflow state.
func (c *Cursor) State() CursorState { return c.state }

// Current returns the alert being presented, or nil outside presenting and
// resolving.
func (c *Cursor) Current() *Alert { return c.current }

// Start begins the walk over a report. From idle it presents the first
// unresolved alert, or stays idle when the report is clear. Calling Start in
// any other state is a no-op.
func (c *Cursor) Start(r Report) {
	if c.state != CursorIdle {
		return
	}
	c.present(r)
}

// BeginResolve marks the presented alert as being acted on. Only legal while
// presenting.
func (c *Cursor) BeginResolve() bool {
	if c.state != CursorPresenting || c.current == nil {
		return false
	}
	c.state = CursorResolving
	return true
}

// CompleteResolve records the presented alert as handled for this walk and
// moves to advancing. Only legal while resolving.
func (c *Cursor) CompleteResolve() bool {
	if c.state != CursorResolving || c.current == nil {
		return false
	}
	c.resolved[c.current.Key()] = true
	c.state = CursorAdvancing
	return true
}

// Skip passes over the presented alert without acting on it. It stays
// unresolved and will come back on the next walk: skips are forgotten the
// moment the walk ends, unlike resolutions.
func (c *Cursor) Skip() bool {
	if c.state != CursorPresenting || c.current == nil {
		return false
	}
	c.skipped[c.current.Key()] = true
	c.state = CursorAdvancing
	return true
}

// Sync advances to the next unresolved alert against a freshly recomputed
// report. Alerts that vanished from the report (the underlying entity was
// handled, possibly by someone else) are simply not presented again.
func (c *Cursor) Sync(r Report) {
	if c.state != CursorAdvancing && c.state != CursorPresenting {
		return
	}
	c.present(r)
}

// Reset returns the cursor to idle and forgets the walk's resolved and
// skipped sets.
func (c *Cursor) Reset() {
	c.state = CursorIdle
	c.current = nil
	c.resolved = make(map[string]bool)
	c.skipped = make(map[string]bool)
}

func (c *Cursor) present(r Report) {
	passed := make(map[string]bool, len(c.resolved)+len(c.skipped))
	for key := range c.resolved {
		passed[key] = true
	}
	for key := range c.skipped {
		passed[key] = true
	}

	next := NextUnresolved(r.All(), passed)
	if next == nil {
		// Walk over. Skipped alerts come back on the next walk.
		c.state = CursorIdle
		c.current = nil
		c.skipped = make(map[string]bool)
		return
	}
	c.state = CursorPresenting
	c.current = next
}

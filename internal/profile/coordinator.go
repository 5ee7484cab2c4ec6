package profile

// SaveRequest is one store update, numbered by submission order.
type SaveRequest struct {
	Seq  uint64
	Pair Pair
}

// Completion classifies a finished store call.
type Completion int

const (
	// CompletionStale is a response nobody is waiting for any more.
	CompletionStale Completion = iota
	// CompletionApplied is the newest request; its result reaches the session.
	CompletionApplied
	// CompletionSuperseded finished while a newer request was queued.
	CompletionSuperseded
)

func (c Completion) String() string {
	switch c {
	case CompletionApplied:
		return "applied"
	case CompletionSuperseded:
		return "superseded"
	default:
		return "stale"
	}
}

// Coordinator keeps at most one store update in flight and holds at most one
// queued request behind it. A newer submission replaces the queued one, so the
// last submitted parameters always win regardless of completion order.
type Coordinator struct {
	seq      uint64
	applied  uint64
	inflight *SaveRequest
	queued   *SaveRequest
}

// Submit registers a save of p. It returns the request whose completion will
// carry the outcome, and launch=true when the caller must start the store call.
// Submitting the pair that is already in flight joins that call.
func (c *Coordinator) Submit(p Pair) (req SaveRequest, launch bool) {
	if c.inflight == nil {
		c.seq++
		c.inflight = &SaveRequest{Seq: c.seq, Pair: p}
		return *c.inflight, true
	}
	if c.inflight.Pair == p {
		c.queued = nil
		return *c.inflight, false
	}
	c.seq++
	c.queued = &SaveRequest{Seq: c.seq, Pair: p}
	return *c.queued, false
}

// Complete records the end of the store call numbered seq. When a queued request
// exists it becomes the new in-flight request and is returned for launching.
func (c *Coordinator) Complete(seq uint64) (Completion, *SaveRequest) {
	if c.inflight == nil || c.inflight.Seq != seq || seq <= c.applied {
		return CompletionStale, nil
	}
	c.inflight = nil
	if c.queued != nil {
		next := *c.queued
		c.queued = nil
		c.inflight = &next
		launch := next
		return CompletionSuperseded, &launch
	}
	c.applied = seq
	return CompletionApplied, nil
}

// Cancel forgets the in-flight and queued requests; their responses become stale.
func (c *Coordinator) Cancel() {
	c.inflight = nil
	c.queued = nil
}

// Busy reports whether a store call is outstanding.
func (c *Coordinator) Busy() bool {
	return c.inflight != nil
}

// InFlight returns the outstanding request, if any.
func (c *Coordinator) InFlight() (SaveRequest, bool) {
	if c.inflight == nil {
		return SaveRequest{}, false
	}
	return *c.inflight, true
}

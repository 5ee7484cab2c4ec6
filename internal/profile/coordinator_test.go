package profile

import "testing"

func TestCoordinator_LaunchesWhenIdle(t *testing.T) {
	var c Coordinator
	req, launch := c.Submit(Pair{Handle: "abc", Avatar: "C1"})
	if !launch || req.Seq != 1 {
		t.Fatalf("Submit = (%+v, %v), want seq 1 launched", req, launch)
	}
	if !c.Busy() {
		t.Fatalf("Busy = false after launch")
	}
	outcome, next := c.Complete(req.Seq)
	if outcome != CompletionApplied || next != nil {
		t.Fatalf("Complete = (%v, %v), want applied with nothing next", outcome, next)
	}
	if c.Busy() {
		t.Fatalf("Busy = true after completion")
	}
}

func TestCoordinator_QueuesAndReplaces(t *testing.T) {
	var c Coordinator
	first, _ := c.Submit(Pair{Handle: "abc", Avatar: "C1"})

	second, launch := c.Submit(Pair{Handle: "abc", Avatar: "C2"})
	if launch {
		t.Fatalf("second submit launched while one is in flight")
	}
	third, launch := c.Submit(Pair{Handle: "abc", Avatar: "C3"})
	if launch {
		t.Fatalf("third submit launched while one is in flight")
	}
	if third.Seq <= second.Seq {
		t.Fatalf("third seq %d not newer than second %d", third.Seq, second.Seq)
	}

	outcome, next := c.Complete(first.Seq)
	if outcome != CompletionSuperseded {
		t.Fatalf("first completion = %v, want superseded", outcome)
	}
	if next == nil || next.Pair.Avatar != "C3" {
		t.Fatalf("next = %+v, want the C3 request", next)
	}

	outcome, _ = c.Complete(second.Seq)
	if outcome != CompletionStale {
		t.Fatalf("replaced request completion = %v, want stale", outcome)
	}
	outcome, _ = c.Complete(next.Seq)
	if outcome != CompletionApplied {
		t.Fatalf("last completion = %v, want applied", outcome)
	}
}

func TestCoordinator_JoinsIdenticalInFlight(t *testing.T) {
	var c Coordinator
	first, _ := c.Submit(Pair{Handle: "abc", Avatar: "C1"})
	_, _ = c.Submit(Pair{Handle: "abc", Avatar: "C2"})

	joined, launch := c.Submit(Pair{Handle: "abc", Avatar: "C1"})
	if launch || joined.Seq != first.Seq {
		t.Fatalf("Submit = (%+v, %v), want join of seq %d", joined, launch, first.Seq)
	}
	outcome, next := c.Complete(first.Seq)
	if outcome != CompletionApplied || next != nil {
		t.Fatalf("Complete = (%v, %v), want applied: joining drops the queued request", outcome, next)
	}
}

func TestCoordinator_OldResponseNeverApplies(t *testing.T) {
	var c Coordinator
	first, _ := c.Submit(Pair{Handle: "abc", Avatar: "C1"})
	if outcome, _ := c.Complete(first.Seq); outcome != CompletionApplied {
		t.Fatalf("first completion = %v, want applied", outcome)
	}
	second, _ := c.Submit(Pair{Handle: "abc", Avatar: "C2"})
	if outcome, _ := c.Complete(second.Seq); outcome != CompletionApplied {
		t.Fatalf("second completion = %v, want applied", outcome)
	}
	if outcome, _ := c.Complete(first.Seq); outcome != CompletionStale {
		t.Fatalf("replayed first completion = %v, want stale", outcome)
	}
}

func TestCoordinator_CancelMakesEverythingStale(t *testing.T) {
	var c Coordinator
	first, _ := c.Submit(Pair{Handle: "abc", Avatar: "C1"})
	_, _ = c.Submit(Pair{Handle: "abc", Avatar: "C2"})
	c.Cancel()
	if c.Busy() {
		t.Fatalf("Busy = true after Cancel")
	}
	if outcome, next := c.Complete(first.Seq); outcome != CompletionStale || next != nil {
		t.Fatalf("Complete after Cancel = (%v, %v), want stale", outcome, next)
	}
}

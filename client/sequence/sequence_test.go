package sequence

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPlayRunsStepsInOrder(t *testing.T) {
	var got []int
	steps := []Step{
		{Kind: Append, Run: func() { got = append(got, 0) }},
		{Kind: Append, Run: func() { got = append(got, 1) }},
		{Kind: Reveal, Run: func() { got = append(got, 2) }},
		{Kind: Finalize, Run: func() { got = append(got, 3) }},
	}
	var r Runner
	if err := r.Play(context.Background(), steps); err != nil {
		t.Fatalf("Play: %v", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("steps out of order: %v", got)
		}
	}
	if len(got) != 4 {
		t.Fatalf("ran %d steps, want 4", len(got))
	}
}

func TestPlayRejectsOverlap(t *testing.T) {
	var r Runner
	var inner error
	steps := []Step{{Kind: Append, Run: func() {
		inner = r.Play(context.Background(), []Step{{Kind: Append, Run: func() {}}})
	}}}
	if err := r.Play(context.Background(), steps); err != nil {
		t.Fatalf("outer Play: %v", err)
	}
	if !errors.Is(inner, ErrBusy) {
		t.Fatalf("overlapping Play: err = %v", inner)
	}
	// Finished sequences release the runner.
	if err := r.Play(context.Background(), []Step{{Kind: Append, Run: func() {}}}); err != nil {
		t.Fatalf("Play after completion: %v", err)
	}
}

func TestPlayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ran := 0
	steps := []Step{
		{Kind: Append, Run: func() { ran++; cancel() }},
		{Kind: Append, Run: func() { ran++ }},
	}
	var r Runner
	if err := r.Play(ctx, steps); !errors.Is(err, context.Canceled) {
		t.Fatalf("Play after cancel: err = %v", err)
	}
	if ran != 1 {
		t.Fatalf("ran %d steps after cancellation, want 1", ran)
	}
}

func TestPlayCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var r Runner
	ran := false
	err := r.Play(ctx, []Step{{Kind: Append, Run: func() { ran = true }}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if ran {
		t.Fatalf("step ran on a cancelled context")
	}
}

func TestPlayCancelDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	var r Runner
	ran := false
	start := time.Now()
	err := r.Play(ctx, []Step{{Kind: Append, Delay: time.Minute, Run: func() { ran = true }}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if ran {
		t.Fatalf("step ran despite cancellation")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("cancellation did not interrupt the delay")
	}
}

func TestDefaultTimings(t *testing.T) {
	tm := DefaultTimings()
	if tm.FirstCard <= 0 || tm.NextCard <= 0 || tm.Flip <= 0 || tm.Settle <= 0 {
		t.Fatalf("default timings contain zeros: %+v", tm)
	}
}

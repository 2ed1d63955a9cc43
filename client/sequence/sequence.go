// Package sequence turns a batch of authoritative cards/events into an
// ordered, timed series of presentation steps. One sequence runs at a time;
// cancelling the context invalidates every pending delay in one shot.
package sequence

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

type Kind int

const (
	Append   Kind = iota // add a card (or hidden-card placeholder) to a hand
	Reveal               // flip a previously hidden card
	Finalize             // settle a hand's displayed score
)

func (k Kind) String() string {
	switch k {
	case Append:
		return "append"
	case Reveal:
		return "reveal"
	case Finalize:
		return "finalize"
	}
	return "unknown"
}

// Step performs exactly one presentation action after its delay.
type Step struct {
	Kind  Kind
	Delay time.Duration
	Run   func()
}

var ErrBusy = errors.New("sequence already in progress")

// Timings carries the inter-step delays. The zero value plays everything
// instantly, which is what the tests and FAST mode use.
type Timings struct {
	FirstCard time.Duration // pause before the first card of a batch
	NextCard  time.Duration // pause between subsequent cards
	Flip      time.Duration // pause before the hole-card reveal
	Settle    time.Duration // pause before scores/outcome settle
}

func DefaultTimings() Timings {
	return Timings{
		FirstCard: 500 * time.Millisecond,
		NextCard:  800 * time.Millisecond,
		Flip:      500 * time.Millisecond,
		Settle:    time.Second,
	}
}

type Runner struct {
	running atomic.Bool
}

// Play executes steps strictly in order, waiting each step's delay first.
// It rejects overlap with ErrBusy and stops without running further steps
// once ctx is cancelled. A stopped sequence cannot be resumed.
func (r *Runner) Play(ctx context.Context, steps []Step) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer r.running.Store(false)
	for _, s := range steps {
		if err := wait(ctx, s.Delay); err != nil {
			return err
		}
		s.Run()
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

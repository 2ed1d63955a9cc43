package gamesvc

import (
	"errors"
	"fmt"

	"greenfelt/client/engine"
)

// RoundStarted, CardDealt and RoundResolved are the engine-facing events a
// successful call normalizes into. A failed call never produces a partial
// event: callers get exactly one of (event, nil) or (zero, error).

type RoundStarted struct {
	RoundID    string
	PlayerHand engine.Hand
	DealerUp   engine.Card
	DealerHole engine.Card
}

type CardDealt struct {
	PlayerHand engine.Hand
	Busted     bool
	Message    string
}

type RoundResolved struct {
	DealerHand engine.Hand
	Outcome    engine.Outcome
	AmountWon  float64
	Message    string
}

// ErrSessionExpired is returned for a 401; the round cannot outlive its
// authenticating session, so the caller abandons it and re-authenticates.
var ErrSessionExpired = errors.New("session expired")

type Kind int

const (
	KindTransport  Kind = iota // request never completed
	KindRejected               // server answered with a non-2xx status
	KindBadPayload             // reply arrived but could not be normalized
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindBadPayload:
		return "bad-payload"
	}
	return "unknown"
}

// Error is the adapter failure taxonomy. Whatever the Kind, the caller may
// treat it as "no state change occurred".
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("game service %s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("game service %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

func badPayload(format string, args ...any) error {
	return &Error{Kind: KindBadPayload, Message: fmt.Sprintf(format, args...)}
}

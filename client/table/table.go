// Package table drives one blackjack table: it validates user actions
// against the round's phase, issues the matching Game Service request, and
// plays the reply back as a timed presentation sequence before the phase
// advances. Requests are strictly serialized per round.
package table

import (
	"context"
	"errors"
	"time"

	"greenfelt/client/cues"
	"greenfelt/client/engine"
	"greenfelt/client/gamesvc"
	"greenfelt/client/sequence"
)

// Service is the Game Service boundary. gamesvc.Client satisfies it; tests
// substitute fakes.
type Service interface {
	StartRound(ctx context.Context, bet float64) (gamesvc.RoundStarted, error)
	Hit(ctx context.Context, roundID string) (gamesvc.CardDealt, error)
	Stand(ctx context.Context, roundID string) (gamesvc.RoundResolved, error)
}

// View receives presentation updates in sequencer order. Implementations
// render; they never mutate the round.
type View interface {
	StepShown(k sequence.Kind, r *engine.Round)
	CuePlayed(c cues.Cue)
	Message(s string)
}

type Config struct {
	MinBet  float64
	MaxBet  float64
	Timings sequence.Timings
}

// Defaults match the original cashier bounds.
const (
	DefaultMinBet = 10
	DefaultMaxBet = 1000
)

type Table struct {
	cfg    Config
	svc    Service
	view   View
	seq    sequence.Runner
	round  *engine.Round
	ctx    context.Context
	cancel context.CancelFunc
}

func New(cfg Config, svc Service, view View) *Table {
	if cfg.MinBet <= 0 {
		cfg.MinBet = DefaultMinBet
	}
	if cfg.MaxBet <= 0 {
		cfg.MaxBet = DefaultMaxBet
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Table{
		cfg:    cfg,
		svc:    svc,
		view:   view,
		round:  engine.NewRound(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Round exposes the active round for reading only.
func (t *Table) Round() *engine.Round { return t.round }

// Close tears the table down. Pending delays and the handling of any
// in-flight reply are invalidated: nothing mutates the round afterwards.
func (t *Table) Close() { t.cancel() }

// Deal places the bet and starts a round. It returns once the opening deal
// has been fully presented and the phase is PlayerTurn.
func (t *Table) Deal(bet float64) error {
	if err := t.round.BeginStart(bet, t.cfg.MinBet, t.cfg.MaxBet); err != nil {
		return err
	}
	ev, err := t.svc.StartRound(t.ctx, bet)
	if err != nil {
		return t.fail(err)
	}
	if t.ctx.Err() != nil {
		return t.ctx.Err()
	}
	t.round.ApplyStart(ev.RoundID)
	if err := t.seq.Play(t.ctx, t.startSteps(ev)); err != nil {
		return err
	}
	t.round.DealComplete()
	return nil
}

// Hit asks for one more card. On a bust the round ends right here as a
// loss: the hand cannot win once it is over 21, and waiting for the
// dealer-turn round trip would only delay the verdict.
func (t *Table) Hit() error {
	if err := t.round.BeginHit(); err != nil {
		return err
	}
	ev, err := t.svc.Hit(t.ctx, t.round.ID)
	if err != nil {
		return t.fail(err)
	}
	if t.ctx.Err() != nil {
		return t.ctx.Err()
	}
	// The reply carries the full hand; only the new tail is presented.
	shown := len(t.round.Player)
	if shown > len(ev.PlayerHand) {
		shown = len(ev.PlayerHand)
	}
	fresh := ev.PlayerHand[shown:]
	t.round.ApplyHit(ev.Busted)

	tm := t.cfg.Timings
	steps := make([]sequence.Step, 0, len(fresh)+1)
	for i, c := range fresh {
		d := tm.FirstCard
		if i > 0 {
			d = tm.NextCard
		}
		steps = append(steps, t.appendPlayer(d, c))
	}
	steps = append(steps, t.finalize(tm.NextCard))
	if err := t.seq.Play(t.ctx, steps); err != nil {
		return err
	}
	t.round.DealComplete()
	if t.round.Phase == engine.Ended {
		t.announce(ev.Message)
	}
	return nil
}

// Stand ends the player's turn and plays out the dealer's hand as the
// server resolved it. The hole card is revealed exactly once, as the first
// step of the resolution sequence.
func (t *Table) Stand() error {
	if err := t.round.BeginStand(); err != nil {
		return err
	}
	ev, err := t.svc.Stand(t.ctx, t.round.ID)
	if err != nil {
		return t.fail(err)
	}
	if t.ctx.Err() != nil {
		return t.ctx.Err()
	}
	t.round.ApplyResolved(ev.Outcome, ev.AmountWon)
	if t.round.Phase != engine.DealerTurn {
		return nil // duplicate reply after the round already ended
	}
	if err := t.seq.Play(t.ctx, t.standSteps(ev)); err != nil {
		return err
	}
	t.round.ResolveComplete()
	t.announce(ev.Message)
	return nil
}

// Again discards a finished round so a new bet can be placed.
func (t *Table) Again() error { return t.round.Reset() }

func (t *Table) startSteps(ev gamesvc.RoundStarted) []sequence.Step {
	tm := t.cfg.Timings
	return []sequence.Step{
		t.appendPlayer(tm.FirstCard, ev.PlayerHand[0]),
		t.appendDealer(tm.NextCard, ev.DealerUp),
		t.appendPlayer(tm.NextCard, ev.PlayerHand[1]),
		t.placeHole(tm.NextCard, ev.DealerHole),
		t.finalize(tm.Settle),
	}
}

func (t *Table) standSteps(ev gamesvc.RoundResolved) []sequence.Step {
	tm := t.cfg.Timings
	steps := []sequence.Step{{Kind: sequence.Reveal, Delay: tm.Flip, Run: func() {
		t.round.RevealHole()
		t.shown(sequence.Reveal)
	}}}
	shown := len(t.round.Dealer) + 1 // up-card(s) plus the hole about to flip
	if shown > len(ev.DealerHand) {
		shown = len(ev.DealerHand)
	}
	for _, c := range ev.DealerHand[shown:] {
		steps = append(steps, t.appendDealer(tm.NextCard, c))
	}
	return append(steps, t.finalize(tm.Settle))
}

func (t *Table) appendPlayer(d time.Duration, c engine.Card) sequence.Step {
	return sequence.Step{Kind: sequence.Append, Delay: d, Run: func() {
		t.round.AppendPlayer(c)
		t.shown(sequence.Append)
	}}
}

func (t *Table) appendDealer(d time.Duration, c engine.Card) sequence.Step {
	return sequence.Step{Kind: sequence.Append, Delay: d, Run: func() {
		t.round.AppendDealer(c)
		t.shown(sequence.Append)
	}}
}

func (t *Table) placeHole(d time.Duration, c engine.Card) sequence.Step {
	return sequence.Step{Kind: sequence.Append, Delay: d, Run: func() {
		t.round.SetHole(c)
		t.shown(sequence.Append)
	}}
}

func (t *Table) finalize(d time.Duration) sequence.Step {
	return sequence.Step{Kind: sequence.Finalize, Delay: d, Run: func() {
		t.shown(sequence.Finalize)
	}}
}

func (t *Table) shown(k sequence.Kind) {
	t.view.StepShown(k, t.round)
	for _, c := range cues.ForStep(k) {
		t.view.CuePlayed(c)
	}
}

func (t *Table) announce(msg string) {
	r := t.round
	mult := 0
	if r.Outcome == engine.Won && r.Bet > 0 {
		mult = int(r.AmountWon / r.Bet)
	}
	for _, c := range cues.ForOutcome(r.Outcome, mult) {
		t.view.CuePlayed(c)
	}
	if msg == "" {
		msg = defaultMessage(r.Outcome)
	}
	t.view.Message(msg)
}

// fail reverts the in-flight latch and surfaces the failure. After
// teardown nothing is touched; the round is already discarded.
func (t *Table) fail(err error) error {
	if t.ctx.Err() != nil {
		return t.ctx.Err()
	}
	if errors.Is(err, gamesvc.ErrSessionExpired) {
		t.cancel()
		t.view.Message("session expired, sign in again")
		return err
	}
	t.round.Fail()
	var ae *gamesvc.Error
	if errors.As(err, &ae) {
		t.view.Message(ae.Message)
	} else {
		t.view.Message(err.Error())
	}
	return err
}

func defaultMessage(o engine.Outcome) string {
	switch o {
	case engine.Won:
		return "you win"
	case engine.Lost:
		return "the house wins"
	case engine.Tied:
		return "push"
	}
	return ""
}

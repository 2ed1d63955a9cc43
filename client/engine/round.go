package engine

import (
	"errors"
	"fmt"
)

type Phase int

const (
	Idle Phase = iota
	Dealing
	PlayerTurn
	DealerTurn
	Ended
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dealing:
		return "dealing"
	case PlayerTurn:
		return "player-turn"
	case DealerTurn:
		return "dealer-turn"
	case Ended:
		return "ended"
	}
	return "unknown"
}

type Outcome int

const (
	Undecided Outcome = iota
	Won
	Lost
	Tied
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Tied:
		return "tied"
	}
	return "undecided"
}

var (
	ErrInvalidBet    = errors.New("invalid bet")
	ErrIllegalAction = errors.New("illegal action")
)

// Round is one play of the game from bet placement to outcome. The server
// owns card order and results; the Round only tracks what has been presented
// and which actions are currently legal. All mutation happens through the
// Begin*/Apply*/append methods below.
type Round struct {
	ID        string
	Bet       float64
	Player    Hand
	Dealer    Hand
	Hole      *Card // dealer's face-down card, nil once revealed
	Phase     Phase
	Outcome   Outcome
	AmountWon float64

	inFlight       bool
	busted         bool
	pendingOutcome Outcome
	pendingWon     float64
}

func NewRound() *Round { return &Round{} }

func (r *Round) InFlight() bool { return r.inFlight }

// BeginStart validates the bet and latches the start request. The phase
// stays Idle until the server's reply has been applied.
func (r *Round) BeginStart(bet, min, max float64) error {
	if r.Phase != Idle {
		return fmt.Errorf("%w: deal in phase %s", ErrIllegalAction, r.Phase)
	}
	if r.inFlight {
		return fmt.Errorf("%w: request already in flight", ErrIllegalAction)
	}
	if bet <= 0 || bet < min || bet > max {
		return fmt.Errorf("%w: %v outside [%v, %v]", ErrInvalidBet, bet, min, max)
	}
	r.Bet = bet
	r.inFlight = true
	return nil
}

func (r *Round) BeginHit() error   { return r.beginAction("hit") }
func (r *Round) BeginStand() error { return r.beginAction("stand") }

func (r *Round) beginAction(name string) error {
	if r.inFlight {
		return fmt.Errorf("%w: %s while a request is in flight", ErrIllegalAction, name)
	}
	if r.Phase != PlayerTurn {
		return fmt.Errorf("%w: %s in phase %s", ErrIllegalAction, name, r.Phase)
	}
	r.inFlight = true
	return nil
}

// Fail reverts an in-flight request. The phase is unchanged: the failed
// call caused no state change.
func (r *Round) Fail() { r.inFlight = false }

// ApplyStart records the server-issued round id and enters Dealing. Cards
// arrive through the sequencer's append calls, not here.
func (r *Round) ApplyStart(id string) {
	r.ID = id
	r.inFlight = false
	r.busted = false
	r.Phase = Dealing
}

// ApplyHit re-enters Dealing for the new card's presentation. The server's
// bust verdict is held until DealComplete.
func (r *Round) ApplyHit(busted bool) {
	r.inFlight = false
	r.busted = busted
	r.Phase = Dealing
}

// DealComplete leaves Dealing once every card from the reply has been
// shown. A busted hand ends the round immediately as a loss: over 21 it
// cannot be won no matter what the server later says.
func (r *Round) DealComplete() {
	if r.Phase != Dealing {
		return
	}
	if r.busted || Bust(r.Player) {
		r.Phase = Ended
		r.Outcome = Lost
		return
	}
	r.Phase = PlayerTurn
}

// ApplyResolved stores the server's verdict and enters DealerTurn. The
// outcome becomes visible only at ResolveComplete, after the dealer's
// cards have been presented. A duplicate reply after Ended is inert.
func (r *Round) ApplyResolved(outcome Outcome, amountWon float64) {
	if r.Phase == Ended {
		return
	}
	r.inFlight = false
	r.pendingOutcome = outcome
	r.pendingWon = amountWon
	r.Phase = DealerTurn
}

func (r *Round) ResolveComplete() {
	if r.Phase != DealerTurn {
		return
	}
	r.Outcome = r.pendingOutcome
	r.AmountWon = r.pendingWon
	r.Phase = Ended
}

// Reset discards a finished round so a fresh one can be dealt.
func (r *Round) Reset() error {
	if r.Phase != Ended && r.Phase != Idle {
		return fmt.Errorf("%w: reset in phase %s", ErrIllegalAction, r.Phase)
	}
	*r = Round{}
	return nil
}

func (r *Round) AppendPlayer(c Card) { r.Player = append(r.Player, c) }
func (r *Round) AppendDealer(c Card) { r.Dealer = append(r.Dealer, c) }

func (r *Round) SetHole(c Card) { r.Hole = &c }

// RevealHole clears the face-down card and appends it to the dealer's
// hand. It fires at most once per round.
func (r *Round) RevealHole() (Card, bool) {
	if r.Hole == nil {
		return Card{}, false
	}
	c := *r.Hole
	r.Hole = nil
	r.Dealer = append(r.Dealer, c)
	return c, true
}

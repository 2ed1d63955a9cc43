package main

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"greenfelt/client/cues"
	"greenfelt/client/engine"
	"greenfelt/client/gamesvc"
	"greenfelt/client/sequence"
	"greenfelt/client/table"
)

// termView renders the table to the terminal. Cue identifiers map to
// whatever presentation is at hand; here that's pterm prefixes.
type termView struct{}

func (termView) StepShown(_ sequence.Kind, r *engine.Round) { renderTable(r) }

func (termView) CuePlayed(c cues.Cue) {
	switch c.ID {
	case cues.WinFanfare:
		pterm.Success.Printfln("winner, %dx the bet", c.Level)
	case cues.LoseTone:
		pterm.Error.Println("better luck next time")
	case cues.PushTone:
		pterm.Info.Println("push")
	}
}

func (termView) Message(s string) {
	if s != "" {
		pterm.Info.Println(s)
	}
}

func renderTable(r *engine.Round) {
	dealer := handLine(r.Dealer)
	if r.Hole != nil {
		dealer += "  [??]"
	}
	dealerBox := pterm.DefaultBox.WithTitle("Dealer").WithTitleTopLeft().
		Sprintf("%s\nScore: %d", dealer, engine.Score(r.Dealer))
	playerBox := pterm.DefaultBox.WithTitle("You").WithTitleTopLeft().
		Sprintf("%s\nScore: %d", handLine(r.Player), engine.Score(r.Player))
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{{Data: dealerBox}},
		{{Data: playerBox}},
	}).Render()
}

func handLine(h engine.Hand) string {
	if len(h) == 0 {
		return "--"
	}
	parts := make([]string, len(h))
	for i, c := range h {
		s := c.String()
		if c.Suit == engine.Hearts || c.Suit == engine.Diamonds {
			s = pterm.LightRed(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, "  ")
}

func playLoop(ctx context.Context, t *table.Table) {
	pterm.DefaultHeader.Println("Greenfelt Blackjack")
	for ctx.Err() == nil {
		switch t.Round().Phase {
		case engine.Idle:
			raw, _ := pterm.DefaultInteractiveTextInput.
				WithDefaultText("Bet amount").WithDefaultValue("50").Show()
			bet, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				pterm.Error.Println("enter a number")
				continue
			}
			if err := t.Deal(bet); err != nil && !recoverable(err) {
				return
			}
		case engine.PlayerTurn:
			choice, _ := pterm.DefaultInteractiveSelect.
				WithDefaultText("Your move").
				WithOptions([]string{"Hit", "Stand", "Walk away"}).Show()
			var err error
			switch choice {
			case "Hit":
				err = t.Hit()
			case "Stand":
				err = t.Stand()
			default:
				return
			}
			if err != nil && !recoverable(err) {
				return
			}
		case engine.Ended:
			again, _ := pterm.DefaultInteractiveConfirm.
				WithDefaultText("Play again?").WithDefaultValue(true).Show()
			if !again {
				return
			}
			if err := t.Again(); err != nil && !recoverable(err) {
				return
			}
		default:
			return // torn down mid-round
		}
	}
}

// recoverable reports whether the table can keep taking input after err.
// A user-initiated retry re-issues the action; nothing retries on its own.
func recoverable(err error) bool {
	switch {
	case errors.Is(err, gamesvc.ErrSessionExpired), errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, engine.ErrInvalidBet), errors.Is(err, engine.ErrIllegalAction):
		pterm.Error.Println(err.Error())
		return true
	}
	var ae *gamesvc.Error
	if errors.As(err, &ae) {
		return true // message already surfaced through the view
	}
	pterm.Error.Println(err.Error())
	return true
}

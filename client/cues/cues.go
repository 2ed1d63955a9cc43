// Package cues maps phase/outcome events to abstract presentation cue
// identifiers. Rendering them as sound or visuals is someone else's job.
package cues

import (
	"greenfelt/client/engine"
	"greenfelt/client/sequence"
)

const (
	CardDealt  = "card-dealt"
	Reveal     = "reveal"
	WinFanfare = "win-fanfare"
	LoseTone   = "lose-tone"
	PushTone   = "push-tone"
)

// Cue is an opaque identifier; Level carries the win magnitude when set.
type Cue struct {
	ID    string
	Level int
}

// ForStep maps one presentation step to its cue.
func ForStep(k sequence.Kind) []Cue {
	switch k {
	case sequence.Append:
		return []Cue{{ID: CardDealt}}
	case sequence.Reveal:
		return []Cue{{ID: Reveal}}
	}
	return nil
}

// ForOutcome maps a terminal outcome to its cue. The win fanfare scales by
// the bet multiple handed in; this package never computes it.
func ForOutcome(o engine.Outcome, multiple int) []Cue {
	switch o {
	case engine.Won:
		return []Cue{{ID: WinFanfare, Level: multiple}}
	case engine.Lost:
		return []Cue{{ID: LoseTone}}
	case engine.Tied:
		return []Cue{{ID: PushTone}}
	}
	return nil
}

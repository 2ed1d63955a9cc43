package gamesvc

import (
	"strconv"
	"strings"

	"greenfelt/client/engine"
)

type wireCard struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// The service is free to spell cards verbosely ("HEARTS", "ACE"); only the
// normalized forms ever leave the adapter.

func normalizeRank(s string) (engine.Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "ACE":
		return "A", nil
	case "K", "KING":
		return "K", nil
	case "Q", "QUEEN":
		return "Q", nil
	case "J", "JACK":
		return "J", nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 2 || n > 10 {
		return "", badPayload("unknown rank %q", s)
	}
	return engine.Rank(strconv.Itoa(n)), nil
}

func normalizeSuit(s string) (engine.Suit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "♠", "SPADES":
		return engine.Spades, nil
	case "♥", "HEARTS":
		return engine.Hearts, nil
	case "♦", "DIAMONDS":
		return engine.Diamonds, nil
	case "♣", "CLUBS":
		return engine.Clubs, nil
	}
	return "", badPayload("unknown suit %q", s)
}

func normalizeCard(w wireCard) (engine.Card, error) {
	r, err := normalizeRank(w.Rank)
	if err != nil {
		return engine.Card{}, err
	}
	s, err := normalizeSuit(w.Suit)
	if err != nil {
		return engine.Card{}, err
	}
	return engine.Card{Rank: r, Suit: s}, nil
}

func normalizeHand(ws []wireCard) (engine.Hand, error) {
	h := make(engine.Hand, 0, len(ws))
	for _, w := range ws {
		c, err := normalizeCard(w)
		if err != nil {
			return nil, err
		}
		h = append(h, c)
	}
	return h, nil
}

func normalizeOutcome(s string) (engine.Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "won", "win":
		return engine.Won, nil
	case "lost", "lose":
		return engine.Lost, nil
	case "tie", "tied", "push":
		return engine.Tied, nil
	}
	return engine.Undecided, badPayload("unknown result %q", s)
}

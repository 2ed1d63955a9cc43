package engine

import (
	"math/rand"
	"strconv"
	"time"
)

type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

type Rank string // "2".."10", "J", "Q", "K", "A"

type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string { return string(c.Rank) + string(c.Suit) }

// Hand is an ordered sequence of cards; insertion order is reveal order.
type Hand []Card

var ranks = []Rank{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
var suits = []Suit{Spades, Hearts, Diamonds, Clubs}

func value(r Rank) int {
	switch r {
	case "J", "Q", "K":
		return 10
	case "A":
		return 11
	default:
		n, _ := strconv.Atoi(string(r))
		return n
	}
}

// Score totals a hand with aces at 11, demoting one ace at a time to 1
// while the total is over 21. Recomputed from scratch on every call.
func Score(h Hand) int {
	total, aces := 0, 0
	for _, c := range h {
		total += value(c.Rank)
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

func Bust(h Hand) bool { return Score(h) > 21 }

// Blackjack reports a natural: 21 from the first two cards.
func Blackjack(h Hand) bool { return len(h) == 2 && Score(h) == 21 }

func NewDeck(seed int64) []Card {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	var deck []Card
	for _, s := range suits {
		for _, rnk := range ranks {
			deck = append(deck, Card{Rank: rnk, Suit: s})
		}
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

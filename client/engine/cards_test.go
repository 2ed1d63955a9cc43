package engine

import "testing"

func card(r Rank) Card { return Card{Rank: r, Suit: Spades} }

func hand(rs ...Rank) Hand {
	h := make(Hand, len(rs))
	for i, r := range rs {
		h[i] = card(r)
	}
	return h
}

func TestScore(t *testing.T) {
	cases := []struct {
		name string
		h    Hand
		want int
	}{
		{"empty", hand(), 0},
		{"number cards", hand("2", "9"), 11},
		{"face cards", hand("J", "Q", "K"), 30},
		{"ten and seven", hand("10", "7"), 17},
		{"soft ace", hand("A", "6"), 17},
		{"ace demoted once", hand("A", "6", "9"), 16},
		{"two aces", hand("A", "A"), 12},
		{"two aces with nine", hand("A", "A", "9"), 21},
		{"three aces", hand("A", "A", "A"), 13},
		{"four aces", hand("A", "A", "A", "A"), 14},
		{"four aces with face", hand("A", "A", "A", "A", "K"), 14},
		{"hard bust with ace", hand("A", "K", "Q", "5"), 26},
	}
	for _, tc := range cases {
		if got := Score(tc.h); got != tc.want {
			t.Errorf("%s: Score = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestScoreNeverSoftBusts(t *testing.T) {
	// With any number of aces, the total only exceeds 21 once every ace
	// counts as 1 and the hard total is still over.
	for aces := 0; aces <= 4; aces++ {
		h := hand("9", "9")
		for i := 0; i < aces; i++ {
			h = append(h, card("A"))
		}
		got := Score(h)
		want := 18 + aces
		if got != want {
			t.Fatalf("%d aces: Score = %d, want %d", aces, got, want)
		}
		if got <= 21 && Bust(h) {
			t.Fatalf("%d aces: bust reported for total %d", aces, got)
		}
	}
}

func TestBust(t *testing.T) {
	if Bust(hand("10", "7")) {
		t.Fatalf("17 reported as bust")
	}
	if !Bust(hand("10", "7", "8")) {
		t.Fatalf("25 not reported as bust")
	}
	if Bust(hand("A", "K", "Q")) {
		t.Fatalf("21 with demoted ace reported as bust")
	}
}

func TestBlackjack(t *testing.T) {
	if !Blackjack(hand("A", "K")) {
		t.Fatalf("A+K not a natural")
	}
	if Blackjack(hand("7", "7", "7")) {
		t.Fatalf("three-card 21 counted as natural")
	}
	if Blackjack(hand("10", "9")) {
		t.Fatalf("19 counted as natural")
	}
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck(42)
	if len(deck) != 52 {
		t.Fatalf("deck has %d cards", len(deck))
	}
	seen := map[Card]bool{}
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card %s", c)
		}
		seen[c] = true
	}
	again := NewDeck(42)
	for i := range deck {
		if deck[i] != again[i] {
			t.Fatalf("same seed produced different order at %d", i)
		}
	}
}

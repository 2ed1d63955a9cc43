package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"greenfelt/client/engine"
	"greenfelt/client/store"
)

// Local stand-in for the Game Service, used for development against a real
// HTTP boundary. It deliberately answers with verbose card spellings
// ("HEARTS", "ACE") so the adapter's normalization stays honest.

type simRound struct {
	ID     string
	Bet    float64
	Deck   []engine.Card
	Player engine.Hand
	Dealer engine.Hand
}

type simServer struct {
	mu     sync.Mutex
	rounds map[string]*simRound
	db     *store.DB // nil when DATABASE_URL is unset
	rng    *rand.Rand
}

func newSimRouter(db *store.DB) http.Handler {
	s := &simServer{
		rounds: make(map[string]*simRound),
		db:     db,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Get("/api/history", s.handleHistory)
	r.Route("/api/games/{gameID}", func(r chi.Router) {
		r.Use(requireBearer)
		r.Post("/start_blackjack/", s.handleStart)
		r.Post("/hit_blackjack/", s.handleHit)
		r.Post("/stand_blackjack/", s.handleStand)
	})
	return r
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *simServer) handleStart(w http.ResponseWriter, r *http.Request) {
	var in struct {
		BetAmount float64 `json:"bet_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.BetAmount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bet_amount must be positive"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rd := &simRound{
		ID:   fmt.Sprintf("sim-%08x", s.rng.Uint32()),
		Bet:  in.BetAmount,
		Deck: engine.NewDeck(s.rng.Int63()),
	}
	rd.Player = engine.Hand{rd.pop(), rd.pop()}
	rd.Dealer = engine.Hand{rd.pop(), rd.pop()}
	s.rounds[rd.ID] = rd
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id": rd.ID,
		"game_data": map[string]any{
			"player_hand": verboseHand(rd.Player),
			"dealer_hand": verboseHand(rd.Dealer),
		},
	})
}

func (s *simServer) handleHit(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rd.Player = append(rd.Player, rd.pop())
	busted := engine.Bust(rd.Player)
	resp := map[string]any{
		"game_data": map[string]any{"player_hand": verboseHand(rd.Player)},
		"busted":    busted,
	}
	if busted {
		resp["result"] = "lost"
		resp["amount_won"] = 0
		resp["message"] = "over 21, the house wins"
		s.finish(r.Context(), rd, "lost", 0)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *simServer) handleStand(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for engine.Score(rd.Dealer) < 17 {
		rd.Dealer = append(rd.Dealer, rd.pop())
	}
	ps, ds := engine.Score(rd.Player), engine.Score(rd.Dealer)
	var result string
	var amount float64
	switch {
	case ds > 21 || ps > ds:
		result = "won"
		amount = rd.Bet * 2
		if engine.Blackjack(rd.Player) {
			amount = rd.Bet * 2.5
		}
	case ps == ds:
		result = "tie"
		amount = rd.Bet
	default:
		result = "lost"
	}
	s.finish(r.Context(), rd, result, amount)
	writeJSON(w, http.StatusOK, map[string]any{
		"game_data":  map[string]any{"dealer_hand": verboseHand(rd.Dealer)},
		"result":     result,
		"amount_won": amount,
		"message":    standMessage(result, amount),
	})
}

func (s *simServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, []store.RoundRow{})
		return
	}
	rows, err := s.db.RecentRounds(r.Context(), 50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *simServer) lookup(w http.ResponseWriter, r *http.Request) (*simRound, bool) {
	var in struct {
		GameID string `json:"game_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "game_id required"})
		return nil, false
	}
	s.mu.Lock()
	rd := s.rounds[in.GameID]
	s.mu.Unlock()
	if rd == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no such game"})
		return nil, false
	}
	return rd, true
}

// finish drops the round from the live set and, when a store is wired,
// records it. Callers hold s.mu.
func (s *simServer) finish(ctx context.Context, rd *simRound, result string, amount float64) {
	delete(s.rounds, rd.ID)
	if s.db == nil {
		return
	}
	if err := s.db.InsertRound(ctx, rd.ID, rd.Bet, handString(rd.Player), handString(rd.Dealer), result, amount); err != nil {
		log.Printf("sim: record round %s: %v", rd.ID, err)
	}
}

func (rd *simRound) pop() engine.Card {
	c := rd.Deck[0]
	rd.Deck = rd.Deck[1:]
	return c
}

func standMessage(result string, amount float64) string {
	switch result {
	case "won":
		return fmt.Sprintf("you win %.2f", amount)
	case "tie":
		return "push, your bet is returned"
	default:
		return "the house wins"
	}
}

var verboseRanks = map[engine.Rank]string{"A": "ACE", "K": "KING", "Q": "QUEEN", "J": "JACK"}
var verboseSuits = map[engine.Suit]string{
	engine.Spades: "SPADES", engine.Hearts: "HEARTS",
	engine.Diamonds: "DIAMONDS", engine.Clubs: "CLUBS",
}

func verboseHand(h engine.Hand) []map[string]string {
	out := make([]map[string]string, len(h))
	for i, c := range h {
		rank := string(c.Rank)
		if v, ok := verboseRanks[c.Rank]; ok {
			rank = v
		}
		out[i] = map[string]string{"rank": rank, "suit": verboseSuits[c.Suit]}
	}
	return out
}

func handString(h engine.Hand) string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

package gamesvc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"greenfelt/client/engine"
)

func testClient(base string) *Client {
	return New(Config{
		BaseURL:      base + "/api",
		GameID:       "7",
		Token:        "tok",
		HeaderName:   "Authorization",
		HeaderPrefix: "Bearer ",
		Timeout:      5 * time.Second,
	})
}

func TestStartRoundNormalizes(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"game_id": "g-1",
			"game_data": map[string]any{
				"player_hand": []map[string]string{
					{"rank": "10", "suit": "CLUBS"},
					{"rank": "7", "suit": "DIAMONDS"},
				},
				"dealer_hand": []map[string]string{
					{"rank": "KING", "suit": "SPADES"},
					{"rank": "ACE", "suit": "HEARTS"},
				},
			},
		})
	}))
	defer srv.Close()

	ev, err := testClient(srv.URL).StartRound(context.Background(), 50)
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if gotPath != "/api/games/7/start_blackjack/" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if gotBody["bet_amount"] != 50.0 {
		t.Fatalf("bet_amount = %v", gotBody["bet_amount"])
	}
	if ev.RoundID != "g-1" {
		t.Fatalf("RoundID = %q", ev.RoundID)
	}
	want := engine.Hand{{Rank: "10", Suit: engine.Clubs}, {Rank: "7", Suit: engine.Diamonds}}
	for i, c := range want {
		if ev.PlayerHand[i] != c {
			t.Fatalf("player card %d = %v, want %v", i, ev.PlayerHand[i], c)
		}
	}
	if (ev.DealerUp != engine.Card{Rank: "K", Suit: engine.Spades}) {
		t.Fatalf("DealerUp = %v", ev.DealerUp)
	}
	if (ev.DealerHole != engine.Card{Rank: "A", Suit: engine.Hearts}) {
		t.Fatalf("DealerHole = %v", ev.DealerHole)
	}
}

func TestHitDecodesBustAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"game_data": map[string]any{
				"player_hand": []map[string]string{
					{"rank": "10", "suit": "♣"},
					{"rank": "7", "suit": "♦"},
					{"rank": "8", "suit": "♥"},
				},
			},
			"busted":  true,
			"message": "over 21, the house wins",
		})
	}))
	defer srv.Close()

	ev, err := testClient(srv.URL).Hit(context.Background(), "g-1")
	if err != nil {
		t.Fatalf("Hit: %v", err)
	}
	if !ev.Busted || len(ev.PlayerHand) != 3 {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Message != "over 21, the house wins" {
		t.Fatalf("Message = %q", ev.Message)
	}
}

func TestStandNormalizesTie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"game_data": map[string]any{
				"dealer_hand": []map[string]string{
					{"rank": "9", "suit": "SPADES"},
					{"rank": "QUEEN", "suit": "DIAMONDS"},
				},
			},
			"result":     "tie",
			"amount_won": 50.0,
		})
	}))
	defer srv.Close()

	ev, err := testClient(srv.URL).Stand(context.Background(), "g-1")
	if err != nil {
		t.Fatalf("Stand: %v", err)
	}
	if ev.Outcome != engine.Tied || ev.AmountWon != 50 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestUnauthorizedMapsToSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Hit(context.Background(), "g-1")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v", err)
	}
}

func TestRejectionCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "insufficient balance"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).StartRound(context.Background(), 50)
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind != KindRejected {
		t.Fatalf("err = %v", err)
	}
	if ae.Message != "insufficient balance" {
		t.Fatalf("Message = %q", ae.Message)
	}
}

func TestGarbledReplyIsBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).StartRound(context.Background(), 50)
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind != KindBadPayload {
		t.Fatalf("err = %v", err)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := testClient(srv.URL).StartRound(context.Background(), 50)
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind != KindTransport {
		t.Fatalf("err = %v", err)
	}
}

func TestStartRoundRejectsShortHands(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"game_id": "g-1",
			"game_data": map[string]any{
				"player_hand": []map[string]string{{"rank": "10", "suit": "CLUBS"}},
				"dealer_hand": []map[string]string{{"rank": "K", "suit": "SPADES"}},
			},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).StartRound(context.Background(), 50)
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind != KindBadPayload {
		t.Fatalf("err = %v", err)
	}
}

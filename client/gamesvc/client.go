package gamesvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client issues the three round-lifecycle requests over authenticated
// HTTPS. It is the only component that sees wire shapes; everything it
// returns is a fully normalized engine event.
type Client struct {
	cfg Config
	hc  *http.Client
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: cfg.Timeout}}
}

func (c *Client) StartRound(ctx context.Context, bet float64) (RoundStarted, error) {
	var out struct {
		GameID   string `json:"game_id"`
		GameData struct {
			PlayerHand []wireCard `json:"player_hand"`
			DealerHand []wireCard `json:"dealer_hand"`
		} `json:"game_data"`
	}
	if err := c.post(ctx, "start_blackjack", map[string]any{"bet_amount": bet}, &out); err != nil {
		return RoundStarted{}, err
	}
	if out.GameID == "" {
		return RoundStarted{}, badPayload("start reply missing game_id")
	}
	player, err := normalizeHand(out.GameData.PlayerHand)
	if err != nil {
		return RoundStarted{}, err
	}
	dealer, err := normalizeHand(out.GameData.DealerHand)
	if err != nil {
		return RoundStarted{}, err
	}
	if len(player) != 2 || len(dealer) != 2 {
		return RoundStarted{}, badPayload("start reply has %d player / %d dealer cards", len(player), len(dealer))
	}
	// The second dealer card travels in the clear but is presented
	// face-down until the dealer's turn.
	return RoundStarted{
		RoundID:    out.GameID,
		PlayerHand: player,
		DealerUp:   dealer[0],
		DealerHole: dealer[1],
	}, nil
}

func (c *Client) Hit(ctx context.Context, roundID string) (CardDealt, error) {
	var out struct {
		GameData struct {
			PlayerHand []wireCard `json:"player_hand"`
		} `json:"game_data"`
		Busted  bool   `json:"busted"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "hit_blackjack", map[string]any{"game_id": roundID}, &out); err != nil {
		return CardDealt{}, err
	}
	hand, err := normalizeHand(out.GameData.PlayerHand)
	if err != nil {
		return CardDealt{}, err
	}
	if len(hand) < 3 {
		return CardDealt{}, badPayload("hit reply has only %d player cards", len(hand))
	}
	return CardDealt{PlayerHand: hand, Busted: out.Busted, Message: out.Message}, nil
}

func (c *Client) Stand(ctx context.Context, roundID string) (RoundResolved, error) {
	var out struct {
		GameData struct {
			DealerHand []wireCard `json:"dealer_hand"`
		} `json:"game_data"`
		Result    string  `json:"result"`
		AmountWon float64 `json:"amount_won"`
		Message   string  `json:"message"`
	}
	if err := c.post(ctx, "stand_blackjack", map[string]any{"game_id": roundID}, &out); err != nil {
		return RoundResolved{}, err
	}
	dealer, err := normalizeHand(out.GameData.DealerHand)
	if err != nil {
		return RoundResolved{}, err
	}
	if len(dealer) < 2 {
		return RoundResolved{}, badPayload("stand reply has only %d dealer cards", len(dealer))
	}
	outcome, err := normalizeOutcome(out.Result)
	if err != nil {
		return RoundResolved{}, err
	}
	if out.AmountWon < 0 {
		return RoundResolved{}, badPayload("negative amount_won %v", out.AmountWon)
	}
	return RoundResolved{
		DealerHand: dealer,
		Outcome:    outcome,
		AmountWon:  out.AmountWon,
		Message:    out.Message,
	}, nil
}

func (c *Client) post(ctx context.Context, action string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &Error{Kind: KindTransport, Message: "encode request", err: err}
	}
	url := fmt.Sprintf("%s/games/%s/%s/", c.cfg.BaseURL, c.cfg.GameID, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return &Error{Kind: KindTransport, Message: "build request", err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(c.cfg.HeaderName, c.cfg.HeaderPrefix+c.cfg.Token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: action + " request failed", err: err}
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(data)
		if msg == "" {
			msg = fmt.Sprintf("%s http %d", action, resp.StatusCode)
		}
		return &Error{Kind: KindRejected, Message: msg}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindBadPayload, Message: "decode " + action + " reply", err: err}
	}
	return nil
}

func serverMessage(data []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &e) == nil {
		return e.Error
	}
	return ""
}

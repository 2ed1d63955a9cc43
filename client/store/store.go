package store

import (
	"context"
	"embed"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

// InsertRound records one finished round.
func (db *DB) InsertRound(ctx context.Context, roundID string, bet float64, playerHand, dealerHand, result string, amountWon float64) error {
	_, err := db.Exec(ctx, `
        INSERT INTO rounds(round_id, bet, player_hand, dealer_hand, result, amount_won)
        VALUES ($1,$2,$3,$4,$5,$6)
    `, roundID, bet, playerHand, dealerHand, result, amountWon)
	return err
}

type RoundRow struct {
	RoundID    string    `json:"round_id"`
	Bet        float64   `json:"bet"`
	PlayerHand string    `json:"player_hand"`
	DealerHand string    `json:"dealer_hand"`
	Result     string    `json:"result"`
	AmountWon  float64   `json:"amount_won"`
	CreatedAt  time.Time `json:"created_at"`
}

func (db *DB) RecentRounds(ctx context.Context, limit int) ([]RoundRow, error) {
	rows, err := db.Query(ctx, `
        SELECT round_id, bet, player_hand, dealer_hand, result, amount_won, created_at
          FROM rounds
         ORDER BY created_at DESC
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RoundRow{}
	for rows.Next() {
		var r RoundRow
		if err := rows.Scan(&r.RoundID, &r.Bet, &r.PlayerHand, &r.DealerHand, &r.Result, &r.AmountWon, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

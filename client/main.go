package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"greenfelt/client/gamesvc"
	"greenfelt/client/sequence"
	"greenfelt/client/store"
	"greenfelt/client/table"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func floatDef(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func mustEnv(keys ...string) {
	for _, k := range keys {
		if os.Getenv(k) == "" {
			log.Fatalf("Missing required env var %s. Put it in .env (dev) or set it on the host (prod).", k)
		}
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	_ = godotenv.Load()

	var sim, migrate bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--sim":
			sim = true
		case "--migrate":
			migrate = true
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)

	if migrate {
		mustEnv("DATABASE_URL")
		db, err := store.Open(os.Getenv("DATABASE_URL"))
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer db.Close(ctx)
		if err := store.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Printf("migration complete")
		return
	}

	if sim {
		runSim(ctx)
		return
	}
	runTable(ctx)
}

func runSim(ctx context.Context) {
	var db *store.DB
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		var err error
		db, err = store.Open(dsn)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer db.Close(ctx)
		if err := store.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}
	addr := getenv("SIM_ADDR", ":8000")
	srv := &http.Server{Addr: addr, Handler: newSimRouter(db)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("game service simulator listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("sim: %v", err)
	}
}

func runTable(ctx context.Context) {
	cfg, err := gamesvc.ResolveConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}
	timings := sequence.DefaultTimings()
	if asBool(os.Getenv("FAST")) {
		timings = sequence.Timings{}
	}
	t := table.New(table.Config{
		MinBet:  floatDef(os.Getenv("CASINO_MIN_BET"), table.DefaultMinBet),
		MaxBet:  floatDef(os.Getenv("CASINO_MAX_BET"), table.DefaultMaxBet),
		Timings: timings,
	}, gamesvc.New(cfg), &termView{})
	defer t.Close()
	playLoop(ctx, t)
}

func watchSignals(cancel context.CancelFunc) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
	cancel()
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"xyzzy-server/auth"
	"xyzzy-server/config"
	"xyzzy-server/game"
	"xyzzy-server/loghandler"
	"xyzzy-server/packs"
	"xyzzy-server/storage"
	"xyzzy-server/ws"
)

func main() {
	godotenv.Load()
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stdout, slog.LevelInfo)))

	cfg := config.Load()
	settings := config.LoadSettings(cfg.SettingsPath)

	var adminAuth auth.AdminAuthenticator
	if cfg.AdminJWKSURL != "" {
		adminAuth = auth.JWKSAuthenticator{JWKSURL: cfg.AdminJWKSURL, Issuer: cfg.AdminIssuer}
		slog.Info("admin auth via JWKS", "tag", "auth", "url", cfg.AdminJWKSURL)
	} else {
		adminAuth = auth.StaticKeyAuthenticator{Key: cfg.AdminKey}
		slog.Info("admin auth via shared key", "tag", "auth")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("history store unavailable, continuing without persistence", "tag", "storage", "err", err)
		store = nil
	}

	loadPacks := func() []packs.Pack { return packs.LoadDir(cfg.PacksDir) }

	var history storage.HistoryStore
	if store != nil {
		history = store
	}
	session := game.NewSession(cfg, settings, loadPacks, history)
	hub := ws.NewHub(cfg, session, adminAuth)
	session.SetTransport(hub)

	go session.Run()
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		entries, err := store.ListLeaderboard(r.Context(), 20)
		if err != nil {
			http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down", "tag", "main")
		server.Shutdown(context.Background())
		session.Close()
		store.Close()
	}()

	slog.Info("server listening", "tag", "main", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server failed", "tag", "main", "err", err)
		os.Exit(1)
	}
}

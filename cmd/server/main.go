package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gogpu/gg"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/viewfinder/viewfinder/internal/auth"
	"github.com/viewfinder/viewfinder/internal/capture"
	"github.com/viewfinder/viewfinder/internal/collab"
	"github.com/viewfinder/viewfinder/internal/config"
	"github.com/viewfinder/viewfinder/internal/db"
	"github.com/viewfinder/viewfinder/internal/db/dbgen"
	"github.com/viewfinder/viewfinder/internal/engine"
	"github.com/viewfinder/viewfinder/internal/gallery"
	mw "github.com/viewfinder/viewfinder/internal/middleware"
	"github.com/viewfinder/viewfinder/internal/presets"
	"github.com/viewfinder/viewfinder/internal/typeid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gg.SetLogger(logger.With("component", "gg"))

	pre, err := presets.Load(cfg.PresetsPath)
	if err != nil {
		slog.Error("load presets", "path", cfg.PresetsPath, "error", err)
		os.Exit(1)
	}
	newEngine := func() (*engine.Engine, error) {
		return engine.NewEngine(engine.Options{
			Ratios:       pre.Ratios,
			DefaultRatio: pre.DefaultRatio,
			Style:        pre.Style,
			Logger:       logger.With("component", "engine"),
		})
	}
	// Fail fast on a presets file naming a default ratio it doesn't define.
	if _, err := newEngine(); err != nil {
		slog.Error("presets", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := dbgen.New(pool)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	store, err := capture.NewStore(cfg.CaptureDir)
	if err != nil {
		slog.Error("capture store", "error", err)
		os.Exit(1)
	}

	galleryService := gallery.NewService(queries, store)
	galleryHandler := gallery.NewHandler(galleryService)
	captureHandler := capture.NewHandler(store, galleryService, newEngine)

	hub := collab.NewHub(newEngine)
	go hub.Run()

	origins := cfg.Origins()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Capture endpoints (public; uploads are recorded when signed in)
	r.HandleFunc("/export/capture", captureHandler.Export).Methods("POST", "OPTIONS")
	r.Handle("/captures", authService.OptionalAuth(http.HandlerFunc(captureHandler.Upload))).Methods("POST", "OPTIONS")
	r.PathPrefix("/captures/").Handler(store.Serve()).Methods("GET")

	// Live sessions
	r.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"sessionId": typeid.NewSessionID()})
	}).Methods("POST", "OPTIONS")

	r.HandleFunc("/ws/session/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, originPatterns(origins))
	})

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/captures", galleryHandler.List).Methods("GET")
	api.HandleFunc("/captures/{captureId}", galleryHandler.Get).Methods("GET")
	api.HandleFunc("/captures/{captureId}", galleryHandler.Delete).Methods("DELETE")

	// Built frontend, if configured
	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir))).Methods("GET")
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "ratios", len(pre.Ratios.All()), "default_ratio", pre.DefaultRatio)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, patterns []string) {
	sessionID := mux.Vars(r)["sessionId"]
	if err := typeid.Validate(sessionID, typeid.PrefixSession); err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	// Sessions are open to anyone holding the id; a token only names the viewer.
	userID := "anon-" + uuid.New().String()[:8]
	displayName := "Anonymous"
	if token := r.URL.Query().Get("token"); token != "" {
		id, err := authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		user, err := authSvc.GetUser(r.Context(), id)
		if err != nil {
			http.Error(w, "user not found", http.StatusUnauthorized)
			return
		}
		userID, displayName = user.ID, user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: patterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, sessionID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originPatterns converts allowed origins to the host patterns websocket.Accept
// matches against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return patterns
}

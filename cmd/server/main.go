package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quicknotes/internal/config"
	"quicknotes/internal/handler"
	"quicknotes/internal/middleware"
	"quicknotes/internal/oauth"
	"quicknotes/internal/repository"
	"quicknotes/internal/service"
	"quicknotes/internal/websocket"
	"quicknotes/pkg/token"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	couchURL := fmt.Sprintf("http://%s:%s@%s:%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
	)

	client, err := kivik.New("couch", couchURL)
	if err != nil {
		log.Fatalf("Failed to connect to CouchDB: %v", err)
	}

	exists, err := client.DBExists(context.Background(), cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to check database existence: %v", err)
	}

	if !exists {
		if err := client.CreateDB(context.Background(), cfg.Database.Name); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
		log.Printf("Created database: %s", cfg.Database.Name)
	}

	userRepo := repository.NewUserRepository(client, cfg.Database.Name)
	noteRepo := repository.NewNoteRepository(client, cfg.Database.Name)

	wsManager := websocket.NewManager(
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
	)
	go wsManager.Run()

	issuer := token.NewIssuer(cfg.Session.Secret, cfg.Session.TTL)
	authService := service.NewAuthService(userRepo)
	noteService := service.NewNoteService(noteRepo, websocket.NewNoteEvents(wsManager))

	var provider handler.ProfileVerifier
	if cfg.Google.ClientID != "" {
		verifier, err := oauth.NewVerifier(context.Background(), cfg.Google.Issuer, cfg.Google.ClientID)
		if err != nil {
			log.Fatalf("Failed to set up Google verifier: %v", err)
		}
		provider = verifier
	} else {
		log.Printf("Google login disabled: GOOGLE_CLIENT_ID not set")
	}

	authHandler := handler.NewAuthHandler(authService, issuer, provider)
	noteHandler := handler.NewNoteHandler(noteService)
	wsHandler := handler.NewWebSocketHandler(wsManager, issuer)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	r.HandleFunc("/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth", authHandler.Authenticate).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth", authHandler.Callback).Methods("GET")

	protected := r.PathPrefix("/notes").Subrouter()
	protected.Use(middleware.AuthMiddleware(issuer))

	protected.HandleFunc("", noteHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("", noteHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/{id}", noteHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/{id}", noteHandler.Delete).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/ws", wsHandler.HandleConnection)

	r.HandleFunc("/health", healthHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting Quicknotes server on %s (env: %s)", addr, cfg.Server.Env)
		log.Printf("Connected to CouchDB at %s:%s", cfg.Database.Host, cfg.Database.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"quicknotes"}`))
}

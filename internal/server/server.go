package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"neo-assistant-backend/internal/assistant"
	"neo-assistant-backend/internal/config"
	"neo-assistant-backend/internal/db"
	"neo-assistant-backend/internal/lookup"
	"neo-assistant-backend/internal/store"
	"neo-assistant-backend/internal/types"
)

const historyLimit = 10

type Server struct {
	router    *chi.Mux
	store     store.Store
	assistant *assistant.Assistant
	cfg       config.Config
	database  *db.DB
}

func NewServer(cfg config.Config) (*Server, error) {
	// Use Postgres when configured, otherwise fall back to process memory.
	var st store.Store
	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Println("[server] database connection established")
		if err := database.RunMigrations(cfg.MigrationsDir); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		st = store.NewDatabaseStore(database)
	} else {
		log.Println("[server] warning: DB_URL not provided, conversation history will not survive restarts")
		st = store.NewMemoryStore()
	}

	persona, err := assistant.LoadPersona(cfg.PersonaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load persona file: %w", err)
	}
	provider := lookup.NewHTTPClient(lookup.Config{
		WeatherURL:  cfg.WeatherURL,
		TimeURL:     cfg.TimeURL,
		NewsFeedURL: cfg.NewsFeedURL,
		RatesURL:    cfg.RatesURL,
		Timeout:     cfg.LookupTimeout,
	})
	asst := assistant.New(st, provider, persona, cfg.DefaultCity)

	s := newServer(cfg, st, asst)
	s.database = database
	return s, nil
}

// newServer wires an already-constructed store and assistant; NewServer and
// the tests both go through it.
func newServer(cfg config.Config, st store.Store, asst *assistant.Assistant) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-User-Id"},
		ExposedHeaders:   []string{"X-User-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{router: r, store: st, assistant: asst, cfg: cfg}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/command", s.handleCommand)
	s.router.Get("/api/history", s.handleHistory)
	s.router.Get("/api/preferences", s.handleGetPreferences)
	s.router.Post("/api/preferences", s.handleUpdatePreferences)
}

func (s *Server) Router() http.Handler { return s.router }

// Close releases the database connection if one was opened.
func (s *Server) Close() error {
	if s.database != nil {
		return s.database.Close()
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.database != nil {
		if err := s.database.HealthCheck(); err != nil {
			s.writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req types.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		s.writeError(w, http.StatusBadRequest, "command is required")
		return
	}
	uid := getOrCreateUserID(r, w)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	reply, err := s.assistant.ProcessCommand(ctx, uid, req.Command, req.Location)
	if err != nil {
		log.Printf("[command] dispatch failed for user %s: %v", uid, err)
		s.writeError(w, http.StatusInternalServerError, "failed to process command")
		return
	}

	prefs, err := s.store.GetPreferences(uid)
	if err != nil {
		prefs = store.DefaultPreferences(uid)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-User-Id", uid)
	_ = json.NewEncoder(w).Encode(types.CommandResponse{Reply: reply, OutputMode: prefs.OutputMode})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	uid := getOrCreateUserID(r, w)
	msgs, err := s.store.RecentMessages(uid, historyLimit)
	if err != nil {
		log.Printf("[history] query failed for user %s: %v", uid, err)
		s.writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	out := make([]types.HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, types.HistoryMessage{Content: m.Content, Role: m.Role, Timestamp: m.Timestamp})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-User-Id", uid)
	_ = json.NewEncoder(w).Encode(types.HistoryResponse{Messages: out})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	uid := getOrCreateUserID(r, w)
	prefs, err := s.store.GetPreferences(uid)
	if err != nil {
		log.Printf("[preferences] read failed for user %s: %v", uid, err)
		s.writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-User-Id", uid)
	_ = json.NewEncoder(w).Encode(types.PreferencesResponse{OutputMode: prefs.OutputMode})
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req types.PreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	mode := strings.ToLower(strings.TrimSpace(req.OutputMode))
	if !store.ValidOutputMode(mode) {
		s.writeError(w, http.StatusBadRequest, "outputMode must be 'text' or 'voice'")
		return
	}
	uid := getOrCreateUserID(r, w)
	if err := s.store.UpsertPreferences(uid, mode); err != nil {
		log.Printf("[preferences] write failed for user %s: %v", uid, err)
		s.writeError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-User-Id", uid)
	_ = json.NewEncoder(w).Encode(types.PreferencesResponse{OutputMode: mode})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}

// getUserID retrieves the opaque user reference from cookie, header, or
// query parameter. The value is issued upstream; the server only keys
// storage by it.
func getUserID(r *http.Request) string {
	if cookie, err := GetUserCookie(r); err == nil && cookie != "" {
		return cookie
	}
	if uid := r.Header.Get("X-User-Id"); uid != "" {
		return uid
	}
	if uid := r.URL.Query().Get("userId"); uid != "" {
		return uid
	}
	return ""
}

// getOrCreateUserID gets the existing user reference or mints a new one,
// setting the cookie.
func getOrCreateUserID(r *http.Request, w http.ResponseWriter) string {
	uid := getUserID(r)
	if uid == "" {
		uid = uuid.NewString()
		log.Printf("[session] issuing new user reference %s for endpoint %s", uid, r.URL.Path)
		SetUserCookie(w, uid)
	}
	return uid
}

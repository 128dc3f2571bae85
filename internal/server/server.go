package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/reydisse/Wordcloud/internal/auth"
	"github.com/reydisse/Wordcloud/internal/cloud"
	"github.com/reydisse/Wordcloud/internal/models"
	"github.com/reydisse/Wordcloud/internal/session"
	"github.com/reydisse/Wordcloud/internal/watch"
)

// Verifier authenticates presenter ID tokens
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*models.Principal, error)
}

type Server struct {
	sessions   *session.Service
	watcher    *watch.Watcher
	aggregator *cloud.Aggregator
	verifier   Verifier
}

func NewServer(sessions *session.Service, watcher *watch.Watcher, aggregator *cloud.Aggregator, verifier Verifier) *Server {
	return &Server{
		sessions:   sessions,
		watcher:    watcher,
		aggregator: aggregator,
		verifier:   verifier,
	}
}

// Handler builds the full route surface: presenter session CRUD, participant
// join and submission, the live cloud WebSocket, and health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/signin", s.handleSignIn)

	mux.HandleFunc("GET /api/sessions", s.withPrincipal(s.handleListSessions))
	mux.HandleFunc("POST /api/sessions", s.withPrincipal(s.handleCreateSession))
	mux.HandleFunc("GET /api/sessions/{id}", s.withPrincipal(s.handleGetSession))
	mux.HandleFunc("PATCH /api/sessions/{id}", s.withPrincipal(s.handleUpdateSession))
	mux.HandleFunc("DELETE /api/sessions/{id}", s.withPrincipal(s.handleDeleteSession))
	mux.HandleFunc("GET /api/sessions/{id}/cloud", s.handleCloud)

	mux.HandleFunc("POST /api/join", s.handleJoin)
	mux.HandleFunc("GET /api/participate/{id}", s.handleParticipate)
	mux.HandleFunc("POST /api/sessions/{id}/responses", s.handleSubmitResponse)

	mux.HandleFunc("GET /health", s.healthCheck)

	return mux
}

// Start starts the API server
func (s *Server) Start(port string) error {
	log.Printf("🚀 Word cloud server starting on port %s", port)
	log.Printf("📡 API endpoint: http://localhost:%s/api", port)
	log.Printf("🏥 Health check: http://localhost:%s/health", port)

	return http.ListenAndServe(":"+port, s.Handler())
}

// healthCheck provides a simple health check endpoint
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type principalHandler func(w http.ResponseWriter, r *http.Request, principal *models.Principal)

// withPrincipal guards presenter routes behind bearer-token verification
func (s *Server) withPrincipal(next principalHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := s.authenticate(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, principal)
	}
}

// authenticate resolves the presenter from the Authorization header, or from
// the token query parameter for surfaces that cannot set headers (WebSocket).
func (s *Server) authenticate(r *http.Request) (*models.Principal, error) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" || token == r.Header.Get("Authorization") {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return nil, auth.ErrInvalidToken
	}

	return s.verifier.Verify(r.Context(), token)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Draft string `json:"draft,omitempty"`
}

// writeError maps the domain error taxonomy onto HTTP statuses. Validation
// failures are the user's problem and are not logged; everything unmapped is
// treated as transient and is.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyQuestion),
		errors.Is(err, models.ErrEmptyResponse),
		errors.Is(err, models.ErrResponseTooLong),
		errors.Is(err, models.ErrEmptyCode):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, models.ErrInvalidCode),
		errors.Is(err, models.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, models.ErrSessionEnded):
		writeJSON(w, http.StatusGone, errorResponse{Error: err.Error()})

	case errors.Is(err, models.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})

	case errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "sign in required"})

	case errors.Is(err, context.Canceled):
		// Client went away mid-request; nothing to report

	default:
		log.Printf("❌ Request failed: %v", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "temporarily unavailable, please try again"})
	}
}

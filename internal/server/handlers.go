package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/reydisse/Wordcloud/internal/auth"
	"github.com/reydisse/Wordcloud/internal/models"
)

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return n, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, models.ErrEmptyResponse) ||
		errors.Is(err, models.ErrResponseTooLong) ||
		errors.Is(err, models.ErrSessionNotFound)
}

type signInRequest struct {
	IDToken   string `json:"id_token"`
	ErrorCode string `json:"error_code"`
}

// handleSignIn verifies a provider ID token, or, when the browser flow
// failed before a token existed, maps the provider error code to the
// message the user should see.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	if req.ErrorCode != "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.MessageForCode(req.ErrorCode)})
		return
	}

	principal, err := s.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, principal)
}

type createSessionRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request, principal *models.Principal) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	created, err := s.sessions.Create(r.Context(), principal, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

type sessionPage struct {
	Sessions   []*models.Session `json:"sessions"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request, principal *models.Principal) {
	pageSize := 0
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		// Bad values fall through to the service default
		if n, err := parsePositiveInt(raw); err == nil {
			pageSize = n
		}
	}

	sessions, nextCursor, err := s.sessions.ListRecent(r.Context(), principal.UID, pageSize, r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, err)
		return
	}

	if sessions == nil {
		sessions = []*models.Session{}
	}

	writeJSON(w, http.StatusOK, sessionPage{Sessions: sessions, NextCursor: nextCursor})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, principal *models.Principal) {
	found, err := s.sessions.Get(r.Context(), principal.UID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

type updateSessionRequest struct {
	Question *string `json:"question,omitempty"`
	End      bool    `json:"end,omitempty"`
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request, principal *models.Principal) {
	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	id := r.PathValue("id")

	if req.Question != nil {
		if err := s.sessions.EditQuestion(r.Context(), principal.UID, id, *req.Question); err != nil {
			writeError(w, err)
			return
		}
	}

	if req.End {
		if err := s.sessions.EndSession(r.Context(), principal.UID, id); err != nil {
			writeError(w, err)
			return
		}
	}

	updated, err := s.sessions.Get(r.Context(), principal.UID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request, principal *models.Principal) {
	if err := s.sessions.DeleteSession(r.Context(), principal.UID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type joinRequest struct {
	Code string `json:"code"`
}

type joinResponse struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	Code      string `json:"code"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	joined, err := s.sessions.Join(r.Context(), req.Code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, joinResponse{
		SessionID: joined.ID,
		Question:  joined.Question,
		Code:      joined.Code,
	})
}

// handleParticipate loads the response form for a participant who already
// joined; a session that ended in the meantime reports so.
func (s *Server) handleParticipate(w http.ResponseWriter, r *http.Request) {
	found, err := s.sessions.GetForParticipant(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, joinResponse{
		SessionID: found.ID,
		Question:  found.Question,
		Code:      found.Code,
	})
}

type submitRequest struct {
	Text          string `json:"text"`
	ParticipantID string `json:"participant_id"`
}

func (s *Server) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	submitted, err := s.sessions.Submit(r.Context(), r.PathValue("id"), req.Text, req.ParticipantID)
	if err != nil {
		// Echo the draft back on transient failure so the client can offer
		// a manual retry without losing the typed text
		if !isValidationError(err) {
			writeJSON(w, http.StatusBadGateway, errorResponse{
				Error: "couldn't submit response",
				Draft: req.Text,
			})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitted)
}

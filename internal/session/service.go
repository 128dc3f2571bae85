package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reydisse/Wordcloud/internal/models"
)

// Create retry policy for transient store failures
const (
	createMaxAttempts = 3
	createRetryDelay  = 1 * time.Second
)

// Default and maximum dashboard page sizes
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// SessionStore is the slice of the document store the session flows need
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByCode(ctx context.Context, code string) (*models.Session, error)
	UpdateQuestion(ctx context.Context, id, question string) error
	End(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	GetRecentByOwner(ctx context.Context, ownerID string, pageSize int, cursor string) ([]*models.Session, string, error)
}

// ResponseStore is the append-only store participant submissions go to
type ResponseStore interface {
	Create(ctx context.Context, response *models.Response) error
}

type Service struct {
	sessions  SessionStore
	responses ResponseStore
	codes     *CodeGenerator
}

func NewService(sessions SessionStore, responses ResponseStore, codes *CodeGenerator) *Service {
	return &Service{
		sessions:  sessions,
		responses: responses,
		codes:     codes,
	}
}

// Create starts a new session for a presenter. Transient store failures are
// retried up to 3 times with a fixed 1-second delay; after a successful
// insert the session is read back to verify it exists, so the caller
// observes exactly one created session or an error.
func (s *Service) Create(ctx context.Context, owner *models.Principal, question string) (*models.Session, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, models.ErrEmptyQuestion
	}

	code := s.codes.Generate()
	session := models.NewSession(question, code, owner.UID, owner.Name())

	var lastErr error
	for attempt := 1; attempt <= createMaxAttempts; attempt++ {
		lastErr = s.sessions.Create(ctx, session)
		if lastErr == nil {
			break
		}

		log.Printf("❌ Session create attempt %d/%d failed: %v", attempt, createMaxAttempts, lastErr)
		if attempt == createMaxAttempts {
			return nil, fmt.Errorf("failed to create session after %d attempts: %w", createMaxAttempts, lastErr)
		}

		select {
		case <-time.After(createRetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// Verify the session was created
	created, err := s.sessions.GetByID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("session creation verification failed: %w", err)
	}

	log.Printf("✅ Session created: id=%s code=%s", created.ID, created.Code)
	return created, nil
}

// Join validates a human-entered code and admits the participant when the
// matching session is still accepting responses. An unknown code and an
// ended session are reported as distinct errors.
func (s *Service) Join(ctx context.Context, code string) (*models.Session, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, models.ErrEmptyCode
	}

	session, err := s.sessions.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			return nil, models.ErrInvalidCode
		}
		return nil, err
	}

	if !session.IsActive {
		return nil, models.ErrSessionEnded
	}

	return session, nil
}

// Get retrieves a session for its owner's detail view
func (s *Service) Get(ctx context.Context, ownerID, id string) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.OwnerID != ownerID {
		return nil, models.ErrNotOwner
	}

	return session, nil
}

// GetForParticipant retrieves the session a participant is about to respond
// to, rejecting ended sessions.
func (s *Service) GetForParticipant(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !session.IsActive {
		return nil, models.ErrSessionEnded
	}

	return session, nil
}

// EditQuestion changes a session's prompt. Only the owner may edit.
func (s *Service) EditQuestion(ctx context.Context, ownerID, id, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.ErrEmptyQuestion
	}

	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}

	return s.sessions.UpdateQuestion(ctx, id, question)
}

// EndSession stops a session from accepting responses. Only the owner may
// end it. A response racing the end write may still land; it simply stays
// invisible to future joins.
func (s *Service) EndSession(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}

	return s.sessions.End(ctx, id)
}

// DeleteSession removes a session and its responses. Only the owner may
// delete it.
func (s *Service) DeleteSession(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}

	return s.sessions.Delete(ctx, id)
}

// ListRecent retrieves one dashboard page of the owner's sessions
func (s *Service) ListRecent(ctx context.Context, ownerID string, pageSize int, cursor string) ([]*models.Session, string, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return s.sessions.GetRecentByOwner(ctx, ownerID, pageSize, cursor)
}

// Submit appends a participant response. There is no automatic retry: on
// failure the caller keeps the draft and offers a manual retry.
func (s *Service) Submit(ctx context.Context, sessionID, text, participantID string) (*models.Response, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.ErrEmptyResponse
	}
	if len([]rune(text)) > models.MaxResponseLength {
		return nil, models.ErrResponseTooLong
	}

	if participantID == "" {
		participantID = uuid.New().String()
	}

	response := models.NewResponse(sessionID, text, participantID)
	if err := s.responses.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to submit response: %w", err)
	}

	return response, nil
}

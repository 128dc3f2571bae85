package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reydisse/Wordcloud/internal/models"
)

// ResponseChannel is the LISTEN/NOTIFY channel carrying the session id of
// every response insert. The watch listener subscribes to it.
const ResponseChannel = "session_responses"

type ResponseRepository struct {
	db *DB
}

func NewResponseRepository(db *DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Create appends a new response and notifies watchers of the session.
// Responses are insert-only; there is no update or delete path.
func (r *ResponseRepository) Create(ctx context.Context, response *models.Response) error {
	// Generate UUID if not provided
	if response.ID == "" {
		response.ID = uuid.New().String()
	}

	// Set timestamp if not provided
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now()
	}

	query := `
		INSERT INTO responses (id, session_id, text, participant_id, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		response.ID,
		response.SessionID,
		response.Text,
		response.ParticipantID,
		response.SubmittedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}

	// Wake up any live subscription on this session's responses
	if _, err := r.db.Pool.Exec(ctx, `SELECT pg_notify($1, $2)`, ResponseChannel, response.SessionID); err != nil {
		return fmt.Errorf("failed to notify watchers: %w", err)
	}

	return nil
}

// GetBySession retrieves the complete current set of responses for a session
func (r *ResponseRepository) GetBySession(ctx context.Context, sessionID string) ([]*models.Response, error) {
	query := `
		SELECT id, session_id, text, participant_id, submitted_at
		FROM responses
		WHERE session_id = $1
		ORDER BY submitted_at
	`

	rows, err := r.db.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var responses []*models.Response
	for rows.Next() {
		response := &models.Response{}
		err := rows.Scan(
			&response.ID,
			&response.SessionID,
			&response.Text,
			&response.ParticipantID,
			&response.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		responses = append(responses, response)
	}

	return responses, nil
}

package database

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/reydisse/Wordcloud/internal/models"
)

type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session into the database
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	// Generate UUID if not provided
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	// Set timestamps if not provided
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = session.CreatedAt
	}

	query := `
		INSERT INTO sessions (id, question, code, owner_id, created_by, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		session.ID,
		session.Question,
		session.Code,
		session.OwnerID,
		session.CreatedBy,
		session.IsActive,
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by its ID, including its response count
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT s.id, s.question, s.code, s.owner_id, s.created_by, s.is_active,
		       s.created_at, s.updated_at, s.ended_at,
		       (SELECT COUNT(*) FROM responses WHERE session_id = s.id)
		FROM sessions s
		WHERE s.id = $1
	`

	session := &models.Session{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.Question,
		&session.Code,
		&session.OwnerID,
		&session.CreatedBy,
		&session.IsActive,
		&session.CreatedAt,
		&session.UpdatedAt,
		&session.EndedAt,
		&session.ResponseCount,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// GetByCode retrieves the session matching a join code, or ErrSessionNotFound.
// Codes are stored uppercase; callers normalize before lookup.
func (r *SessionRepository) GetByCode(ctx context.Context, code string) (*models.Session, error) {
	query := `
		SELECT id, question, code, owner_id, created_by, is_active, created_at, updated_at, ended_at
		FROM sessions
		WHERE code = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	session := &models.Session{}
	err := r.db.Pool.QueryRow(ctx, query, code).Scan(
		&session.ID,
		&session.Question,
		&session.Code,
		&session.OwnerID,
		&session.CreatedBy,
		&session.IsActive,
		&session.CreatedAt,
		&session.UpdatedAt,
		&session.EndedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session by code: %w", err)
	}

	return session, nil
}

// UpdateQuestion updates the prompt of a session
func (r *SessionRepository) UpdateQuestion(ctx context.Context, id, question string) error {
	query := `UPDATE sessions SET question = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, question)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrSessionNotFound
	}

	return nil
}

// End flips the active flag off and stamps the end time
func (r *SessionRepository) End(ctx context.Context, id string) error {
	query := `
		UPDATE sessions
		SET is_active = FALSE, ended_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrSessionNotFound
	}

	return nil
}

// Delete deletes a session and, via cascade, its responses
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrSessionNotFound
	}

	return nil
}

// GetRecentByOwner retrieves one page of an owner's sessions, newest first.
// The cursor is the opaque token returned by a previous call; pass "" for
// the first page. A "" next cursor means the listing is exhausted.
func (r *SessionRepository) GetRecentByOwner(ctx context.Context, ownerID string, pageSize int, cursor string) ([]*models.Session, string, error) {
	query := `
		SELECT s.id, s.question, s.code, s.owner_id, s.created_by, s.is_active,
		       s.created_at, s.updated_at, s.ended_at,
		       (SELECT COUNT(*) FROM responses WHERE session_id = s.id)
		FROM sessions s
		WHERE s.owner_id = $1
	`
	args := []interface{}{ownerID}

	if cursor != "" {
		createdAt, id, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", err)
		}
		query += ` AND (s.created_at, s.id) < ($2, $3)`
		args = append(args, createdAt, id)
	}

	query += fmt.Sprintf(` ORDER BY s.created_at DESC, s.id DESC LIMIT %d`, pageSize+1)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session := &models.Session{}
		err := rows.Scan(
			&session.ID,
			&session.Question,
			&session.Code,
			&session.OwnerID,
			&session.CreatedBy,
			&session.IsActive,
			&session.CreatedAt,
			&session.UpdatedAt,
			&session.EndedAt,
			&session.ResponseCount,
		)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	// One extra row was fetched to learn whether another page exists
	nextCursor := ""
	if len(sessions) > pageSize {
		sessions = sessions[:pageSize]
		last := sessions[len(sessions)-1]
		nextCursor = encodeCursor(last.CreatedAt, last.ID)
	}

	return sessions, nextCursor, nil
}

func encodeCursor(createdAt time.Time, id string) string {
	raw := strconv.FormatInt(createdAt.UnixNano(), 10) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", err
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("malformed cursor")
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", err
	}

	return time.Unix(0, nanos), parts[1], nil
}

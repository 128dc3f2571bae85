package database

import (
	"context"
	"log"
)

// CreateTables creates all necessary database tables
func (db *DB) CreateTables(ctx context.Context) error {
	log.Println("Creating database tables...")

	// Sessions table
	sessionsTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		question TEXT NOT NULL,
		code VARCHAR(6) NOT NULL,
		owner_id VARCHAR(128) NOT NULL,
		created_by VARCHAR(255),
		is_active BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		ended_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_code ON sessions(code);
	CREATE INDEX IF NOT EXISTS idx_sessions_owner ON sessions(owner_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_active ON sessions(is_active);
	`

	// Responses table (append-only: rows are never updated or deleted by the app)
	responsesTable := `
	CREATE TABLE IF NOT EXISTS responses (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		session_id UUID NOT NULL,
		text VARCHAR(200) NOT NULL,
		participant_id VARCHAR(128) NOT NULL,
		submitted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_responses_session ON responses(session_id, submitted_at);
	`

	// Execute all table creations
	tables := []string{sessionsTable, responsesTable}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, table); err != nil {
			return err
		}
	}

	log.Println("✅ All tables created successfully")
	return nil
}

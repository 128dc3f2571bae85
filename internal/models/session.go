package models

import "time"

// Session represents one presenter-created interactive prompt
type Session struct {
	ID            string     `json:"id" bson:"_id"`
	Question      string     `json:"question" bson:"question"`
	Code          string     `json:"code" bson:"code"` // 6 chars, [A-Z0-9], stored uppercase
	OwnerID       string     `json:"owner_id" bson:"owner_id"`
	CreatedBy     string     `json:"created_by" bson:"created_by"`
	IsActive      bool       `json:"is_active" bson:"is_active"`
	ResponseCount int        `json:"response_count" bson:"response_count"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
}

// NewSession creates a new active session for an owner
func NewSession(question, code, ownerID, createdBy string) *Session {
	return &Session{
		Question:  question,
		Code:      code,
		OwnerID:   ownerID,
		CreatedBy: createdBy,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

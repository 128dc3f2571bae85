package models

import "time"

// MaxResponseLength is the character limit enforced on participant submissions
const MaxResponseLength = 200

// Response represents one participant's raw text submission to a session.
// Responses are append-only: once written they are never updated or deleted.
type Response struct {
	ID            string    `json:"id" bson:"_id"`
	SessionID     string    `json:"session_id" bson:"session_id"`
	Text          string    `json:"text" bson:"text"`
	ParticipantID string    `json:"participant_id" bson:"participant_id"`
	SubmittedAt   time.Time `json:"submitted_at" bson:"submitted_at"`
}

// NewResponse creates a new response submission
func NewResponse(sessionID, text, participantID string) *Response {
	return &Response{
		SessionID:     sessionID,
		Text:          text,
		ParticipantID: participantID,
		SubmittedAt:   time.Now(),
	}
}

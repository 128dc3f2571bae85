package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/reydisse/Wordcloud/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Word clouds carry no secrets beyond what the join code gates
		return true
	},
}

const writeTimeout = 10 * time.Second

// cloudUpdate is one render model pushed to a presenter view. The client
// replaces its entire rendered set on every update.
type cloudUpdate struct {
	Words            []models.AggregatedWord `json:"words"`
	ResponseCount    int                     `json:"response_count"`
	ParticipantCount int                     `json:"participant_count"`
}

// handleCloud streams the live word cloud of a session to its presenter.
// Each change to the response set triggers a full recomputation and a full
// re-render push; the subscription is torn down when the socket closes.
func (s *Server) handleCloud(w http.ResponseWriter, r *http.Request) {
	principal, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sessionID := r.PathValue("id")
	if _, err := s.sessions.Get(r.Context(), principal.UID, sessionID); err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Keep only the latest snapshot when the writer falls behind; every
	// push is a full replacement, so intermediate ones carry nothing.
	snapshots := make(chan []*models.Response, 1)
	deliver := func(responses []*models.Response) {
		for {
			select {
			case snapshots <- responses:
				return
			default:
				select {
				case <-snapshots:
				default:
				}
			}
		}
	}

	unsubscribe, err := s.watcher.Watch(ctx, sessionID, deliver)
	if err != nil {
		log.Printf("❌ Failed to watch session %s: %v", sessionID, err)
		return
	}
	defer unsubscribe()

	// The presenter never sends data; the read loop only detects closure
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Printf("✅ Presenter connected to session %s", sessionID)

	for {
		select {
		case <-ctx.Done():
			return
		case responses := <-snapshots:
			texts := make([]string, len(responses))
			participants := make(map[string]bool, len(responses))
			for i, response := range responses {
				texts[i] = response.Text
				participants[response.ParticipantID] = true
			}

			update := cloudUpdate{
				Words:            s.aggregator.Recompute(texts),
				ResponseCount:    len(responses),
				ParticipantCount: len(participants),
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(update); err != nil {
				log.Printf("Presenter disconnected from session %s: %v", sessionID, err)
				return
			}
		}
	}
}

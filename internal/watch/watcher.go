package watch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/reydisse/Wordcloud/internal/database"
	"github.com/reydisse/Wordcloud/internal/models"
)

// ResponseSource reads the complete current response set of a session
type ResponseSource interface {
	GetBySession(ctx context.Context, sessionID string) ([]*models.Response, error)
}

// Watcher bridges the store's change notifications to live subscriptions.
// Every response insert fires a NOTIFY carrying the session id; the watcher
// re-queries that session's full response set and publishes it to the hub.
type Watcher struct {
	db     *database.DB
	source ResponseSource
	hub    *Hub
}

func NewWatcher(db *database.DB, source ResponseSource) *Watcher {
	return &Watcher{
		db:     db,
		source: source,
		hub:    NewHub(),
	}
}

// Watch establishes one live subscription on a session's responses. The
// callback receives the current full set immediately, then again on every
// change, until the returned tear-down function is called.
func (w *Watcher) Watch(ctx context.Context, sessionID string, fn SnapshotFunc) (unsubscribe func(), err error) {
	responses, err := w.source.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial snapshot: %w", err)
	}

	unsubscribe = w.hub.Subscribe(sessionID, fn)
	fn(responses)
	return unsubscribe, nil
}

// Run listens for response-change notifications until the context is
// cancelled, reconnecting with a short delay on connection failure.
func (w *Watcher) Run(ctx context.Context) {
	for {
		if err := w.listen(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("Watcher stopped")
				return
			}
			log.Printf("❌ Watcher connection lost: %v", err)
		}

		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			log.Println("Watcher stopped")
			return
		}
	}
}

func (w *Watcher) listen(ctx context.Context) error {
	conn, err := w.db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+database.ResponseChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", database.ResponseChannel, err)
	}

	log.Printf("✅ Watching %s for response changes", database.ResponseChannel)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("failed waiting for notification: %w", err)
		}

		w.deliver(ctx, notification.Payload)
	}
}

// deliver re-queries a session's full response set and fans it out. Sessions
// nobody is watching are skipped without a query.
func (w *Watcher) deliver(ctx context.Context, sessionID string) {
	if !w.hub.HasSubscribers(sessionID) {
		return
	}

	responses, err := w.source.GetBySession(ctx, sessionID)
	if err != nil {
		log.Printf("❌ Failed to load snapshot for session %s: %v", sessionID, err)
		return
	}

	w.hub.Publish(sessionID, responses)
}

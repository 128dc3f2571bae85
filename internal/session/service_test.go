package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reydisse/Wordcloud/internal/models"
)

type fakeSessionStore struct {
	sessions     map[string]*models.Session
	failCreates  int
	createCalls  int
	lastPageSize int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionStore) Create(ctx context.Context, session *models.Session) error {
	f.createCalls++
	if f.failCreates > 0 {
		f.failCreates--
		return errors.New("store unavailable")
	}
	if session.ID == "" {
		session.ID = fmt.Sprintf("session-%d", len(f.sessions)+1)
	}
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id string) (*models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionStore) GetByCode(ctx context.Context, code string) (*models.Session, error) {
	for _, session := range f.sessions {
		if session.Code == code {
			copied := *session
			return &copied, nil
		}
	}
	return nil, models.ErrSessionNotFound
}

func (f *fakeSessionStore) UpdateQuestion(ctx context.Context, id, question string) error {
	session, ok := f.sessions[id]
	if !ok {
		return models.ErrSessionNotFound
	}
	session.Question = question
	return nil
}

func (f *fakeSessionStore) End(ctx context.Context, id string) error {
	session, ok := f.sessions[id]
	if !ok {
		return models.ErrSessionNotFound
	}
	session.IsActive = false
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return models.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) GetRecentByOwner(ctx context.Context, ownerID string, pageSize int, cursor string) ([]*models.Session, string, error) {
	f.lastPageSize = pageSize
	var out []*models.Session
	for _, session := range f.sessions {
		if session.OwnerID == ownerID {
			out = append(out, session)
		}
	}
	return out, "", nil
}

type fakeResponseStore struct {
	responses []*models.Response
	failNext  bool
}

func (f *fakeResponseStore) Create(ctx context.Context, response *models.Response) error {
	if f.failNext {
		f.failNext = false
		return errors.New("store unavailable")
	}
	f.responses = append(f.responses, response)
	return nil
}

func newTestService(sessions *fakeSessionStore, responses *fakeResponseStore) *Service {
	return NewService(sessions, responses, NewCodeGeneratorWithRand(rand.New(rand.NewSource(1))))
}

func testOwner() *models.Principal {
	return &models.Principal{UID: "uid-1", DisplayName: "Presenter One", Email: "one@example.com"}
}

func TestCreate_EmptyQuestionRejectedBeforeStore(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestService(store, &fakeResponseStore{})

	_, err := svc.Create(context.Background(), testOwner(), "   ")

	assert.ErrorIs(t, err, models.ErrEmptyQuestion)
	assert.Zero(t, store.createCalls, "validation errors must not reach the store")
}

func TestCreate_Success(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestService(store, &fakeResponseStore{})

	created, err := svc.Create(context.Background(), testOwner(), "  What drives you?  ")

	require.NoError(t, err)
	assert.Equal(t, "What drives you?", created.Question)
	assert.Equal(t, "uid-1", created.OwnerID)
	assert.Equal(t, "Presenter One", created.CreatedBy)
	assert.True(t, created.IsActive)
	assert.Len(t, created.Code, CodeLength)
	assert.Equal(t, strings.ToUpper(created.Code), created.Code)
	assert.Len(t, store.sessions, 1)
}

func TestCreate_RetriesTransientFailures(t *testing.T) {
	store := newFakeSessionStore()
	store.failCreates = 2
	svc := newTestService(store, &fakeResponseStore{})

	created, err := svc.Create(context.Background(), testOwner(), "Third time lucky?")

	require.NoError(t, err)
	assert.Equal(t, 3, store.createCalls)
	assert.Len(t, store.sessions, 1, "exactly one session despite retries")
	assert.NotEmpty(t, created.ID)
}

func TestCreate_GivesUpAfterThreeAttempts(t *testing.T) {
	store := newFakeSessionStore()
	store.failCreates = 3
	svc := newTestService(store, &fakeResponseStore{})

	_, err := svc.Create(context.Background(), testOwner(), "Doomed")

	require.Error(t, err)
	assert.Equal(t, 3, store.createCalls)
	assert.Empty(t, store.sessions)
}

func seedSession(store *fakeSessionStore, id, code string, active bool) {
	store.sessions[id] = &models.Session{
		ID:       id,
		Question: "Seeded?",
		Code:     code,
		OwnerID:  "uid-1",
		IsActive: active,
	}
}

func TestJoin_CaseInsensitiveCode(t *testing.T) {
	store := newFakeSessionStore()
	seedSession(store, "s1", "ABC123", true)
	svc := newTestService(store, &fakeResponseStore{})

	joined, err := svc.Join(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "s1", joined.ID)
}

func TestJoin_EndedSessionIsNotInvalidCode(t *testing.T) {
	store := newFakeSessionStore()
	seedSession(store, "s1", "ABC123", false)
	svc := newTestService(store, &fakeResponseStore{})

	_, err := svc.Join(context.Background(), "abc123")

	assert.ErrorIs(t, err, models.ErrSessionEnded)
	assert.NotErrorIs(t, err, models.ErrInvalidCode)
}

func TestJoin_UnknownCode(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestService(store, &fakeResponseStore{})

	_, err := svc.Join(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, models.ErrInvalidCode)

	_, err = svc.Join(context.Background(), "  ")
	assert.ErrorIs(t, err, models.ErrEmptyCode)
}

func TestOwnerChecks(t *testing.T) {
	store := newFakeSessionStore()
	seedSession(store, "s1", "ABC123", true)
	svc := newTestService(store, &fakeResponseStore{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.EditQuestion(ctx, "intruder", "s1", "Hijacked?"), models.ErrNotOwner)
	assert.ErrorIs(t, svc.EndSession(ctx, "intruder", "s1"), models.ErrNotOwner)
	assert.ErrorIs(t, svc.DeleteSession(ctx, "intruder", "s1"), models.ErrNotOwner)

	// No partial edit happened
	kept, err := store.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Seeded?", kept.Question)
	assert.True(t, kept.IsActive)

	require.NoError(t, svc.EditQuestion(ctx, "uid-1", "s1", "Updated?"))
	require.NoError(t, svc.EndSession(ctx, "uid-1", "s1"))

	changed, err := store.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Updated?", changed.Question)
	assert.False(t, changed.IsActive)
}

func TestGetForParticipant_RejectsEnded(t *testing.T) {
	store := newFakeSessionStore()
	seedSession(store, "s1", "ABC123", false)
	svc := newTestService(store, &fakeResponseStore{})

	_, err := svc.GetForParticipant(context.Background(), "s1")
	assert.ErrorIs(t, err, models.ErrSessionEnded)

	_, err = svc.GetForParticipant(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestSubmit_Validation(t *testing.T) {
	responses := &fakeResponseStore{}
	svc := newTestService(newFakeSessionStore(), responses)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "s1", "   ", "p1")
	assert.ErrorIs(t, err, models.ErrEmptyResponse)

	_, err = svc.Submit(ctx, "s1", strings.Repeat("x", models.MaxResponseLength+1), "p1")
	assert.ErrorIs(t, err, models.ErrResponseTooLong)

	assert.Empty(t, responses.responses)
}

func TestSubmit_Success(t *testing.T) {
	responses := &fakeResponseStore{}
	svc := newTestService(newFakeSessionStore(), responses)

	submitted, err := svc.Submit(context.Background(), "s1", "  Innovation  ", "")

	require.NoError(t, err)
	assert.Equal(t, "Innovation", submitted.Text)
	assert.NotEmpty(t, submitted.ParticipantID, "ephemeral participant id is assigned")
	require.Len(t, responses.responses, 1)
}

func TestSubmit_NoAutoRetry(t *testing.T) {
	responses := &fakeResponseStore{failNext: true}
	svc := newTestService(newFakeSessionStore(), responses)

	_, err := svc.Submit(context.Background(), "s1", "Keep my draft", "p1")

	require.Error(t, err)
	assert.Empty(t, responses.responses, "submission must not be retried automatically")
}

func TestListRecent_PageSizeBounds(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestService(store, &fakeResponseStore{})
	ctx := context.Background()

	_, _, err := svc.ListRecent(ctx, "uid-1", 0, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, store.lastPageSize)

	_, _, err = svc.ListRecent(ctx, "uid-1", 500, "")
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, store.lastPageSize)
}

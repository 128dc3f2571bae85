package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reydisse/Wordcloud/internal/models"
)

func snapshot(texts ...string) []*models.Response {
	responses := make([]*models.Response, len(texts))
	for i, text := range texts {
		responses[i] = &models.Response{SessionID: "s1", Text: text}
	}
	return responses
}

func TestHub_PublishReachesSessionSubscribersOnly(t *testing.T) {
	hub := NewHub()

	var got []*models.Response
	hub.Subscribe("s1", func(responses []*models.Response) { got = responses })

	otherCalled := false
	hub.Subscribe("s2", func([]*models.Response) { otherCalled = true })

	hub.Publish("s1", snapshot("blue", "red"))

	assert.Len(t, got, 2, "subscriber receives the full snapshot")
	assert.False(t, otherCalled, "other sessions are untouched")
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()

	calls := 0
	unsubscribe := hub.Subscribe("s1", func([]*models.Response) { calls++ })

	hub.Publish("s1", snapshot("blue"))
	unsubscribe()
	hub.Publish("s1", snapshot("blue", "red"))

	assert.Equal(t, 1, calls, "no delivery after tear-down")
	assert.False(t, hub.HasSubscribers("s1"))

	// Double tear-down is harmless
	unsubscribe()
}

func TestHub_MultipleSubscribersEachGetEverySnapshot(t *testing.T) {
	hub := NewHub()

	counts := [2]int{}
	hub.Subscribe("s1", func([]*models.Response) { counts[0]++ })
	hub.Subscribe("s1", func([]*models.Response) { counts[1]++ })

	hub.Publish("s1", snapshot("a"))
	hub.Publish("s1", snapshot("a", "b"))

	assert.Equal(t, 2, counts[0])
	assert.Equal(t, 2, counts[1])
}

func TestHub_HasSubscribers(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.HasSubscribers("s1"))

	unsubscribe := hub.Subscribe("s1", func([]*models.Response) {})
	assert.True(t, hub.HasSubscribers("s1"))

	unsubscribe()
	assert.False(t, hub.HasSubscribers("s1"))
}

package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 9, 26, 53, 589793, time.UTC)
	id := "3f1a9c2e-0000-4000-8000-000000000001"

	cursor := encodeCursor(createdAt, id)

	gotTime, gotID, err := decodeCursor(cursor)
	require.NoError(t, err)
	assert.True(t, gotTime.Equal(createdAt))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursor_Malformed(t *testing.T) {
	_, _, err := decodeCursor("not base64!!")
	assert.Error(t, err)

	_, _, err = decodeCursor("") // empty decodes to no separator
	assert.Error(t, err)

	// Valid base64 but missing the separator
	_, _, err = decodeCursor("bm9zZXBhcmF0b3I")
	assert.Error(t, err)
}

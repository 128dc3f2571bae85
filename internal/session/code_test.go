package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Format(t *testing.T) {
	gen := NewCodeGeneratorWithRand(rand.New(rand.NewSource(7)))

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := gen.Generate()

		assert.Len(t, code, CodeLength)
		for _, c := range code {
			assert.True(t, (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'),
				"code %q contains invalid character %q", code, c)
		}

		seen[code] = true
	}

	// 36^6 codes; 100 draws colliding would mean a broken generator
	assert.Greater(t, len(seen), 90)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABC123", NormalizeCode("abc123"))
	assert.Equal(t, "ABC123", NormalizeCode("  Abc123 "))
	assert.Equal(t, "", NormalizeCode("   "))
}

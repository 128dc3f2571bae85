package session

import (
	"math/rand"
	"strings"
	"time"
)

// CodeLength is the length of a human-enterable join code
const CodeLength = 6

const codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeGenerator produces join codes from an injectable randomness source
type CodeGenerator struct {
	rng *rand.Rand
}

func NewCodeGenerator() *CodeGenerator {
	return NewCodeGeneratorWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func NewCodeGeneratorWithRand(rng *rand.Rand) *CodeGenerator {
	return &CodeGenerator{rng: rng}
}

// Generate returns a new 6-character uppercase alphanumeric join code
func (g *CodeGenerator) Generate() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(codeChars[g.rng.Intn(len(codeChars))])
	}
	return b.String()
}

// NormalizeCode upper-cases an entered join code so comparison is
// case-insensitive; codes are stored uppercase.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

package cloud

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/reydisse/Wordcloud/internal/models"
)

// Layout constants. Sizes are arbitrary display units; positions are
// percentages of the display area.
const (
	GridColumns = 6
	GridRows    = 4

	// EdgePadding keeps every word away from the display boundary
	EdgePadding = 10.0

	baseFontSize  = 16
	sizeIncrement = 4
	maxFontSize   = 48

	baseOpacity      = 0.4
	opacityIncrement = 0.1
	maxOpacity       = 1.0

	baseWeight      = 400
	weightIncrement = 100
	maxWeight       = 700

	maxRotation = 10.0
)

// Aggregator turns a raw, unordered batch of response texts into a
// non-overlapping word cloud layout. It is stateless between calls: every
// Recompute operates on the full current snapshot, so out-of-order or
// batched delivery of new responses is harmless.
type Aggregator struct {
	rng *rand.Rand
}

// NewAggregator creates an aggregator with time-seeded placement jitter
func NewAggregator() *Aggregator {
	return NewAggregatorWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewAggregatorWithRand creates an aggregator with an injected randomness
// source, so tests can pin a seed and assert placement properties.
func NewAggregatorWithRand(rng *rand.Rand) *Aggregator {
	return &Aggregator{rng: rng}
}

// Normalize produces the dedup key for a raw response text. It is
// idempotent: surrounding whitespace and letter case never matter.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Recompute aggregates a full response snapshot into the word cloud render
// model: distinct normalized texts with frequency-driven size, opacity and
// weight, each assigned a random unoccupied grid cell, sorted by descending
// count. Input texts are pre-validated (never empty after trimming).
func (a *Aggregator) Recompute(texts []string) []models.AggregatedWord {
	if len(texts) == 0 {
		return []models.AggregatedWord{}
	}

	counts := make(map[string]int, len(texts))
	firstSeen := make(map[string]int, len(texts))
	for i, text := range texts {
		key := Normalize(text)
		if _, ok := counts[key]; !ok {
			firstSeen[key] = i
		}
		counts[key]++
	}

	words := make([]models.AggregatedWord, 0, len(counts))
	for key, count := range counts {
		words = append(words, models.AggregatedWord{
			Text:     key,
			Count:    count,
			FontSize: saturate(baseFontSize+count*sizeIncrement, maxFontSize),
			Opacity:  saturateF(baseOpacity+float64(count)*opacityIncrement, maxOpacity),
			Weight:   saturate(baseWeight+count*weightIncrement, maxWeight),
		})
	}

	// Most frequent first; ties keep first-seen order
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return firstSeen[words[i].Text] < firstSeen[words[j].Text]
	})

	a.place(words)

	return words
}

// place assigns each word a random unoccupied grid cell. The free-cell set
// lives only for this pass: once all cells have been used, it is refilled
// and reuse (overlap) becomes possible.
func (a *Aggregator) place(words []models.AggregatedWord) {
	free := allCells()

	for i := range words {
		if len(free) == 0 {
			free = allCells()
		}

		pick := a.rng.Intn(len(free))
		cell := free[pick]
		free[pick] = free[len(free)-1]
		free = free[:len(free)-1]

		row := cell / GridColumns
		col := cell % GridColumns

		words[i].Row = row
		words[i].Col = col
		words[i].X = cellCenter(col, GridColumns)
		words[i].Y = cellCenter(row, GridRows)
		words[i].Rotation = (a.rng.Float64()*2 - 1) * maxRotation
		words[i].ZIndex = len(words) - i
	}
}

func allCells() []int {
	cells := make([]int, GridColumns*GridRows)
	for i := range cells {
		cells[i] = i
	}
	return cells
}

// cellCenter maps a cell index on one axis to the percentage position of
// its center, inside the padded display area.
func cellCenter(index, total int) float64 {
	usable := 100.0 - 2*EdgePadding
	return EdgePadding + (float64(index)+0.5)*usable/float64(total)
}

func saturate(value, max int) int {
	if value > max {
		return max
	}
	return value
}

func saturateF(value, max float64) float64 {
	if value > max {
		return max
	}
	return value
}

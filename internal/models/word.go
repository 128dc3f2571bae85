package models

// AggregatedWord is one distinct normalized response with its computed
// display attributes. It is derived on every aggregation pass and never
// persisted: the set of entries is a pure function of the current
// response snapshot.
type AggregatedWord struct {
	Text     string  `json:"text"`
	Count    int     `json:"count"`
	FontSize int     `json:"font_size"`
	Opacity  float64 `json:"opacity"`
	Weight   int     `json:"weight"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	X        float64 `json:"x"`        // percent of display width
	Y        float64 `json:"y"`        // percent of display height
	Rotation float64 `json:"rotation"` // degrees, [-10, +10]
	ZIndex   int     `json:"z_index"`
}

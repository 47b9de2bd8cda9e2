// ABOUTME: Interpretation maps a blended descriptor onto qualitative labels
// ABOUTME: Seven fixed aspects; rendering order is canonical
package models

// Interpretation is the human-readable reading of a scene descriptor.
// Every aspect always carries a label; there is no "unknown".
type Interpretation struct {
	Mood      string `json:"mood"`
	Energy    string `json:"energy"`
	Pattern   string `json:"pattern"`
	Character string `json:"character"`
	Evolution string `json:"evolution"`
	Texture   string `json:"texture"`
	Space     string `json:"space"`
}

// Aspect pairs an aspect name with its label for ordered rendering.
type Aspect struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Aspects returns the seven aspects in canonical order.
func (in Interpretation) Aspects() []Aspect {
	return []Aspect{
		{Name: "mood", Label: in.Mood},
		{Name: "energy", Label: in.Energy},
		{Name: "pattern", Label: in.Pattern},
		{Name: "character", Label: in.Character},
		{Name: "evolution", Label: in.Evolution},
		{Name: "texture", Label: in.Texture},
		{Name: "space", Label: in.Space},
	}
}

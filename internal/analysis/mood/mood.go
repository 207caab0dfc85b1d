package mood

import "strings"

// Mood is the closed set of moods that have a dedicated supportive sentence.
type Mood string

const (
	Stressed    Mood = "stressed"
	Overwhelmed Mood = "overwhelmed"
	Depressed   Mood = "depressed"
	Anxious     Mood = "anxious"
	// Unrecognized is the default arm for any mood outside the table.
	Unrecognized Mood = ""
)

var support = map[Mood]string{
	Stressed:     "When feeling stressed, try taking three deep breaths and focusing on what you can control right now.",
	Overwhelmed:  "Feeling overwhelmed is tough. Consider breaking down your challenges into smaller, manageable steps.",
	Depressed:    "Depression can feel isolating, but you're not alone. Small steps forward are still progress.",
	Anxious:      "Anxiety can be challenging. Try grounding yourself by noticing 5 things you can see around you.",
	Unrecognized: "Whatever you're feeling right now is understandable.",
}

// Parse lower-cases raw and maps it onto the table. Matching is exact after
// lower-casing, so "Anxious" is Anxious but " anxious" or "anxiety" is Unrecognized.
func Parse(raw string) Mood {
	switch m := Mood(strings.ToLower(raw)); m {
	case Stressed, Overwhelmed, Depressed, Anxious:
		return m
	default:
		return Unrecognized
	}
}

// Known reports whether m has a mood-specific sentence.
func (m Mood) Known() bool {
	return m != Unrecognized
}

// Support returns the sentence appended to fallback replies for m.
func (m Mood) Support() string {
	if s, ok := support[m]; ok {
		return s
	}
	return support[Unrecognized]
}

// All lists the known moods in table order.
func All() []Mood {
	return []Mood{Stressed, Overwhelmed, Depressed, Anxious}
}

// Package piece infers an item's armor slot from its display name.
package piece

import "regexp"

// Kind is an armor slot.
type Kind string

const (
	Helmet     Kind = "helmet"
	Chestplate Kind = "chestplate"
	Leggings   Kind = "leggings"
	Boots      Kind = "boots"

	// None means the name matched no slot pattern.
	None Kind = ""
)

// kindPatterns are tried in order; the first matching set wins. Short or
// ambiguous tokens ("cap", "leg", "legs") are word-boundary anchored so they
// don't fire inside longer words.
var kindPatterns = []struct {
	kind     Kind
	patterns []*regexp.Regexp
}{
	{Helmet, []*regexp.Regexp{
		regexp.MustCompile(`(?i)helmet`),
		regexp.MustCompile(`(?i)helm`),
		regexp.MustCompile(`(?i)\bcap\b`),
	}},
	{Chestplate, []*regexp.Regexp{
		regexp.MustCompile(`(?i)chestplate`),
		regexp.MustCompile(`(?i)chest`),
	}},
	{Leggings, []*regexp.Regexp{
		regexp.MustCompile(`(?i)legging`),
		regexp.MustCompile(`(?i)pants`),
		regexp.MustCompile(`(?i)\blegs?\b`),
	}},
	{Boots, []*regexp.Regexp{
		regexp.MustCompile(`(?i)boot`),
		regexp.MustCompile(`(?i)shoe`),
	}},
}

// Classify returns the armor slot for a display name, or None. It never fails.
func Classify(name string) Kind {
	for _, kp := range kindPatterns {
		for _, p := range kp.patterns {
			if p.MatchString(name) {
				return kp.kind
			}
		}
	}
	return None
}

// Kinds returns all slots in fixed helmet-first order.
func Kinds() []Kind {
	return []Kind{Helmet, Chestplate, Leggings, Boots}
}

// Valid reports whether k is one of the four slots.
func Valid(k Kind) bool {
	switch k {
	case Helmet, Chestplate, Leggings, Boots:
		return true
	}
	return false
}

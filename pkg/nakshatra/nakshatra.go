// Package nakshatra holds the controlled vocabulary of birth stars and the
// resolver that maps free-form labels onto it.
//
// Nakshatra names are transliterations from Malayalam with no single agreed
// spelling ("Ashwathy" vs "Aswathy"), so exact string matching is too brittle
// for real-world data entry. The resolver normalizes both sides with a fixed
// sequence of phonetic collapses and falls back to a small, bounded set of
// suffix substitutions. General edit-distance matching is deliberately out.
package nakshatra

import (
	"strings"

	"github.com/Ramsey-B/tulsi/pkg/normalizers"
)

// Canonical is the fixed, ordered set of the 27 birth stars. The declaration
// order is the tie-break order for the substitution fallback and must not be
// reordered.
var Canonical = []string{
	"ASWATHY",
	"BHARANI",
	"KARTHIKA",
	"ROHINI",
	"MAKAYIRAM",
	"THIRUVATHIRA",
	"PUNARTHAM",
	"POOYAM",
	"AYILYAM",
	"MAKAM",
	"POORAM",
	"UTHRAM",
	"ATHAM",
	"CHITHIRA",
	"CHOTHI",
	"VISHAKHAM",
	"ANIZHAM",
	"THRIKKETTA",
	"MOOLAM",
	"POORADAM",
	"UTHRADAM",
	"THIRUVONAM",
	"AVITTAM",
	"CHATHAYAM",
	"POORURUTTATHI",
	"UTHRUTTATHI",
	"REVATHI",
}

// phoneticCollapses are applied in this exact order after lowercasing and
// whitespace removal. Order matters: "sh" must collapse before vowel length.
var phoneticCollapses = [][2]string{
	{"sh", "s"},
	{"oo", "u"},
	{"aa", "a"},
}

// substitutions are the bounded fallback for trailing vowel-length and
// suffix ambiguity the phonetic collapses do not fix. Each direction is
// applied once to the normalized input.
var substitutions = [][2]string{
	{"thi", "thy"},
	{"thy", "thi"},
	{"ra", "raa"},
	{"raa", "ra"},
	{"ya", "y"},
	{"y", "ya"},
}

// synonyms maps known alternate names (mostly Sanskrit equivalents seen in
// mixed-source rosters) onto canonical stars. Checked after direct lookup and
// before the substitution fallback; never overrides an exact match.
var synonyms = map[string]string{
	"ashwini":  "ASWATHY",
	"krittika": "KARTHIKA",
	"magha":    "MAKAM",
	"shravana": "THIRUVONAM",
	"ardra":    "THIRUVATHIRA",
}

// lookup maps normalized form -> canonical form, built once at init.
var lookup map[string]string

// normalized holds the normalized canonical forms in declaration order, for
// the ordered scan in the substitution fallback.
var normalized []string

// synonymLookup maps normalized synonym -> canonical form.
var synonymLookup map[string]string

func init() {
	lookup = make(map[string]string, len(Canonical))
	normalized = make([]string, len(Canonical))
	for i, name := range Canonical {
		normalized[i] = Normalize(name)
		lookup[normalized[i]] = name
	}

	synonymLookup = make(map[string]string, len(synonyms))
	for raw, canonical := range synonyms {
		synonymLookup[Normalize(raw)] = canonical
	}
}

// All returns the canonical names in declaration order.
func All() []string {
	out := make([]string, len(Canonical))
	copy(out, Canonical)
	return out
}

// IsCanonical reports whether name is one of the 27 stored spellings.
func IsCanonical(name string) bool {
	canonical, ok := lookup[Normalize(name)]
	return ok && canonical == name
}

// Normalize lowercases, strips all whitespace and applies the phonetic
// collapses. Both user input and canonical names go through this before any
// comparison.
func Normalize(label string) string {
	s := normalizers.ApplyChain(label, "trim", "lowercase", "remove_whitespace")
	for _, collapse := range phoneticCollapses {
		s = strings.ReplaceAll(s, collapse[0], collapse[1])
	}
	return s
}

// Resolve maps a free-form label onto its canonical star. The second return
// is false when no bounded mechanism produces a match.
func Resolve(label string) (string, bool) {
	norm := Normalize(label)
	if norm == "" {
		return "", false
	}

	// Direct lookup resolves the overwhelming majority of inputs and has no
	// false positives, so it is always checked first.
	if canonical, ok := lookup[norm]; ok {
		return canonical, true
	}

	if canonical, ok := synonymLookup[norm]; ok {
		return canonical, true
	}

	// Bounded fallback: each substitution applied once to the normalized
	// input, candidates checked in declaration order. No similarity ranking;
	// the first deterministic hit wins.
	for _, sub := range substitutions {
		if !strings.Contains(norm, sub[0]) {
			continue
		}
		transformed := strings.Replace(norm, sub[0], sub[1], 1)
		for i, form := range normalized {
			if form == transformed {
				return Canonical[i], true
			}
		}
	}

	return "", false
}

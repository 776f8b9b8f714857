package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold decomposes to NFD, drops combining marks, and recomposes to NFC,
// turning "café" into "cafe".
var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatures are not touched by canonical decomposition, so they are mapped
// by hand before folding.
var ligatures = strings.NewReplacer("œ", "oe", "æ", "ae")

// Name canonicalizes a free-text ingredient name for comparison: lowercase,
// accents stripped, punctuation replaced by spaces, spaces collapsed, and a
// single trailing "s" removed as a naive plural heuristic. The plural rule is
// deliberately simplistic (it knows nothing about French or English
// morphology beyond the one "oeufs" special case); it exists to make
// "Tomates" match "tomate", not to be linguistically correct.
func Name(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	s = ligatures.Replace(s)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	if strings.HasSuffix(s, "s") && len(s) > 3 {
		s = s[:len(s)-1]
	}
	if s == "oeufs" {
		s = "oeuf"
	}
	return s
}

// Equal reports whether two names canonicalize to the same form.
func Equal(a, b string) bool {
	return Name(a) == Name(b)
}

// Set canonicalizes every name and collects the non-empty results into a
// set; duplicates collapse.
func Set(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if c := Name(n); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

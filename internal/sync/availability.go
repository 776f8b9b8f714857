package sync

import (
	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/normalize"
)

// Status classifies a recipe against the current inventory.
type Status int

const (
	// StatusUnknown means the recipe carries no ingredient lines, so
	// nothing can be said about it. It is never promoted to AllAvailable.
	StatusUnknown Status = iota
	StatusAllAvailable
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusAllAvailable:
		return "all available"
	case StatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Analysis is the availability verdict for one recipe. Missing holds
// normalized names, in line order, deduplicated.
type Analysis struct {
	Status  Status
	Missing []string
}

// AvailableNames projects the inventory onto a normalized-name set,
// keeping only items marked available.
func AvailableNames(ings []model.Ingredient) map[string]struct{} {
	names := make(map[string]struct{}, len(ings))
	for _, ing := range ings {
		if !ing.IsAvailable {
			continue
		}
		if n := normalize.Name(ing.Name); n != "" {
			names[n] = struct{}{}
		}
	}
	return names
}

// Analyze diffs a recipe's ingredient lines against the available set.
func Analyze(lines []model.RecipeIngredient, avail map[string]struct{}) Analysis {
	if len(lines) == 0 {
		return Analysis{Status: StatusUnknown}
	}

	var missing []string
	seen := make(map[string]struct{})
	for _, line := range lines {
		n := normalize.Name(line.Name)
		if n == "" {
			continue
		}
		if _, ok := avail[n]; ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		missing = append(missing, n)
	}

	if len(missing) == 0 {
		return Analysis{Status: StatusAllAvailable}
	}
	return Analysis{Status: StatusMissing, Missing: missing}
}

// Aggregate unions the missing lists of several analyses. When any recipe
// is StatusUnknown the whole result is indeterminate (ok false) and the
// caller must keep the send-to-list action disabled.
func Aggregate(analyses []Analysis) (missing []string, ok bool) {
	for _, a := range analyses {
		if a.Status == StatusUnknown {
			return nil, false
		}
	}
	seen := make(map[string]struct{})
	for _, a := range analyses {
		for _, n := range a.Missing {
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			missing = append(missing, n)
		}
	}
	return missing, true
}

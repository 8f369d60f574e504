package picker

import (
	"slices"
	"sort"
)

// ExtractMiddle removes the median outfield player from an odd-sized list so
// the rest can be split evenly. Even lists pass through untouched with a nil
// middle player. The remaining candidates keep their input order.
func ExtractMiddle(candidates []Candidate) ([]Candidate, *Candidate, error) {
	if len(candidates)%2 == 0 {
		return slices.Clone(candidates), nil, nil
	}

	sorted := slices.Clone(candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return middleOrderLess(sorted[i], sorted[j])
	})

	outfield := 0
	for _, c := range sorted {
		if !c.IsGoalkeeper {
			outfield++
		}
	}

	// Goalkeepers sort last, so the target always lands on an outfield
	// player when there is one.
	target := outfield / 2
	if target >= len(sorted) {
		return nil, nil, algorithmError(ErrNoMiddlePlayer)
	}
	middle := sorted[target]

	rest := make([]Candidate, 0, len(candidates)-1)
	for _, c := range candidates {
		if c.PlayerID != middle.PlayerID {
			rest = append(rest, c)
		}
	}
	return rest, &middle, nil
}

// middleOrderLess sorts outfield before goalkeepers, then by skill, then by
// age with unknown ages first, then by player ID.
func middleOrderLess(a, b Candidate) bool {
	if a.IsGoalkeeper != b.IsGoalkeeper {
		return !a.IsGoalkeeper
	}
	if a.SkillAverage != b.SkillAverage {
		return a.SkillAverage < b.SkillAverage
	}
	switch {
	case a.Age == nil && b.Age != nil:
		return true
	case a.Age != nil && b.Age == nil:
		return false
	case a.Age != nil && b.Age != nil && *a.Age != *b.Age:
		return *a.Age < *b.Age
	}
	return a.PlayerID < b.PlayerID
}

package picker

import (
	"context"
	"fmt"
)

// cancelCheckInterval is how many partitions are scored between context checks.
const cancelCheckInterval = 4096

// TeamSplit is the winning partition of an even candidate list.
type TeamSplit struct {
	TeamA      []Candidate     `json:"teamA"`
	TeamB      []Candidate     `json:"teamB"`
	Diffs      TeamDifferences `json:"diffs"`
	Partitions int             `json:"partitions"`
}

// combination walks every r-element subset of {0..n-1} in colexicographic
// order, which is the order of increasing bitmask value.
type combination struct {
	n       int
	indices []int
}

func newCombination(n, r int) *combination {
	indices := make([]int, r)
	for i := range indices {
		indices[i] = i
	}
	return &combination{n: n, indices: indices}
}

// next advances to the following subset and reports false once exhausted.
func (c *combination) next() bool {
	r := len(c.indices)
	for j := 0; j < r; j++ {
		limit := c.n
		if j+1 < r {
			limit = c.indices[j+1]
		}
		if c.indices[j]+1 < limit {
			c.indices[j]++
			for i := 0; i < j; i++ {
				c.indices[i] = i
			}
			return true
		}
	}
	return false
}

// Split searches every equal-size partition of candidates and returns the one
// with the smallest difference vector. The first candidate is always on team A
// so mirrored partitions are evaluated once; ties keep the earliest partition.
// The search stops early once ctx is done.
func Split(ctx context.Context, candidates []Candidate) (TeamSplit, error) {
	n := len(candidates)
	switch {
	case n < 2:
		return TeamSplit{}, algorithmError(ErrTooFewCandidates)
	case n%2 != 0:
		return TeamSplit{}, algorithmError(ErrOddCandidates)
	}

	ageFallback := averageKnownAge(candidates)
	half := n / 2
	inA := make([]bool, n)
	best := make([]bool, n)
	var bestDiffs TeamDifferences
	found := false
	partitions := 0

	// Team A is candidate 0 plus half-1 of the remaining n-1.
	comb := newCombination(n-1, half-1)
	for ok := true; ok; ok = comb.next() {
		if partitions%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return TeamSplit{}, fmt.Errorf("split stopped after %d partitions: %w", partitions, err)
			}
		}
		clear(inA)
		inA[0] = true
		for _, idx := range comb.indices {
			inA[idx+1] = true
		}

		var diffs TeamDifferences
		for i, c := range candidates {
			if inA[i] {
				diffs.add(c, 1, ageFallback)
			} else {
				diffs.add(c, -1, ageFallback)
			}
		}
		partitions++

		if !found || CompareDifferences(diffs, bestDiffs) < 0 {
			found = true
			bestDiffs = diffs
			copy(best, inA)
		}
	}
	if !found {
		return TeamSplit{}, algorithmError(ErrNoSplit)
	}

	split := TeamSplit{
		TeamA:      make([]Candidate, 0, half),
		TeamB:      make([]Candidate, 0, half),
		Diffs:      bestDiffs,
		Partitions: partitions,
	}
	for i, c := range candidates {
		if best[i] {
			split.TeamA = append(split.TeamA, c)
		} else {
			split.TeamB = append(split.TeamB, c)
		}
	}
	return split, nil
}

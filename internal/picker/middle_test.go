package picker

import (
	"math/rand"
	"testing"
)

func TestExtractMiddleEvenListPassesThrough(t *testing.T) {
	cands := []Candidate{candidate(1, false, 1, nil), candidate(2, false, 2, nil)}
	rest, middle, err := ExtractMiddle(cands)
	if err != nil {
		t.Fatalf("ExtractMiddle: %v", err)
	}
	if middle != nil {
		t.Fatalf("expected no middle player, got %+v", middle)
	}
	if !sameIDs(ids(rest), []int64{1, 2}) {
		t.Fatalf("rest = %v", ids(rest))
	}
}

func TestExtractMiddlePicksMedianOutfieldPlayer(t *testing.T) {
	cands := []Candidate{
		candidate(1, false, 2, intPtr(30)),
		candidate(2, false, 6, intPtr(30)),
		candidate(3, false, 10, intPtr(30)),
		candidate(4, true, 4, intPtr(25)),
		candidate(5, true, 4, intPtr(25)),
	}
	rest, middle, err := ExtractMiddle(cands)
	if err != nil {
		t.Fatalf("ExtractMiddle: %v", err)
	}
	if middle == nil || middle.PlayerID != 2 {
		t.Fatalf("middle = %+v, want player 2", middle)
	}
	if !sameIDs(ids(rest), []int64{1, 3, 4, 5}) {
		t.Fatalf("rest = %v, want input order without player 2", ids(rest))
	}
}

func TestExtractMiddleBreaksSkillTiesByAgeThenID(t *testing.T) {
	cands := []Candidate{
		candidate(1, false, 3, intPtr(40)),
		candidate(2, false, 3, intPtr(20)),
		candidate(3, false, 3, nil),
	}
	// Order: unknown age (3), 20 (2), 40 (1); the middle is player 2.
	_, middle, err := ExtractMiddle(cands)
	if err != nil {
		t.Fatalf("ExtractMiddle: %v", err)
	}
	if middle.PlayerID != 2 {
		t.Fatalf("middle = %d, want 2", middle.PlayerID)
	}

	cands = []Candidate{
		candidate(9, false, 1, nil),
		candidate(7, false, 1, nil),
		candidate(8, false, 1, nil),
	}
	_, middle, err = ExtractMiddle(cands)
	if err != nil {
		t.Fatalf("ExtractMiddle: %v", err)
	}
	if middle.PlayerID != 8 {
		t.Fatalf("middle = %d, want 8", middle.PlayerID)
	}
}

func TestExtractMiddleNeverPicksGoalkeeper(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for round := 0; round < 200; round++ {
		n := 2*rng.Intn(6) + 1
		cands := randomCandidates(rng, n)
		hasOutfield := false
		for _, c := range cands {
			if !c.IsGoalkeeper {
				hasOutfield = true
			}
		}
		if !hasOutfield {
			cands[rng.Intn(n)].IsGoalkeeper = false
		}

		rest, middle, err := ExtractMiddle(cands)
		if err != nil {
			t.Fatalf("round %d: ExtractMiddle: %v", round, err)
		}
		if middle.IsGoalkeeper {
			t.Fatalf("round %d: picked goalkeeper %d", round, middle.PlayerID)
		}
		if len(rest) != n-1 {
			t.Fatalf("round %d: rest has %d players, want %d", round, len(rest), n-1)
		}
	}
}

func TestExtractMiddleAllGoalkeepers(t *testing.T) {
	cands := []Candidate{candidate(1, true, 1, nil)}
	_, middle, err := ExtractMiddle(cands)
	if err != nil {
		t.Fatalf("ExtractMiddle: %v", err)
	}
	if middle.PlayerID != 1 {
		t.Fatalf("middle = %d, want 1", middle.PlayerID)
	}
}

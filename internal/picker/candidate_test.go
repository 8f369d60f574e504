package picker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestAgeHonoursCutoff(t *testing.T) {
	tests := []struct {
		name      string
		birthYear *int
		want      *int
	}{
		{name: "unknown", birthYear: nil, want: nil},
		{name: "before cutoff", birthYear: intPtr(1994), want: intPtr(30)},
		{name: "at cutoff", birthYear: intPtr(1995), want: nil},
		{name: "after cutoff", birthYear: intPtr(2001), want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Age(tt.birthYear, 2024, 1995)
			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("Age = %d, want unknown", *got)
			case tt.want != nil && got == nil:
				t.Fatalf("Age = unknown, want %d", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Fatalf("Age = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestBuildCandidatesSortsAndFillsAttributes(t *testing.T) {
	outcomes := []Outcome{
		{PlayerID: 3, PlayerName: "Cara", Response: ResponseYes, Goalie: true, BirthYear: intPtr(1990)},
		{PlayerID: 1, PlayerName: "Abe", Response: ResponseYes},
		{PlayerID: 2, PlayerName: "Bo", Response: "No"},
	}
	averages := map[int64]float64{1: 1.5, 3: 2.25}

	cands, err := BuildCandidates(context.Background(), []int64{3, 1}, outcomes, 2024, 1995, 2,
		func(_ context.Context, playerID int64) (float64, error) {
			return averages[playerID], nil
		})
	if err != nil {
		t.Fatalf("BuildCandidates: %v", err)
	}
	if !sameIDs(ids(cands), []int64{1, 3}) {
		t.Fatalf("candidates = %v, want [1 3]", ids(cands))
	}
	if cands[0].Name != "Abe" || cands[0].SkillAverage != 1.5 || cands[0].Age != nil || cands[0].IsGoalkeeper {
		t.Fatalf("unexpected first candidate %+v", cands[0])
	}
	if cands[1].Name != "Cara" || cands[1].SkillAverage != 2.25 || !cands[1].IsGoalkeeper || cands[1].Age == nil || *cands[1].Age != 34 {
		t.Fatalf("unexpected second candidate %+v", cands[1])
	}
}

func TestBuildCandidatesRejectsIneligiblePlayers(t *testing.T) {
	outcomes := []Outcome{
		{PlayerID: 1, Response: ResponseYes},
		{PlayerID: 2, Response: "Dunno"},
	}
	tests := []struct {
		name     string
		ids      []int64
		want     error
		playerID int64
	}{
		{name: "missing outcome", ids: []int64{1, 9}, want: ErrPlayerNotAvailable, playerID: 9},
		{name: "not a yes", ids: []int64{1, 2}, want: ErrNoYesResponse, playerID: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			_, err := BuildCandidates(context.Background(), tt.ids, outcomes, 2024, 1995, 4,
				func(context.Context, int64) (float64, error) {
					calls.Add(1)
					return 0, nil
				})
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if validationErr.PlayerID != tt.playerID {
				t.Fatalf("player ID = %d, want %d", validationErr.PlayerID, tt.playerID)
			}
			if calls.Load() != 0 {
				t.Fatalf("averages fetched for an invalid selection: %d calls", calls.Load())
			}
		})
	}
}

func TestBuildCandidatesPropagatesAverageErrors(t *testing.T) {
	boom := errors.New("db down")
	outcomes := []Outcome{
		{PlayerID: 1, Response: ResponseYes},
		{PlayerID: 2, Response: ResponseYes},
	}
	_, err := BuildCandidates(context.Background(), []int64{1, 2}, outcomes, 2024, 1995, 1,
		func(_ context.Context, playerID int64) (float64, error) {
			if playerID == 2 {
				return 0, boom
			}
			return 1, nil
		})
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}

package picker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const ResponseYes = "Yes"

// Team is the label written to an outcome row.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// GameDay is the slice of a game day row the picker needs.
type GameDay struct {
	ID            int64
	Date          time.Time
	PickerHistory int
}

// Outcome is a player's response row for a game day.
type Outcome struct {
	PlayerID   int64
	PlayerName string
	Response   string
	Goalie     bool
	Team       Team
	BirthYear  *int
}

// Candidate is a selected, eligible player with the attributes used for balancing.
type Candidate struct {
	PlayerID     int64   `json:"playerId"`
	Name         string  `json:"name"`
	IsGoalkeeper bool    `json:"isGoalkeeper"`
	SkillAverage float64 `json:"skillAverage"`
	Age          *int    `json:"age,omitempty"`
}

// AverageFunc returns the recent skill average of one player.
type AverageFunc func(ctx context.Context, playerID int64) (float64, error)

// Age returns gameYear-birthYear when the birth year is known and before the
// cutoff. Anything else is an unknown age.
func Age(birthYear *int, gameYear, cutoff int) *int {
	if birthYear == nil || *birthYear >= cutoff {
		return nil
	}
	age := gameYear - *birthYear
	return &age
}

// BuildCandidates validates every selected ID against the outcomes and then
// looks up recent averages concurrently. Candidates come back ordered by player ID.
// No average is fetched when any selected player is ineligible.
func BuildCandidates(ctx context.Context, playerIDs []int64, outcomes []Outcome, gameYear, cutoff, concurrency int, average AverageFunc) ([]Candidate, error) {
	byPlayer := make(map[int64]Outcome, len(outcomes))
	for _, outcome := range outcomes {
		byPlayer[outcome.PlayerID] = outcome
	}

	eligible := make([]Outcome, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		outcome, ok := byPlayer[playerID]
		if !ok {
			return nil, &ValidationError{
				PlayerID: playerID,
				Message:  fmt.Sprintf("selected player %d not available", playerID),
				Err:      ErrPlayerNotAvailable,
			}
		}
		if outcome.Response != ResponseYes {
			return nil, &ValidationError{
				PlayerID: playerID,
				Message:  fmt.Sprintf("selected player %d does not have a Yes response", playerID),
				Err:      ErrNoYesResponse,
			}
		}
		eligible = append(eligible, outcome)
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].PlayerID < eligible[j].PlayerID })

	candidates := make([]Candidate, len(eligible))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, outcome := range eligible {
		g.Go(func() error {
			skill, err := average(gctx, outcome.PlayerID)
			if err != nil {
				return fmt.Errorf("recent average for player %d: %w", outcome.PlayerID, err)
			}
			candidates[i] = Candidate{
				PlayerID:     outcome.PlayerID,
				Name:         outcome.PlayerName,
				IsGoalkeeper: outcome.Goalie,
				SkillAverage: skill,
				Age:          Age(outcome.BirthYear, gameYear, cutoff),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return candidates, nil
}

package picker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codr1/footy/internal/db"
	dbgen "github.com/codr1/footy/internal/db/generated"
)

// SQLStore reads and writes picker state through the generated queries.
type SQLStore struct {
	db  *db.DB
	now func() time.Time
}

func NewSQLStore(database *db.DB) (*SQLStore, error) {
	if database == nil || database.Queries == nil {
		return nil, errors.New("picker store requires a database")
	}
	return &SQLStore{db: database, now: time.Now}, nil
}

// CurrentGameDay returns the first game on or after the start of today (UTC).
func (s *SQLStore) CurrentGameDay(ctx context.Context) (GameDay, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	row, err := s.db.Queries.GetCurrentGameDay(ctx, today)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GameDay{}, ErrNoGameDay
		}
		return GameDay{}, fmt.Errorf("get current game day: %w", err)
	}
	return GameDay{
		ID:            row.ID,
		Date:          row.Date,
		PickerHistory: int(row.PickerGamesHistory),
	}, nil
}

func (s *SQLStore) OutcomesForGameDay(ctx context.Context, gameDayID int64) ([]Outcome, error) {
	rows, err := s.db.Queries.ListOutcomesForGameDay(ctx, gameDayID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes for game day %d: %w", gameDayID, err)
	}

	outcomes := make([]Outcome, 0, len(rows))
	for _, row := range rows {
		outcome := Outcome{
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			Response:   row.Response,
			Goalie:     row.Goalie,
		}
		if row.Team.Valid {
			outcome.Team = Team(row.Team.String)
		}
		if row.PlayerBirthYear.Valid {
			year := int(row.PlayerBirthYear.Int64)
			outcome.BirthYear = &year
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (s *SQLStore) RecentSkillAverage(ctx context.Context, gameDayID, playerID int64, history int) (float64, error) {
	average, err := s.db.Queries.GetRecentAveragePoints(ctx, dbgen.GetRecentAveragePointsParams{
		PlayerID:  playerID,
		GameDayID: gameDayID,
		History:   int64(history),
	})
	if err != nil {
		return 0, fmt.Errorf("recent average points: %w", err)
	}
	return average, nil
}

func (s *SQLStore) ClearTeam(ctx context.Context, gameDayID, playerID int64) error {
	_, err := s.db.Queries.UpdateOutcomeTeam(ctx, dbgen.UpdateOutcomeTeamParams{
		GameDayID: gameDayID,
		PlayerID:  playerID,
	})
	return err
}

func (s *SQLStore) SetTeam(ctx context.Context, gameDayID, playerID int64, team Team) error {
	affected, err := s.db.Queries.UpdateOutcomeTeam(ctx, dbgen.UpdateOutcomeTeamParams{
		Team:      sql.NullString{String: string(team), Valid: true},
		GameDayID: gameDayID,
		PlayerID:  playerID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no outcome for player %d on game day %d", playerID, gameDayID)
	}
	return nil
}

func (s *SQLStore) AssignedCount(ctx context.Context, gameDayID int64) (int64, error) {
	count, err := s.db.Queries.CountTeamAssignments(ctx, gameDayID)
	if err != nil {
		return 0, fmt.Errorf("count team assignments: %w", err)
	}
	return count, nil
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	return s.db.RunInTx(ctx, func(txdb *db.DB) error {
		return fn(&SQLStore{db: txdb, now: s.now})
	})
}

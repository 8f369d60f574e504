// source: outcomes.sql

package dbgen

import (
	"context"
	"database/sql"
)

const upsertOutcome = `-- name: UpsertOutcome :exec
INSERT INTO outcomes (game_day_id, player_id, response, goalie, points)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (game_day_id, player_id) DO UPDATE SET
    response = excluded.response,
    goalie = excluded.goalie,
    points = excluded.points,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertOutcomeParams struct {
	GameDayID int64         `json:"game_day_id"`
	PlayerID  int64         `json:"player_id"`
	Response  string        `json:"response"`
	Goalie    bool          `json:"goalie"`
	Points    sql.NullInt64 `json:"points"`
}

func (q *Queries) UpsertOutcome(ctx context.Context, arg UpsertOutcomeParams) error {
	_, err := q.db.ExecContext(ctx, upsertOutcome,
		arg.GameDayID,
		arg.PlayerID,
		arg.Response,
		arg.Goalie,
		arg.Points,
	)
	return err
}

const listOutcomesForGameDay = `-- name: ListOutcomesForGameDay :many
SELECT o.id, o.game_day_id, o.player_id, o.response, o.goalie, o.team, o.points,
       p.name AS player_name, p.birth_year AS player_birth_year
FROM outcomes o
JOIN players p ON p.id = o.player_id
WHERE o.game_day_id = ?
ORDER BY o.player_id
`

type ListOutcomesForGameDayRow struct {
	ID              int64          `json:"id"`
	GameDayID       int64          `json:"game_day_id"`
	PlayerID        int64          `json:"player_id"`
	Response        string         `json:"response"`
	Goalie          bool           `json:"goalie"`
	Team            sql.NullString `json:"team"`
	Points          sql.NullInt64  `json:"points"`
	PlayerName      string         `json:"player_name"`
	PlayerBirthYear sql.NullInt64  `json:"player_birth_year"`
}

func (q *Queries) ListOutcomesForGameDay(ctx context.Context, gameDayID int64) ([]ListOutcomesForGameDayRow, error) {
	rows, err := q.db.QueryContext(ctx, listOutcomesForGameDay, gameDayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListOutcomesForGameDayRow
	for rows.Next() {
		var i ListOutcomesForGameDayRow
		if err := rows.Scan(
			&i.ID,
			&i.GameDayID,
			&i.PlayerID,
			&i.Response,
			&i.Goalie,
			&i.Team,
			&i.Points,
			&i.PlayerName,
			&i.PlayerBirthYear,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateOutcomeTeam = `-- name: UpdateOutcomeTeam :execrows
UPDATE outcomes
SET team = ?, updated_at = CURRENT_TIMESTAMP
WHERE game_day_id = ?
  AND player_id = ?
`

type UpdateOutcomeTeamParams struct {
	Team      sql.NullString `json:"team"`
	GameDayID int64          `json:"game_day_id"`
	PlayerID  int64          `json:"player_id"`
}

// UpdateOutcomeTeam sets or clears (NULL) the team of one outcome row.
func (q *Queries) UpdateOutcomeTeam(ctx context.Context, arg UpdateOutcomeTeamParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateOutcomeTeam, arg.Team, arg.GameDayID, arg.PlayerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countTeamAssignments = `-- name: CountTeamAssignments :one
SELECT COUNT(*)
FROM outcomes
WHERE game_day_id = ?
  AND team IS NOT NULL
`

func (q *Queries) CountTeamAssignments(ctx context.Context, gameDayID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTeamAssignments, gameDayID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getRecentAveragePoints = `-- name: GetRecentAveragePoints :one
SELECT CAST(COALESCE(AVG(o.points), 0) AS REAL)
FROM outcomes o
WHERE o.player_id = ?
  AND o.points IS NOT NULL
  AND o.game_day_id IN (
      SELECT gd.id
      FROM game_days gd
      WHERE gd.game = 1
        AND gd.date < (SELECT target.date FROM game_days target WHERE target.id = ?)
      ORDER BY gd.date DESC
      LIMIT ?
  )
`

type GetRecentAveragePointsParams struct {
	PlayerID  int64 `json:"player_id"`
	GameDayID int64 `json:"game_day_id"`
	History   int64 `json:"history"`
}

// GetRecentAveragePoints averages the player's points over the last History
// game days before GameDayID. Players with no history average 0.
func (q *Queries) GetRecentAveragePoints(ctx context.Context, arg GetRecentAveragePointsParams) (float64, error) {
	row := q.db.QueryRowContext(ctx, getRecentAveragePoints, arg.PlayerID, arg.GameDayID, arg.History)
	var average float64
	err := row.Scan(&average)
	return average, err
}

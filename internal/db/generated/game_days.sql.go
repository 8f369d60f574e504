// source: game_days.sql

package dbgen

import (
	"context"
	"database/sql"
	"time"
)

const createGameDay = `-- name: CreateGameDay :execlastid
INSERT INTO game_days (date, game, picker_games_history, bibs, comment)
VALUES (?, ?, ?, ?, ?)
`

type CreateGameDayParams struct {
	Date               time.Time      `json:"date"`
	Game               bool           `json:"game"`
	PickerGamesHistory int64          `json:"picker_games_history"`
	Bibs               sql.NullString `json:"bibs"`
	Comment            sql.NullString `json:"comment"`
}

func (q *Queries) CreateGameDay(ctx context.Context, arg CreateGameDayParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createGameDay,
		arg.Date,
		arg.Game,
		arg.PickerGamesHistory,
		arg.Bibs,
		arg.Comment,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getCurrentGameDay = `-- name: GetCurrentGameDay :one
SELECT id, date, game, picker_games_history, bibs, comment
FROM game_days
WHERE game = 1
  AND date >= ?
ORDER BY date ASC
LIMIT 1
`

// GetCurrentGameDay returns the first game day on or after the given instant.
func (q *Queries) GetCurrentGameDay(ctx context.Context, since time.Time) (GameDay, error) {
	row := q.db.QueryRowContext(ctx, getCurrentGameDay, since)
	var i GameDay
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.Game,
		&i.PickerGamesHistory,
		&i.Bibs,
		&i.Comment,
	)
	return i, err
}

// source: players.sql

package dbgen

import (
	"context"
	"database/sql"
)

const createPlayer = `-- name: CreatePlayer :execlastid
INSERT INTO players (name, email, birth_year, active)
VALUES (?, ?, ?, ?)
`

type CreatePlayerParams struct {
	Name      string         `json:"name"`
	Email     sql.NullString `json:"email"`
	BirthYear sql.NullInt64  `json:"birth_year"`
	Active    bool           `json:"active"`
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createPlayer,
		arg.Name,
		arg.Email,
		arg.BirthYear,
		arg.Active,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const listActivePlayerEmails = `-- name: ListActivePlayerEmails :many
SELECT id, email
FROM players
WHERE active = 1
  AND email IS NOT NULL
  AND TRIM(email) != ''
ORDER BY id
`

type ListActivePlayerEmailsRow struct {
	ID    int64          `json:"id"`
	Email sql.NullString `json:"email"`
}

func (q *Queries) ListActivePlayerEmails(ctx context.Context) ([]ListActivePlayerEmailsRow, error) {
	rows, err := q.db.QueryContext(ctx, listActivePlayerEmails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListActivePlayerEmailsRow
	for rows.Next() {
		var i ListActivePlayerEmailsRow
		if err := rows.Scan(&i.ID, &i.Email); err != nil {
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

package dbgen

import (
	"database/sql"
	"time"
)

type GameDay struct {
	ID                 int64          `json:"id"`
	Date               time.Time      `json:"date"`
	Game               bool           `json:"game"`
	PickerGamesHistory int64          `json:"picker_games_history"`
	Bibs               sql.NullString `json:"bibs"`
	Comment            sql.NullString `json:"comment"`
}

type Outcome struct {
	ID        int64          `json:"id"`
	GameDayID int64          `json:"game_day_id"`
	PlayerID  int64          `json:"player_id"`
	Response  string         `json:"response"`
	Goalie    bool           `json:"goalie"`
	Team      sql.NullString `json:"team"`
	Points    sql.NullInt64  `json:"points"`
	Comment   sql.NullString `json:"comment"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Player struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Email     sql.NullString `json:"email"`
	BirthYear sql.NullInt64  `json:"birth_year"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"created_at"`
}

package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/codr1/footy/internal/db"
	dbgen "github.com/codr1/footy/internal/db/generated"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// InsertPlayer adds an active player. A birthYear of 0 leaves it unknown and
// an empty email leaves the player without an address.
func InsertPlayer(t *testing.T, database *db.DB, name, email string, birthYear int64) int64 {
	t.Helper()

	id, err := database.Queries.CreatePlayer(context.Background(), dbgen.CreatePlayerParams{
		Name:      name,
		Email:     sql.NullString{String: email, Valid: email != ""},
		BirthYear: sql.NullInt64{Int64: birthYear, Valid: birthYear != 0},
		Active:    true,
	})
	if err != nil {
		t.Fatalf("insert player %s: %v", name, err)
	}
	return id
}

// InsertGameDay adds a game day with the given picker history window.
func InsertGameDay(t *testing.T, database *db.DB, date time.Time, history int64) int64 {
	t.Helper()

	id, err := database.Queries.CreateGameDay(context.Background(), dbgen.CreateGameDayParams{
		Date:               date.UTC(),
		Game:               true,
		PickerGamesHistory: history,
	})
	if err != nil {
		t.Fatalf("insert game day %s: %v", date.Format("2006-01-02"), err)
	}
	return id
}

// InsertOutcome records a response for a player; points < 0 leaves them unset.
func InsertOutcome(t *testing.T, database *db.DB, gameDayID, playerID int64, response string, goalie bool, points int64) {
	t.Helper()

	if err := database.Queries.UpsertOutcome(context.Background(), dbgen.UpsertOutcomeParams{
		GameDayID: gameDayID,
		PlayerID:  playerID,
		Response:  response,
		Goalie:    goalie,
		Points:    sql.NullInt64{Int64: points, Valid: points >= 0},
	}); err != nil {
		t.Fatalf("insert outcome game_day=%d player=%d: %v", gameDayID, playerID, err)
	}
}

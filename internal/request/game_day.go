package request

import (
	"net/http"
	"strconv"
	"strings"
)

// ParseGameDayID parses a positive int64 game day ID.
func ParseGameDayID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	gameDayID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || gameDayID <= 0 {
		return 0, false
	}

	return gameDayID, true
}

// GameDayIDFromQuery reads game_day_id from the query string. present is false
// when the parameter was not sent at all.
func GameDayIDFromQuery(r *http.Request) (gameDayID int64, present bool, ok bool) {
	raw, present := r.URL.Query()["game_day_id"]
	if !present || len(raw) == 0 {
		return 0, false, true
	}
	gameDayID, ok = ParseGameDayID(raw[0])
	return gameDayID, true, ok
}

package picker

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	engine "github.com/codr1/footy/internal/picker"
	"github.com/codr1/footy/internal/ratelimit"
)

type fakePicker struct {
	gameDay    engine.GameDay
	gameDayErr error
	submitErr  error
	submitted  [][]engine.Selection
	rosters    map[int64]*engine.Rosters
	// duringSubmit runs once inside the first SubmitPicker call.
	duringSubmit func()
}

func (f *fakePicker) SubmitPicker(_ context.Context, selections []engine.Selection) (*engine.Result, error) {
	f.submitted = append(f.submitted, selections)
	if hook := f.duringSubmit; hook != nil {
		f.duringSubmit = nil
		hook()
	}
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &engine.Result{
		GameDayID: f.gameDay.ID,
		TeamA:     []engine.Candidate{{PlayerID: selections[0].PlayerID}},
		TeamB:     []engine.Candidate{{PlayerID: selections[1].PlayerID}},
	}, nil
}

func (f *fakePicker) CurrentGameDay(context.Context) (engine.GameDay, error) {
	if f.gameDayErr != nil {
		return engine.GameDay{}, f.gameDayErr
	}
	return f.gameDay, nil
}

func (f *fakePicker) Teams(_ context.Context, gameDayID int64) (*engine.Rosters, error) {
	if rosters, ok := f.rosters[gameDayID]; ok {
		return rosters, nil
	}
	return &engine.Rosters{GameDayID: gameDayID}, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func submit(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/picker", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HandleSubmitPicker(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestHandleSubmitPickerReturnsTeams(t *testing.T) {
	fake := &fakePicker{gameDay: engine.GameDay{ID: 3}}
	InitHandlers(fake, nil, false)

	rec := submit(t, `{"players":[{"playerId":11},{"playerId":12}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var result engine.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.GameDayID != 3 || result.TeamA[0].PlayerID != 11 || result.TeamB[0].PlayerID != 12 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestHandleSubmitPickerMapsErrors(t *testing.T) {
	tests := []struct {
		name       string
		gameDayErr error
		submitErr  error
		want       int
	}{
		{name: "too few", submitErr: &engine.InputError{Message: "at least two players must be selected"}, want: http.StatusBadRequest},
		{name: "not a yes", submitErr: &engine.ValidationError{PlayerID: 4, Message: "selected player 4 does not have a Yes response"}, want: http.StatusBadRequest},
		{name: "no game day", gameDayErr: &engine.StateError{Message: "no current game day available"}, want: http.StatusConflict},
		{name: "storage", submitErr: errors.New("database is locked"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitHandlers(&fakePicker{gameDay: engine.GameDay{ID: 1}, gameDayErr: tt.gameDayErr, submitErr: tt.submitErr}, nil, false)
			rec := submit(t, `{"players":[{"playerId":1},{"playerId":2}]}`)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if msg := decodeError(t, rec); msg == "" {
				t.Fatal("expected an error message")
			}
		})
	}
}

func TestHandleSubmitPickerRejectsMalformedJSON(t *testing.T) {
	fake := &fakePicker{gameDay: engine.GameDay{ID: 1}}
	InitHandlers(fake, nil, false)

	for _, body := range []string{`{"players":`, `{"players":[],"extra":true}`} {
		rec := submit(t, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
	if len(fake.submitted) != 0 {
		t.Fatal("picker should not be called for malformed input")
	}
}

func TestHandleSubmitPickerCooldown(t *testing.T) {
	fake := &fakePicker{gameDay: engine.GameDay{ID: 9}}
	limiter := ratelimit.New(&ratelimit.Config{
		Cooldown: 10 * time.Second,
		Clock:    fixedClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	})
	defer limiter.Close()
	InitHandlers(fake, limiter, false)

	body := `{"players":[{"playerId":1},{"playerId":2}]}`
	if rec := submit(t, body); rec.Code != http.StatusOK {
		t.Fatalf("first submit status = %d", rec.Code)
	}
	rec := submit(t, body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second submit status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "10" {
		t.Fatalf("Retry-After = %q, want 10", rec.Header().Get("Retry-After"))
	}
	if len(fake.submitted) != 1 {
		t.Fatalf("picker called %d times, want 1", len(fake.submitted))
	}
}

func TestHandleSubmitPickerRejectsOverlappingSubmission(t *testing.T) {
	fake := &fakePicker{gameDay: engine.GameDay{ID: 9}}
	limiter := ratelimit.New(&ratelimit.Config{Cooldown: time.Minute})
	defer limiter.Close()
	InitHandlers(fake, limiter, false)

	body := `{"players":[{"playerId":1},{"playerId":2}]}`
	var overlapping *httptest.ResponseRecorder
	fake.duringSubmit = func() {
		overlapping = submit(t, body)
	}

	if rec := submit(t, body); rec.Code != http.StatusOK {
		t.Fatalf("first submit status = %d", rec.Code)
	}
	if overlapping == nil || overlapping.Code != http.StatusTooManyRequests {
		t.Fatalf("overlapping submit should get 429, got %+v", overlapping)
	}
	if len(fake.submitted) != 1 {
		t.Fatalf("picker called %d times, want 1", len(fake.submitted))
	}
}

func TestHandleSubmitPickerFailureDoesNotStartCooldown(t *testing.T) {
	fake := &fakePicker{gameDay: engine.GameDay{ID: 9}, submitErr: &engine.ValidationError{Message: "nope"}}
	limiter := ratelimit.New(&ratelimit.Config{Cooldown: time.Minute})
	defer limiter.Close()
	InitHandlers(fake, limiter, false)

	body := `{"players":[{"playerId":1},{"playerId":2}]}`
	for i := 0; i < 2; i++ {
		if rec := submit(t, body); rec.Code != http.StatusBadRequest {
			t.Fatalf("submit %d status = %d, want 400", i, rec.Code)
		}
	}
}

func TestHandleGetTeams(t *testing.T) {
	fake := &fakePicker{
		gameDay: engine.GameDay{ID: 5},
		rosters: map[int64]*engine.Rosters{
			5: {GameDayID: 5, TeamA: []engine.RosterEntry{{PlayerID: 1, Name: "Ann"}}},
			2: {GameDayID: 2, TeamB: []engine.RosterEntry{{PlayerID: 8, Name: "Ben"}}},
		},
	}
	InitHandlers(fake, nil, false)

	tests := []struct {
		target string
		want   int64
	}{
		{target: "/api/v1/picker/teams", want: 5},
		{target: "/api/v1/picker/teams?game_day_id=2", want: 2},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		HandleGetTeams(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.target, rec.Code)
		}
		var rosters engine.Rosters
		if err := json.NewDecoder(rec.Body).Decode(&rosters); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if rosters.GameDayID != tt.want {
			t.Fatalf("%s: game day = %d, want %d", tt.target, rosters.GameDayID, tt.want)
		}
	}

	rec := httptest.NewRecorder()
	HandleGetTeams(rec, httptest.NewRequest(http.MethodGet, "/api/v1/picker/teams?game_day_id=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid id status = %d, want 400", rec.Code)
	}
}

func TestHandlersRequireInit(t *testing.T) {
	InitHandlers(nil, nil, false)
	rec := submit(t, `{"players":[]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

package picker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/codr1/footy/internal/email"
)

const (
	defaultBirthYearCutoff    = 1995
	defaultMaxCandidates      = 24
	defaultAverageConcurrency = 8
)

// Store is everything the engine reads from and writes to storage.
type Store interface {
	// CurrentGameDay returns ErrNoGameDay when no game day is active.
	CurrentGameDay(ctx context.Context) (GameDay, error)
	OutcomesForGameDay(ctx context.Context, gameDayID int64) ([]Outcome, error)
	RecentSkillAverage(ctx context.Context, gameDayID, playerID int64, history int) (float64, error)
	ClearTeam(ctx context.Context, gameDayID, playerID int64) error
	SetTeam(ctx context.Context, gameDayID, playerID int64, team Team) error
	// AssignedCount is the number of outcomes of the game day already on a team.
	AssignedCount(ctx context.Context, gameDayID int64) (int64, error)
	// RunInTx runs fn against a Store bound to a single transaction.
	RunInTx(ctx context.Context, fn func(Store) error) error
}

// Notifier announces the picked teams to the players.
type Notifier interface {
	Notify(ctx context.Context, subject, htmlBody string) error
}

// Recorder receives one observation per picker run.
type Recorder interface {
	ObservePick(outcome string, duration time.Duration, partitions int)
	NotificationFailed()
}

// Selection is one player picked by the organiser.
type Selection struct {
	PlayerID int64 `json:"playerId"`
}

// Result describes the teams written for a game day.
type Result struct {
	GameDayID    int64           `json:"gameDayId"`
	TeamA        []Candidate     `json:"teamA"`
	TeamB        []Candidate     `json:"teamB"`
	Diffs        TeamDifferences `json:"diffs"`
	MiddlePlayer *Candidate      `json:"middlePlayer,omitempty"`
	Partitions   int             `json:"partitions"`
}

type Engine struct {
	store    Store
	notifier Notifier
	recorder Recorder

	baseURL            string
	birthYearCutoff    int
	maxCandidates      int
	averageConcurrency int

	locks sync.Map // game day ID -> *sync.Mutex
}

type Option func(*Engine)

func WithBaseURL(baseURL string) Option {
	return func(e *Engine) { e.baseURL = baseURL }
}

func WithBirthYearCutoff(year int) Option {
	return func(e *Engine) {
		if year > 0 {
			e.birthYearCutoff = year
		}
	}
}

func WithMaxCandidates(max int) Option {
	return func(e *Engine) {
		if max >= 2 {
			e.maxCandidates = max
		}
	}
}

func WithAverageConcurrency(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.averageConcurrency = limit
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(e *Engine) { e.recorder = recorder }
}

func NewEngine(store Store, notifier Notifier, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("picker engine requires a store")
	}
	if notifier == nil {
		return nil, errors.New("picker engine requires a notifier")
	}
	e := &Engine{
		store:              store,
		notifier:           notifier,
		birthYearCutoff:    defaultBirthYearCutoff,
		maxCandidates:      defaultMaxCandidates,
		averageConcurrency: defaultAverageConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SubmitPicker balances the selected players into teams A and B for the
// current game day, persists the assignment and emails the rosters.
//
// Every selected player must have a Yes response. All validation happens
// before the first write; the reset of previous teams and the new
// assignments are committed together.
func (e *Engine) SubmitPicker(ctx context.Context, selections []Selection) (result *Result, err error) {
	start := time.Now()
	defer func() { e.observePick(start, result, err) }()

	playerIDs := lo.Uniq(lo.Map(selections, func(s Selection, _ int) int64 { return s.PlayerID }))
	if len(playerIDs) < 2 {
		return nil, &InputError{Message: ErrTooFewPlayers.Error(), Err: ErrTooFewPlayers}
	}
	if lo.SomeBy(playerIDs, func(id int64) bool { return id <= 0 }) {
		return nil, &InputError{Message: ErrInvalidPlayerID.Error(), Err: ErrInvalidPlayerID}
	}

	gameDay, err := e.CurrentGameDay(ctx)
	if err != nil {
		return nil, err
	}

	unlock := e.lockGameDay(gameDay.ID)
	defer unlock()

	outcomes, err := e.store.OutcomesForGameDay(ctx, gameDay.ID)
	if err != nil {
		return nil, fmt.Errorf("load outcomes for game day %d: %w", gameDay.ID, err)
	}
	return e.pickLocked(ctx, gameDay, playerIDs, outcomes)
}

// AutoPick selects every Yes responder of the current game day and picks
// teams, unless teams have already been assigned. A nil result means nothing
// was done.
func (e *Engine) AutoPick(ctx context.Context) (*Result, error) {
	gameDay, err := e.store.CurrentGameDay(ctx)
	if err != nil {
		if errors.Is(err, ErrNoGameDay) {
			return nil, nil
		}
		return nil, fmt.Errorf("load current game day: %w", err)
	}

	logger := log.Ctx(ctx).With().Str("component", "picker_engine").Int64("game_day_id", gameDay.ID).Logger()

	// The assignment check and the pick share the game day lock so a manual
	// pick cannot land in between.
	unlock := e.lockGameDay(gameDay.ID)
	defer unlock()

	assigned, err := e.store.AssignedCount(ctx, gameDay.ID)
	if err != nil {
		return nil, fmt.Errorf("count team assignments for game day %d: %w", gameDay.ID, err)
	}
	if assigned > 0 {
		logger.Debug().Int64("assigned", assigned).Msg("Teams already picked, skipping auto pick")
		return nil, nil
	}

	outcomes, err := e.store.OutcomesForGameDay(ctx, gameDay.ID)
	if err != nil {
		return nil, fmt.Errorf("load outcomes for game day %d: %w", gameDay.ID, err)
	}

	playerIDs := lo.Uniq(lo.FilterMap(outcomes, func(o Outcome, _ int) (int64, bool) {
		return o.PlayerID, o.Response == ResponseYes && o.PlayerID > 0
	}))
	if len(playerIDs) < 2 {
		logger.Debug().Int("yes_responses", len(playerIDs)).Msg("Not enough players for auto pick")
		return nil, nil
	}

	start := time.Now()
	result, err := e.pickLocked(ctx, gameDay, playerIDs, outcomes)
	e.observePick(start, result, err)
	return result, err
}

// pickLocked runs the balancing and persistence for gameDay. The caller must
// hold the game day lock.
func (e *Engine) pickLocked(ctx context.Context, gameDay GameDay, playerIDs []int64, outcomes []Outcome) (*Result, error) {
	logger := log.Ctx(ctx).With().
		Str("component", "picker_engine").
		Int64("game_day_id", gameDay.ID).
		Int("selected", len(playerIDs)).
		Logger()
	logger.Info().Msg("Picking teams")

	candidates, err := BuildCandidates(ctx, playerIDs, outcomes, gameDay.Date.Year(), e.birthYearCutoff, e.averageConcurrency,
		func(ctx context.Context, playerID int64) (float64, error) {
			return e.store.RecentSkillAverage(ctx, gameDay.ID, playerID, gameDay.PickerHistory)
		})
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			logger.Warn().Int64("player_id", validationErr.PlayerID).Msg(validationErr.Message)
		}
		return nil, err
	}
	if len(candidates) > e.maxCandidates {
		return nil, &AlgorithmError{
			Message: fmt.Sprintf("%d candidates exceeds the limit of %d", len(candidates), e.maxCandidates),
			Err:     ErrTooManyCandidates,
		}
	}

	rest, middle, err := ExtractMiddle(candidates)
	if err != nil {
		return nil, err
	}
	if middle != nil {
		logger.Debug().Int64("middle_player_id", middle.PlayerID).Str("middle_player", middle.Name).Msg("Set aside middle player")
	}

	split, err := Split(ctx, rest)
	if err != nil {
		return nil, err
	}

	teamA, teamB := split.TeamA, split.TeamB
	if middle != nil {
		if lighterTeam(teamA, teamB) == TeamA {
			teamA = append(teamA, *middle)
		} else {
			teamB = append(teamB, *middle)
		}
	}

	logger.Info().
		Int("partitions", split.Partitions).
		Int("goalkeeper_diff", split.Diffs.Goalkeepers).
		Float64("skill_diff", split.Diffs.Skill).
		Int("unknown_age_diff", split.Diffs.UnknownAges).
		Float64("age_sum_diff", split.Diffs.AgeSum).
		Msg("Found best split")

	err = e.store.RunInTx(ctx, func(tx Store) error {
		for _, outcome := range outcomes {
			if outcome.PlayerID < 0 {
				continue
			}
			if err := tx.ClearTeam(ctx, gameDay.ID, outcome.PlayerID); err != nil {
				return fmt.Errorf("clear team for player %d: %w", outcome.PlayerID, err)
			}
		}
		for _, c := range teamA {
			if err := tx.SetTeam(ctx, gameDay.ID, c.PlayerID, TeamA); err != nil {
				return fmt.Errorf("set team A for player %d: %w", c.PlayerID, err)
			}
		}
		for _, c := range teamB {
			if err := tx.SetTeam(ctx, gameDay.ID, c.PlayerID, TeamB); err != nil {
				return fmt.Errorf("set team B for player %d: %w", c.PlayerID, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to save teams")
		return nil, err
	}

	message, err := email.BuildTeamsEmail(ctx, email.TeamsDetails{
		GameDayID: gameDay.ID,
		Date:      gameDay.Date,
		BaseURL:   e.baseURL,
		TeamA:     lo.Map(teamA, func(c Candidate, _ int) string { return c.Name }),
		TeamB:     lo.Map(teamB, func(c Candidate, _ int) string { return c.Name }),
	})
	if err != nil {
		return nil, fmt.Errorf("build teams email: %w", err)
	}
	if err := e.notifier.Notify(ctx, message.Subject, message.Body); err != nil {
		logger.Error().Err(err).Msg("Failed to send teams email")
		if e.recorder != nil {
			e.recorder.NotificationFailed()
		}
		return nil, fmt.Errorf("send teams email: %w", err)
	}

	logger.Info().Int("team_a", len(teamA)).Int("team_b", len(teamB)).Msg("Teams picked")

	return &Result{
		GameDayID:    gameDay.ID,
		TeamA:        teamA,
		TeamB:        teamB,
		Diffs:        split.Diffs,
		MiddlePlayer: middle,
		Partitions:   split.Partitions,
	}, nil
}

func (e *Engine) lockGameDay(gameDayID int64) func() {
	value, _ := e.locks.LoadOrStore(gameDayID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// lighterTeam returns the team with the strictly lower skill sum; B on a tie.
func lighterTeam(teamA, teamB []Candidate) Team {
	if skillSum(teamA) < skillSum(teamB) {
		return TeamA
	}
	return TeamB
}

func skillSum(team []Candidate) float64 {
	return lo.SumBy(team, func(c Candidate) float64 { return c.SkillAverage })
}

func (e *Engine) observePick(start time.Time, result *Result, err error) {
	if e.recorder == nil {
		return
	}
	partitions := 0
	if result != nil {
		partitions = result.Partitions
	}
	e.recorder.ObservePick(pickOutcome(err), time.Since(start), partitions)
}

func pickOutcome(err error) string {
	var (
		inputErr      *InputError
		stateErr      *StateError
		validationErr *ValidationError
		algorithmErr  *AlgorithmError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &inputErr):
		return "invalid_input"
	case errors.As(err, &stateErr):
		return "no_game_day"
	case errors.As(err, &validationErr):
		return "invalid_player"
	case errors.As(err, &algorithmErr):
		return "algorithm_error"
	default:
		return "error"
	}
}

// RosterEntry is one player assigned to a team.
type RosterEntry struct {
	PlayerID int64  `json:"playerId"`
	Name     string `json:"name"`
	Goalie   bool   `json:"goalie"`
}

// Rosters lists the current team assignments of a game day.
type Rosters struct {
	GameDayID int64         `json:"gameDayId"`
	TeamA     []RosterEntry `json:"teamA"`
	TeamB     []RosterEntry `json:"teamB"`
}

// CurrentGameDay returns the active game day or a StateError when there is none.
func (e *Engine) CurrentGameDay(ctx context.Context) (GameDay, error) {
	gameDay, err := e.store.CurrentGameDay(ctx)
	if err != nil {
		if errors.Is(err, ErrNoGameDay) {
			return GameDay{}, &StateError{Message: ErrNoGameDay.Error(), Err: err}
		}
		return GameDay{}, fmt.Errorf("load current game day: %w", err)
	}
	return gameDay, nil
}

// Teams returns who is on team A and team B for a game day.
func (e *Engine) Teams(ctx context.Context, gameDayID int64) (*Rosters, error) {
	outcomes, err := e.store.OutcomesForGameDay(ctx, gameDayID)
	if err != nil {
		return nil, fmt.Errorf("load outcomes for game day %d: %w", gameDayID, err)
	}

	rosters := &Rosters{GameDayID: gameDayID, TeamA: []RosterEntry{}, TeamB: []RosterEntry{}}
	for _, outcome := range outcomes {
		entry := RosterEntry{PlayerID: outcome.PlayerID, Name: outcome.PlayerName, Goalie: outcome.Goalie}
		switch outcome.Team {
		case TeamA:
			rosters.TeamA = append(rosters.TeamA, entry)
		case TeamB:
			rosters.TeamB = append(rosters.TeamB, entry)
		}
	}
	return rosters, nil
}

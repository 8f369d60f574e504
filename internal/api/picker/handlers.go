// internal/api/picker/handlers.go
package picker

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/footy/internal/api/apiutil"
	engine "github.com/codr1/footy/internal/picker"
	"github.com/codr1/footy/internal/ratelimit"
	"github.com/codr1/footy/internal/request"
)

const pickerRequestTimeout = 60 * time.Second

// TeamPicker is the part of the picker engine the handlers call.
type TeamPicker interface {
	SubmitPicker(ctx context.Context, selections []engine.Selection) (*engine.Result, error)
	CurrentGameDay(ctx context.Context) (engine.GameDay, error)
	Teams(ctx context.Context, gameDayID int64) (*engine.Rosters, error)
}

var (
	stateMu    sync.RWMutex
	picker     TeamPicker
	limiter    *ratelimit.Limiter
	trustProxy bool
)

type submitRequest struct {
	Players []engine.Selection `json:"players"`
}

// InitHandlers must be called during server startup before handling requests.
// A nil limiter disables the resubmission cooldown.
func InitHandlers(p TeamPicker, l *ratelimit.Limiter, trustForwardedFor bool) {
	stateMu.Lock()
	defer stateMu.Unlock()
	picker = p
	limiter = l
	trustProxy = trustForwardedFor
}

func loadState() (TeamPicker, *ratelimit.Limiter, bool) {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return picker, limiter, trustProxy
}

// POST /api/v1/picker
func HandleSubmitPicker(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	p, l, trust := loadState()
	if p == nil {
		logger.Error().Msg("Picker handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req submitRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status:  http.StatusBadRequest,
			Message: "Invalid JSON body",
			Err:     err,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pickerRequestTimeout)
	defer cancel()

	gameDay, err := p.CurrentGameDay(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	key := fmt.Sprintf("game_day:%d", gameDay.ID)
	release := func() {}
	if l != nil {
		var limit ratelimit.LimitResult
		limit, release = l.Reserve(key)
		if !limit.Allowed {
			ratelimit.LogRateLimitExceeded(r.Context(), key, ratelimit.GetClientIP(r, trust), limit)
			apiutil.WriteError(w, r, apiutil.HandlerError{
				Status:     http.StatusTooManyRequests,
				Message:    "Teams were just picked for this game day, try again shortly",
				RetryAfter: limit.RetryAfter,
			})
			return
		}
	}

	result, err := p.SubmitPicker(ctx, req.Players)
	if err != nil {
		release()
		apiutil.WriteError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, result); err != nil {
		logger.Error().Err(err).Msg("Failed to write picker response")
	}
}

// GET /api/v1/picker/teams
func HandleGetTeams(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	p, _, _ := loadState()
	if p == nil {
		logger.Error().Msg("Picker handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gameDayID, present, ok := request.GameDayIDFromQuery(r)
	if !ok {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status:  http.StatusBadRequest,
			Message: "game_day_id must be a positive integer",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !present {
		gameDay, err := p.CurrentGameDay(ctx)
		if err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
		gameDayID = gameDay.ID
	}

	rosters, err := p.Teams(ctx, gameDayID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, rosters); err != nil {
		logger.Error().Err(err).Msg("Failed to write teams response")
	}
}

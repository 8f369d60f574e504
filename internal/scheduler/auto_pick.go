package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/footy/internal/picker"
)

const (
	autoPickJobName = "auto_pick"
	autoPickTimeout = 2 * time.Minute
)

// AutoPicker picks teams for the current game day when nobody has yet.
type AutoPicker interface {
	AutoPick(ctx context.Context) (*picker.Result, error)
}

// SkipRecorder counts scheduled runs that had nothing to do.
type SkipRecorder interface {
	IncAutoPickSkipped()
}

// RegisterAutoPickJob schedules AutoPick on cronExpr. recorder may be nil.
func (s *Service) RegisterAutoPickJob(p AutoPicker, cronExpr string, recorder SkipRecorder) error {
	if p == nil {
		return fmt.Errorf("auto pick job requires a picker")
	}
	_, err := s.AddJob(autoPickJobName, cronExpr, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), autoPickTimeout)
		defer cancel()
		return runAutoPick(ctx, p, recorder)
	})
	return err
}

func runAutoPick(ctx context.Context, p AutoPicker, recorder SkipRecorder) error {
	jobLogger := log.With().
		Str("component", "auto_pick_job").
		Str("job_name", autoPickJobName).
		Logger()
	ctx = jobLogger.WithContext(ctx)

	result, err := p.AutoPick(ctx)
	if err != nil {
		var validationErr *picker.ValidationError
		if errors.As(err, &validationErr) {
			jobLogger.Warn().Err(err).Msg("Auto pick rejected")
			return nil
		}
		return fmt.Errorf("auto pick: %w", err)
	}
	if result == nil {
		if recorder != nil {
			recorder.IncAutoPickSkipped()
		}
		jobLogger.Debug().Msg("Auto pick had nothing to do")
		return nil
	}

	jobLogger.Info().
		Int64("game_day_id", result.GameDayID).
		Int("team_a", len(result.TeamA)).
		Int("team_b", len(result.TeamB)).
		Msg("Auto pick assigned teams")
	return nil
}

package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/footy/internal/picker"
)

const maxBodyBytes = 1 << 20

type HandlerError struct {
	Status     int
	Message    string
	RetryAfter time.Duration
	Err        error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

type errorResponse struct {
	Error string `json:"error"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// ToHandlerError maps picker errors onto HTTP statuses. Unknown errors become
// a 500 with a generic message.
func ToHandlerError(err error) HandlerError {
	var (
		handlerErr    HandlerError
		inputErr      *picker.InputError
		validationErr *picker.ValidationError
		stateErr      *picker.StateError
		algorithmErr  *picker.AlgorithmError
	)
	switch {
	case errors.As(err, &handlerErr):
		return handlerErr
	case errors.As(err, &inputErr):
		return HandlerError{Status: http.StatusBadRequest, Message: inputErr.Message, Err: err}
	case errors.As(err, &validationErr):
		return HandlerError{Status: http.StatusBadRequest, Message: validationErr.Message, Err: err}
	case errors.As(err, &stateErr):
		return HandlerError{Status: http.StatusConflict, Message: stateErr.Message, Err: err}
	case errors.As(err, &algorithmErr):
		return HandlerError{Status: http.StatusInternalServerError, Message: algorithmErr.Message, Err: err}
	default:
		return HandlerError{Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
	}
}

// WriteError writes err as a JSON error body and logs server-side failures.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	handlerErr := ToHandlerError(err)
	logger := log.Ctx(r.Context())
	if handlerErr.Status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", handlerErr.Status).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Int("status", handlerErr.Status).Msg("Request rejected")
	}

	if handlerErr.RetryAfter > 0 {
		seconds := int(math.Ceil(handlerErr.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}
	if writeErr := WriteJSON(w, handlerErr.Status, errorResponse{Error: handlerErr.Message}); writeErr != nil {
		logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

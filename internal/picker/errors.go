package picker

import "errors"

var (
	ErrTooFewPlayers      = errors.New("at least two players must be selected")
	ErrInvalidPlayerID    = errors.New("player IDs must be positive")
	ErrNoGameDay          = errors.New("no current game day available")
	ErrPlayerNotAvailable = errors.New("selected player not available")
	ErrNoYesResponse      = errors.New("selected player does not have a Yes response")
	ErrOddCandidates      = errors.New("candidate list must have an even length")
	ErrTooFewCandidates   = errors.New("candidate list must have at least two players")
	ErrTooManyCandidates  = errors.New("too many candidates to split exhaustively")
	ErrNoSplit            = errors.New("no best split found")
	ErrNoMiddlePlayer     = errors.New("no middle player could be determined")
)

// InputError reports a malformed selection.
type InputError struct {
	Message string
	Err     error
}

func (e *InputError) Error() string { return e.Message }
func (e *InputError) Unwrap() error { return e.Err }

// StateError reports that the system is not in a state where teams can be picked.
type StateError struct {
	Message string
	Err     error
}

func (e *StateError) Error() string { return e.Message }
func (e *StateError) Unwrap() error { return e.Err }

// ValidationError reports a selected player that cannot play the game day.
type ValidationError struct {
	PlayerID int64
	Message  string
	Err      error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// AlgorithmError reports a violated precondition inside the balancing algorithm.
type AlgorithmError struct {
	Message string
	Err     error
}

func (e *AlgorithmError) Error() string { return e.Message }
func (e *AlgorithmError) Unwrap() error { return e.Err }

func algorithmError(err error) *AlgorithmError {
	return &AlgorithmError{Message: err.Error(), Err: err}
}

// Package errors provides sentinel errors and error types for the chess server.
// Callers inspect them with errors.Is() and errors.As(); the engine packages
// themselves never fail and only the session and transport layers return these.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
var (
	// ErrIllegalMove indicates a move that is not in the legal move list.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNotYourTurn indicates a player tried to move the side not to move.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrGameOver indicates an action on a game that has already ended.
	ErrGameOver = errors.New("game is over")

	// ErrGameNotFound indicates an unknown game id.
	ErrGameNotFound = errors.New("game not found")

	// ErrGameFull indicates both seats of a game are taken.
	ErrGameFull = errors.New("game is full")

	// ErrNotInGame indicates a player acting on a game they have not joined.
	ErrNotInGame = errors.New("player not in game")

	// ErrNothingToUndo indicates an undo with an empty history.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidBoard indicates a board without exactly one king per color.
	ErrInvalidBoard = errors.New("invalid board")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoLegalMoves indicates a search was requested for a side with no moves.
	ErrNoLegalMoves = errors.New("no legal moves")

	// ErrUnknownMessage indicates a websocket message of an unsupported type.
	ErrUnknownMessage = errors.New("unknown message type")
)

// MoveError wraps errors with the context of a rejected move: the ply it
// would have been and its squares in display form.
type MoveError struct {
	Err  error  // The underlying error
	Ply  int    // 1-based ply the move would have occupied (0 if unknown)
	From string // Origin square, e.g. "e2"
	To   string // Destination square, e.g. "e4"
}

// Error returns a formatted message including all available context.
func (e *MoveError) Error() string {
	var parts []string

	if e.Ply > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	}
	if e.From != "" || e.To != "" {
		parts = append(parts, fmt.Sprintf("move %s-%s", e.From, e.To))
	}

	context := strings.Join(parts, ", ")
	switch {
	case context == "" && e.Err != nil:
		return e.Err.Error()
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", context, e.Err)
	case context == "":
		return "move error"
	}
	return context
}

// Unwrap returns the underlying error.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is forwards to the standard library so callers need only this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As forwards to the standard library.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

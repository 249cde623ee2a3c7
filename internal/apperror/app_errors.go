package apperror

import "errors"

var (
	ErrInvalidPosition = errors.New("position is out of range")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrGameAlreadyWon  = errors.New("game already has a winner")
	ErrInvalidStep     = errors.New("step is out of history range")

	ErrCorruptHistory   = errors.New("history is corrupt")
	ErrGameNotFound     = errors.New("game not found")
	ErrConcurrentUpdate = errors.New("game was updated concurrently")
)

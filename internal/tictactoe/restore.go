package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/timetravel-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/timetravel-tictactoe/internal/entity"
)

// Restore - rebuilds an engine from stored history, checking that every step is a legal move.
func Restore(history []entity.Board, step int) (*Engine, error) {
	if err := validateHistory(history); err != nil {
		return nil, err
	}

	if step < 0 || step >= len(history) {
		return nil, fmt.Errorf("%w: step %d of %d", apperror.ErrInvalidStep, step, len(history))
	}

	engine := &Engine{
		history: make([]entity.Board, len(history)),
		cursor:  step,
	}
	copy(engine.history, history)

	return engine, nil
}

func validateHistory(history []entity.Board) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: no boards", apperror.ErrCorruptHistory)
	}

	if history[0] != (entity.Board{}) {
		return fmt.Errorf("%w: first board is not empty", apperror.ErrCorruptHistory)
	}

	for k := 1; k < len(history); k++ {
		prev, next := history[k-1], history[k]

		if _, won := entity.DetectWinner(prev); won {
			return fmt.Errorf("%w: move %d after a win", apperror.ErrCorruptHistory, k)
		}

		diff := prev.Diff(next)
		if len(diff) != 1 {
			return fmt.Errorf("%w: move %d changes %d cells", apperror.ErrCorruptHistory, k, len(diff))
		}

		position := diff[0]
		if prev[position] != entity.Empty {
			return fmt.Errorf("%w: move %d overwrites cell %d", apperror.ErrCorruptHistory, k, position)
		}

		if next[position] != MoverAt(k-1) {
			return fmt.Errorf("%w: move %d has mark %q", apperror.ErrCorruptHistory, k, next[position])
		}
	}

	return nil
}

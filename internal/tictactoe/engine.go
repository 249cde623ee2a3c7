// Package tictactoe holds the game engine: a history of boards, a cursor into it and the
// rules for applying moves and travelling back to earlier steps.
//
// An Engine belongs to one session and is not safe for concurrent use.
package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/timetravel-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/timetravel-tictactoe/internal/entity"
)

type Engine struct {
	history []entity.Board
	cursor  int
}

// NewEngine - creates an engine at "Game start": one empty board, cursor 0.
func NewEngine() *Engine {
	return &Engine{
		history: []entity.Board{{}},
		cursor:  0,
	}
}

// ApplyMove - places the mark of the player to move on position and makes it the latest step.
// Any steps after the cursor are discarded first. A rejected move changes nothing.
func (that *Engine) ApplyMove(position int) (entity.Snapshot, error) {
	if err := that.validateMove(position); err != nil {
		return that.Snapshot(), fmt.Errorf("invalid move: %w", err)
	}

	current := that.history[that.cursor]

	history := make([]entity.Board, that.cursor+1, that.cursor+2)
	copy(history, that.history[:that.cursor+1])
	history = append(history, current.With(position, MoverAt(that.cursor)))

	that.history = history
	that.cursor = len(history) - 1

	return that.Snapshot(), nil
}

// JumpTo - moves the cursor to step. History is kept intact until the next move.
func (that *Engine) JumpTo(step int) (entity.Snapshot, error) {
	if step < 0 || step >= len(that.history) {
		return that.Snapshot(), fmt.Errorf("%w: step %d of %d", apperror.ErrInvalidStep, step, len(that.history))
	}

	that.cursor = step

	return that.Snapshot(), nil
}

// validateMove - checks position range, a finished game and an occupied cell, in that order.
func (that *Engine) validateMove(position int) error {
	if position < 0 || position >= entity.BoardSize {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidPosition, position)
	}

	board := that.history[that.cursor]

	if winner, ok := entity.DetectWinner(board); ok {
		return fmt.Errorf("%w: %s", apperror.ErrGameAlreadyWon, winner)
	}

	if board[position] != entity.Empty {
		return fmt.Errorf("%w: %d", apperror.ErrCellOccupied, position)
	}

	return nil
}

func (that *Engine) Board() entity.Board {
	return that.history[that.cursor]
}

func (that *Engine) Cursor() int {
	return that.cursor
}

func (that *Engine) Len() int {
	return len(that.history)
}

// History - returns a copy of every recorded board.
func (that *Engine) History() []entity.Board {
	history := make([]entity.Board, len(that.history))
	copy(history, that.history)

	return history
}

func (that *Engine) Status() entity.Status {
	return entity.NewStatus(that.Board(), MoverAt(that.cursor))
}

func (that *Engine) Snapshot() entity.Snapshot {
	board := that.Board()
	status := that.Status()

	snapshot := entity.Snapshot{
		Board:       board,
		Status:      status.String(),
		Outcome:     status.Outcome,
		Winner:      status.Winner,
		NextPlayer:  status.Next,
		MoveLabels:  entity.MoveLabels(len(that.history)),
		CurrentStep: that.cursor,
	}

	if line, ok := entity.WinningLine(board); ok {
		snapshot.WinningLine = line[:]
	}

	return snapshot
}

// MoverAt - returns the mark that moves from step: X on even steps, O on odd ones.
func MoverAt(step int) entity.Cell {
	if step%2 == 0 {
		return entity.MarkX
	}

	return entity.MarkO
}

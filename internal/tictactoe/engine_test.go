package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/timetravel-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/timetravel-tictactoe/internal/entity"
)

func playMoves(t *testing.T, engine *Engine, positions ...int) {
	t.Helper()

	for i, position := range positions {
		_, err := engine.ApplyMove(position)
		require.NoError(t, err, "move %d at %d", i+1, position)
	}
}

func cloneEngine(engine *Engine) *Engine {
	return &Engine{history: engine.History(), cursor: engine.Cursor()}
}

func TestNewEngine(t *testing.T) {
	// Given: a fresh engine
	engine := NewEngine()

	// When: reading its snapshot
	snapshot := engine.Snapshot()

	// Then: it sits on the empty start board with X to move
	assert.Equal(t, 1, engine.Len())
	assert.Equal(t, 0, engine.Cursor())
	assert.Equal(t, entity.Board{}, snapshot.Board)
	assert.Equal(t, "next to move is X", snapshot.Status)
	assert.Equal(t, entity.OutcomeOngoing, snapshot.Outcome)
	assert.Equal(t, entity.MarkX, snapshot.NextPlayer)
	assert.Equal(t, []string{"Game start"}, snapshot.MoveLabels)
	assert.Equal(t, 0, snapshot.CurrentStep)
}

func TestEngine_ApplyMove(t *testing.T) {
	t.Run("Legal move appends exactly one board", func(t *testing.T) {
		// Given: an engine after one move
		engine := NewEngine()
		playMoves(t, engine, 0)
		before := engine.Board()

		// When: O plays the center
		snapshot, err := engine.ApplyMove(4)
		require.NoError(t, err)

		// Then: one board was appended and only the center changed
		assert.Equal(t, 3, engine.Len())
		assert.Equal(t, 2, engine.Cursor())
		assert.Equal(t, entity.MarkO, snapshot.Board[4])
		assert.Equal(t, []int{4}, before.Diff(snapshot.Board))
		assert.Equal(t, []string{"Game start", "Move #1", "Move #2"}, snapshot.MoveLabels)
	})

	t.Run("Earlier boards are never mutated", func(t *testing.T) {
		// Given: an engine with a copy of its history taken after one move
		engine := NewEngine()
		playMoves(t, engine, 0)
		saved := engine.History()

		// When: more moves are played
		playMoves(t, engine, 1, 2)

		// Then: the saved prefix is still a prefix of the history
		assert.Equal(t, saved, engine.History()[:len(saved)])
	})

	t.Run("Turns alternate starting with X", func(t *testing.T) {
		// Given: a fresh engine
		engine := NewEngine()
		positions := []int{4, 0, 8, 2, 1, 7, 6, 3, 5}

		for k, position := range positions {
			// When: the k-th move is applied
			snapshot, err := engine.ApplyMove(position)
			require.NoError(t, err)

			// Then: odd moves are X and even moves are O
			want := entity.MarkX
			if (k+1)%2 == 0 {
				want = entity.MarkO
			}
			assert.Equal(t, want, snapshot.Board[position], "move %d", k+1)
		}
	})

	t.Run("Concrete scenario: X wins on the top row", func(t *testing.T) {
		// Given: a fresh engine
		engine := NewEngine()

		// When: X,O,X,O,X play 0,4,1,3,2
		playMoves(t, engine, 0, 4, 1, 3, 2)
		snapshot := engine.Snapshot()

		// Then: X is the winner on [0,1,2]
		assert.Equal(t, "winner is X", snapshot.Status)
		assert.Equal(t, entity.OutcomeWon, snapshot.Outcome)
		assert.Equal(t, entity.MarkX, snapshot.Winner)
		assert.Equal(t, []int{0, 1, 2}, snapshot.WinningLine)
		assert.Equal(t, 6, engine.Len())

		// And: any further move is rejected and the history length stays 6
		for _, position := range []int{5, 6, 7, 8} {
			_, err := engine.ApplyMove(position)
			require.ErrorIs(t, err, apperror.ErrGameAlreadyWon)
			assert.Equal(t, 6, engine.Len())
		}
	})

	t.Run("Draw", func(t *testing.T) {
		// Given: a fresh engine
		engine := NewEngine()

		// When: nine moves fill the board without a line
		playMoves(t, engine, 0, 1, 2, 4, 3, 5, 7, 6, 8)
		snapshot := engine.Snapshot()

		// Then: the game is a draw and no mark is reported to move
		assert.Equal(t, "draw", snapshot.Status)
		assert.Equal(t, entity.OutcomeDraw, snapshot.Outcome)
		assert.Equal(t, entity.Empty, snapshot.NextPlayer)
		assert.Equal(t, entity.Empty, snapshot.Winner)
	})
}

func TestEngine_ApplyMove_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		moves    []int
		position int
		wantErr  error
	}{
		{name: "Negative position", position: -1, wantErr: apperror.ErrInvalidPosition},
		{name: "Position past the board", moves: []int{0}, position: 9, wantErr: apperror.ErrInvalidPosition},
		{name: "Occupied cell", moves: []int{0, 4}, position: 4, wantErr: apperror.ErrCellOccupied},
		{name: "After a win", moves: []int{0, 4, 1, 3, 2}, position: 8, wantErr: apperror.ErrGameAlreadyWon},
		{name: "Range is checked before the win", moves: []int{0, 4, 1, 3, 2}, position: 12, wantErr: apperror.ErrInvalidPosition},
		{name: "Win is checked before occupancy", moves: []int{0, 4, 1, 3, 2}, position: 0, wantErr: apperror.ErrGameAlreadyWon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: an engine after some moves
			engine := NewEngine()
			playMoves(t, engine, tt.moves...)
			before := cloneEngine(engine)

			// When: an illegal move is applied
			snapshot, err := engine.ApplyMove(tt.position)

			// Then: the typed error is returned and history and cursor are unchanged
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, engine)
			assert.Equal(t, before.Snapshot(), snapshot)
		})
	}

	t.Run("Occupied cell after a rewind", func(t *testing.T) {
		// Given: an engine rewound to step 2
		engine := NewEngine()
		playMoves(t, engine, 0, 4, 8)
		_, err := engine.JumpTo(2)
		require.NoError(t, err)
		before := cloneEngine(engine)

		// When: a cell filled at step 2 is played
		_, err = engine.ApplyMove(4)

		// Then: the move is rejected without truncating the future
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, engine)
		assert.Equal(t, 4, engine.Len())
	})
}

func TestEngine_JumpTo(t *testing.T) {
	t.Run("Jump keeps the history", func(t *testing.T) {
		// Given: an engine with four moves
		engine := NewEngine()
		playMoves(t, engine, 0, 4, 1, 3)

		// When: jumping back to step 1
		snapshot, err := engine.JumpTo(1)
		require.NoError(t, err)

		// Then: the cursor moved, the history did not shrink and O is to move
		assert.Equal(t, 1, snapshot.CurrentStep)
		assert.Equal(t, 5, engine.Len())
		assert.Len(t, snapshot.MoveLabels, 5)
		assert.Equal(t, entity.Board{entity.MarkX}, snapshot.Board)
		assert.Equal(t, "next to move is O", snapshot.Status)

		// And: jumping forward again restores the latest board
		snapshot, err = engine.JumpTo(4)
		require.NoError(t, err)
		assert.Equal(t, "next to move is X", snapshot.Status)
	})

	t.Run("Jump to a winning step is allowed", func(t *testing.T) {
		// Given: a won game rewound to the start
		engine := NewEngine()
		playMoves(t, engine, 0, 4, 1, 3, 2)
		_, err := engine.JumpTo(0)
		require.NoError(t, err)

		// When: jumping to the winning step
		snapshot, err := engine.JumpTo(5)

		// Then: the winner is shown
		require.NoError(t, err)
		assert.Equal(t, "winner is X", snapshot.Status)
	})

	t.Run("Invalid step", func(t *testing.T) {
		for _, step := range []int{-1, 3, 100} {
			// Given: an engine with two moves
			engine := NewEngine()
			playMoves(t, engine, 0, 4)
			before := cloneEngine(engine)

			// When: jumping outside the history
			_, err := engine.JumpTo(step)

			// Then: ErrInvalidStep is returned and nothing changes
			require.ErrorIs(t, err, apperror.ErrInvalidStep)
			assert.Equal(t, before, engine)
		}
	})
}

func TestEngine_RewindThenBranch(t *testing.T) {
	// Given: an engine with moves 1-4 applied
	engine := NewEngine()
	playMoves(t, engine, 0, 4, 1, 3)
	require.Equal(t, 5, engine.Len())
	recorded := engine.History()

	// When: jumping to step 2 and playing a new move
	_, err := engine.JumpTo(2)
	require.NoError(t, err)
	snapshot, err := engine.ApplyMove(8)
	require.NoError(t, err)

	// Then: moves 3 and 4 are discarded and X made the new move
	assert.Equal(t, 4, engine.Len())
	assert.Equal(t, 3, engine.Cursor())
	assert.Equal(t, recorded[:3], engine.History()[:3])
	assert.Equal(t, entity.MarkX, snapshot.Board[8])
	assert.Equal(t, entity.Empty, snapshot.Board[3])
	assert.Equal(t, entity.Empty, snapshot.Board[1])
	assert.Equal(t, []string{"Game start", "Move #1", "Move #2", "Move #3"}, snapshot.MoveLabels)
}

func TestEngine_BranchFromStartThenTruncate(t *testing.T) {
	// Given: a history of five boards rewound to step 2
	engine := NewEngine()
	playMoves(t, engine, 0, 4, 1, 3)
	_, err := engine.JumpTo(2)
	require.NoError(t, err)

	// When: one legal move is applied
	_, err = engine.ApplyMove(5)
	require.NoError(t, err)

	// Then: the history holds the three kept boards plus the new one
	history := engine.History()
	require.Len(t, history, 4)
	assert.Equal(t, []int{5}, history[2].Diff(history[3]))
}

func TestMoverAt(t *testing.T) {
	assert.Equal(t, entity.MarkX, MoverAt(0))
	assert.Equal(t, entity.MarkO, MoverAt(1))
	assert.Equal(t, entity.MarkX, MoverAt(8))
}

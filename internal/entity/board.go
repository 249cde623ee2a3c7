package entity

import "fmt"

type Cell string

const (
	Empty Cell = ""
	MarkX Cell = "X"
	MarkO Cell = "O"
)

const BoardSize = 9

// Board is a row-major 3x3 grid. It is an array, so assigning or passing it copies every cell.
type Board [BoardSize]Cell

type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeWon     Outcome = "won"
	OutcomeDraw    Outcome = "draw"
)

// WinCombos lists the rows, then the columns, then the two diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// DetectWinner returns the mark that fills a winning line, scanning WinCombos in order.
func DetectWinner(board Board) (Cell, bool) {
	line, ok := WinningLine(board)
	if !ok {
		return Empty, false
	}

	return board[line[0]], true
}

// WinningLine returns the first uniformly marked line of the board.
func WinningLine(board Board) ([3]int, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != Empty && a == b && b == c {
			return combo, true
		}
	}

	return [3]int{}, false
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// With returns a copy of the board with the cell at position set to mark.
func (that Board) With(position int, mark Cell) Board {
	next := that
	next[position] = mark

	return next
}

// Diff returns the positions where two boards hold different cells.
func (that Board) Diff(other Board) []int {
	var positions []int
	for i := range that {
		if that[i] != other[i] {
			positions = append(positions, i)
		}
	}

	return positions
}

func (that Cell) IsMark() bool {
	return that == MarkX || that == MarkO
}

// Status is the derived state of one board for the player expected to move next.
type Status struct {
	Outcome Outcome
	Winner  Cell
	Next    Cell
}

// NewStatus evaluates board. next is only reported while the game is ongoing.
func NewStatus(board Board, next Cell) Status {
	if winner, ok := DetectWinner(board); ok {
		return Status{Outcome: OutcomeWon, Winner: winner}
	}

	if board.IsFull() {
		return Status{Outcome: OutcomeDraw}
	}

	return Status{Outcome: OutcomeOngoing, Next: next}
}

func (that Status) IsTerminal() bool {
	return that.Outcome != OutcomeOngoing
}

func (that Status) String() string {
	switch that.Outcome {
	case OutcomeWon:
		return fmt.Sprintf("winner is %s", that.Winner)
	case OutcomeDraw:
		return "draw"
	default:
		return fmt.Sprintf("next to move is %s", that.Next)
	}
}

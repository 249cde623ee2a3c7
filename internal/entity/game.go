package entity

import (
	"fmt"
	"time"
)

// Game is the stored form of one session: every board snapshot and the step being viewed.
type Game struct {
	ID         string    `json:"id"`
	History    []Board   `json:"history"`
	StepNumber int       `json:"step_number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewGame(id string, now time.Time) *Game {
	return &Game{
		ID:         id,
		History:    []Board{{}},
		StepNumber: 0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Snapshot is the read-only projection a presentation layer renders.
type Snapshot struct {
	GameID      string   `json:"id,omitempty"`
	Board       Board    `json:"board"`
	Status      string   `json:"status"`
	Outcome     Outcome  `json:"outcome"`
	Winner      Cell     `json:"winner,omitempty"`
	NextPlayer  Cell     `json:"next_player,omitempty"`
	WinningLine []int    `json:"winning_line,omitempty"`
	MoveLabels  []string `json:"move_labels"`
	CurrentStep int      `json:"current_step"`
}

func MoveLabel(step int) string {
	if step == 0 {
		return "Game start"
	}

	return fmt.Sprintf("Move #%d", step)
}

func MoveLabels(historyLen int) []string {
	labels := make([]string, historyLen)
	for i := range labels {
		labels[i] = MoveLabel(i)
	}

	return labels
}

func (that Snapshot) WithGameID(id string) Snapshot {
	that.GameID = id

	return that
}

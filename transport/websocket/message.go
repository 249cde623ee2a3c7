package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/timetravel-tictactoe/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses; each action reads only the fields it needs.
type Payload struct {
	GameID   string           `json:"game_id,omitempty"`
	Position *int             `json:"position,omitempty"`
	Step     *int             `json:"step,omitempty"`
	Game     *entity.Snapshot `json:"game,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// session is the state of one connection.
type session struct {
	conn   *websocket.Conn
	gameID string
}

func (that *session) sendMessage(action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *session) sendErrorResponse(action, errorMsg string) error {
	if err := that.sendMessage(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

// resolveGameID - a game_id in the payload switches the session to that game.
func (that *session) resolveGameID(payload Payload) (string, bool) {
	if payload.GameID != "" {
		that.gameID = payload.GameID
	}

	return that.gameID, that.gameID != ""
}

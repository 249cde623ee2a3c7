package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/timetravel-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/timetravel-tictactoe/internal/entity"
)

const (
	actionGameNew   = "game:new"
	actionGameState = "game:state"
	actionGameMove  = "game:move"
	actionGameJump  = "game:jump"
	actionGameLeave = "game:leave"
	actionError     = "error"
)

const errNoGame = "no game in this session, send game:new or pass game_id"

var clientErrors = []error{
	apperror.ErrInvalidPosition,
	apperror.ErrCellOccupied,
	apperror.ErrGameAlreadyWon,
	apperror.ErrInvalidStep,
	apperror.ErrGameNotFound,
	apperror.ErrConcurrentUpdate,
}

func (that *Server) handleNewGame(ctx context.Context, sess *session, _ Payload) error {
	log := that.logger.With("method", "handleNewGame")

	snapshot, err := that.gameUseCase.CreateGame(ctx)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return sess.sendErrorResponse(actionGameNew, "failed to create a new game")
	}

	sess.gameID = snapshot.GameID

	return that.sendGame(sess, actionGameNew, snapshot)
}

func (that *Server) handleGameState(ctx context.Context, sess *session, payload Payload) error {
	gameID, ok := sess.resolveGameID(payload)
	if !ok {
		return sess.sendErrorResponse(actionGameState, errNoGame)
	}

	snapshot, err := that.gameUseCase.GetGame(ctx, gameID)
	if err != nil {
		return that.sendUseCaseError(sess, actionGameState, err)
	}

	return that.sendGame(sess, actionGameState, snapshot)
}

func (that *Server) handleGameMove(ctx context.Context, sess *session, payload Payload) error {
	gameID, ok := sess.resolveGameID(payload)
	if !ok {
		return sess.sendErrorResponse(actionGameMove, errNoGame)
	}

	if payload.Position == nil {
		return sess.sendErrorResponse(actionGameMove, "position is required")
	}

	snapshot, err := that.gameUseCase.MakeMove(ctx, gameID, *payload.Position)
	if err != nil {
		return that.sendUseCaseError(sess, actionGameMove, err)
	}

	return that.sendGame(sess, actionGameMove, snapshot)
}

func (that *Server) handleGameJump(ctx context.Context, sess *session, payload Payload) error {
	gameID, ok := sess.resolveGameID(payload)
	if !ok {
		return sess.sendErrorResponse(actionGameJump, errNoGame)
	}

	if payload.Step == nil {
		return sess.sendErrorResponse(actionGameJump, "step is required")
	}

	snapshot, err := that.gameUseCase.JumpTo(ctx, gameID, *payload.Step)
	if err != nil {
		return that.sendUseCaseError(sess, actionGameJump, err)
	}

	return that.sendGame(sess, actionGameJump, snapshot)
}

func (that *Server) handleGameLeave(ctx context.Context, sess *session, payload Payload) error {
	log := that.logger.With("method", "handleGameLeave")

	gameID, ok := sess.resolveGameID(payload)
	if !ok {
		return sess.sendErrorResponse(actionGameLeave, errNoGame)
	}

	if err := that.gameUseCase.EndGame(ctx, gameID); err != nil {
		return that.sendUseCaseError(sess, actionGameLeave, err)
	}

	sess.gameID = ""

	log.Info("player left game", "gameID", gameID)

	return sess.sendMessage(actionGameLeave, Payload{GameID: gameID})
}

func (that *Server) sendGame(sess *session, action string, snapshot entity.Snapshot) error {
	if err := sess.sendMessage(action, Payload{GameID: snapshot.GameID, Game: &snapshot}); err != nil {
		return fmt.Errorf("failed to send game update: %w", err)
	}

	return nil
}

// sendUseCaseError - rule violations are reported to the client as is, anything else is logged and hidden.
func (that *Server) sendUseCaseError(sess *session, action string, err error) error {
	for _, clientErr := range clientErrors {
		if errors.Is(err, clientErr) {
			return sess.sendErrorResponse(action, clientErr.Error())
		}
	}

	that.logger.Error("failed to process action", "action", action, "gameID", sess.gameID, "error", err)

	return sess.sendErrorResponse(action, "internal error")
}

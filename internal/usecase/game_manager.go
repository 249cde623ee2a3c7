package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/timetravel-tictactoe/internal/entity"
	"github.com/rocketscienceinc/timetravel-tictactoe/internal/tictactoe"
)

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, update func(game *entity.Game) error) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager - loads a session's game, runs the engine on it and stores the result.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	newID func() string
	now   func() time.Time
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,

		newID: uuid.NewString,
		now:   time.Now,
	}
}

func (that *GameManager) CreateGame(ctx context.Context) (entity.Snapshot, error) {
	game := entity.NewGame(that.newID(), that.now().UTC())

	if err := that.gameRepo.Create(ctx, game); err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return tictactoe.NewEngine().Snapshot().WithGameID(game.ID), nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (entity.Snapshot, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to get game: %w", err)
	}

	engine, err := tictactoe.Restore(game.History, game.StepNumber)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to restore game %s: %w", gameID, err)
	}

	return engine.Snapshot().WithGameID(game.ID), nil
}

// MakeMove - applies a move to the step the session is viewing. A rejected move is not stored.
func (that *GameManager) MakeMove(ctx context.Context, gameID string, position int) (entity.Snapshot, error) {
	log := that.logger.With("method", "MakeMove", "gameID", gameID, "position", position)

	snapshot, err := that.updateGame(ctx, gameID, func(engine *tictactoe.Engine) (entity.Snapshot, error) {
		return engine.ApplyMove(position)
	})
	if err != nil {
		log.Warn("move rejected", "error", err)
		return entity.Snapshot{}, fmt.Errorf("failed to make move: %w", err)
	}

	log.Debug("move applied", "step", snapshot.CurrentStep, "status", snapshot.Status)

	return snapshot, nil
}

// JumpTo - moves the session's cursor to an earlier or later recorded step.
func (that *GameManager) JumpTo(ctx context.Context, gameID string, step int) (entity.Snapshot, error) {
	log := that.logger.With("method", "JumpTo", "gameID", gameID, "step", step)

	snapshot, err := that.updateGame(ctx, gameID, func(engine *tictactoe.Engine) (entity.Snapshot, error) {
		return engine.JumpTo(step)
	})
	if err != nil {
		log.Warn("jump rejected", "error", err)
		return entity.Snapshot{}, fmt.Errorf("failed to jump: %w", err)
	}

	log.Debug("jumped", "status", snapshot.Status)

	return snapshot, nil
}

func (that *GameManager) EndGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}

	that.logger.Info("game ended", "gameID", gameID)

	return nil
}

func (that *GameManager) updateGame(
	ctx context.Context,
	gameID string,
	apply func(engine *tictactoe.Engine) (entity.Snapshot, error),
) (entity.Snapshot, error) {
	var snapshot entity.Snapshot

	_, err := that.gameRepo.Update(ctx, gameID, func(game *entity.Game) error {
		engine, err := tictactoe.Restore(game.History, game.StepNumber)
		if err != nil {
			return fmt.Errorf("failed to restore game %s: %w", gameID, err)
		}

		if snapshot, err = apply(engine); err != nil {
			return err
		}

		game.History = engine.History()
		game.StepNumber = engine.Cursor()
		game.UpdatedAt = that.now().UTC()

		return nil
	})
	if err != nil {
		return entity.Snapshot{}, err
	}

	return snapshot.WithGameID(gameID), nil
}

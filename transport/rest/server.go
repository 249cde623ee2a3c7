package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/timetravel-tictactoe/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	CreateGame(ctx context.Context) (entity.Snapshot, error)
	GetGame(ctx context.Context, gameID string) (entity.Snapshot, error)
	MakeMove(ctx context.Context, gameID string, position int) (entity.Snapshot, error)
	JumpTo(ctx context.Context, gameID string, step int) (entity.Snapshot, error)
	EndGame(ctx context.Context, gameID string) error
}

type Server struct {
	logger *slog.Logger
	router *chi.Mux

	gameUseCase gameUseCase
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "rest"),
		router: chi.NewRouter(),

		gameUseCase: gameUseCase,
	}

	server.router.Use(chimw.RequestID)
	server.router.Use(chimw.RealIP)
	server.router.Use(chimw.Recoverer)
	server.router.Use(chimw.Timeout(10 * time.Second))

	server.router.Get("/ping", server.handlePing)

	server.router.Route("/games", func(r chi.Router) {
		r.Post("/", server.handleCreateGame)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", server.handleGetGame)
			r.Delete("/", server.handleEndGame)
			r.Post("/moves", server.handleMakeMove)
			r.Post("/jump", server.handleJumpTo)
		})
	})

	server.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		server.writeError(w, http.StatusNotFound, fmt.Sprintf("path %s not found", r.URL.Path))
	})

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - starts HTTP server and shuts it down when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

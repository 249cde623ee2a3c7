package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/timetravel-tictactoe/internal/apperror"
)

type moveRequest struct {
	Position *int `json:"position"`
}

type jumpRequest struct {
	Step *int `json:"step"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.gameUseCase.CreateGame(r.Context())
	if err != nil {
		that.writeUseCaseError(w, "handleCreateGame", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, snapshot)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.gameUseCase.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeUseCaseError(w, "handleGetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Position == nil {
		that.writeError(w, http.StatusBadRequest, "body must be {\"position\": <0-8>}")
		return
	}

	snapshot, err := that.gameUseCase.MakeMove(r.Context(), chi.URLParam(r, "gameID"), *req.Position)
	if err != nil {
		that.writeUseCaseError(w, "handleMakeMove", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) handleJumpTo(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Step == nil {
		that.writeError(w, http.StatusBadRequest, "body must be {\"step\": <n>}")
		return
	}

	snapshot, err := that.gameUseCase.JumpTo(r.Context(), chi.URLParam(r, "gameID"), *req.Step)
	if err != nil {
		that.writeUseCaseError(w, "handleJumpTo", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.EndGame(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		that.writeUseCaseError(w, "handleEndGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) writeUseCaseError(w http.ResponseWriter, method string, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeError(w, status, http.StatusText(status))
		return
	}

	that.logger.Debug("request rejected", "method", method, "error", err)
	that.writeError(w, status, err.Error())
}

func (that *Server) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, errorResponse{Error: message})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidPosition), errors.Is(err, apperror.ErrInvalidStep):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameAlreadyWon),
		errors.Is(err, apperror.ErrConcurrentUpdate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

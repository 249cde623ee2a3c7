package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/timetravel-tictactoe/internal/entity"
)

const (
	sessionCookieName = "user_session"
	shutdownTimeout   = 5 * time.Second
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (entity.Snapshot, error)
	GetGame(ctx context.Context, gameID string) (entity.Snapshot, error)
	MakeMove(ctx context.Context, gameID string, position int) (entity.Snapshot, error)
	JumpTo(ctx context.Context, gameID string, step int) (entity.Snapshot, error)
	EndGame(ctx context.Context, gameID string) error
}

type handler func(ctx context.Context, sess *session, payload Payload) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase

	upgrader websocket.Upgrader
	handlers map[string]handler
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[string]handler),
	}

	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameMove] = server.handleGameMove
	server.handlers[actionGameJump] = server.handleGameJump
	server.handlers[actionGameLeave] = server.handleGameLeave

	return server
}

// Handler - returns the mux serving the /ws endpoint. Connections live until ctx is done.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
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

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, that.sessionCookieHeader(req))
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	// Hijacked connections are not closed by http.Server.Shutdown.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(time.Second),
		)
		_ = conn.Close()
	})
	defer stop()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, &session{conn: conn}); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, sess *session) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, body, err := sess.conn.ReadMessage()
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			log.Info("client disconnected", "gameID", sess.gameID)
			return nil
		}

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(body, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = sess.sendErrorResponse(actionError, "message must be {\"action\", \"payload\"}"); err != nil {
				return err
			}

			continue
		}

		handle, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err = sess.sendErrorResponse(message.Action, fmt.Sprintf("unknown action %q", message.Action)); err != nil {
				return err
			}

			continue
		}

		var payload Payload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &payload); err != nil {
				log.Warn("failed to unmarshal payload", "action", message.Action, "error", err)
				if err = sess.sendErrorResponse(message.Action, "malformed payload"); err != nil {
					return err
				}

				continue
			}
		}

		if err = handle(ctx, sess, payload); err != nil {
			return fmt.Errorf("failed to process %s: %w", message.Action, err)
		}
	}
}

// sessionCookieHeader - sets user session cookie on the handshake response if the client has none.
func (that *Server) sessionCookieHeader(req *http.Request) http.Header {
	log := that.logger.With("method", "sessionCookieHeader")

	if cookie, err := req.Cookie(sessionCookieName); err == nil {
		log.Debug("session cookie found", "cookie", cookie.Value)
		return nil
	}

	cookie := &http.Cookie{
		Name:    sessionCookieName,
		Value:   uuid.NewString(),
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}

	log.Debug("session cookie not found, new one created", "cookie", cookie.Value)

	return http.Header{"Set-Cookie": []string{cookie.String()}}
}

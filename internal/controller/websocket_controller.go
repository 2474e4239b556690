package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/game"
	"github.com/benbeisheim/chess-ai-backend/internal/middleware"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection serves one websocket for the lifetime of the socket.
// Game state is pushed by the game itself; this loop only reads commands.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	g, err := wsc.gameService.RegisterConnection(gameID, playerID, c)
	if err != nil {
		log.Warnf("websocket %s/%s rejected: %v", gameID, playerID, err)
		_ = c.WriteJSON(errorMessage(err))
		_ = c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("websocket %s/%s read error: %v", gameID, playerID, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debugf("websocket %s/%s parse error: %v", gameID, playerID, err)
			_ = g.Write(c, errorMessage(errors.Wrap(err, "malformed message")))
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugf("websocket %s/%s %s failed: %v", gameID, playerID, msg.Type, err)
			_ = g.Write(c, errorMessage(err))
		}
	}
}

// handleMessage dispatches one command. Successful commands need no reply;
// the game broadcasts its new state to every connection.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return errors.Wrap(err, "malformed move payload")
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move.From, move.To)
		return err
	case ws.MessageTypeUndo:
		_, err := wsc.gameService.Undo(gameID, playerID)
		return err
	case ws.MessageTypeResign:
		_, err := wsc.gameService.Resign(gameID, playerID)
		return err
	}
	return errors.Wrapf(errors.ErrUnknownMessage, "%q", msg.Type)
}

func errorMessage(err error) ws.Message {
	msg, encErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if encErr != nil {
		return ws.Message{Type: ws.MessageTypeError}
	}
	return msg
}

var _ game.Conn = (*websocket.Conn)(nil)

package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-ai-backend/internal/middleware"
)

// Controllers bundles the handlers Register mounts.
type Controllers struct {
	Game      *GameController
	Engine    *EngineController
	WebSocket *WebSocketController
}

// Register mounts the REST and websocket routes on app.
func Register(app *fiber.App, ctrl Controllers, wsConfig websocket.Config) {
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(ctrl.WebSocket.HandleConnection, wsConfig))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", ctrl.Game.CreateGame)
	gameRoutes.Post("/join/:gameId", ctrl.Game.JoinGame)
	gameRoutes.Get("/:gameId", ctrl.Game.GetGameState)
	gameRoutes.Get("/:gameId/moves", ctrl.Game.LegalMoves)
	gameRoutes.Post("/:gameId/move", ctrl.Game.MakeMove)
	gameRoutes.Post("/:gameId/undo", ctrl.Game.Undo)
	gameRoutes.Post("/:gameId/resign", ctrl.Game.Resign)

	api.Post("/engine/bestmove", ctrl.Engine.BestMove)
}

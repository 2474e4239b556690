package game

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/ws"
)

// Conn is the part of a websocket connection a game writes to.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// connections are the observers of one game, keyed by player id.
type connections struct {
	mu    sync.RWMutex
	conns map[string]Conn

	// writeMu serializes writes; websocket connections allow one writer.
	writeMu     sync.Mutex
	lastVersion int
}

func newConnections() *connections {
	return &connections{
		conns: make(map[string]Conn),
	}
}

// RegisterConnection attaches conn for playerID and sends it the current
// state. Seated players may always watch; others only while a seat is open.
// A newer connection for the same player replaces the older one.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	_, seated := g.seatOf(playerID)
	authorized := seated || g.hasOpenSeat()
	state := g.snapshot()
	g.mu.Unlock()

	if !authorized {
		return errors.Wrapf(errors.ErrNotInGame, "player %s may not watch game %s", playerID, g.ID)
	}

	g.connections.mu.Lock()
	old, exists := g.connections.conns[playerID]
	g.connections.conns[playerID] = conn
	g.connections.mu.Unlock()

	if exists && old != conn {
		log.Infof("game %s: replacing connection for player %s", g.ID, playerID)
		g.connections.writeMu.Lock()
		_ = old.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by a newer connection"))
		g.connections.writeMu.Unlock()
		_ = old.Close()
	}
	log.Debugf("game %s: registered connection for player %s", g.ID, playerID)

	g.sendTo(conn, state)
	return nil
}

// UnregisterConnection detaches conn. A connection that was already replaced
// leaves the newer one in place.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, ok := g.connections.conns[playerID]; ok && current == conn {
		delete(g.connections.conns, playerID)
		log.Debugf("game %s: unregistered connection for player %s", g.ID, playerID)
	}
}

// Write sends v on conn under the game's write lock.
func (g *Game) Write(conn Conn, v interface{}) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(v)
}

func (g *Game) sendTo(conn Conn, state State) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Errorf("game %s: encode state: %v", g.ID, err)
		return
	}
	if err := g.Write(conn, msg); err != nil {
		log.Warnf("game %s: initial state not delivered: %v", g.ID, err)
	}
}

// broadcast sends state to every observer. Snapshots older than one already
// sent are dropped, since broadcasts run on their own goroutines.
func (g *Game) broadcast(state State) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: encode state: %v", g.ID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}

	g.connections.mu.RLock()
	active := make(map[string]Conn, len(g.connections.conns))
	for playerID, conn := range g.connections.conns {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	g.connections.writeMu.Lock()
	if state.Version <= g.connections.lastVersion {
		g.connections.writeMu.Unlock()
		return
	}
	g.connections.lastVersion = state.Version

	var failed []string
	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			failed = append(failed, playerID)
		}
	}
	g.connections.writeMu.Unlock()

	for _, playerID := range failed {
		g.UnregisterConnection(playerID, active[playerID])
	}
}

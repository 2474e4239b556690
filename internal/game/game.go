// Package game holds one chess game session: seats, the board and its
// history, clocks, the computer opponent and the websocket observers.
package game

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/rules"
	"github.com/benbeisheim/chess-ai-backend/internal/search"
)

type Mode string

const (
	// ModeLocal seats two people.
	ModeLocal Mode = "local"
	// ModeAI seats one person as white against the engine as black.
	ModeAI Mode = "ai"
)

type TimerMode string

const (
	TimerNone      TimerMode = "none"
	TimerBlitz     TimerMode = "blitz"
	TimerRapid     TimerMode = "rapid"
	TimerClassical TimerMode = "classical"
)

// Duration is the per-side budget, zero for untimed games.
func (t TimerMode) Duration() time.Duration {
	switch t {
	case TimerBlitz:
		return 5 * time.Minute
	case TimerRapid:
		return 10 * time.Minute
	case TimerClassical:
		return 30 * time.Minute
	}
	return 0
}

// AIPlayerID occupies the computer's seat in AI games.
const AIPlayerID = "computer"

// AIColor is the side the engine plays in AI games.
const AIColor = model.Black

type Options struct {
	Mode       Mode
	Difficulty search.Difficulty
	TimerMode  TimerMode
	// FEN is an optional start position; empty means the standard one.
	FEN string
	// Engine is shared between games. A fresh one is made when nil.
	Engine *search.Engine
	// Now is the time source for clocks and move timestamps.
	Now func() time.Time
}

func (o *Options) normalize() error {
	switch o.Mode {
	case "":
		o.Mode = ModeLocal
	case ModeLocal, ModeAI:
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown mode %q", o.Mode)
	}
	switch o.TimerMode {
	case "":
		o.TimerMode = TimerNone
	case TimerNone, TimerBlitz, TimerRapid, TimerClassical:
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown timer mode %q", o.TimerMode)
	}
	if o.Difficulty == 0 {
		o.Difficulty = search.Medium
	}
	o.Difficulty = o.Difficulty.Clamp()
	if o.Engine == nil {
		o.Engine = search.NewEngine()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return nil
}

type Reason string

const (
	ReasonCheckmate   Reason = "checkmate"
	ReasonStalemate   Reason = "stalemate"
	ReasonResignation Reason = "resignation"
	ReasonTimeout     Reason = "timeout"
)

// Result is set once the game ends. Winner is empty for a stalemate.
type Result struct {
	Winner model.Color `json:"winner,omitempty"`
	Reason Reason      `json:"reason"`
}

type Stats struct {
	WhiteCaptures int        `json:"whiteCaptures"`
	BlackCaptures int        `json:"blackCaptures"`
	TotalMoves    int        `json:"totalMoves"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
}

type Players struct {
	White model.ClientPlayer `json:"white"`
	Black model.ClientPlayer `json:"black"`
}

// State is a snapshot sent to clients. Version grows with every change so
// observers can drop stale snapshots.
type State struct {
	ID          string            `json:"id"`
	Version     int               `json:"version"`
	Board       model.Board       `json:"board"`
	FEN         string            `json:"fen"`
	ToMove      model.Color       `json:"toMove"`
	MoveHistory []model.Move      `json:"moveHistory"`
	LastMove    *model.Move       `json:"lastMove"`
	IsCheck     bool              `json:"isCheck"`
	Outcome     rules.Outcome     `json:"outcome"`
	Result      *Result           `json:"result"`
	Stats       Stats             `json:"stats"`
	Players     Players           `json:"players"`
	Mode        Mode              `json:"mode"`
	Difficulty  search.Difficulty `json:"difficulty"`
	TimerMode   TimerMode         `json:"timerMode"`
}

// Game is safe for concurrent use. Board and history are guarded by mu,
// observers by the connection registry's own locks.
type Game struct {
	ID string

	mu      sync.Mutex
	opts    Options
	board   model.Board
	toMove  model.Color
	history []model.Move
	outcome rules.Outcome
	result  *Result
	stats   Stats
	players Players
	version int

	whiteClock *model.Clock
	blackClock *model.Clock

	connections *connections
}

// New creates a game. A FEN start position must hold exactly one king per side.
func New(id string, opts Options) (*Game, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	board, toMove := model.InitialBoard(), model.White
	if opts.FEN != "" {
		var err error
		board, toMove, err = model.FromFEN(opts.FEN)
		if err != nil {
			return nil, err
		}
	}

	budget := opts.TimerMode.Duration()
	g := &Game{
		ID:          id,
		opts:        opts,
		board:       board,
		toMove:      toMove,
		history:     make([]model.Move, 0),
		stats:       Stats{StartTime: opts.Now()},
		whiteClock:  model.NewClock(budget, opts.Now),
		blackClock:  model.NewClock(budget, opts.Now),
		connections: newConnections(),
	}
	g.players.White.Color = model.White
	g.players.Black.Color = model.Black
	if opts.Mode == ModeAI {
		g.players.Black.ID = AIPlayerID
		g.players.Black.Name = "Computer"
	}
	g.classify()

	log.Infof("game %s created: mode=%s difficulty=%s timer=%s", id, opts.Mode, opts.Difficulty, opts.TimerMode)
	return g, nil
}

func (g *Game) Mode() Mode {
	return g.opts.Mode
}

// AddPlayer seats playerID and returns its color. Joining twice returns the
// same seat.
func (g *Game) AddPlayer(playerID string) (model.Color, error) {
	return g.AddNamedPlayer(playerID, "")
}

// maxNameLen caps display names, in runes.
const maxNameLen = 32

// AddNamedPlayer is AddPlayer with a display name. A non-empty name also
// renames a player who is already seated.
func (g *Game) AddNamedPlayer(playerID, name string) (model.Color, error) {
	name = cleanName(name)

	g.mu.Lock()
	defer g.mu.Unlock()

	if playerID == "" || (g.opts.Mode == ModeAI && playerID == AIPlayerID) {
		return "", errors.Wrapf(errors.ErrNotInGame, "invalid player id %q", playerID)
	}
	if color, ok := g.seatOf(playerID); ok {
		if seat := g.seat(color); name != "" && seat.Name != name {
			seat.Name = name
			g.changed()
		}
		return color, nil
	}

	var color model.Color
	switch {
	case !g.players.White.IsSeated():
		color = model.White
	case !g.players.Black.IsSeated():
		color = model.Black
	default:
		return "", errors.ErrGameFull
	}
	seat := g.seat(color)
	seat.ID = playerID
	seat.Name = name
	log.Infof("game %s: player %s seated as %s", g.ID, playerID, color)

	if g.result == nil {
		g.startClock(g.toMove)
	}
	g.changed()
	return color, nil
}

// State returns a snapshot with the clocks read at the time of the call.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// AIToMove reports whether the engine owes a move.
func (g *Game) AIToMove() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.opts.Mode == ModeAI && g.result == nil && g.toMove == AIColor
}

func (g *Game) snapshot() State {
	history := make([]model.Move, len(g.history))
	copy(history, g.history)
	var last *model.Move
	if n := len(history); n > 0 {
		m := history[n-1]
		last = &m
	}
	var result *Result
	if g.result != nil {
		r := *g.result
		result = &r
	}
	stats := g.stats
	if stats.EndTime != nil {
		end := *stats.EndTime
		stats.EndTime = &end
	}

	players := g.players
	if g.timed() {
		players.White.TimeLeft = tenths(g.whiteClock.TimeLeft())
		players.Black.TimeLeft = tenths(g.blackClock.TimeLeft())
	}

	return State{
		ID:          g.ID,
		Version:     g.version,
		Board:       g.board,
		FEN:         model.FEN(g.board, g.toMove),
		ToMove:      g.toMove,
		MoveHistory: history,
		LastMove:    last,
		IsCheck:     g.outcome.Status == rules.Check || g.outcome.Status == rules.Checkmate,
		Outcome:     g.outcome,
		Result:      result,
		Stats:       stats,
		Players:     players,
		Mode:        g.opts.Mode,
		Difficulty:  g.opts.Difficulty,
		TimerMode:   g.opts.TimerMode,
	}
}

func tenths(d time.Duration) int {
	return int(d / (100 * time.Millisecond))
}

// seatOf finds the color a human player sits as. The engine's seat never matches.
func (g *Game) seatOf(playerID string) (model.Color, bool) {
	if playerID == "" || (g.opts.Mode == ModeAI && playerID == AIPlayerID) {
		return "", false
	}
	switch playerID {
	case g.players.White.ID:
		return model.White, true
	case g.players.Black.ID:
		return model.Black, true
	}
	return "", false
}

func (g *Game) seat(c model.Color) *model.ClientPlayer {
	if c == model.White {
		return &g.players.White
	}
	return &g.players.Black
}

func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > maxNameLen {
		name = string(r[:maxNameLen])
	}
	return name
}

func (g *Game) hasOpenSeat() bool {
	return !g.players.White.IsSeated() || !g.players.Black.IsSeated()
}

func (g *Game) lastMove() *model.Move {
	if len(g.history) == 0 {
		return nil
	}
	return &g.history[len(g.history)-1]
}

// classify recomputes the outcome for the side to move and ends the game on
// checkmate or stalemate.
func (g *Game) classify() {
	g.outcome = rules.Classify(g.board, g.toMove, g.lastMove())
	switch g.outcome.Status {
	case rules.Checkmate:
		g.finish(Result{Winner: g.toMove.Opponent(), Reason: ReasonCheckmate})
	case rules.Stalemate:
		g.finish(Result{Reason: ReasonStalemate})
	}
}

func (g *Game) finish(r Result) {
	g.result = &r
	end := g.opts.Now()
	g.stats.EndTime = &end
	g.whiteClock.Stop()
	g.blackClock.Stop()
	log.Infof("game %s over: %s, winner %q", g.ID, r.Reason, r.Winner)
}

// changed bumps the version and pushes a snapshot to observers.
// Callers hold mu.
func (g *Game) changed() {
	g.version++
	go g.broadcast(g.snapshot())
}

package game

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"andantino/internal/andantino"
	"andantino/internal/engine"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameOver      = errors.New("game is over")
	ErrNotPlayable   = errors.New("cell is not playable")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Mode 两方分别由谁来下
type Mode string

const (
	HumanHuman Mode = "human_human"
	HumanAI    Mode = "human_ai"
	AIHuman    Mode = "ai_human"
	AIAI       Mode = "ai_ai"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case HumanHuman, HumanAI, AIHuman, AIAI:
		return m, nil
	case "":
		return HumanAI, nil
	default:
		return "", errors.Errorf("unknown mode %q", s)
	}
}

// IsAI 该方是否由引擎下
func (m Mode) IsAI(p andantino.Owner) bool {
	switch p {
	case andantino.PlayerA:
		return m == AIHuman || m == AIAI
	case andantino.PlayerB:
		return m == HumanAI || m == AIAI
	}
	return false
}

// GameState 一局棋：自己的引擎（独立的棋盘和置换表）+ 双方的落子记录。
// A 先手，之后轮流；A/B 的记录和引擎棋盘始终一致。
type GameState struct {
	ID         string
	Mode       Mode
	Heuristics [2]engine.Heuristic // A、B 各自的估值函数
	CreatedAt  time.Time
	UpdatedAt  time.Time

	mu      sync.Mutex
	eng     *engine.Engine
	players [2]*andantino.PlayerState
	history []andantino.Cell
	outcome andantino.Outcome
}

// View 对外的只读快照
type View struct {
	ID         string            `json:"game_id"`
	Mode       Mode              `json:"mode"`
	ToMove     andantino.Owner   `json:"to_move"`
	History    []andantino.Cell  `json:"history"`
	A          []andantino.Cell  `json:"a"`
	B          []andantino.Cell  `json:"b"`
	LegalMoves []andantino.Cell  `json:"legal_moves"`
	Outcome    andantino.Outcome `json:"outcome"`
}

func newGameState(id string, mode Mode, h [2]engine.Heuristic, eng *engine.Engine) *GameState {
	now := time.Now()
	return &GameState{
		ID:         id,
		Mode:       mode,
		Heuristics: h,
		CreatedAt:  now,
		UpdatedAt:  now,
		eng:        eng,
		players: [2]*andantino.PlayerState{
			andantino.NewPlayerState(andantino.PlayerA),
			andantino.NewPlayerState(andantino.PlayerB),
		},
	}
}

func slot(p andantino.Owner) int { return int(p) - 1 }

// toMove 手数为偶数轮到 A
func (g *GameState) toMove() andantino.Owner {
	if len(g.history)%2 == 0 {
		return andantino.PlayerA
	}
	return andantino.PlayerB
}

func (g *GameState) ToMove() andantino.Owner {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toMove()
}

// Play 当前轮到的一方在 c 落子，返回落子后的裁决。
func (g *GameState) Play(c andantino.Cell) (andantino.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.play(c)
}

func (g *GameState) play(c andantino.Cell) (andantino.Outcome, error) {
	if g.outcome.Over {
		return g.outcome, ErrGameOver
	}
	p := g.toMove()
	if o, ok := g.eng.Owner(c); !ok {
		return g.outcome, errors.Wrapf(andantino.ErrUnknownCell, "play %v", c)
	} else if o != andantino.Empty {
		return g.outcome, &andantino.IllegalMoveError{Cell: c, Owner: o}
	}
	if !g.eng.IsLegal(c) {
		return g.outcome, errors.Wrapf(ErrNotPlayable, "play %v", c)
	}
	if err := g.eng.SetOwner(c, p); err != nil {
		return g.outcome, err
	}
	g.players[slot(p)].Add(c)
	g.history = append(g.history, c)
	if err := g.validate(); err != nil {
		return g.outcome, err
	}
	g.outcome = g.eng.Judge(g.players[0].Cells(), g.players[1].Cells())
	g.UpdatedAt = time.Now()
	return g.outcome, nil
}

// Undo 撤回最近两手（人类一手 + 对手一手）；只有一手时撤一手。
func (g *GameState) Undo() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.history) == 0 {
		return ErrNothingToUndo
	}
	for k := 0; k < 2 && len(g.history) > 0; k++ {
		last := g.history[len(g.history)-1]
		p := andantino.PlayerB
		if len(g.history)%2 == 1 {
			p = andantino.PlayerA
		}
		if _, ok := g.players[slot(p)].PopLast(); !ok {
			return errors.Wrapf(andantino.ErrInconsistentState, "undo %v: %v has no moves", last, p)
		}
		if err := g.eng.SetOwner(last, andantino.Empty); err != nil {
			return err
		}
		g.history = g.history[:len(g.history)-1]
	}
	if err := g.validate(); err != nil {
		return err
	}
	g.outcome = g.eng.Judge(g.players[0].Cells(), g.players[1].Cells())
	g.UpdatedAt = time.Now()
	return nil
}

// Replay 清盘后按顺序重下一串手，遇到非法手停下并返回错误（之前的手保留）。
func (g *GameState) Replay(moves []andantino.Cell) (andantino.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
	for i, c := range moves {
		if _, err := g.play(c); err != nil {
			return g.outcome, errors.Wrapf(err, "replay move %d", i+1)
		}
	}
	return g.outcome, nil
}

func (g *GameState) reset() {
	g.eng.Reset()
	g.players[0] = andantino.NewPlayerState(andantino.PlayerA)
	g.players[1] = andantino.NewPlayerState(andantino.PlayerB)
	g.history = nil
	g.outcome = andantino.Outcome{}
	g.UpdatedAt = time.Now()
}

// AIMove 让引擎替当前一方选一步并落下。
func (g *GameState) AIMove(ctx context.Context, budget time.Duration) (engine.Result, andantino.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.outcome.Over {
		return engine.Result{}, g.outcome, ErrGameOver
	}
	p := g.toMove()
	res, err := g.eng.ChooseMove(ctx, engine.Request{
		A:           g.players[0].Cells(),
		B:           g.players[1].Cells(),
		Heuristic:   g.Heuristics[slot(p)],
		Perspective: p,
		Budget:      budget,
	})
	if err != nil {
		return res, g.outcome, err
	}
	out, err := g.play(res.Move)
	return res, out, err
}

// Export 棋盘快照
func (g *GameState) Export() andantino.Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.Export()
}

// Moves 全部手顺的拷贝
func (g *GameState) Moves() []andantino.Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]andantino.Cell(nil), g.history...)
}

func (g *GameState) Outcome() andantino.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcome
}

func (g *GameState) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := View{
		ID:      g.ID,
		Mode:    g.Mode,
		ToMove:  g.toMove(),
		History: append([]andantino.Cell(nil), g.history...),
		A:       g.players[0].Cells(),
		B:       g.players[1].Cells(),
		Outcome: g.outcome,
	}
	if !g.outcome.Over {
		v.LegalMoves = g.eng.LegalMoves()
	}
	return v
}

func (g *GameState) validate() error {
	for _, p := range g.players {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

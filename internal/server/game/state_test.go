package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"andantino/internal/andantino"
	"andantino/internal/engine"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.MaxDepth = 2
	return NewManager(cfg, nil, zerolog.Nop())
}

func newTestGame(t *testing.T, m *Manager, mode Mode) *GameState {
	t.Helper()
	g, err := m.NewGame(mode, [2]engine.Heuristic{engine.HexHeuristic, engine.HexHeuristic})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func TestManagerLifecycle(t *testing.T) {
	m := newTestManager(t)
	g := newTestGame(t, m, HumanHuman)
	if got, err := m.Get(g.ID); err != nil || got != g {
		t.Fatalf("Get: %v %v", got, err)
	}
	other := newTestGame(t, m, HumanHuman)
	if other.ID == g.ID {
		t.Fatalf("duplicate game ids")
	}
	if m.Len() != 2 {
		t.Fatalf("len: got=%d", m.Len())
	}
	if err := m.Delete(g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(g.ID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestPlayTurnOrderAndOpening(t *testing.T) {
	g := newTestGame(t, newTestManager(t), HumanHuman)

	// 第一手只能在中心附近
	if _, err := g.Play(andantino.Cell{X: 10, Y: 9}); !errors.Is(err, ErrNotPlayable) {
		t.Fatalf("far opening: got %v", err)
	}
	if _, err := g.Play(andantino.Center); err != nil {
		t.Fatalf("center: %v", err)
	}
	if g.ToMove() != andantino.PlayerB {
		t.Fatalf("B should be to move")
	}
	var illegal *andantino.IllegalMoveError
	if _, err := g.Play(andantino.Center); !errors.As(err, &illegal) {
		t.Fatalf("occupied cell: got %v", err)
	}
	if _, err := g.Play(andantino.Cell{X: 100, Y: 100}); !errors.Is(err, andantino.ErrUnknownCell) {
		t.Fatalf("off board: got %v", err)
	}
	if _, err := g.Play(andantino.Cell{X: 17, Y: 9}); err != nil {
		t.Fatalf("second stone: %v", err)
	}

	v := g.View()
	if len(v.A) != 1 || len(v.B) != 1 || v.ToMove != andantino.PlayerA {
		t.Fatalf("unexpected view: %+v", v)
	}
	if len(v.LegalMoves) != 2 {
		t.Fatalf("forced response expected 2 moves, got %v", v.LegalMoves)
	}
}

func TestUndoRemovesTwoPlies(t *testing.T) {
	g := newTestGame(t, newTestManager(t), HumanHuman)
	if err := g.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("undo on empty game: %v", err)
	}

	moves := []andantino.Cell{andantino.Center, {X: 17, Y: 9}, {X: 16, Y: 8}}
	if _, err := g.Replay(moves); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	before := g.Export()

	if _, err := g.Play(andantino.Cell{X: 17, Y: 10}); err != nil {
		t.Fatalf("play: %v", err)
	}
	// 现在 4 手，撤两手回到 2 手
	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := g.Moves(); len(got) != 2 {
		t.Fatalf("after undo: %v", got)
	}
	if g.ToMove() != andantino.PlayerA {
		t.Fatalf("A should be to move after undo")
	}
	if len(before.Owners) != 3 || len(g.Export().Owners) != 2 {
		t.Fatalf("board not rolled back: %+v", g.Export())
	}

	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(g.Moves()) != 0 || len(g.Export().Owners) != 0 {
		t.Fatalf("board should be empty")
	}
}

func TestReplayStopsAtIllegalMove(t *testing.T) {
	g := newTestGame(t, newTestManager(t), HumanHuman)
	_, err := g.Replay([]andantino.Cell{andantino.Center, andantino.Center})
	var illegal *andantino.IllegalMoveError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalMoveError, got %v", err)
	}
	if len(g.Moves()) != 1 {
		t.Fatalf("moves before the bad one must stay: %v", g.Moves())
	}
}

func TestPlayDetectsWinAndStops(t *testing.T) {
	g := newTestGame(t, newTestManager(t), HumanHuman)
	// A 在 y=9 连五，B 在上一行跟着下
	seq := []andantino.Cell{
		{X: 16, Y: 9}, {X: 15, Y: 8},
		{X: 15, Y: 9}, {X: 14, Y: 8},
		{X: 14, Y: 9}, {X: 16, Y: 8},
		{X: 17, Y: 9}, {X: 17, Y: 8},
	}
	if _, err := g.Replay(seq); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if g.Outcome().Over {
		t.Fatalf("game over too early: %+v", g.Outcome())
	}
	out, err := g.Play(andantino.Cell{X: 18, Y: 9})
	if err != nil {
		t.Fatalf("winning move: %v", err)
	}
	if !out.Over || out.Winner != andantino.PlayerA || out.Reason != andantino.ReasonColinear {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if _, err := g.Play(andantino.Cell{X: 18, Y: 8}); !errors.Is(err, ErrGameOver) {
		t.Fatalf("play after game over: %v", err)
	}
	if v := g.View(); len(v.LegalMoves) != 0 {
		t.Fatalf("finished game must not list moves")
	}
}

func TestAIMovePlaysLegalMove(t *testing.T) {
	g := newTestGame(t, newTestManager(t), HumanAI)
	if !g.Mode.IsAI(andantino.PlayerB) || g.Mode.IsAI(andantino.PlayerA) {
		t.Fatalf("mode flags wrong")
	}
	if _, err := g.Play(andantino.Center); err != nil {
		t.Fatalf("play: %v", err)
	}
	legal := map[andantino.Cell]bool{}
	for _, c := range g.View().LegalMoves {
		legal[c] = true
	}
	res, _, err := g.AIMove(context.Background(), 200*time.Millisecond)
	if err != nil {
		t.Fatalf("AIMove: %v", err)
	}
	if !legal[res.Move] {
		t.Fatalf("AI played illegal move %v", res.Move)
	}
	if len(g.Moves()) != 2 || g.ToMove() != andantino.PlayerA {
		t.Fatalf("AI move not recorded: %v", g.Moves())
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != HumanAI {
		t.Fatalf("default mode: %v %v", m, err)
	}
	if _, err := ParseMode("robot_robot"); err == nil {
		t.Fatalf("bad mode accepted")
	}
}

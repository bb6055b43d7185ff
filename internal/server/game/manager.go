package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"andantino/internal/andantino"
	"andantino/internal/engine"
)

// Manager 内存里的对局表。每局一个引擎，包围判定共用一个 worker 池。
type Manager struct {
	mu    sync.RWMutex
	games map[string]*GameState

	cfg  engine.Config
	pool andantino.Executor
	log  zerolog.Logger
}

func NewManager(cfg engine.Config, pool andantino.Executor, logger zerolog.Logger) *Manager {
	return &Manager{
		games: make(map[string]*GameState),
		cfg:   cfg,
		pool:  pool,
		log:   logger,
	}
}

// NewGame 开新局；h 给出 A、B 各自用的估值函数
func (m *Manager) NewGame(mode Mode, h [2]engine.Heuristic) (*GameState, error) {
	id := uuid.NewString()
	eng, err := engine.New(andantino.NewStandardGraph(), m.pool, m.cfg,
		m.log.With().Str("game", id).Logger())
	if err != nil {
		return nil, errors.Wrap(err, "new game engine")
	}
	g := newGameState(id, mode, h, eng)

	m.mu.Lock()
	m.games[id] = g
	m.mu.Unlock()

	m.log.Info().Str("game", id).Str("mode", string(mode)).Msg("new-game")
	return g, nil
}

func (m *Manager) Get(id string) (*GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, errors.Wrapf(ErrGameNotFound, "game %s", id)
	}
	return g, nil
}

// Delete 删掉一局并释放它的引擎
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	g, ok := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()
	if !ok {
		return errors.Wrapf(ErrGameNotFound, "game %s", id)
	}
	return g.eng.Close()
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

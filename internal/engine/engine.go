package engine

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"andantino/internal/andantino"
	"andantino/internal/workers"
)

// ErrNoLegalMoves 轮到走棋却没有可下的格子
var ErrNoLegalMoves = errors.New("no legal moves")

// Engine 持有棋盘图、Zobrist 表、置换表和包围判定用的 worker 池。
// 对外方法都加锁；搜索本身单线程，在同一张图上落子/撤子。
type Engine struct {
	mu sync.Mutex

	graph *andantino.Graph
	zob   *andantino.Zobrist
	tt    map[ttKey]*transpositionTable
	pool  andantino.Executor
	owned io.Closer // NewStandard 自己建的池，Close 时关掉

	cfg Config
	log zerolog.Logger
}

// New 用现成的图和池构造；pool 为 nil 时包围判定顺序执行。
func New(g *andantino.Graph, pool andantino.Executor, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if g == nil {
		return nil, errors.New("engine needs a graph")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "engine config")
	}
	return &Engine{
		graph: g,
		zob:   andantino.NewZobrist(g),
		tt:    make(map[ttKey]*transpositionTable),
		pool:  pool,
		cfg:   cfg,
		log:   logger,
	}, nil
}

// NewStandard 标准棋盘 + 自带 worker 池
func NewStandard(cfg Config, logger zerolog.Logger) (*Engine, error) {
	p := workers.New(cfg.Workers)
	e, err := New(andantino.NewStandardGraph(), p, cfg, logger)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	e.owned = p
	return e, nil
}

// Close 释放自带的池
func (e *Engine) Close() error {
	if e.owned == nil {
		return nil
	}
	return e.owned.Close()
}

func (e *Engine) Config() Config { return e.cfg }

// SetOwner 真实落子 / 撤子（o == Empty）
func (e *Engine) SetOwner(c andantino.Cell, o andantino.Owner) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.SetOwner(c, o)
}

// Owner 查询某格归属
func (e *Engine) Owner(c andantino.Cell) (andantino.Owner, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Owner(c)
}

// LegalMoves 当前可下的格
func (e *Engine) LegalMoves() []andantino.Cell {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.LegalMoves()
}

// IsLegal c 当前能不能下
func (e *Engine) IsLegal(c andantino.Cell) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.IsLegal(c)
}

// Hash 当前局面的 Zobrist 哈希
func (e *Engine) Hash() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zob.Hash(e.graph)
}

// CheckGameEnd (A 胜, B 胜)
func (e *Engine) CheckGameEnd(a, b []andantino.Cell) (bool, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.CheckGameEnd(a, b, e.pool)
}

// CheckGameEndDetailed 带每一方包围 / 五连的细节
func (e *Engine) CheckGameEndDetailed(a, b []andantino.Cell) andantino.EndDetails {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.CheckGameEndDetailed(a, b, e.pool)
}

// Judge 胜负 / 和棋裁决
func (e *Engine) Judge(a, b []andantino.Cell) andantino.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Judge(a, b, e.cfg.MaxStones, e.pool)
}

// Export 棋盘快照（只有归属和坐标范围）
func (e *Engine) Export() andantino.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Export()
}

// Import 覆盖棋盘归属
func (e *Engine) Import(rec andantino.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Import(rec)
}

// Reset 清空棋盘和置换表
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph.Clear()
	e.tt = make(map[ttKey]*transpositionTable)
}

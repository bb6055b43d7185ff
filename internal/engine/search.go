package engine

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"lukechampine.com/frand"

	"andantino/internal/andantino"
)

// Request 一次选着请求。A / B 是双方当前的棋子，必须和棋盘上的归属一致。
type Request struct {
	A, B        []andantino.Cell
	Heuristic   Heuristic
	Perspective andantino.Owner // 轮到谁走，搜索以它为极大方
	Budget      time.Duration   // 0 表示用 Config.MoveBudget()
	MaxDepth    int             // 0 表示用 Config.MaxDepth
}

// Result 搜索结果
type Result struct {
	Move      andantino.Cell
	Value     float64       // 以 Perspective 为正
	Depth     int           // 采用的那一轮的深度
	Completed bool          // 那一轮是否在时限内跑完
	Nodes     int64         // 总节点数
	TimeUsed  time.Duration // 花费时间
	Immediate bool          // 一步胜，未进入搜索
}

// search 一次 ChooseMove 内的可变状态
type search struct {
	e           *Engine
	g           *andantino.Graph
	tt          *transpositionTable
	perspective andantino.Owner
	heuristic   Heuristic
	reward      float64

	ctx      context.Context
	deadline time.Time
	timedOut bool

	hash  uint64
	cells map[andantino.Owner][]andantino.Cell
	nodes int64

	// 测试里关掉洗牌，方便和完整 minimax 对比
	shuffle bool
}

// ChooseMove 迭代加深 + alpha-beta，在时限内返回一步。
// 预算再小也至少跑完第 1 层的第一个分支，保证有合法着法返回。
func (e *Engine) ChooseMove(ctx context.Context, req Request) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	if !req.Perspective.IsPlayer() {
		return Result{}, errors.Errorf("perspective must be a player, got %v", req.Perspective)
	}
	if !req.Heuristic.Valid() {
		return Result{}, &UnknownHeuristicError{Name: req.Heuristic.String()}
	}
	if err := e.checkConsistent(req.A, req.B); err != nil {
		return Result{}, err
	}
	if len(e.graph.LegalMoves()) == 0 {
		return Result{}, ErrNoLegalMoves
	}

	budget := req.Budget
	if budget <= 0 {
		budget = e.cfg.MoveBudget()
	}
	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = e.cfg.MaxDepth
	}

	deadline := start.Add(budget)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	s := e.newSearch(ctx, deadline, req)

	if e.cfg.ImmediateWin {
		mv, value := s.scanRoot()
		switch {
		case value >= s.reward:
			e.log.Info().Str("move", mv.String()).Msg("immediate-win")
			return Result{
				Move:      mv,
				Value:     value,
				Depth:     1,
				Completed: true,
				Nodes:     s.nodes,
				TimeUsed:  time.Since(start),
				Immediate: true,
			}, nil
		case s.timedOut:
			// 扫根就用完了时间：已扫过的子节点就是一轮没跑完的第 1 层
			res := Result{Move: mv, Value: value, Depth: 1, Nodes: s.nodes, TimeUsed: time.Since(start)}
			e.log.Info().
				Str("move", mv.String()).
				Float64("value", value).
				Int64("nodes", s.nodes).
				Dur("took", res.TimeUsed).
				Msg("root-scan-timeout")
			return res, nil
		}
	}

	best := Result{}
	have := false
	for depth := 1; depth <= maxDepth; depth++ {
		if have && s.expired() {
			break
		}
		s.timedOut = false
		value, node := s.alphaBeta(depth, math.Inf(-1), math.Inf(1), true, true)
		if node < 0 {
			break
		}
		completed := !s.timedOut
		e.log.Debug().
			Int("depth", depth).
			Float64("value", value).
			Str("move", s.g.CellAt(node).String()).
			Bool("completed", completed).
			Int64("nodes", s.nodes).
			Msg("deepening-iteratively")

		// 第一轮无条件采用；之后只有跑完且严格更好的才覆盖
		if !have || (completed && value > best.Value) {
			best = Result{Move: s.g.CellAt(node), Value: value, Depth: depth, Completed: completed}
			have = true
		}
		if !completed || value >= s.reward {
			break
		}
	}

	best.Nodes = s.nodes
	best.TimeUsed = time.Since(start)
	e.log.Info().
		Str("move", best.Move.String()).
		Float64("value", best.Value).
		Int("depth", best.Depth).
		Int64("nodes", best.Nodes).
		Dur("took", best.TimeUsed).
		Str("heuristic", req.Heuristic.String()).
		Msg("best-move")
	return best, nil
}

func (e *Engine) newSearch(ctx context.Context, deadline time.Time, req Request) *search {
	s := &search{
		e:           e,
		g:           e.graph,
		tt:          e.table(req.Perspective, req.Heuristic),
		perspective: req.Perspective,
		heuristic:   req.Heuristic,
		reward:      e.cfg.Reward,
		ctx:         ctx,
		deadline:    deadline,
		hash:        e.zob.Hash(e.graph),
		cells: map[andantino.Owner][]andantino.Cell{
			andantino.PlayerA: append([]andantino.Cell(nil), req.A...),
			andantino.PlayerB: append([]andantino.Cell(nil), req.B...),
		},
		shuffle: true,
	}
	return s
}

// checkConsistent 调用方给的两组棋子必须和棋盘归属完全一致
func (e *Engine) checkConsistent(a, b []andantino.Cell) error {
	for _, side := range []struct {
		owner andantino.Owner
		cells []andantino.Cell
	}{{andantino.PlayerA, a}, {andantino.PlayerB, b}} {
		seen := make(map[andantino.Cell]bool, len(side.cells))
		for _, c := range side.cells {
			o, ok := e.graph.Owner(c)
			if !ok {
				return errors.Wrapf(andantino.ErrUnknownCell, "player %v cell %v", side.owner, c)
			}
			if o != side.owner || seen[c] {
				return errors.Wrapf(andantino.ErrInconsistentState, "player %v cell %v owned by %v", side.owner, c, o)
			}
			seen[c] = true
		}
		if got := len(e.graph.CellsOf(side.owner)); got != len(side.cells) {
			return errors.Wrapf(andantino.ErrInconsistentState, "player %v: board has %d stones, caller has %d",
				side.owner, got, len(side.cells))
		}
	}
	return nil
}

// expired 到时或 ctx 取消；一旦触发就记下本轮未完成
func (s *search) expired() bool {
	if s.timedOut {
		return true
	}
	if time.Now().After(s.deadline) || s.ctx.Err() != nil {
		s.timedOut = true
	}
	return s.timedOut
}

// play / undo 成对出现：改图、改哈希、改棋子列表
func (s *search) play(c andantino.Cell, o andantino.Owner) {
	s.setOwner(c, o)
	s.hash = s.e.zob.Toggle(s.hash, s.g, c, o)
	s.cells[o] = append(s.cells[o], c)
}

func (s *search) undo(c andantino.Cell, o andantino.Owner) {
	s.setOwner(c, andantino.Empty)
	s.hash = s.e.zob.Toggle(s.hash, s.g, c, o)
	s.cells[o] = s.cells[o][:len(s.cells[o])-1]
}

// setOwner 只会落在合法着法上或撤销自己刚下的子；失败说明 s.cells 和棋盘已经对不上
func (s *search) setOwner(c andantino.Cell, o andantino.Owner) {
	if err := s.g.SetOwner(c, o); err != nil {
		panic(errors.Wrapf(err, "search state out of sync at %v", c))
	}
}

// child 作用域内落子：无论子树怎么返回（剪枝、超时、panic），defer 都会撤销。
func (s *search) child(c andantino.Cell, o andantino.Owner, depth int, alpha, beta float64, maximizing bool) float64 {
	s.play(c, o)
	defer s.undo(c, o)
	v, _ := s.alphaBeta(depth, alpha, beta, maximizing, false)
	return v
}

func (s *search) moves() []andantino.Cell {
	moves := s.g.LegalMoves()
	if s.shuffle && len(moves) > 1 {
		frand.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
	}
	return moves
}

// alphaBeta 返回 (分数, 最佳着法节点下标)；叶子返回 -1。
// 根节点忽略时限至少展开一个分支。
func (s *search) alphaBeta(depth int, alpha, beta float64, maximizing, root bool) (float64, int) {
	s.nodes++
	if depth <= 0 || (!root && s.expired()) {
		return s.leaf(depth), -1
	}
	moves := s.moves()
	if len(moves) == 0 {
		return s.leaf(depth), -1
	}

	mover := s.perspective
	best := math.Inf(-1)
	if !maximizing {
		mover = s.perspective.Opponent()
		best = math.Inf(1)
	}
	bestNode := -1

	for _, mv := range moves {
		v := s.child(mv, mover, depth-1, alpha, beta, !maximizing)
		if maximizing && v > best {
			best = v
			bestNode, _ = s.g.Index(mv)
			alpha = math.Max(alpha, best)
		} else if !maximizing && v < best {
			best = v
			bestNode, _ = s.g.Index(mv)
			beta = math.Min(beta, best)
		}
		if beta <= alpha {
			break
		}
		if s.expired() {
			break
		}
	}
	return best, bestNode
}

// leaf 先查置换表；没有就看胜负，再退到估值函数。结果写回置换表。
func (s *search) leaf(depth int) float64 {
	if e, ok := s.tt.lookup(s.hash); ok {
		return e.Value
	}
	v := s.terminalOrEval()
	s.tt.store(s.hash, v, depth)
	return v
}

func (s *search) terminalOrEval() float64 {
	aWon, bWon := s.g.CheckGameEnd(s.cells[andantino.PlayerA], s.cells[andantino.PlayerB], s.e.pool)
	own, opp := aWon, bWon
	if s.perspective == andantino.PlayerB {
		own, opp = bWon, aWon
	}
	switch {
	case own && opp:
		return 0
	case own:
		return s.reward
	case opp:
		return -s.reward
	default:
		return s.heuristic.Evaluate(s.g, s.perspective)
	}
}

// scanRoot 逐个试根节点的着法，叶子值写进置换表，第 1 层直接命中。
// 碰到一步胜（且对方不同时获胜）就停；至少试一步，之后到时就停。
func (s *search) scanRoot() (andantino.Cell, float64) {
	var best andantino.Cell
	value := math.Inf(-1)
	for n, mv := range s.moves() {
		if n > 0 && s.expired() {
			break
		}
		if v := s.rootLeaf(mv); v > value {
			best, value = mv, v
		}
		if value >= s.reward {
			break
		}
	}
	return best, value
}

func (s *search) rootLeaf(mv andantino.Cell) float64 {
	s.nodes++
	s.play(mv, s.perspective)
	defer s.undo(mv, s.perspective)
	return s.leaf(0)
}

package andantino

import (
	"sort"

	"github.com/pkg/errors"
)

// 边代价（以某一方为视角）。友方格之间/友方与空格之间很便宜，碰到敌方就很贵。
const (
	CostFriendly = 1.0
	CostContact  = 1e5 // 友 <-> 敌
	CostHostile  = 1e6 // 敌 <-> 敌 / 敌 <-> 空
)

// EdgeCost 纯函数：两端归属 + 视角 -> 代价。Neutral 视角恒为 1。
func EdgeCost(u, v Owner, perspective Owner) float64 {
	if !perspective.IsPlayer() {
		return CostFriendly
	}
	enemy := perspective.Opponent()
	switch {
	case u == enemy && v == enemy:
		return CostHostile
	case u == enemy || v == enemy:
		if u == perspective || v == perspective {
			return CostContact
		}
		return CostHostile
	default:
		return CostFriendly
	}
}

type edge struct {
	u, v int
}

// Graph 棋盘图：节点 = 可见格，边 = 相邻。拓扑构造后不再变化，只有 owner 和代价会变。
type Graph struct {
	cells  []Cell
	index  map[Cell]int
	adj    [][]int // 邻居节点下标
	adjE   [][]int // 与 adj 平行：对应的边下标
	edges  []edge
	owners []Owner

	// cost[0] 为 A 视角，cost[1] 为 B 视角，每条边一个值
	cost [2][]float64

	boundary []bool

	minX, maxX, minY, maxY int
}

// NewGraph 从可见格集合与邻接函数建图。邻接函数返回的不可见格会被忽略。
func NewGraph(cells []Cell, neighbors func(Cell) []Cell) (*Graph, error) {
	if len(cells) == 0 {
		return nil, errors.New("graph needs at least one cell")
	}
	if neighbors == nil {
		neighbors = HexNeighbors
	}
	g := &Graph{
		cells:  make([]Cell, len(cells)),
		index:  make(map[Cell]int, len(cells)),
		adj:    make([][]int, len(cells)),
		adjE:   make([][]int, len(cells)),
		owners: make([]Owner, len(cells)),
	}
	copy(g.cells, cells)
	for i, c := range g.cells {
		if _, dup := g.index[c]; dup {
			return nil, errors.Errorf("duplicate cell %v", c)
		}
		g.index[c] = i
	}

	seen := make(map[edge]int)
	for i, c := range g.cells {
		for _, n := range neighbors(c) {
			j, ok := g.index[n]
			if !ok || j == i {
				continue
			}
			key := edge{u: min(i, j), v: max(i, j)}
			id, ok := seen[key]
			if !ok {
				id = len(g.edges)
				g.edges = append(g.edges, key)
				seen[key] = id
			}
			if !containsInt(g.adj[i], j) {
				g.adj[i] = append(g.adj[i], j)
				g.adjE[i] = append(g.adjE[i], id)
			}
			if !containsInt(g.adj[j], i) {
				g.adj[j] = append(g.adj[j], i)
				g.adjE[j] = append(g.adjE[j], id)
			}
		}
	}

	for p := range g.cost {
		g.cost[p] = make([]float64, len(g.edges))
		for e := range g.cost[p] {
			g.cost[p][e] = CostFriendly
		}
	}

	maxDeg := 0
	for i := range g.adj {
		if len(g.adj[i]) > maxDeg {
			maxDeg = len(g.adj[i])
		}
	}
	g.boundary = make([]bool, len(g.cells))
	for i := range g.adj {
		g.boundary[i] = len(g.adj[i]) < maxDeg || len(g.adj[i]) < len(Directions)
	}

	g.minX, g.maxX = g.cells[0].X, g.cells[0].X
	g.minY, g.maxY = g.cells[0].Y, g.cells[0].Y
	for _, c := range g.cells[1:] {
		g.minX = min(g.minX, c.X)
		g.maxX = max(g.maxX, c.X)
		g.minY = min(g.minY, c.Y)
		g.maxY = max(g.maxY, c.Y)
	}
	return g, nil
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// NumCells 节点数
func (g *Graph) NumCells() int { return len(g.cells) }

// Cells 所有格子（按构造顺序），返回副本
func (g *Graph) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// Index 坐标 -> 节点下标
func (g *Graph) Index(c Cell) (int, bool) {
	i, ok := g.index[c]
	return i, ok
}

// CellAt 节点下标 -> 坐标
func (g *Graph) CellAt(i int) Cell { return g.cells[i] }

// Contains 是否在盘上
func (g *Graph) Contains(c Cell) bool {
	_, ok := g.index[c]
	return ok
}

// Owner 不在盘上的格子返回 Empty, false
func (g *Graph) Owner(c Cell) (Owner, bool) {
	i, ok := g.index[c]
	if !ok {
		return Empty, false
	}
	return g.owners[i], true
}

func (g *Graph) ownerAt(i int) Owner { return g.owners[i] }

// Neighbors 盘上的邻居
func (g *Graph) Neighbors(c Cell) []Cell {
	i, ok := g.index[c]
	if !ok {
		return nil
	}
	out := make([]Cell, len(g.adj[i]))
	for k, j := range g.adj[i] {
		out[k] = g.cells[j]
	}
	return out
}

// IsBoundary 邻居不满六个的格子，包围判定里的“外界”出口。
func (g *Graph) IsBoundary(c Cell) bool {
	i, ok := g.index[c]
	return ok && g.boundary[i]
}

// Bounds 坐标范围 (minX, maxX, minY, maxY)
func (g *Graph) Bounds() (int, int, int, int) {
	return g.minX, g.maxX, g.minY, g.maxY
}

// Occupied 所有有子的格，按 (y, x) 排序
func (g *Graph) Occupied() []Cell {
	var out []Cell
	for i, o := range g.owners {
		if o != Empty {
			out = append(out, g.cells[i])
		}
	}
	SortCells(out)
	return out
}

// CellsOf 某一方的全部棋子，按 (y, x) 排序
func (g *Graph) CellsOf(p Owner) []Cell {
	var out []Cell
	for i, o := range g.owners {
		if o == p {
			out = append(out, g.cells[i])
		}
	}
	SortCells(out)
	return out
}

// SetOwner 落子或撤子。Empty 总是允许（撤销用）；覆盖已有棋子返回 *IllegalMoveError，棋盘不变。
// 成功后该格所有相邻边的代价按两方视角重新计算。
func (g *Graph) SetOwner(c Cell, o Owner) error {
	i, ok := g.index[c]
	if !ok {
		return errors.Wrapf(ErrUnknownCell, "set owner %v", c)
	}
	if o != Empty && !o.IsPlayer() {
		return errors.Errorf("set owner %v: invalid owner %d", c, int8(o))
	}
	if o != Empty && g.owners[i] != Empty {
		return &IllegalMoveError{Cell: c, Owner: g.owners[i]}
	}
	g.setOwnerAt(i, o)
	return nil
}

// setOwnerAt 搜索内部用，不做检查
func (g *Graph) setOwnerAt(i int, o Owner) {
	g.owners[i] = o
	for k, j := range g.adj[i] {
		e := g.adjE[i][k]
		g.cost[0][e] = EdgeCost(o, g.owners[j], PlayerA)
		g.cost[1][e] = EdgeCost(o, g.owners[j], PlayerB)
	}
}

// Cost 两个相邻格之间的边代价；不相邻返回 false。
func (g *Graph) Cost(u, v Cell, perspective Owner) (float64, bool) {
	i, ok := g.index[u]
	if !ok {
		return 0, false
	}
	j, ok := g.index[v]
	if !ok {
		return 0, false
	}
	for k, n := range g.adj[i] {
		if n == j {
			return g.edgeCost(g.adjE[i][k], perspective), true
		}
	}
	return 0, false
}

func (g *Graph) edgeCost(e int, perspective Owner) float64 {
	switch perspective {
	case PlayerA:
		return g.cost[0][e]
	case PlayerB:
		return g.cost[1][e]
	default:
		return CostFriendly
	}
}

// Clear 清空全部棋子
func (g *Graph) Clear() {
	for i := range g.owners {
		if g.owners[i] != Empty {
			g.setOwnerAt(i, Empty)
		}
	}
}

// SortCells 按 (y, x) 排序，保证输出稳定
func SortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
}

package andantino

import "math"

// SurroundCutoff 两子之间最短代价超过这个值就视为“便宜路径走不通”。
// 任何穿过敌子的路径至少要付一次 CostContact。
const SurroundCutoff = 5e4

// Executor 执行一批只读任务，全部完成后返回。nil 时顺序执行。
type Executor interface {
	Do(tasks []func())
}

func run(ex Executor, tasks []func()) {
	if ex == nil {
		for _, t := range tasks {
			t()
		}
		return
	}
	ex.Do(tasks)
}

// Surrounded 判断 p 的棋子是否被对方分割或围死：
//  1. 每一对棋子用 p 视角的代价跑 A*（任务交给 ex 并行），超过 SurroundCutoff 的对丢掉，
//     剩下的对连成图，连通分量 > 1 即被分割；
//  2. 只有一个分量时，再看这团棋子能否便宜地走到盘边的空格，走不到就是整团被围。
func (g *Graph) Surrounded(cells []Cell, p Owner, ex Executor) bool {
	nodes := make([]int, 0, len(cells))
	for _, c := range cells {
		if i, ok := g.index[c]; ok {
			nodes = append(nodes, i)
		}
	}
	if len(nodes) == 0 {
		return false
	}

	type pair struct{ s, t int }
	pairs := make([]pair, 0, len(nodes)*(len(nodes)-1)/2)
	for s := 0; s < len(nodes); s++ {
		for t := s + 1; t < len(nodes); t++ {
			pairs = append(pairs, pair{s, t})
		}
	}

	dist := make([]float64, len(pairs))
	tasks := make([]func(), len(pairs))
	for k, pr := range pairs {
		k, pr := k, pr
		tasks[k] = func() {
			to := g.cells[nodes[pr.t]]
			dist[k] = g.shortestPath(nodes[pr.s], func(n int) bool { return n == nodes[pr.t] },
				func(n int) float64 { return float64(HexDistance(g.cells[n], to)) },
				p, SurroundCutoff)
		}
	}
	run(ex, tasks)

	uf := newUnionFind(len(nodes))
	for k, pr := range pairs {
		if dist[k] <= SurroundCutoff {
			uf.union(pr.s, pr.t)
		}
	}
	if uf.count > 1 {
		return true
	}

	// 整团只需看一个代表能否走到盘边的空格；贴边的子本身不算出口
	escape := g.shortestPath(nodes[0], func(n int) bool { return g.boundary[n] && g.owners[n] == Empty }, nil, p, SurroundCutoff)
	return math.IsInf(escape, 1)
}

type unionFind struct {
	parent []int
	count  int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), count: n}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	u.parent[ra] = rb
	u.count--
}

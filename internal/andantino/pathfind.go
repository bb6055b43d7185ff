package andantino

import (
	"container/heap"
	"math"
)

// openItem A* 开放表元素
type openItem struct {
	node int
	g    float64
	f    float64
}

type openList []openItem

func (o openList) Len() int { return len(o) }
func (o openList) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].g > o[j].g
}
func (o openList) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openList) Push(x any)   { *o = append(*o, x.(openItem)) }
func (o *openList) Pop() any {
	old := *o
	it := old[len(old)-1]
	*o = old[:len(old)-1]
	return it
}

// shortestPath 以 perspective 的边代价做 A*。h 必须可采纳；h 为 nil 时退化为 Dijkstra。
// 代价超过 limit 的分支直接剪掉，到不了返回 +Inf。只读棋盘，可并发调用。
func (g *Graph) shortestPath(src int, isGoal func(int) bool, h func(int) float64, perspective Owner, limit float64) float64 {
	if h == nil {
		h = func(int) float64 { return 0 }
	}
	best := make(map[int]float64, 64)
	best[src] = 0
	open := &openList{{node: src, g: 0, f: h(src)}}
	for open.Len() > 0 {
		cur := heap.Pop(open).(openItem)
		if d, ok := best[cur.node]; ok && cur.g > d {
			continue
		}
		if isGoal(cur.node) {
			return cur.g
		}
		for k, next := range g.adj[cur.node] {
			ng := cur.g + g.edgeCost(g.adjE[cur.node][k], perspective)
			if ng > limit {
				continue
			}
			if d, ok := best[next]; ok && ng >= d {
				continue
			}
			best[next] = ng
			f := ng + h(next)
			if f > limit {
				continue
			}
			heap.Push(open, openItem{node: next, g: ng, f: f})
		}
	}
	return math.Inf(1)
}

// PathCost 两格之间在 perspective 视角下的最短代价（A*，启发为六角距离）
func (g *Graph) PathCost(from, to Cell, perspective Owner) float64 {
	return g.pathCostLimited(from, to, perspective, math.Inf(1))
}

func (g *Graph) pathCostLimited(from, to Cell, perspective Owner, limit float64) float64 {
	s, ok := g.index[from]
	if !ok {
		return math.Inf(1)
	}
	t, ok := g.index[to]
	if !ok {
		return math.Inf(1)
	}
	return g.shortestPath(s, func(n int) bool { return n == t }, func(n int) float64 {
		return float64(HexDistance(g.cells[n], to)) * CostFriendly
	}, perspective, limit)
}

// HopDistances 不看归属的 BFS 步数（Neutral 视角的图距离），不可达为 -1
func (g *Graph) HopDistances(from Cell) []int {
	dist := make([]int, len(g.cells))
	for i := range dist {
		dist[i] = -1
	}
	s, ok := g.index[from]
	if !ok {
		return dist
	}
	dist[s] = 0
	queue := []int{s}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.adj[cur] {
			if dist[n] < 0 {
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
	}
	return dist
}

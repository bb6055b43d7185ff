package engine

import (
	"fmt"
	"math"

	"andantino/internal/andantino"
)

// Heuristic 叶子估值函数的种类（封闭枚举，switch 分派）
type Heuristic int

const (
	HexHeuristic Heuristic = iota
	DistSelfMin
	DistOtherMax
	DistMoveMatrix
)

// 邻格奖励：空格 3.5，己方 5，敌方 0
const (
	emptyNeighborReward  = 3.5
	friendNeighborReward = 5.0
)

var heuristicNames = map[Heuristic]string{
	HexHeuristic:   "hex_heuristic",
	DistSelfMin:    "dist_self_min",
	DistOtherMax:   "dist_other_max",
	DistMoveMatrix: "dist_move_matrix",
}

// Heuristics 全部可选项，顺序固定
var Heuristics = []Heuristic{HexHeuristic, DistSelfMin, DistOtherMax, DistMoveMatrix}

// UnknownHeuristicError 名字不认识；只让这一次搜索失败，引擎本身不受影响。
type UnknownHeuristicError struct {
	Name string
}

func (e *UnknownHeuristicError) Error() string {
	return fmt.Sprintf("unknown heuristic %q", e.Name)
}

// ParseHeuristic 按名字查找
func ParseHeuristic(name string) (Heuristic, error) {
	for h, n := range heuristicNames {
		if n == name {
			return h, nil
		}
	}
	return 0, &UnknownHeuristicError{Name: name}
}

func (h Heuristic) Valid() bool {
	_, ok := heuristicNames[h]
	return ok
}

func (h Heuristic) String() string {
	if n, ok := heuristicNames[h]; ok {
		return n
	}
	return fmt.Sprintf("heuristic(%d)", int(h))
}

func (h Heuristic) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, &UnknownHeuristicError{Name: h.String()}
	}
	return []byte(h.String()), nil
}

func (h *Heuristic) UnmarshalText(b []byte) error {
	v, err := ParseHeuristic(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Evaluate 以 perspective 为“己方”打分，越大越好。
func (h Heuristic) Evaluate(g *andantino.Graph, perspective andantino.Owner) float64 {
	switch h {
	case HexHeuristic:
		return hexScore(g, perspective)
	case DistSelfMin:
		d := pairwiseDistances(g, g.CellsOf(perspective))
		if len(d) == 0 {
			return 0
		}
		// 自己越紧凑越好
		return -float64(minInt(d))
	case DistOtherMax:
		d := pairwiseDistances(g, g.CellsOf(perspective.Opponent()))
		if len(d) == 0 {
			return 0
		}
		return float64(maxInt(d))
	case DistMoveMatrix:
		return moveMatrixScore(g, perspective)
	default:
		return 0
	}
}

// hexScore 己方每个棋子按邻格累加
func hexScore(g *andantino.Graph, p andantino.Owner) float64 {
	score := 0.0
	for _, c := range g.CellsOf(p) {
		for _, n := range g.Neighbors(c) {
			switch o, _ := g.Owner(n); o {
			case andantino.Empty:
				score += emptyNeighborReward
			case p:
				score += friendNeighborReward
			}
		}
	}
	return math.Max(0, score)
}

// pairwiseDistances 同一方棋子两两之间的 BFS 步数（无序对）
func pairwiseDistances(g *andantino.Graph, cells []andantino.Cell) []int {
	if len(cells) < 2 {
		return nil
	}
	out := make([]int, 0, len(cells)*(len(cells)-1)/2)
	for i, c := range cells {
		dist := g.HopDistances(c)
		for _, other := range cells[i+1:] {
			idx, _ := g.Index(other)
			out = append(out, dist[idx])
		}
	}
	return out
}

// moveMatrixScore 己方距离列表与对方距离列表的交叉差矩阵，按对方列取均值，取最小，越小越好。
func moveMatrixScore(g *andantino.Graph, p andantino.Owner) float64 {
	own := pairwiseDistances(g, g.CellsOf(p))
	other := pairwiseDistances(g, g.CellsOf(p.Opponent()))
	if len(own) == 0 || len(other) == 0 {
		return 0
	}
	best := math.Inf(1)
	for _, d := range other {
		sum := 0.0
		for _, s := range own {
			sum += math.Abs(float64(s - d))
		}
		best = math.Min(best, sum/float64(len(own)))
	}
	return -best
}

func minInt(v []int) int {
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxInt(v []int) int {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

package andantino

import (
	"math"

	"lukechampine.com/frand"
)

// Zobrist 每个 (玩家, 格子) 一个随机 64 位键，只对它建出来的那张图有效。
type Zobrist struct {
	keys [2][]uint64
}

// NewZobrist 按图的节点数生成键；键不为 0（0 做 XOR 没有作用）。
func NewZobrist(g *Graph) *Zobrist {
	z := &Zobrist{}
	for p := range z.keys {
		z.keys[p] = make([]uint64, g.NumCells())
		for i := range z.keys[p] {
			v := frand.Uint64n(math.MaxUint64)
			for v == 0 {
				v = frand.Uint64n(math.MaxUint64)
			}
			z.keys[p][i] = v
		}
	}
	return z
}

func (z *Zobrist) key(node int, o Owner) uint64 {
	switch o {
	case PlayerA:
		return z.keys[0][node]
	case PlayerB:
		return z.keys[1][node]
	default:
		return 0
	}
}

// Hash 全量计算：所有有子格的键异或
func (z *Zobrist) Hash(g *Graph) uint64 {
	var h uint64
	for i, o := range g.owners {
		if o != Empty {
			h ^= z.key(i, o)
		}
	}
	return h
}

// Toggle 增量更新：落子和撤子都是同一次异或
func (z *Zobrist) Toggle(h uint64, g *Graph, c Cell, o Owner) uint64 {
	i, ok := g.index[c]
	if !ok {
		return h
	}
	return h ^ z.key(i, o)
}

// ToggleIndex 搜索内部用的下标版本
func (z *Zobrist) ToggleIndex(h uint64, node int, o Owner) uint64 {
	return h ^ z.key(node, o)
}

package andantino

// LegalMoves 当前局面可落子的格子（按 (y, x) 排序）。
//
//   - 空盘：中心 + 中心六邻
//   - 只有一子且在中心：中心的空邻
//   - 只有一子且不在中心：只能下中心
//   - 其它：与 >=2 个已有棋子相邻的空格；没有的话退到 >=1 个
func (g *Graph) LegalMoves() []Cell {
	occupied := 0
	last := -1
	for i, o := range g.owners {
		if o != Empty {
			occupied++
			last = i
		}
	}

	center, hasCenter := g.index[Center]

	switch {
	case occupied == 0:
		var out []Cell
		if hasCenter {
			out = append(out, Center)
			for _, j := range g.adj[center] {
				out = append(out, g.cells[j])
			}
		}
		SortCells(out)
		return out

	case occupied == 1 && hasCenter && last == center:
		var out []Cell
		for _, j := range g.adj[center] {
			if g.owners[j] == Empty {
				out = append(out, g.cells[j])
			}
		}
		SortCells(out)
		return out

	case occupied == 1 && hasCenter:
		return []Cell{Center}
	}

	// 统计每个空格挨着多少个有子的格
	counts := make([]int, len(g.cells))
	for i, o := range g.owners {
		if o == Empty {
			continue
		}
		for _, j := range g.adj[i] {
			if g.owners[j] == Empty {
				counts[j]++
			}
		}
	}
	out := collectAtLeast(g, counts, 2)
	if len(out) == 0 {
		out = collectAtLeast(g, counts, 1)
	}
	return out
}

func collectAtLeast(g *Graph, counts []int, n int) []Cell {
	var out []Cell
	for i, c := range counts {
		if c >= n {
			out = append(out, g.cells[i])
		}
	}
	SortCells(out)
	return out
}

// IsLegal 某格当前能不能下
func (g *Graph) IsLegal(c Cell) bool {
	for _, m := range g.LegalMoves() {
		if m == c {
			return true
		}
	}
	return false
}

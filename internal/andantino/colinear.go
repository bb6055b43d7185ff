package andantino

// 连续相邻对数达到这个值就是五连（5 格里 4 对相邻）
const colinearPairs = WinLength - 1

// Colinear 判断 cells 中是否存在沿三条轴之一的五连。
// 每个棋子取以它为中心、长度 WinLength 的三条线；线上有格子不在盘上则该线不算。
func (g *Graph) Colinear(cells []Cell, p Owner) bool {
	_, ok := g.ColinearLine(cells, p)
	return ok
}

// ColinearLine 同 Colinear，同时返回命中的那条线。
func (g *Graph) ColinearLine(cells []Cell, p Owner) ([]Cell, bool) {
	half := (WinLength - 1) / 2
	line := make([]Cell, WinLength)
	for _, c := range cells {
		for _, axis := range Axes {
			valid := true
			for k := 0; k < WinLength; k++ {
				step := k - half
				cell := Cell{X: c.X + step*axis.X, Y: c.Y + step*axis.Y}
				if !g.Contains(cell) {
					valid = false
					break
				}
				line[k] = cell
			}
			if !valid {
				continue
			}
			if g.runPairs(line, p) >= colinearPairs {
				out := make([]Cell, WinLength)
				copy(out, line)
				return out, true
			}
		}
	}
	return nil, false
}

// runPairs 线上相邻且都属于 p 的位置对数（中间断开就不连）
func (g *Graph) runPairs(line []Cell, p Owner) int {
	pairs := 0
	prev := false
	for _, c := range line {
		own := g.owners[g.index[c]] == p
		if own && prev {
			pairs++
		}
		prev = own
	}
	return pairs
}

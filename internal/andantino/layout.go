package andantino

const (
	// BoardSide 每条边的格子数，标准盘 10
	BoardSide = 10
	// WinLength 五连
	WinLength = 5
	// MaxStones 双方合计落子到这个数就判和
	MaxStones = 50
)

// Center 标准盘固定的中心格，第一手只能下在这里或其六邻。
var Center = Cell{X: 16, Y: 9}

// StandardCells 以 Center 为中心、边长 BoardSide 的六边形区域，共 271 格。
// 条件：|dx| <= r, |dy| <= r, |dx-dy| <= r。
func StandardCells() []Cell {
	r := BoardSide - 1
	cells := make([]Cell, 0, 3*r*(r+1)+1)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if abs(dx-dy) > r {
				continue
			}
			cells = append(cells, Cell{X: Center.X + dx, Y: Center.Y + dy})
		}
	}
	return cells
}

// HexNeighbors 六邻（不检查是否在盘上，NewGraph 会过滤不可见格）
func HexNeighbors(c Cell) []Cell {
	out := make([]Cell, 0, len(Directions))
	for _, d := range Directions {
		out = append(out, c.Add(d))
	}
	return out
}

// NewStandardGraph 标准 Andantino 棋盘
func NewStandardGraph() *Graph {
	g, err := NewGraph(StandardCells(), HexNeighbors)
	if err != nil {
		// StandardCells 没有重复格，走不到这里
		panic(err)
	}
	return g
}

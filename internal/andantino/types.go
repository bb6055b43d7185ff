package andantino

import "fmt"

// Owner 是格子的归属；Empty 同时充当“中立”视角。
type Owner int8

const (
	Empty   Owner = 0
	PlayerA Owner = 1
	PlayerB Owner = 2
)

// Neutral 视角下所有边代价为 1，只看拓扑。
const Neutral = Empty

func (o Owner) String() string {
	switch o {
	case Empty:
		return "empty"
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	default:
		return fmt.Sprintf("owner(%d)", int8(o))
	}
}

// IsPlayer 只有 A / B 算玩家
func (o Owner) IsPlayer() bool {
	return o == PlayerA || o == PlayerB
}

// Opponent 返回对手；Empty 的对手还是 Empty
func (o Owner) Opponent() Owner {
	switch o {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Empty
	}
}

// Cell 轴向坐标 (x, y)，坐标本身就是身份。
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

// Directions 六个邻居偏移。这个坐标系里 (1,1) 是邻居，(1,-1) 不是。
var Directions = [6]Cell{
	{1, 0}, {-1, 0},
	{0, 1}, {0, -1},
	{1, 1}, {-1, -1},
}

// Axes 三条连线方向，五连就是沿其中一条
var Axes = [3]Cell{
	{1, 0}, {1, 1}, {0, 1},
}

// HexDistance 无障碍时两格的最少步数，A* 的可采纳启发。
func HexDistance(a, b Cell) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	d := abs(dx)
	if abs(dy) > d {
		d = abs(dy)
	}
	if abs(dx-dy) > d {
		d = abs(dx - dy)
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package andantino

// EndDetails 每一方的两种胜利条件。SurroundedA 表示 A 的棋子被围（B 因此获胜）。
type EndDetails struct {
	SurroundedA bool `json:"surrounded_a"`
	ColinearA   bool `json:"colinear_a"`
	SurroundedB bool `json:"surrounded_b"`
	ColinearB   bool `json:"colinear_b"`
}

// AWon A 五连或 B 被围
func (d EndDetails) AWon() bool { return d.ColinearA || d.SurroundedB }

// BWon B 五连或 A 被围
func (d EndDetails) BWon() bool { return d.ColinearB || d.SurroundedA }

// CheckGameEndDetailed 对两方分别做包围与五连判定。
func (g *Graph) CheckGameEndDetailed(aCells, bCells []Cell, ex Executor) EndDetails {
	return EndDetails{
		SurroundedA: g.Surrounded(aCells, PlayerA, ex),
		ColinearA:   g.Colinear(aCells, PlayerA),
		SurroundedB: g.Surrounded(bCells, PlayerB, ex),
		ColinearB:   g.Colinear(bCells, PlayerB),
	}
}

// CheckGameEnd 返回 (A 胜, B 胜)；两者同时为真由调用方按和棋处理。
func (g *Graph) CheckGameEnd(aCells, bCells []Cell, ex Executor) (bool, bool) {
	d := g.CheckGameEndDetailed(aCells, bCells, ex)
	return d.AWon(), d.BWon()
}

// Reason 结束原因
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonColinear Reason = "colinear"
	ReasonSurround Reason = "surround"
	ReasonBoth     Reason = "both"       // 双方同时满足
	ReasonMaxMoves Reason = "max_stones" // 步数上限
)

// Outcome 一局的裁决
type Outcome struct {
	Over    bool       `json:"over"`
	Winner  Owner      `json:"winner"` // 和棋或未结束为 Empty
	Draw    bool       `json:"draw"`
	Reason  Reason     `json:"reason"`
	Details EndDetails `json:"details"`
}

// Judge 把两方判定合成结果：同时获胜或总子数达到 maxStones 判和。maxStones <= 0 表示不设上限。
func (g *Graph) Judge(aCells, bCells []Cell, maxStones int, ex Executor) Outcome {
	d := g.CheckGameEndDetailed(aCells, bCells, ex)
	aWon, bWon := d.AWon(), d.BWon()
	out := Outcome{Details: d}
	switch {
	case aWon && bWon:
		out.Over, out.Draw, out.Reason = true, true, ReasonBoth
	case aWon:
		out.Over, out.Winner = true, PlayerA
		out.Reason = reasonOf(d.ColinearA, d.SurroundedB)
	case bWon:
		out.Over, out.Winner = true, PlayerB
		out.Reason = reasonOf(d.ColinearB, d.SurroundedA)
	case maxStones > 0 && len(aCells)+len(bCells) >= maxStones:
		out.Over, out.Draw, out.Reason = true, true, ReasonMaxMoves
	}
	return out
}

func reasonOf(colinear, surround bool) Reason {
	if colinear {
		return ReasonColinear
	}
	if surround {
		return ReasonSurround
	}
	return ReasonNone
}

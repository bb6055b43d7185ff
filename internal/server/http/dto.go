package httpserver

import (
	"andantino/internal/andantino"
	"andantino/internal/engine"
	"andantino/internal/server/game"
)

// 前端用的坐标
type CellDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func cellToDTO(c andantino.Cell) CellDTO { return CellDTO{X: c.X, Y: c.Y} }

func dtoToCell(d CellDTO) andantino.Cell { return andantino.Cell{X: d.X, Y: d.Y} }

func cellsToDTO(cs []andantino.Cell) []CellDTO {
	out := make([]CellDTO, len(cs))
	for i, c := range cs {
		out[i] = cellToDTO(c)
	}
	return out
}

// NewGame 请求；空字段用默认值
type NewGameRequest struct {
	Mode       string `json:"mode"`        // human_human / human_ai / ai_human / ai_ai
	HeuristicA string `json:"heuristic_a"` // 估值函数名，比如 hex_heuristic
	HeuristicB string `json:"heuristic_b"`
}

// Play 请求
type PlayRequest struct {
	GameID string  `json:"game_id"`
	Move   CellDTO `json:"move"`
}

// State / Undo / Export 请求：只带 game_id
type GameRequest struct {
	GameID string `json:"game_id"`
}

// Replay 请求：清盘后按顺序重下
type ReplayRequest struct {
	GameID string    `json:"game_id"`
	Moves  []CellDTO `json:"moves"`
}

// AiMoveRequest 让 AI 替当前一方走一步
type AiMoveRequest struct {
	GameID string `json:"game_id"`
	TimeMs int64  `json:"time_ms"` // 0 用引擎默认预算
}

// StateResponse 所有改动局面的接口都返回它
type StateResponse struct {
	GameID     string    `json:"game_id"`
	Mode       string    `json:"mode"`
	ToMove     int       `json:"to_move"` // 1=A, 2=B
	History    []CellDTO `json:"history"`
	A          []CellDTO `json:"a"`
	B          []CellDTO `json:"b"`
	LegalMoves []CellDTO `json:"legal_moves"`
	Status     string    `json:"status"` // ongoing / a_won / b_won / draw
	Reason     string    `json:"reason,omitempty"`
	AIToMove   bool      `json:"ai_to_move"`
}

type AiMoveResponse struct {
	BestMove  CellDTO       `json:"best_move"`
	Value     float64       `json:"value"`
	Depth     int           `json:"depth"`
	Completed bool          `json:"completed"`
	Nodes     int64         `json:"nodes"`
	TimeMs    int64         `json:"time_ms"`
	Immediate bool          `json:"immediate"`
	State     StateResponse `json:"state"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func statusOf(out andantino.Outcome) string {
	switch {
	case !out.Over:
		return "ongoing"
	case out.Draw:
		return "draw"
	case out.Winner == andantino.PlayerA:
		return "a_won"
	default:
		return "b_won"
	}
}

func stateFromView(v game.View) StateResponse {
	return StateResponse{
		GameID:     v.ID,
		Mode:       string(v.Mode),
		ToMove:     int(v.ToMove),
		History:    cellsToDTO(v.History),
		A:          cellsToDTO(v.A),
		B:          cellsToDTO(v.B),
		LegalMoves: cellsToDTO(v.LegalMoves),
		Status:     statusOf(v.Outcome),
		Reason:     string(v.Outcome.Reason),
		AIToMove:   !v.Outcome.Over && v.Mode.IsAI(v.ToMove),
	}
}

func aiMoveResponse(res engine.Result, v game.View) AiMoveResponse {
	return AiMoveResponse{
		BestMove:  cellToDTO(res.Move),
		Value:     res.Value,
		Depth:     res.Depth,
		Completed: res.Completed,
		Nodes:     res.Nodes,
		TimeMs:    res.TimeUsed.Milliseconds(),
		Immediate: res.Immediate,
		State:     stateFromView(v),
	}
}

// parseHeuristic 空名字用 def
func parseHeuristic(name string, def engine.Heuristic) (engine.Heuristic, error) {
	if name == "" {
		return def, nil
	}
	return engine.ParseHeuristic(name)
}

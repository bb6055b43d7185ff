package andantino

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownCell 坐标不在棋盘上
	ErrUnknownCell = errors.New("unknown cell")
	// ErrInconsistentState 调用方的棋子记录和棋盘对不上（走子列表与集合数量不一致等）
	ErrInconsistentState = errors.New("inconsistent player state")
)

// IllegalMoveError 试图覆盖已有棋子的格子。
type IllegalMoveError struct {
	Cell  Cell
	Owner Owner // 当前占据者
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move: cell %v already owned by %v", e.Cell, e.Owner)
}

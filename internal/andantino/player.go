package andantino

import "github.com/pkg/errors"

// PlayerState 归调用方所有：有序的落子记录 + 无序的占有集合，两者数量必须一致。
type PlayerState struct {
	Owner Owner
	Moves []Cell
	Owned map[Cell]struct{}
}

func NewPlayerState(o Owner) *PlayerState {
	return &PlayerState{Owner: o, Owned: make(map[Cell]struct{})}
}

// Add 记录一步
func (p *PlayerState) Add(c Cell) {
	if p.Owned == nil {
		p.Owned = make(map[Cell]struct{})
	}
	p.Moves = append(p.Moves, c)
	p.Owned[c] = struct{}{}
}

// PopLast 撤掉最后一步
func (p *PlayerState) PopLast() (Cell, bool) {
	if len(p.Moves) == 0 {
		return Cell{}, false
	}
	last := p.Moves[len(p.Moves)-1]
	p.Moves = p.Moves[:len(p.Moves)-1]
	delete(p.Owned, last)
	return last, true
}

// Cells 占有的格子（排序后）
func (p *PlayerState) Cells() []Cell {
	out := make([]Cell, 0, len(p.Owned))
	for c := range p.Owned {
		out = append(out, c)
	}
	SortCells(out)
	return out
}

// Validate 数量不一致是调用方的 bug，立即报出来
func (p *PlayerState) Validate() error {
	if len(p.Moves) != len(p.Owned) {
		return errors.Wrapf(ErrInconsistentState, "player %v: %d moves but %d owned cells",
			p.Owner, len(p.Moves), len(p.Owned))
	}
	return nil
}

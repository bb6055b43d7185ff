package engine

import "andantino/internal/andantino"

// 置换表条目：估值 + 算出它时的剩余深度
type ttEntry struct {
	Value float64
	Depth int
}

// ttKey 不同视角、不同估值函数的叶子分数不能混用，各自一张表
type ttKey struct {
	perspective andantino.Owner
	heuristic   Heuristic
}

// transpositionTable 无淘汰、插入即覆盖，只在一个 Engine 内有效。
// 哈希冲突不检测（两个局面撞到同一个键时会拿到错误的分数）。
type transpositionTable struct {
	m map[uint64]ttEntry
}

func newTranspositionTable() *transpositionTable {
	return &transpositionTable{m: make(map[uint64]ttEntry, 1<<14)}
}

func (t *transpositionTable) lookup(key uint64) (ttEntry, bool) {
	e, ok := t.m[key]
	return e, ok
}

func (t *transpositionTable) store(key uint64, value float64, depth int) {
	t.m[key] = ttEntry{Value: value, Depth: depth}
}

func (t *transpositionTable) Len() int { return len(t.m) }

// table 取（或新建）某个视角 + 估值函数对应的表
func (e *Engine) table(p andantino.Owner, h Heuristic) *transpositionTable {
	k := ttKey{perspective: p, heuristic: h}
	t, ok := e.tt[k]
	if !ok {
		t = newTranspositionTable()
		e.tt[k] = t
	}
	return t
}

// TTSize 所有表的条目总数
func (e *Engine) TTSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, t := range e.tt {
		n += t.Len()
	}
	return n
}

// ResetTT 清空置换表（新开一局时调用）
func (e *Engine) ResetTT() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt = make(map[ttKey]*transpositionTable)
}

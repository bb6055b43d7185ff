package andantino

import (
	"errors"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	g := NewStandardGraph()
	z := NewZobrist(g)
	mustSet(t, g, PlayerA, Center, Cell{16, 8})
	mustSet(t, g, PlayerB, Cell{17, 9})
	wantHash := z.Hash(g)
	wantCost, _ := g.Cost(Center, Cell{17, 9}, PlayerA)

	data, err := g.Export().Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	rec, err := DecodeRecord(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	g.Clear()
	mustSet(t, g, PlayerB, Cell{10, 9})
	if err := g.Import(rec); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := z.Hash(g); got != wantHash {
		t.Fatalf("hash after import: got=%d want=%d", got, wantHash)
	}
	if got, _ := g.Cost(Center, Cell{17, 9}, PlayerA); got != wantCost {
		t.Fatalf("edge cost after import: got=%v want=%v", got, wantCost)
	}
	if o, _ := g.Owner(Cell{10, 9}); o != Empty {
		t.Fatalf("stale stone survived import: %v", o)
	}
}

func TestImportRejectsBadRecords(t *testing.T) {
	g := NewStandardGraph()
	mustSet(t, g, PlayerA, Center)
	good := g.Export()

	bounds := good
	bounds.MaxX++
	if err := g.Import(bounds); err == nil {
		t.Fatalf("expected bounds mismatch error")
	}

	offBoard := good
	offBoard.Owners = []CellOwner{{Cell: Cell{0, 0}, Owner: PlayerA}}
	if err := g.Import(offBoard); !errors.Is(err, ErrUnknownCell) {
		t.Fatalf("expected ErrUnknownCell, got %v", err)
	}

	dup := good
	dup.Owners = []CellOwner{{Cell: Center, Owner: PlayerA}, {Cell: Center, Owner: PlayerB}}
	if err := g.Import(dup); err == nil {
		t.Fatalf("expected duplicate cell error")
	}

	// 失败的导入不能动棋盘
	if o, _ := g.Owner(Center); o != PlayerA {
		t.Fatalf("board modified by rejected import: %v", o)
	}
}

func TestPlayerStateValidate(t *testing.T) {
	p := NewPlayerState(PlayerA)
	p.Add(Center)
	p.Add(Cell{16, 8})
	if err := p.Validate(); err != nil {
		t.Fatalf("consistent state rejected: %v", err)
	}
	if got := p.Cells(); len(got) != 2 || got[0] != (Cell{16, 8}) {
		t.Fatalf("cells not sorted: %v", got)
	}

	p.Moves = append(p.Moves, Center)
	if err := p.Validate(); !errors.Is(err, ErrInconsistentState) {
		t.Fatalf("expected ErrInconsistentState, got %v", err)
	}

	p.Moves = p.Moves[:2]
	last, ok := p.PopLast()
	if !ok || last != (Cell{16, 8}) {
		t.Fatalf("pop last: got=%v ok=%v", last, ok)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("state after pop: %v", err)
	}
}

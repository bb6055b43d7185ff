package andantino

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// CellOwner 一个有子格
type CellOwner struct {
	Cell  Cell  `json:"cell"`
	Owner Owner `json:"owner"`
}

// Record 可序列化的棋盘快照：坐标范围 + 所有非空格的归属。
// 置换表、worker 池、Zobrist 键都是进程内资源，不导出。
type Record struct {
	MinX   int         `json:"min_x"`
	MaxX   int         `json:"max_x"`
	MinY   int         `json:"min_y"`
	MaxY   int         `json:"max_y"`
	Owners []CellOwner `json:"owners"`
}

// Export 导出快照
func (g *Graph) Export() Record {
	rec := Record{MinX: g.minX, MaxX: g.maxX, MinY: g.minY, MaxY: g.maxY}
	for _, c := range g.Occupied() {
		rec.Owners = append(rec.Owners, CellOwner{Cell: c, Owner: g.owners[g.index[c]]})
	}
	return rec
}

// Import 用快照覆盖当前归属。范围对不上或格子非法时返回错误，棋盘保持原样。
func (g *Graph) Import(rec Record) error {
	if rec.MinX != g.minX || rec.MaxX != g.maxX || rec.MinY != g.minY || rec.MaxY != g.maxY {
		return errors.Errorf("record bounds [%d,%d]x[%d,%d] do not match board [%d,%d]x[%d,%d]",
			rec.MinX, rec.MaxX, rec.MinY, rec.MaxY, g.minX, g.maxX, g.minY, g.maxY)
	}
	seen := make(map[Cell]bool, len(rec.Owners))
	for _, co := range rec.Owners {
		if !g.Contains(co.Cell) {
			return errors.Wrapf(ErrUnknownCell, "import %v", co.Cell)
		}
		if !co.Owner.IsPlayer() {
			return errors.Errorf("import %v: invalid owner %d", co.Cell, int8(co.Owner))
		}
		if seen[co.Cell] {
			return errors.Errorf("import %v: duplicate cell", co.Cell)
		}
		seen[co.Cell] = true
	}
	g.Clear()
	for _, co := range rec.Owners {
		g.setOwnerAt(g.index[co.Cell], co.Owner)
	}
	return nil
}

// Encode 快照转 JSON
func (r Record) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRecord JSON 转快照
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Wrap(err, "decode record")
	}
	return rec, nil
}

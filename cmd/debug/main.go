package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"andantino/internal/andantino"
)

// 打印棋盘、合法着法和快照 JSON，可选地先下一串手
//
//	debug -moves "16,9 17,9 16,8"
func main() {
	movesArg := flag.String("moves", "", "space separated x,y moves, A first")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	g := andantino.NewStandardGraph()
	minX, maxX, minY, maxY := g.Bounds()
	fmt.Printf("cells: %d  x:[%d,%d] y:[%d,%d]  center: %v\n", g.NumCells(), minX, maxX, minY, maxY, andantino.Center)

	a := andantino.NewPlayerState(andantino.PlayerA)
	b := andantino.NewPlayerState(andantino.PlayerB)
	owner := andantino.PlayerA
	for _, f := range strings.Fields(*movesArg) {
		var c andantino.Cell
		if _, err := fmt.Sscanf(f, "%d,%d", &c.X, &c.Y); err != nil {
			log.Fatal().Err(err).Str("move", f).Msg("parse move")
		}
		if !g.IsLegal(c) {
			log.Fatal().Str("move", c.String()).Msg("not playable")
		}
		if err := g.SetOwner(c, owner); err != nil {
			log.Fatal().Err(err).Msg("set owner")
		}
		if owner == andantino.PlayerA {
			a.Add(c)
		} else {
			b.Add(c)
		}
		owner = owner.Opponent()
	}

	printBoard(g)

	fmt.Println("to move:", owner)
	fmt.Println("legal moves:", g.LegalMoves())
	out := g.Judge(a.Cells(), b.Cells(), andantino.MaxStones, nil)
	fmt.Printf("outcome: %+v\n", out)

	data, err := g.Export().Encode()
	if err != nil {
		log.Fatal().Err(err).Msg("encode")
	}
	fmt.Println("record:", string(data))
}

// printBoard 按 2x-y 排列，画成六边形
func printBoard(g *andantino.Graph) {
	minX, maxX, minY, maxY := g.Bounds()
	base := 2*minX - maxY
	for y := minY; y <= maxY; y++ {
		var sb strings.Builder
		col := base
		for x := minX; x <= maxX; x++ {
			o, ok := g.Owner(andantino.Cell{X: x, Y: y})
			if !ok {
				continue
			}
			for want := 2*x - y; col < want; col++ {
				sb.WriteByte(' ')
			}
			switch o {
			case andantino.PlayerA:
				sb.WriteByte('A')
			case andantino.PlayerB:
				sb.WriteByte('B')
			default:
				sb.WriteByte('.')
			}
			col++
		}
		fmt.Println(sb.String())
	}
}

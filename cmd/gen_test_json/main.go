package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"andantino/internal/andantino"
)

// TestCase 随机对局里的一个局面：快照 + 当前合法着法 + 胜负判定，给别的实现做对拍
type TestCase struct {
	Record     andantino.Record     `json:"record"`
	ToMove     andantino.Owner      `json:"to_move"`
	LegalMoves []andantino.Cell     `json:"legal_moves"`
	Details    andantino.EndDetails `json:"details"`
}

func main() {
	numGames := flag.Int("games", 10, "number of random games")
	outPath := flag.String("out", "move_gen_test_data.json", "output file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var testCases []TestCase
	for n := 0; n < *numGames; n++ {
		g := andantino.NewStandardGraph()
		players := map[andantino.Owner]*andantino.PlayerState{
			andantino.PlayerA: andantino.NewPlayerState(andantino.PlayerA),
			andantino.PlayerB: andantino.NewPlayerState(andantino.PlayerB),
		}
		owner := andantino.PlayerA
		for ply := 0; ply < andantino.MaxStones; ply++ {
			legal := g.LegalMoves()
			if len(legal) == 0 {
				break
			}
			a, b := players[andantino.PlayerA].Cells(), players[andantino.PlayerB].Cells()
			d := g.CheckGameEndDetailed(a, b, nil)
			testCases = append(testCases, TestCase{
				Record:     g.Export(),
				ToMove:     owner,
				LegalMoves: legal,
				Details:    d,
			})
			if d.AWon() || d.BWon() {
				break
			}

			// 随机选一步
			mv := legal[frand.Intn(len(legal))]
			if err := g.SetOwner(mv, owner); err != nil {
				log.Fatal().Err(err).Msg("set owner")
			}
			players[owner].Add(mv)
			owner = owner.Opponent()
		}
	}

	file, err := json.MarshalIndent(testCases, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("marshal")
	}
	if err := os.WriteFile(*outPath, file, 0o644); err != nil {
		log.Fatal().Err(err).Str("out", *outPath).Msg("write")
	}
	fmt.Printf("Generated %d test cases from %d random games to %s\n", len(testCases), *numGames, *outPath)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"andantino/internal/andantino"
	"andantino/internal/engine"
	"andantino/internal/server/game"
	"andantino/internal/workers"
)

type PlayerConfig struct {
	Name      string
	Heuristic engine.Heuristic
}

func main() {
	cfgPath := flag.String("config", "", "engine config JSON (empty: defaults)")
	totalGames := flag.Int("games", 2, "number of games to play")
	first := flag.String("h1", "hex_heuristic", "heuristic of the first player")
	second := flag.String("h2", "dist_move_matrix", "heuristic of the second player")
	depth := flag.Int("depth", 0, "max search depth (0: config)")
	moveMs := flag.Int64("move-ms", 0, "time per move in ms (0: config budget)")
	level := flag.String("log-level", "info", "zerolog level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cfg, err := engine.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *depth > 0 {
		cfg.MaxDepth = *depth
	}
	p1, err := player(*first)
	if err != nil {
		log.Fatal().Err(err).Msg("h1")
	}
	p2, err := player(*second)
	if err != nil {
		log.Fatal().Err(err).Msg("h2")
	}

	pool := workers.New(cfg.Workers)
	defer pool.Close()
	// 引擎的逐手日志太多，只留 warn 以上
	games := game.NewManager(cfg, pool, log.Logger.Level(zerolog.WarnLevel))
	budget := time.Duration(*moveMs) * time.Millisecond

	wins := map[string]int{}
	draws := 0
	for g := 0; g < *totalGames; g++ {
		// 轮流执先
		a, b := p1, p2
		if g%2 == 1 {
			a, b = p2, p1
		}
		fmt.Printf("\n=== Game %d: A [%s] vs B [%s] ===\n", g+1, a.Name, b.Name)
		out, plies, err := playGame(games, a, b, budget)
		if err != nil {
			log.Error().Err(err).Int("game", g+1).Msg("game aborted")
			continue
		}
		switch {
		case out.Draw:
			draws++
			fmt.Printf("Result: Draw (%s) after %d plies\n", out.Reason, plies)
		case out.Winner == andantino.PlayerA:
			wins[a.Name]++
			fmt.Printf("Result: %s wins by %s after %d plies\n", a.Name, out.Reason, plies)
		default:
			wins[b.Name]++
			fmt.Printf("Result: %s wins by %s after %d plies\n", b.Name, out.Reason, plies)
		}
	}

	fmt.Printf("\n=== Final Score ===\n")
	fmt.Printf("%s: %d\n", p1.Name, wins[p1.Name])
	fmt.Printf("%s: %d\n", p2.Name, wins[p2.Name])
	fmt.Printf("Draws: %d\n", draws)
}

func player(name string) (PlayerConfig, error) {
	h, err := engine.ParseHeuristic(name)
	if err != nil {
		return PlayerConfig{}, err
	}
	return PlayerConfig{Name: name, Heuristic: h}, nil
}

// playGame 双方都由引擎下，直到分出胜负或到子数上限
func playGame(m *game.Manager, a, b PlayerConfig, budget time.Duration) (andantino.Outcome, int, error) {
	g, err := m.NewGame(game.AIAI, [2]engine.Heuristic{a.Heuristic, b.Heuristic})
	if err != nil {
		return andantino.Outcome{}, 0, err
	}
	defer m.Delete(g.ID)

	for {
		start := time.Now()
		res, out, err := g.AIMove(context.Background(), budget)
		if err != nil {
			return out, len(g.Moves()), err
		}
		plies := len(g.Moves())
		log.Info().
			Int("ply", plies).
			Str("move", res.Move.String()).
			Float64("value", res.Value).
			Int("depth", res.Depth).
			Int64("nodes", res.Nodes).
			Dur("took", time.Since(start)).
			Msg("move")
		if out.Over {
			return out, plies, nil
		}
	}
}

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"andantino/internal/engine"
	"andantino/internal/server/game"
	httpserver "andantino/internal/server/http"
	"andantino/internal/workers"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // 不阻塞，没有图形界面也无所谓
}

func main() {
	addr := flag.String("addr", ":2888", "listen address")
	webDir := flag.String("web", "", "directory with index.html / js (empty: API only)")
	cfgPath := flag.String("config", "", "engine config JSON (empty: defaults)")
	level := flag.String("log-level", "info", "zerolog level")
	browser := flag.Bool("open", false, "open the default browser")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Str("level", *level).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(lvl)

	cfg, err := engine.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	pool := workers.New(cfg.Workers)
	defer pool.Close()

	hub := httpserver.NewHub(log.Logger)
	games := game.NewManager(cfg, pool, log.Logger)
	h := httpserver.NewHandler(games, hub, cfg.Heuristic, log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx.Done())

	srv := &http.Server{Addr: *addr, Handler: h.Router(*webDir)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", *addr).
		Str("web", *webDir).
		Int("workers", pool.Size()).
		Str("heuristic", cfg.Heuristic.String()).
		Dur("move_budget", cfg.MoveBudget()).
		Msg("listening")

	if *browser {
		// 延迟一下再开浏览器，等服务器起来
		go func() {
			time.Sleep(100 * time.Millisecond)
			openBrowser("http://127.0.0.1" + *addr)
		}()
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("serve")
	}
}

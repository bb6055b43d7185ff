package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"andantino/internal/andantino"
	"andantino/internal/engine"
	"andantino/internal/server/game"
)

// Handler /api/* 和 /ws 的处理器；对局都放在 Manager 里
type Handler struct {
	games     *game.Manager
	hub       *Hub
	heuristic engine.Heuristic // 请求没指定时用
	log       zerolog.Logger
}

func NewHandler(games *game.Manager, hub *Hub, def engine.Heuristic, logger zerolog.Logger) *Handler {
	return &Handler{games: games, hub: hub, heuristic: def, log: logger}
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	// 空 body 也行（包括 chunked 的空 body），全用默认值
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeStatus(w, http.StatusBadRequest, "bad json")
		return
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		h.writeStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	ha, err := parseHeuristic(req.HeuristicA, h.heuristic)
	if err != nil {
		h.writeError(w, err)
		return
	}
	hb, err := parseHeuristic(req.HeuristicB, h.heuristic)
	if err != nil {
		h.writeError(w, err)
		return
	}
	g, err := h.games.NewGame(mode, [2]engine.Heuristic{ha, hb})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateFromView(g.View()))
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, "bad json")
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := g.Play(dtoToCell(req.Move)); err != nil {
		h.writeError(w, err)
		return
	}
	h.respondState(w, g)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, "bad json")
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateFromView(g.View()))
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, "bad json")
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := g.Undo(); err != nil {
		h.writeError(w, err)
		return
	}
	h.respondState(w, g)
}

func (h *Handler) handleReplay(w http.ResponseWriter, r *http.Request) {
	var req ReplayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, "bad json")
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	moves := make([]andantino.Cell, len(req.Moves))
	for i, m := range req.Moves {
		moves[i] = dtoToCell(m)
	}
	if _, err := g.Replay(moves); err != nil {
		h.writeError(w, err)
		return
	}
	h.respondState(w, g)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, "bad json")
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g.Export())
}

// handleAiMove 引擎替当前一方落子；搜索跟着请求的 ctx，客户端断开就提前收手
func (h *Handler) handleAiMove(w http.ResponseWriter, r *http.Request) {
	var req AiMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeStatus(w, http.StatusBadRequest, "bad json")
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var budget time.Duration
	if req.TimeMs > 0 {
		budget = time.Duration(req.TimeMs) * time.Millisecond
	}
	res, _, err := g.AIMove(r.Context(), budget)
	if err != nil {
		h.writeError(w, err)
		return
	}
	v := g.View()
	h.hub.Publish(g.ID, stateFromView(v))
	writeJSON(w, http.StatusOK, aiMoveResponse(res, v))
}

func (h *Handler) respondState(w http.ResponseWriter, g *game.GameState) {
	state := stateFromView(g.View())
	h.hub.Publish(g.ID, state)
	writeJSON(w, http.StatusOK, state)
}

// writeError 按错误种类选状态码
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var illegal *andantino.IllegalMoveError
	var unknownH *engine.UnknownHeuristicError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrGameOver):
		status = http.StatusConflict
	case errors.As(err, &illegal), errors.As(err, &unknownH),
		errors.Is(err, game.ErrNotPlayable), errors.Is(err, game.ErrNothingToUndo),
		errors.Is(err, andantino.ErrUnknownCell):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		status = http.StatusRequestTimeout
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("api-error")
	}
	h.writeStatus(w, status, err.Error())
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"andantino/internal/engine"
	"andantino/internal/server/game"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.MaxDepth = 2
	logger := zerolog.Nop()
	hub := NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx.Done())

	h := NewHandler(game.NewManager(cfg, nil, logger), hub, engine.HexHeuristic, logger)
	srv := httptest.NewServer(h.Router(""))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, hub
}

func post(t *testing.T, srv *httptest.Server, path string, body any, out any) int {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func newGame(t *testing.T, srv *httptest.Server, req NewGameRequest) StateResponse {
	t.Helper()
	var st StateResponse
	if code := post(t, srv, "/api/new_game", req, &st); code != http.StatusOK {
		t.Fatalf("new_game: status %d", code)
	}
	return st
}

func TestNewGamePlayAndState(t *testing.T) {
	srv, _ := newTestServer(t)

	st := newGame(t, srv, NewGameRequest{Mode: "human_human"})
	if st.GameID == "" || st.Status != "ongoing" || st.ToMove != 1 {
		t.Fatalf("unexpected new game: %+v", st)
	}
	if len(st.LegalMoves) != 7 {
		t.Fatalf("empty board should offer 7 moves, got %d", len(st.LegalMoves))
	}

	var after StateResponse
	if code := post(t, srv, "/api/play", PlayRequest{GameID: st.GameID, Move: CellDTO{X: 16, Y: 9}}, &after); code != http.StatusOK {
		t.Fatalf("play: status %d", code)
	}
	if after.ToMove != 2 || len(after.A) != 1 || len(after.History) != 1 {
		t.Fatalf("unexpected state after play: %+v", after)
	}

	// 同一格再下
	if code := post(t, srv, "/api/play", PlayRequest{GameID: st.GameID, Move: CellDTO{X: 16, Y: 9}}, nil); code != http.StatusBadRequest {
		t.Fatalf("occupied cell: status %d", code)
	}

	var got StateResponse
	if code := post(t, srv, "/api/state", GameRequest{GameID: st.GameID}, &got); code != http.StatusOK {
		t.Fatalf("state: status %d", code)
	}
	if len(got.History) != 1 {
		t.Fatalf("state lost the move: %+v", got)
	}

	var undone StateResponse
	if code := post(t, srv, "/api/undo", GameRequest{GameID: st.GameID}, &undone); code != http.StatusOK {
		t.Fatalf("undo: status %d", code)
	}
	if len(undone.History) != 0 {
		t.Fatalf("undo left moves: %+v", undone)
	}
}

func TestNewGameAcceptsEmptyBody(t *testing.T) {
	logger := zerolog.Nop()
	cfg := engine.DefaultConfig()
	h := NewHandler(game.NewManager(cfg, nil, logger), NewHub(logger), engine.DistOtherMax, logger)
	router := h.Router("")

	for _, tc := range []struct {
		name   string
		length int64
	}{
		{"no-content-length", 0},
		{"chunked", -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/new_game", strings.NewReader(""))
			req.ContentLength = tc.length
			if tc.length < 0 {
				req.TransferEncoding = []string{"chunked"}
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("empty body: status %d body=%s", rec.Code, rec.Body.String())
			}
			var st StateResponse
			if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if st.GameID == "" || st.Status != "ongoing" {
				t.Fatalf("unexpected new game: %+v", st)
			}
		})
	}
}

func TestErrorsMapToStatusCodes(t *testing.T) {
	srv, _ := newTestServer(t)

	if code := post(t, srv, "/api/state", GameRequest{GameID: "missing"}, nil); code != http.StatusNotFound {
		t.Fatalf("unknown game: status %d", code)
	}
	if code := post(t, srv, "/api/new_game", NewGameRequest{HeuristicA: "nope"}, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown heuristic: status %d", code)
	}
	if code := post(t, srv, "/api/new_game", NewGameRequest{Mode: "robots"}, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown mode: status %d", code)
	}

	resp, err := http.Post(srv.URL+"/api/play", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad json: status %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/play")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET on POST route: status %d", resp.StatusCode)
	}
}

func TestAiMoveReplayAndExport(t *testing.T) {
	srv, _ := newTestServer(t)
	st := newGame(t, srv, NewGameRequest{Mode: "human_ai", HeuristicB: "dist_self_min"})

	var replayed StateResponse
	moves := []CellDTO{{X: 16, Y: 9}, {X: 17, Y: 9}, {X: 16, Y: 8}}
	if code := post(t, srv, "/api/replay", ReplayRequest{GameID: st.GameID, Moves: moves}, &replayed); code != http.StatusOK {
		t.Fatalf("replay: status %d", code)
	}
	if !replayed.AIToMove || replayed.ToMove != 2 {
		t.Fatalf("B (AI) should be to move: %+v", replayed)
	}

	var res AiMoveResponse
	if code := post(t, srv, "/api/ai_move", AiMoveRequest{GameID: st.GameID, TimeMs: 300}, &res); code != http.StatusOK {
		t.Fatalf("ai_move: status %d", code)
	}
	legal := false
	for _, c := range replayed.LegalMoves {
		if c == res.BestMove {
			legal = true
		}
	}
	if !legal || len(res.State.History) != 4 || res.Depth < 1 {
		t.Fatalf("unexpected ai move: %+v", res)
	}

	var rec struct {
		Owners []json.RawMessage `json:"owners"`
	}
	if code := post(t, srv, "/api/export", GameRequest{GameID: st.GameID}, &rec); code != http.StatusOK {
		t.Fatalf("export: status %d", code)
	}
	if len(rec.Owners) != 4 {
		t.Fatalf("export owners: got %d", len(rec.Owners))
	}
}

func TestWebSocketPushesState(t *testing.T) {
	srv, hub := newTestServer(t)
	st := newGame(t, srv, NewGameRequest{Mode: "human_human"})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?game_id=" + st.GameID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() StateResponse {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type != "state" {
			t.Fatalf("unexpected message type %q", msg.Type)
		}
		var s StateResponse
		if err := json.Unmarshal(msg.Payload, &s); err != nil {
			t.Fatalf("payload: %v", err)
		}
		return s
	}

	if first := read(); first.GameID != st.GameID || len(first.History) != 0 {
		t.Fatalf("initial push: %+v", first)
	}

	// 注册在 Upgrade 之后完成，等 hub 看到这个连接再下棋
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients(st.GameID) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if code := post(t, srv, "/api/play", PlayRequest{GameID: st.GameID, Move: CellDTO{X: 16, Y: 9}}, nil); code != http.StatusOK {
		t.Fatalf("play: status %d", code)
	}
	if pushed := read(); len(pushed.History) != 1 {
		t.Fatalf("pushed state: %+v", pushed)
	}

	if err := conn.WriteJSON(wsMessage{Type: "request_state"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if again := read(); len(again.History) != 1 {
		t.Fatalf("requested state: %+v", again)
	}

	if _, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?game_id=missing", nil); err == nil {
		t.Fatalf("ws for unknown game accepted")
	}
}

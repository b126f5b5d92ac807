package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"skirmish-server/internal/abilities"
	"skirmish-server/internal/blueprint"
	"skirmish-server/internal/engine"
	"skirmish-server/internal/infrastructure/storage"
	"skirmish-server/pkg/api"
	"skirmish-server/pkg/logger"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

const (
	testEnemies = `
100:
  name: rat
  health: 30
  attack: 3
  speed: 50
  probability: 1
  abilities:
    - id: basic_attack
`
	testPlayers = `
warrior:
  class: warrior
  health: 100
  attack: 40
  speed: 100
  abilities:
    - id: basic_attack
`
)

// incoming — сообщение сервера с еще не разобранным payload.
type incoming struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Payload   json.RawMessage `json:"payload"`
}

type turnPayload struct {
	EntityID  int64 `json:"entityId"`
	Abilities []struct {
		AbilityID int64  `json:"abilityId"`
		Scope     string `json:"scope"`
		Available bool   `json:"available"`
	} `json:"abilities"`
}

type battlePayload struct {
	Enemies []struct {
		EntityID int64 `json:"entityId"`
	} `json:"enemies"`
}

func newTestServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()
	catalog, err := blueprint.Load([]byte(testEnemies), []byte(testPlayers), abilities.NewRegistry(nil))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	cfg := engine.NewConfig().Instant()
	cfg.EnemyCount = 1

	dir := t.TempDir()
	replays, err := storage.NewReplayService(dir)
	if err != nil {
		t.Fatalf("replays: %v", err)
	}

	srv := New(engine.NewService(catalog, cfg), replays, "0")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Service.Shutdown()
	})
	return srv, ts, dir
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendCommand(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()
	cmd := api.ClientCommand{Action: action}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		cmd.Payload = raw
	}
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil читает сообщения, пока не встретит нужный тип.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) incoming {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("deadline: %v", err)
	}
	for {
		var msg incoming
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", msgType, err)
		}
		if msg.Type == msgType {
			return msg
		}
	}
}

func TestBattleOverWebSocket(t *testing.T) {
	srv, ts, dir := newTestServer(t)
	conn := dial(t, ts)

	// Без боя ход невозможен
	sendCommand(t, conn, api.ActionSubmit, api.ActionPayload{AbilityID: 1, EntityID: 2})
	errMsg := readUntil(t, conn, api.TypeError)
	if !strings.Contains(string(errMsg.Payload), engine.ErrNoBattle.Error()) {
		t.Errorf("unexpected error payload: %s", errMsg.Payload)
	}

	sendCommand(t, conn, api.ActionStart, api.StartPayload{Name: "Bob", Class: "warrior", Seed: 7})

	session := readUntil(t, conn, api.TypeSession)
	var info api.SessionPayload
	if err := json.Unmarshal(session.Payload, &info); err != nil {
		t.Fatalf("session payload: %v", err)
	}
	if info.Seed != 7 || info.Class != "WARRIOR" || info.PlayerID == 0 {
		t.Errorf("session = %+v", info)
	}

	var roster battlePayload
	if err := json.Unmarshal(readUntil(t, conn, "START_BATTLE").Payload, &roster); err != nil {
		t.Fatalf("battle payload: %v", err)
	}
	if len(roster.Enemies) != 1 {
		t.Fatalf("enemies = %d, want 1", len(roster.Enemies))
	}

	var turn turnPayload
	if err := json.Unmarshal(readUntil(t, conn, "START_PLAYER_TURN").Payload, &turn); err != nil {
		t.Fatalf("turn payload: %v", err)
	}
	if turn.EntityID != info.PlayerID || len(turn.Abilities) == 0 {
		t.Fatalf("turn = %+v", turn)
	}
	attack := turn.Abilities[0]
	if attack.Scope != "ENEMIES" || !attack.Available {
		t.Fatalf("first ability = %+v", attack)
	}

	sendCommand(t, conn, api.ActionSubmit, api.ActionPayload{
		AbilityID: attack.AbilityID,
		EntityID:  turn.EntityID,
		TargetID:  roster.Enemies[0].EntityID,
	})

	end := readUntil(t, conn, "BATTLE_END")
	if !strings.Contains(string(end.Payload), `"VICTORY"`) {
		t.Errorf("battle end = %s", end.Payload)
	}
	if end.SessionID != session.SessionID {
		t.Errorf("session id = %q, want %q", end.SessionID, session.SessionID)
	}

	// Реплей сохранен и читается обратно
	files, err := filepath.Glob(filepath.Join(dir, "*"+storage.Extension))
	if err != nil || len(files) != 1 {
		t.Fatalf("replay files = %v (%v)", files, err)
	}
	replay, err := srv.Replays.Load(files[0])
	if err != nil {
		t.Fatalf("load replay: %v", err)
	}
	if replay.PlayerName != "Bob" || len(replay.Actions) != 1 || replay.Seed != 7 {
		t.Errorf("replay = %+v", replay)
	}

	// Debug видит сессию
	resp, err := http.Get(ts.URL + "/debug/sessions")
	if err != nil {
		t.Fatalf("debug: %v", err)
	}
	defer resp.Body.Close()
	var sessions []engine.Status
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		t.Fatalf("decode sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != session.SessionID || sessions[0].Actions != 1 {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestStopAndRejectedCommands(t *testing.T) {
	_, ts, _ := newTestServer(t)
	conn := dial(t, ts)

	tests := []struct {
		name    string
		action  string
		payload any
	}{
		{"unknown action", "DANCE", nil},
		{"missing payload", api.ActionStart, nil},
		{"invalid class", api.ActionStart, api.StartPayload{Name: "Bob", Class: "bard"}},
		{"empty name", api.ActionStart, api.StartPayload{Class: "warrior"}},
		{"stop without battle", api.ActionStop, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sendCommand(t, conn, tt.action, tt.payload)
			msg := readUntil(t, conn, api.TypeError)
			var p api.ErrorPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				t.Fatalf("error payload: %v", err)
			}
			if p.Action != tt.action || p.Message == "" {
				t.Errorf("error = %+v", p)
			}
		})
	}

	sendCommand(t, conn, api.ActionStart, api.StartPayload{Name: "Bob", Class: "warrior"})
	readUntil(t, conn, "START_PLAYER_TURN")

	// Второй бой, пока первый идет, запрещен
	sendCommand(t, conn, api.ActionStart, api.StartPayload{Name: "Bob", Class: "warrior"})
	msg := readUntil(t, conn, api.TypeError)
	if !strings.Contains(string(msg.Payload), engine.ErrBattleRunning.Error()) {
		t.Errorf("unexpected error: %s", msg.Payload)
	}

	sendCommand(t, conn, api.ActionStop, nil)
	end := readUntil(t, conn, "BATTLE_END")
	if !strings.Contains(string(end.Payload), `"aborted":true`) {
		t.Errorf("battle end = %s", end.Payload)
	}

	// После остановки можно начать заново
	sendCommand(t, conn, api.ActionStart, api.StartPayload{Name: "Bob", Class: "warrior"})
	readUntil(t, conn, "START_PLAYER_TURN")
}

func TestHealthAndVersion(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("health = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}

	resp, err = http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	defer resp.Body.Close()
	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if _, ok := info["goVersion"]; !ok {
		t.Errorf("version = %v", info)
	}

	resp2, err := http.Get(ts.URL + "/debug/replay?id=missing")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp2.StatusCode)
	}
}

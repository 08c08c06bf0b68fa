package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/config"
	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/hud"
)

func newTestServer(t *testing.T) (*Server, *engine.GameContext, *httptest.Server) {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	feed := hud.NewFeed(nil)
	game, err := engine.NewGameContext(cfg, engine.Options{Log: zerolog.Nop(), HUD: feed})
	if err != nil {
		t.Fatalf("NewGameContext: %v", err)
	}
	if err := game.SetupSandbox(); err != nil {
		t.Fatalf("SetupSandbox: %v", err)
	}
	s := New("127.0.0.1:0", game, feed, zerolog.Nop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, game, ts
}

func TestShipsEndpoint(t *testing.T) {
	_, game, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ships")
	if err != nil {
		t.Fatalf("GET /ships: %v", err)
	}
	defer resp.Body.Close()
	var ships []ShipView
	if err := json.NewDecoder(resp.Body).Decode(&ships); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ships) != game.World.Ships.Count() {
		t.Fatalf("Expected %d ships, got %d", game.World.Ships.Count(), len(ships))
	}
	players := 0
	for _, s := range ships {
		if s.Player {
			players++
		}
	}
	if players != 1 {
		t.Errorf("Expected exactly one player ship, got %d", players)
	}

	missing, err := http.Get(ts.URL + "/ships/99999")
	if err != nil {
		t.Fatalf("GET missing ship: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", missing.StatusCode)
	}
}

func TestStatusAndMessages(t *testing.T) {
	_, game, ts := newTestServer(t)
	game.HUD.ShowMessage("hello", time.Minute)

	resp, err := http.Get(ts.URL + "/messages")
	if err != nil {
		t.Fatalf("GET /messages: %v", err)
	}
	defer resp.Body.Close()
	var msgs []hud.Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, m := range msgs {
		found = found || m.Text == "hello"
	}
	if !found {
		t.Errorf("Expected 'hello' in %+v", msgs)
	}

	st, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	st.Body.Close()
	if st.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", st.StatusCode)
	}
}

func TestFeedStreamsFilteredEvents(t *testing.T) {
	s, game, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/feed?types=ship_destroyed"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.ClientCount() != 1 {
		t.Fatal("Expected client to register")
	}

	game.Events.Emit(event.EventWeaponFired, &event.WeaponFiredPayload{Weapon: "Laser Cannon"})
	game.Events.Emit(event.EventShipDestroyed, &event.ShipDestroyedPayload{Ship: 7, Name: "Raider Alpha"})
	game.World.RunSafe(func() { game.Router.DispatchAll() })

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Type    string                     `json:"type"`
		Payload event.ShipDestroyedPayload `json:"payload"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if frame.Type != "ship_destroyed" || frame.Payload.Name != "Raider Alpha" {
		t.Errorf("Expected ship_destroyed for Raider Alpha, got %+v", frame)
	}
}

package telemetry

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/void-fighter/event"
)

func TestCombatLogHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	l := NewCombatLog(&buf)

	hit := event.GameEvent{Type: event.EventWeaponHit, Payload: &event.WeaponHitPayload{
		Ship: 1, Weapon: "Laser Cannon", Target: 7, TargetName: "Raider", Damage: 60, HullDamage: 60,
	}}
	kill := event.GameEvent{Type: event.EventShipDestroyed, Payload: &event.ShipDestroyedPayload{
		Ship: 7, Name: "Raider", Killer: 1, Weapon: "Laser Cannon",
	}}
	for i, ev := range []event.GameEvent{hit, hit, kill} {
		r, ok := RecordFromEvent(ev, time.Duration(i)*time.Second)
		if !ok {
			t.Fatalf("Expected event %d to map to a record", i)
		}
		if err := l.Append(r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header + 3 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "time_ms,event,ship") {
		t.Errorf("Unexpected header %q", lines[0])
	}
	if strings.Count(buf.String(), "time_ms") != 1 {
		t.Error("Expected header to be written once")
	}
	if !strings.HasPrefix(lines[3], "2000,ship_destroyed,1,") {
		t.Errorf("Unexpected destruction row %q", lines[3])
	}

	s := l.Summary()
	if s.Hits != 2 || s.Kills != 1 {
		t.Errorf("Expected 2 hits and 1 kill, got %d/%d", s.Hits, s.Kills)
	}
	if s.TotalDamage != 120 || s.MeanDamage != 60 || s.MaxDamage != 60 {
		t.Errorf("Unexpected damage summary %+v", s)
	}
	if s.Events["weapon_hit"] != 2 {
		t.Errorf("Expected 2 weapon_hit events, got %d", s.Events["weapon_hit"])
	}
}

func TestRecordFromEventIgnoresLoadout(t *testing.T) {
	ev := event.GameEvent{Type: event.EventCardsChanged, Payload: &event.CardsChangedPayload{Ship: 1}}
	if _, ok := RecordFromEvent(ev, 0); ok {
		t.Error("Expected card change to be ignored")
	}
}

func TestNilCombatLog(t *testing.T) {
	l, err := OpenCombatLog("")
	if err != nil || l != nil {
		t.Fatalf("Expected disabled log, got %v %v", l, err)
	}
	if err := l.Append(Record{}); err != nil {
		t.Errorf("Expected nil log to discard, got %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Expected nil close, got %v", err)
	}
}

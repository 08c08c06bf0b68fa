package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultDecodes(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected embedded defaults to validate, got %v", err)
	}

	laser, ok := cfg.Weapon("laser_cannon")
	if !ok {
		t.Fatal("Expected laser_cannon in catalog")
	}
	if laser.Damage != 60 || laser.Kind != KindScanHit || !laser.Autofire {
		t.Errorf("Unexpected laser entry: %+v", laser)
	}
	if laser.Cooldown() != 2*time.Second {
		t.Errorf("Expected 2s cooldown, got %v", laser.Cooldown())
	}

	missile, _ := cfg.Weapon("homing_missile")
	if !missile.Homing || !missile.LockRequired || missile.BlastRadiusM != 15 {
		t.Errorf("Unexpected missile entry: %+v", missile)
	}

	if cfg.Targeting.CacheValidity() != 50*time.Millisecond {
		t.Errorf("Expected 50ms cache validity, got %v", cfg.Targeting.CacheValidity())
	}

	tc, ok := cfg.System("target_computer")
	if !ok || len(tc.Levels) != 5 {
		t.Fatalf("Expected 5 target computer levels, got %+v", tc)
	}
	if tc.Levels[4].Stats["range_multiplier"] != 2.5 {
		t.Errorf("Expected level 5 range multiplier 2.5, got %v", tc.Levels[4].Stats["range_multiplier"])
	}

	if _, ok := cfg.Ship("defense_platform"); !ok {
		t.Error("Expected defense_platform template")
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	body := []byte(`
log:
  level: debug
targeting:
  cache_validity_ms: 120
weapons:
  - { id: test_gun, name: Test Gun, kind: scan_hit, damage: 5, cooldown_s: 0.5, range_m: 1000 }
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Log.Level)
	}
	if cfg.Targeting.CacheValidityMs != 120 {
		t.Errorf("Expected overridden cache validity 120, got %d", cfg.Targeting.CacheValidityMs)
	}
	// Untouched sibling keeps its default
	if cfg.Targeting.RangeDriftM != 100 {
		t.Errorf("Expected default range drift 100, got %v", cfg.Targeting.RangeDriftM)
	}
	if len(cfg.Weapons) != 1 || cfg.Weapons[0].ID != "test_gun" {
		t.Errorf("Expected weapon list replaced, got %d entries", len(cfg.Weapons))
	}
	if len(cfg.Systems) == 0 {
		t.Error("Expected default systems retained")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VOIDFIGHTER_INSPECT_ADDR", "127.0.0.1:9999")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Inspect.Addr != "127.0.0.1:9999" {
		t.Errorf("Expected env override, got %s", cfg.Inspect.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"homing splash without lock", func(c *Config) {
			c.Weapons = append(c.Weapons, WeaponConfig{ID: "bad", Kind: KindSplash, CooldownS: 1, RangeM: 10, Homing: true})
		}},
		{"zero cooldown", func(c *Config) {
			c.Weapons[0].CooldownS = 0
		}},
		{"unknown kind", func(c *Config) {
			c.Weapons[0].Kind = "beam"
		}},
		{"duplicate weapon", func(c *Config) {
			c.Weapons = append(c.Weapons, c.Weapons[0])
		}},
		{"level table gap at start", func(c *Config) {
			c.Systems[0].Levels = []LevelConfig{{Level: 2}}
		}},
		{"level table descending", func(c *Config) {
			c.Systems[0].Levels = []LevelConfig{{Level: 1}, {Level: 3}, {Level: 2}}
		}},
		{"zero hull", func(c *Config) {
			c.Ships[0].MaxHull = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

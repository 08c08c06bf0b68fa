package config

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvPrefix scopes environment overrides, e.g. VOIDFIGHTER_LOG_LEVEL
const EnvPrefix = "VOIDFIGHTER"

// Config holds every tunable of the combat core
type Config struct {
	Log            LogConfig            `yaml:"log" mapstructure:"log"`
	Targeting      TargetingConfig      `yaml:"targeting" mapstructure:"targeting"`
	Projectile     ProjectileConfig     `yaml:"projectile" mapstructure:"projectile"`
	TargetComputer TargetComputerConfig `yaml:"target_computer" mapstructure:"target_computer"`
	Audio          AudioConfig          `yaml:"audio" mapstructure:"audio"`
	Telemetry      TelemetryConfig      `yaml:"telemetry" mapstructure:"telemetry"`
	Inspect        InspectConfig        `yaml:"inspect" mapstructure:"inspect"`
	Sandbox        SandboxConfig        `yaml:"sandbox" mapstructure:"sandbox"`
	Weapons        []WeaponConfig       `yaml:"weapons" mapstructure:"weapons"`
	Systems        []SystemConfig       `yaml:"systems" mapstructure:"systems"`
	Ships          []ShipConfig         `yaml:"ships" mapstructure:"ships"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

type TargetingConfig struct {
	CacheValidityMs         int     `yaml:"cache_validity_ms" mapstructure:"cache_validity_ms"`
	CameraDrift             float64 `yaml:"camera_drift" mapstructure:"camera_drift"`
	RangeDriftM             float64 `yaml:"range_drift_m" mapstructure:"range_drift_m"`
	FallbackRangeMultiplier float64 `yaml:"fallback_range_multiplier" mapstructure:"fallback_range_multiplier"`
	FallbackHitRadiusFactor float64 `yaml:"fallback_hit_radius_factor" mapstructure:"fallback_hit_radius_factor"`
}

// CacheValidity returns the acquisition cache lifetime
func (t TargetingConfig) CacheValidity() time.Duration {
	return time.Duration(t.CacheValidityMs) * time.Millisecond
}

type ProjectileConfig struct {
	HomingSpeed     float64 `yaml:"homing_speed" mapstructure:"homing_speed"`
	DirectSpeed     float64 `yaml:"direct_speed" mapstructure:"direct_speed"`
	PhysicsRateHz   float64 `yaml:"physics_rate_hz" mapstructure:"physics_rate_hz"`
	MaxLifetimeMs   int     `yaml:"max_lifetime_ms" mapstructure:"max_lifetime_ms"`
	ExpiryCheckMs   int     `yaml:"expiry_check_ms" mapstructure:"expiry_check_ms"`
	DefaultTargetKm float64 `yaml:"default_target_km" mapstructure:"default_target_km"`
}

func (p ProjectileConfig) MaxLifetime() time.Duration {
	return time.Duration(p.MaxLifetimeMs) * time.Millisecond
}

func (p ProjectileConfig) ExpiryCheck() time.Duration {
	return time.Duration(p.ExpiryCheckMs) * time.Millisecond
}

type TargetComputerConfig struct {
	BaseRangeM     float64 `yaml:"base_range_m" mapstructure:"base_range_m"`
	BaseAccuracy   float64 `yaml:"base_accuracy" mapstructure:"base_accuracy"`
	BaseMaxTargets int     `yaml:"base_max_targets" mapstructure:"base_max_targets"`
}

type AudioConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Volume     float64 `yaml:"volume" mapstructure:"volume"`
	SampleRate int     `yaml:"sample_rate" mapstructure:"sample_rate"`
}

type TelemetryConfig struct {
	CombatLog string `yaml:"combat_log" mapstructure:"combat_log"`
}

type InspectConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

// CardConfig describes one installed or stocked card
type CardConfig struct {
	Slot   string `yaml:"slot" mapstructure:"slot"`
	Type   string `yaml:"type" mapstructure:"type"`
	Level  int    `yaml:"level" mapstructure:"level"`
	Rarity string `yaml:"rarity" mapstructure:"rarity"`
}

type SpawnConfig struct {
	Ship     string     `yaml:"ship" mapstructure:"ship"`
	Name     string     `yaml:"name" mapstructure:"name"`
	Position [3]float64 `yaml:"position" mapstructure:"position"`
}

// CelestialConfig places a non-damageable body; radius is in km
type CelestialConfig struct {
	Kind     string     `yaml:"kind" mapstructure:"kind"`
	Name     string     `yaml:"name" mapstructure:"name"`
	Position [3]float64 `yaml:"position" mapstructure:"position"`
	RadiusKm float64    `yaml:"radius_km" mapstructure:"radius_km"`
}

type SandboxConfig struct {
	Seed          uint64            `yaml:"seed" mapstructure:"seed"`
	PlayerShip    string            `yaml:"player_ship" mapstructure:"player_ship"`
	Loadout       []CardConfig      `yaml:"loadout" mapstructure:"loadout"`
	Starter       []CardConfig      `yaml:"starter" mapstructure:"starter"`
	Stock         []CardConfig      `yaml:"stock" mapstructure:"stock"`
	Enemies       []SpawnConfig     `yaml:"enemies" mapstructure:"enemies"`
	Celestials    []CelestialConfig `yaml:"celestials" mapstructure:"celestials"`
	LegacyWeapons map[string]string `yaml:"legacy_weapons" mapstructure:"legacy_weapons"`
}

// Weapon kinds
const (
	KindScanHit = "scan_hit"
	KindSplash  = "splash"
)

type WeaponConfig struct {
	ID           string  `yaml:"id" mapstructure:"id"`
	Name         string  `yaml:"name" mapstructure:"name"`
	Kind         string  `yaml:"kind" mapstructure:"kind"`
	Damage       float64 `yaml:"damage" mapstructure:"damage"`
	CooldownS    float64 `yaml:"cooldown_s" mapstructure:"cooldown_s"`
	RangeM       float64 `yaml:"range_m" mapstructure:"range_m"`
	EnergyCost   float64 `yaml:"energy_cost" mapstructure:"energy_cost"`
	Accuracy     float64 `yaml:"accuracy" mapstructure:"accuracy"`
	Autofire     bool    `yaml:"autofire" mapstructure:"autofire"`
	LockRequired bool    `yaml:"lock_required" mapstructure:"lock_required"`
	Homing       bool    `yaml:"homing" mapstructure:"homing"`
	BlastRadiusM float64 `yaml:"blast_radius_m" mapstructure:"blast_radius_m"`
	FlightRangeM float64 `yaml:"flight_range_m" mapstructure:"flight_range_m"`
	TurnRateDeg  float64 `yaml:"turn_rate_deg" mapstructure:"turn_rate_deg"`
	SpeedMS      float64 `yaml:"speed_ms" mapstructure:"speed_ms"`
}

// Cooldown converts the configured seconds
func (w WeaponConfig) Cooldown() time.Duration {
	return time.Duration(w.CooldownS * float64(time.Second))
}

// System kinds select the constructor used by the loadout registry
const (
	SystemGeneric        = "generic"
	SystemShields        = "shields"
	SystemReactor        = "reactor"
	SystemHullPlating    = "hull_plating"
	SystemEngines        = "engines"
	SystemTargetComputer = "target_computer"
)

type LevelConfig struct {
	Level         int                `yaml:"level" mapstructure:"level"`
	Effectiveness float64            `yaml:"effectiveness" mapstructure:"effectiveness"`
	EnergyRate    float64            `yaml:"energy_rate" mapstructure:"energy_rate"`
	Stats         map[string]float64 `yaml:"stats" mapstructure:"stats"`
}

type SystemConfig struct {
	Name         string        `yaml:"name" mapstructure:"name"`
	DisplayName  string        `yaml:"display_name" mapstructure:"display_name"`
	Kind         string        `yaml:"kind" mapstructure:"kind"`
	MaxLevel     int           `yaml:"max_level" mapstructure:"max_level"`
	MaxHealth    float64       `yaml:"max_health" mapstructure:"max_health"`
	Inefficiency float64       `yaml:"inefficiency" mapstructure:"inefficiency"`
	AutoActivate bool          `yaml:"auto_activate" mapstructure:"auto_activate"`
	Levels       []LevelConfig `yaml:"levels" mapstructure:"levels"`
}

type ShipConfig struct {
	TypeID       string       `yaml:"type_id" mapstructure:"type_id"`
	Name         string       `yaml:"name" mapstructure:"name"`
	Kind         string       `yaml:"kind" mapstructure:"kind"`
	StationType  string       `yaml:"station_type" mapstructure:"station_type"`
	MaxHull      float64      `yaml:"max_hull" mapstructure:"max_hull"`
	MaxEnergy    float64      `yaml:"max_energy" mapstructure:"max_energy"`
	RechargeRate float64      `yaml:"recharge_rate" mapstructure:"recharge_rate"`
	RadiusM      float64      `yaml:"radius_m" mapstructure:"radius_m"`
	Cards        []CardConfig `yaml:"cards" mapstructure:"cards"`
}

// envKeys are the scalar settings reachable through environment variables
var envKeys = []string{
	"log.level",
	"log.file",
	"audio.enabled",
	"audio.volume",
	"telemetry.combat_log",
	"inspect.enabled",
	"inspect.addr",
	"sandbox.seed",
	"sandbox.player_ship",
}

// Default decodes the embedded defaults
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load overlays the optional file at path and VOIDFIGHTER_* environment
// variables onto the embedded defaults, then validates the result
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// Decode only what was provided; untouched fields keep their defaults,
	// provided lists replace the default list wholesale
	zero := func(dc *mapstructure.DecoderConfig) { dc.ZeroFields = true }
	if err := v.Unmarshal(cfg, zero); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks catalog consistency
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Weapons))
	for _, w := range c.Weapons {
		if w.ID == "" {
			return fmt.Errorf("weapon with empty id")
		}
		if seen[w.ID] {
			return fmt.Errorf("weapon %s: duplicate id", w.ID)
		}
		seen[w.ID] = true
		if w.Kind != KindScanHit && w.Kind != KindSplash {
			return fmt.Errorf("weapon %s: unknown kind %q", w.ID, w.Kind)
		}
		if w.CooldownS <= 0 {
			return fmt.Errorf("weapon %s: cooldown must be positive", w.ID)
		}
		if w.RangeM <= 0 {
			return fmt.Errorf("weapon %s: range must be positive", w.ID)
		}
		if w.Kind == KindSplash && w.Homing && !w.LockRequired {
			return fmt.Errorf("weapon %s: homing splash weapons require a lock", w.ID)
		}
	}

	names := make(map[string]bool, len(c.Systems))
	for _, s := range c.Systems {
		if s.Name == "" {
			return fmt.Errorf("system with empty name")
		}
		if names[s.Name] {
			return fmt.Errorf("system %s: duplicate name", s.Name)
		}
		names[s.Name] = true
		if len(s.Levels) == 0 {
			return fmt.Errorf("system %s: no level table", s.Name)
		}
		if s.Levels[0].Level != 1 {
			return fmt.Errorf("system %s: level table must start at 1", s.Name)
		}
		for i := 1; i < len(s.Levels); i++ {
			if s.Levels[i].Level <= s.Levels[i-1].Level {
				return fmt.Errorf("system %s: level table not ascending", s.Name)
			}
		}
	}

	for _, sh := range c.Ships {
		if sh.MaxHull <= 0 {
			return fmt.Errorf("ship %s: max hull must be positive", sh.TypeID)
		}
	}

	for _, cb := range c.Sandbox.Celestials {
		switch cb.Kind {
		case "star", "planet", "moon":
		default:
			return fmt.Errorf("celestial %s: unknown kind %q", cb.Name, cb.Kind)
		}
		if cb.RadiusKm <= 0 {
			return fmt.Errorf("celestial %s: radius must be positive", cb.Name)
		}
	}
	for _, e := range c.Sandbox.Enemies {
		if _, ok := c.Ship(e.Ship); !ok {
			return fmt.Errorf("sandbox enemy %s: unknown ship %q", e.Name, e.Ship)
		}
	}

	if c.Targeting.CacheValidityMs < 0 {
		return fmt.Errorf("targeting cache validity must not be negative")
	}
	if c.Projectile.ExpiryCheckMs <= 0 {
		return fmt.Errorf("projectile expiry check interval must be positive")
	}
	return nil
}

// Weapon returns the catalog entry for id
func (c *Config) Weapon(id string) (WeaponConfig, bool) {
	for _, w := range c.Weapons {
		if w.ID == id {
			return w, true
		}
	}
	return WeaponConfig{}, false
}

// System returns the system definition for name
func (c *Config) System(name string) (SystemConfig, bool) {
	for _, s := range c.Systems {
		if s.Name == name {
			return s, true
		}
	}
	return SystemConfig{}, false
}

// Ship returns the ship template for typeID
func (c *Config) Ship(typeID string) (ShipConfig, bool) {
	for _, s := range c.Ships {
		if s.TypeID == typeID {
			return s, true
		}
	}
	return ShipConfig{}, false
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/b/ratrak/pkg/colors"
)

var (
	ErrInvalidChance = errors.New("chance must be within [0,1]")
	ErrInvalidPeriod = errors.New("period must be positive")
	ErrInvalidSpeed  = errors.New("game speed must be positive")
	ErrMissingKey    = errors.New("game toggle key is empty")
	ErrInvalidTheme  = errors.New("invalid theme")
)

// Load reads the YAML file at path and deep-merges it over Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse deep-merges YAML data over Default: nested mappings override
// leaf by leaf, sequences replace the default wholesale and unknown keys
// are ignored.
func Parse(data []byte) (*Config, error) {
	base, err := toMap(Default())
	if err != nil {
		return nil, err
	}
	var over map[string]any
	if err := yaml.Unmarshal(data, &over); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	merged, err := yaml.Marshal(Merge(base, over))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(merged, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Merge returns base with over applied recursively. Only mappings are
// merged; any other value in over (lists included) replaces base's.
func Merge(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		if bm, ok := out[k].(map[string]any); ok {
			if om, ok := v.(map[string]any); ok {
				out[k] = Merge(bm, om)
				continue
			}
		}
		out[k] = v
	}
	return out
}

func toMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal defaults: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to reparse defaults: %w", err)
	}
	return m, nil
}

// SaveConfig writes the config to the specified path
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings the companion cannot run with.
func (c *Config) Validate() error {
	for reason, p := range c.Chances {
		if p < 0 || p > 1 {
			return fmt.Errorf("chances.%s=%v: %w", reason, p, ErrInvalidChance)
		}
	}
	for name, p := range map[string]float64{
		"greeting.chance":              c.Greeting.Chance,
		"game.bump_chance":             c.Game.BumpChance,
		"ambient.idle_blink.chance":    c.Ambient.IdleBlink.Chance,
		"ambient.idle_glow.chance":     c.Ambient.IdleGlow.Chance,
		"ambient.attention_bob.chance": c.Ambient.AttentionBob.Chance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s=%v: %w", name, p, ErrInvalidChance)
		}
	}
	for name, d := range map[string]time.Duration{
		"ambient.idle_blink.period":    c.Ambient.IdleBlink.Period,
		"ambient.idle_glow.period":     c.Ambient.IdleGlow.Period,
		"ambient.attention_bob.period": c.Ambient.AttentionBob.Period,
		"ambient.idle_chatter":         c.Ambient.IdleChatter,
	} {
		if d <= 0 {
			return fmt.Errorf("%s=%v: %w", name, d, ErrInvalidPeriod)
		}
	}
	if c.Game.Speed <= 0 {
		return ErrInvalidSpeed
	}
	if c.Game.ToggleKey == "" {
		return ErrMissingKey
	}
	if !colors.Mode(c.Theme.Mode).Valid() {
		return fmt.Errorf("theme.mode=%q: %w", c.Theme.Mode, ErrInvalidTheme)
	}
	if _, ok := colors.ParseHex(c.Theme.Accent); !ok {
		return fmt.Errorf("theme.accent=%q: %w", c.Theme.Accent, ErrInvalidTheme)
	}
	return nil
}

// envOverrides are the settings that can be forced from the environment.
type envOverrides struct {
	Seed         int64         `env:"SEED"`
	Speed        float64       `env:"SPEED"`
	CompactWidth float64       `env:"COMPACT_WIDTH"`
	KeyRelease   time.Duration `env:"KEY_RELEASE"`
	Sound        bool          `env:"SOUND"`
	Socket       bool          `env:"SOCKET"`
	LLMProvider  string        `env:"LLM_PROVIDER"`
	LLMModel     string        `env:"LLM_MODEL"`
	Theme        string        `env:"THEME"`
	Accent       string        `env:"ACCENT"`
}

// ApplyEnv overlays RATRAK_* variables onto c. environ nil means the
// process environment.
func ApplyEnv(c *Config, environ map[string]string) error {
	o := envOverrides{
		Seed:         c.Seed,
		Speed:        c.Game.Speed,
		CompactWidth: c.Drawer.CompactWidth,
		KeyRelease:   c.Terminal.KeyRelease,
		Sound:        c.Sound,
		Socket:       c.Terminal.Socket,
		LLMProvider:  c.LLM.Provider,
		LLMModel:     c.LLM.Model,
		Theme:        c.Theme.Mode,
		Accent:       c.Theme.Accent,
	}
	opts := env.Options{Prefix: "RATRAK_"}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	c.Seed = o.Seed
	c.Game.Speed = o.Speed
	c.Drawer.CompactWidth = o.CompactWidth
	c.Terminal.KeyRelease = o.KeyRelease
	c.Sound = o.Sound
	c.Terminal.Socket = o.Socket
	c.LLM.Provider = o.LLMProvider
	c.LLM.Model = o.LLMModel
	c.Theme.Mode = o.Theme
	c.Theme.Accent = o.Accent
	return c.Validate()
}

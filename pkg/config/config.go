package config

import (
	"time"

	"github.com/b/ratrak/pkg/ambient"
	"github.com/b/ratrak/pkg/paths"
	"github.com/b/ratrak/pkg/sched"
)

type Config struct {
	Seed      int64              `yaml:"seed"`
	Elements  Elements           `yaml:"elements"`
	Sprites   map[string]string  `yaml:"sprites"`
	Quotes    []string           `yaml:"quotes"`
	Chances   map[string]float64 `yaml:"chances"`
	Bubble    Bubble             `yaml:"bubble"`
	Greeting  Greeting           `yaml:"greeting"`
	Drawer    Drawer             `yaml:"drawer"`
	Scroll    Scroll             `yaml:"scroll"`
	Ambient   Ambient            `yaml:"ambient"`
	Game      Game               `yaml:"game"`
	Shortcuts map[string]string  `yaml:"shortcuts"`
	Sections  Sections           `yaml:"sections"`
	Terminal  Terminal           `yaml:"terminal"`
	Theme     Theme              `yaml:"theme"`
	Sound     bool               `yaml:"sound"`
	LLM       LLM                `yaml:"llm"`
}

// Elements are the identifiers the companion looks up at startup.
type Elements struct {
	Activator  string `yaml:"activator"`
	Drawer     string `yaml:"drawer"`
	Backdrop   string `yaml:"backdrop"`
	Bubble     string `yaml:"bubble"`
	BubbleText string `yaml:"bubble_text"`
	Sprite     string `yaml:"sprite"`
}

type Bubble struct {
	Cooldown  sched.Range   `yaml:"cooldown"`   // re-rolled on every attempt
	Duration  time.Duration `yaml:"duration"`   // how long a line stays up
	Blink     time.Duration `yaml:"blink"`      // blink pulse on show
	BlinkOpen time.Duration `yaml:"blink_open"` // blink pulse on show while the drawer is open
}

type Greeting struct {
	Text     string        `yaml:"text"`
	Chance   float64       `yaml:"chance"`
	Duration time.Duration `yaml:"duration"`
}

type Drawer struct {
	ToggleHold   time.Duration `yaml:"toggle_hold"`
	ClickPulse   time.Duration `yaml:"click_pulse"`
	CompactWidth float64       `yaml:"compact_width"` // viewports narrower than this are compact
	OpenLabel    string        `yaml:"open_label"`
	CloseLabel   string        `yaml:"close_label"`
}

type Scroll struct {
	Throttle time.Duration `yaml:"throttle"`
	Pulse    time.Duration `yaml:"pulse"`
}

type Ambient struct {
	IdleBlink    ambient.Spec  `yaml:"idle_blink"`
	BlinkFor     sched.Range   `yaml:"blink_for"`
	IdleGlow     ambient.Spec  `yaml:"idle_glow"`
	GlowFor      time.Duration `yaml:"glow_for"`
	AttentionBob ambient.Spec  `yaml:"attention_bob"`
	BobFor       time.Duration `yaml:"bob_for"`
	IdleChatter  time.Duration `yaml:"idle_chatter"`
}

type Game struct {
	ToggleKey    string        `yaml:"toggle_key"`
	Speed        float64       `yaml:"speed"` // pixels per frame
	Margin       float64       `yaml:"margin"`
	FrameRate    int           `yaml:"frame_rate"`
	MovePulse    time.Duration `yaml:"move_pulse"`
	BumpNudge    float64       `yaml:"bump_nudge"`
	BumpCooldown time.Duration `yaml:"bump_cooldown"`
	BumpBlink    time.Duration `yaml:"bump_blink"`
	BumpChance   float64       `yaml:"bump_chance"`
	BumpDuration time.Duration `yaml:"bump_duration"`
	BumpLines    []string      `yaml:"bump_lines"`
}

type Sections struct {
	RefLine   float64             `yaml:"ref_line"` // fraction of viewport height
	Reactions map[string]Reaction `yaml:"reactions"`
}

type Reaction struct {
	State string        `yaml:"state"`
	For   time.Duration `yaml:"for"`
}

type Terminal struct {
	CellWidth  float64       `yaml:"cell_width"`
	CellHeight float64       `yaml:"cell_height"`
	KeyRelease time.Duration `yaml:"key_release"` // synthesized key-up delay
	Socket     bool          `yaml:"socket"`
}

// Theme colors the companion chrome. Mode is auto, dark or light.
type Theme struct {
	Mode   string `yaml:"mode"`
	Accent string `yaml:"accent"`
}

type LLM struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	Count    int           `yaml:"count"`
	Timeout  time.Duration `yaml:"timeout"`
}

// FrameInterval returns the game-mode frame period.
func (g Game) FrameInterval() time.Duration {
	if g.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(g.FrameRate)
}

func DefaultConfigPath() string {
	return paths.ConfigPath()
}

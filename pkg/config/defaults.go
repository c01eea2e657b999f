package config

import (
	"time"

	"github.com/b/ratrak/pkg/ambient"
	"github.com/b/ratrak/pkg/colors"
	"github.com/b/ratrak/pkg/sched"
)

// Default returns the built-in settings. Every call returns fresh maps and
// slices so callers may mutate the result.
func Default() *Config {
	return &Config{
		Elements: Elements{
			Activator:  "ratrakBtn",
			Drawer:     "ratrakDrawer",
			Backdrop:   "ratrakBackdrop",
			Bubble:     "ratrakBubble",
			BubbleText: "ratrakBubbleText",
			Sprite:     "ratrakSprite",
		},
		Sprites: map[string]string{
			"idle":  "ratrak/idle",
			"blink": "ratrak/blink",
			"move":  "ratrak/move",
			"work":  "ratrak/work",
		},
		Quotes: []string{
			"> terrain stable",
			"> grooming…",
			"> compiling snow",
			"> backend ready",
			"> tests passing",
			"> shipping…",
			"> still running",
			"> no bugs. just features.",
			"> warming up…",
			"> cache is warm",
			"> edge case detected",
			"> refactoring tracks",
			"> logging…",
			"> kids ask the best questions",
			"> beep boop",
		},
		Chances: map[string]float64{
			"idle":   0.22,
			"scroll": 0.10,
			"click":  0.70,
			"open":   0.75,
		},
		Bubble: Bubble{
			Cooldown:  sched.Range{Min: 30 * time.Second, Max: 90 * time.Second},
			Duration:  2400 * time.Millisecond,
			Blink:     450 * time.Millisecond,
			BlinkOpen: 300 * time.Millisecond,
		},
		Greeting: Greeting{
			Text:     "> terrain stable",
			Chance:   0.5,
			Duration: 1800 * time.Millisecond,
		},
		Drawer: Drawer{
			ToggleHold:   700 * time.Millisecond,
			ClickPulse:   550 * time.Millisecond,
			CompactWidth: 600,
			OpenLabel:    "Open Ratrak menu",
			CloseLabel:   "Close Ratrak menu",
		},
		Scroll: Scroll{
			Throttle: 650 * time.Millisecond,
			Pulse:    350 * time.Millisecond,
		},
		Ambient: Ambient{
			IdleBlink: ambient.Spec{
				Period:   3500 * time.Millisecond,
				Cooldown: sched.Range{Min: 20 * time.Second, Max: 60 * time.Second},
				Chance:   0.45,
			},
			BlinkFor: sched.Range{Min: 300 * time.Millisecond, Max: 600 * time.Millisecond},
			IdleGlow: ambient.Spec{
				Period:   10 * time.Second,
				Cooldown: sched.Range{Min: 2 * time.Minute, Max: 4 * time.Minute},
				Chance:   0.35,
			},
			GlowFor: 1600 * time.Millisecond,
			AttentionBob: ambient.Spec{
				Period:   12 * time.Second,
				Cooldown: sched.Range{Min: 90 * time.Second, Max: 3 * time.Minute},
				Chance:   0.35,
			},
			BobFor:      1200 * time.Millisecond,
			IdleChatter: 12 * time.Second,
		},
		Game: Game{
			ToggleKey:    "g",
			Speed:        4,
			Margin:       8,
			FrameRate:    60,
			MovePulse:    200 * time.Millisecond,
			BumpNudge:    10,
			BumpCooldown: 700 * time.Millisecond,
			BumpBlink:    250 * time.Millisecond,
			BumpChance:   0.55,
			BumpDuration: 1400 * time.Millisecond,
			BumpLines: []string{
				"> boundary reached",
				"> ouch. wall.",
				"> out of bounds",
				"> terrain ends here",
			},
		},
		Shortcuts: map[string]string{
			"a": "about",
			"p": "projects",
			"w": "websites",
			"t": "teaching",
			"l": "logbook",
		},
		Sections: Sections{
			RefLine: 0.35,
			Reactions: map[string]Reaction{
				"about":    {State: "blink", For: 350 * time.Millisecond},
				"projects": {State: "work", For: 600 * time.Millisecond},
				"websites": {State: "move", For: 450 * time.Millisecond},
				"teaching": {State: "blink", For: 500 * time.Millisecond},
				"logbook":  {State: "work", For: 400 * time.Millisecond},
			},
		},
		Terminal: Terminal{
			CellWidth:  8,
			CellHeight: 16,
			KeyRelease: 550 * time.Millisecond,
		},
		Theme: Theme{
			Mode:   "auto",
			Accent: colors.DefaultAccent,
		},
		LLM: LLM{
			Count:   40,
			Timeout: 15 * time.Second,
		},
	}
}

package sfx

import (
	"math"
	"testing"
	"time"

	"github.com/b/ratrak/pkg/companion"
	"github.com/gopxl/beep"
)

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestBlipLengthAndLevel(t *testing.T) {
	rate := beep.SampleRate(44100)
	tone := Tone{Freq: 880, Duration: 60 * time.Millisecond, Volume: 0.12}
	got := drain(NewBlip(tone, rate))

	if len(got) != rate.N(tone.Duration) {
		t.Fatalf("blip has %d samples, want %d", len(got), rate.N(tone.Duration))
	}
	peak := 0.0
	for _, s := range got {
		if s[0] != s[1] {
			t.Fatal("blip is not mono")
		}
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak == 0 || peak > tone.Volume {
		t.Fatalf("peak %.3f outside (0, %.2f]", peak, tone.Volume)
	}
	if got[0][0] != 0 {
		t.Fatalf("blip starts at %.3f, want silence", got[0][0])
	}
}

func TestCueTones(t *testing.T) {
	if Tones[companion.CueBubble].Freq != 880 || Tones[companion.CueBump].Freq != 220 {
		t.Fatalf("unexpected tones %+v", Tones)
	}
}

func TestPlayBeforeInitIsSilent(t *testing.T) {
	p := New()
	p.Play(companion.CueBump)
	p.Play("unknown")
	p.Close()
}

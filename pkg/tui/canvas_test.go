package tui

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansi.ReplaceAllString(s, "") }

func TestCanvasStamp(t *testing.T) {
	cv := newCanvas(10, 3)
	cv.setLine(0, "abcdefghij", plainStyle)
	cv.setLine(1, "short", plainStyle)
	cv.stamp(2, 0, []string{"XY"}, lipgloss.NewStyle())
	cv.stamp(7, 1, []string{"1234"}, lipgloss.NewStyle())
	cv.stamp(-1, 2, []string{"<>"}, lipgloss.NewStyle())

	got := strings.Split(plain(cv.String()), "\n")
	want := []string{"abXYefghij", "short  123", ">"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCanvasLaterStampCovers(t *testing.T) {
	cv := newCanvas(8, 1)
	cv.stamp(0, 0, []string{"aaaaaa"}, plainStyle)
	cv.stamp(2, 0, []string{"bb"}, plainStyle)
	if got := plain(cv.String()); got != "aabbaa" {
		t.Fatalf("got %q", got)
	}
}

func TestColumnsWideRunes(t *testing.T) {
	tests := []struct {
		s        string
		from, to int
		want     string
	}{
		{"日本語", 0, 4, "日本"},
		{"日本語", 1, 5, " 本 "},
		{"ab", 0, 4, "ab  "},
		{"ab", 3, 5, "  "},
		{"abc", 2, 2, ""},
	}
	for _, tt := range tests {
		if got := columns(tt.s, tt.from, tt.to); got != tt.want {
			t.Errorf("columns(%q, %d, %d) = %q, want %q", tt.s, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestMirror(t *testing.T) {
	if got := mirror("[▐oo▌>"); got != "<▐oo▌]" {
		t.Fatalf("mirror = %q", got)
	}
}

package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	want := []string{"about", "projects", "websites", "teaching", "logbook"}
	got := c.IDs()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	web, ok := c.Section("websites")
	if !ok || len(web.Entries) != 6 {
		t.Fatalf("websites section = %+v", web)
	}
	if _, ok := c.Section("nope"); ok {
		t.Fatalf("Section(nope) should not exist")
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "sections: []\n", ErrNoSections},
		{"no id", "sections:\n  - title: x\n", ErrEmptySectionID},
		{"duplicate", "sections:\n  - id: a\n  - id: a\n", ErrDuplicateSection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLayoutAnchorsTile(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	for _, width := range []int{20, 40, 80, 200} {
		d := c.Layout(width)
		if len(d.Anchors) != len(c.Sections) {
			t.Fatalf("width %d: %d anchors", width, len(d.Anchors))
		}
		next := 0
		for _, a := range d.Anchors {
			if a.Start != next || a.End <= a.Start {
				t.Fatalf("width %d: anchor %+v does not follow %d", width, a, next)
			}
			if d.Lines[a.Start].Kind != Heading {
				t.Fatalf("width %d: anchor %s does not start on a heading", width, a.ID)
			}
			next = a.End
		}
		if next != len(d.Lines) {
			t.Fatalf("width %d: anchors end at %d of %d lines", width, next, len(d.Lines))
		}
		for i, l := range d.Lines {
			if w := runewidth.StringWidth(l.Text); w > width {
				t.Fatalf("width %d: line %d is %d wide: %q", width, i, w, l.Text)
			}
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"", 10, []string{""}},
		{"one two three", 7, []string{"one two", "three"}},
		{"one two three", 100, []string{"one two three"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"ab  cd", 2, []string{"ab", "cd"}},
		{"日本語", 1, []string{"日", "本", "語"}},
	}
	for _, tt := range tests {
		got := Wrap(tt.text, tt.width)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

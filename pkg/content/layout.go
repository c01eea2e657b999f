package content

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Kind classifies a laid-out line so the renderer can style it.
type Kind int

const (
	Blank Kind = iota
	Heading
	Title
	Tag
	Body
	Meta
	LinkLine
)

// Line is one plain-text row of the document.
type Line struct {
	Text string
	Kind Kind
}

// Anchor marks the rows [Start, End) a section occupies.
type Anchor struct {
	ID    string
	Tag   string
	Start int
	End   int
}

// Document is a catalog laid out for a fixed width.
type Document struct {
	Lines   []Line
	Anchors []Anchor
}

// Anchor returns the anchor for a section id.
func (d Document) Anchor(id string) (Anchor, bool) {
	for _, a := range d.Anchors {
		if a.ID == id {
			return a, true
		}
	}
	return Anchor{}, false
}

// Texts returns the plain text of every line.
func (d Document) Texts() []string {
	out := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = l.Text
	}
	return out
}

// Layout renders c for width columns. Sections follow each other with
// one blank row; a section's anchor covers its trailing blank row so
// sections tile the document without gaps.
func (c *Catalog) Layout(width int) Document {
	if width < 20 {
		width = 20
	}
	var d Document
	add := func(kind Kind, text string) {
		d.Lines = append(d.Lines, Line{Text: text, Kind: kind})
	}
	wrapped := func(kind Kind, indent, text string) {
		if text == "" {
			return
		}
		for _, l := range Wrap(text, width-runewidth.StringWidth(indent)) {
			add(kind, indent+l)
		}
	}

	for _, s := range c.Sections {
		start := len(d.Lines)
		add(Heading, "# "+s.Title)
		if s.Intro != "" {
			wrapped(Body, "", s.Intro)
		}
		for _, e := range s.Entries {
			add(Blank, "")
			add(Title, runewidth.Truncate(e.Title, width, "…"))
			if e.Tag != "" {
				add(Tag, runewidth.Truncate("["+e.Tag+"]", width, "…"))
			}
			wrapped(Body, "  ", e.Description)
			if len(e.Meta) > 0 {
				wrapped(Meta, "  ", strings.Join(e.Meta, " · "))
			}
			for _, l := range e.Links {
				add(LinkLine, runewidth.Truncate("  → "+l.Label+": "+l.Href, width, "…"))
			}
		}
		add(Blank, "")
		d.Anchors = append(d.Anchors, Anchor{ID: s.ID, Tag: s.Tag, Start: start, End: len(d.Lines)})
	}
	return d
}

// Wrap breaks text into lines of at most width display columns, on
// spaces where possible. Words wider than width are hard-cut.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var (
		lines []string
		cur   strings.Builder
		curW  int
	)
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curW = 0
	}
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		for w > width {
			if curW > 0 {
				flush()
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if w == 0 {
			continue
		}
		switch {
		case curW == 0:
		case curW+1+w <= width:
			cur.WriteByte(' ')
			curW++
		default:
			flush()
		}
		cur.WriteString(word)
		curW += w
	}
	if curW > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

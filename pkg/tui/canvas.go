package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type segment struct {
	col   int
	text  string
	width int
	style lipgloss.Style
}

// canvas composes styled overlays over plain base lines. Widths are
// measured with runewidth; a wide rune cut by an overlay edge becomes a
// space.
type canvas struct {
	width  int
	base   []string
	styles []lipgloss.Style
	segs   [][]segment
}

func newCanvas(width, rows int) *canvas {
	c := &canvas{
		width:  width,
		base:   make([]string, rows),
		styles: make([]lipgloss.Style, rows),
		segs:   make([][]segment, rows),
	}
	for i := range c.styles {
		c.styles[i] = plainStyle
	}
	return c
}

func (c *canvas) setLine(row int, text string, style lipgloss.Style) {
	if row < 0 || row >= len(c.base) {
		return
	}
	c.base[row] = text
	c.styles[row] = style
}

// stamp draws plain lines at (col,row) in style, clipped to the canvas.
// Later stamps cover earlier ones.
func (c *canvas) stamp(col, row int, lines []string, style lipgloss.Style) {
	for i, line := range lines {
		r := row + i
		if r < 0 || r >= len(c.base) {
			continue
		}
		w := runewidth.StringWidth(line)
		from, to := col, col+w
		if from < 0 {
			from = 0
		}
		if to > c.width {
			to = c.width
		}
		if from >= to {
			continue
		}
		text := columns(line, from-col, to-col)
		c.segs[r] = cover(c.segs[r], segment{col: from, text: text, width: to - from, style: style})
	}
}

// cover inserts s, trimming or dropping segments it overlaps.
func cover(segs []segment, s segment) []segment {
	out := segs[:0:0]
	for _, o := range segs {
		oEnd, sEnd := o.col+o.width, s.col+s.width
		if oEnd <= s.col || o.col >= sEnd {
			out = append(out, o)
			continue
		}
		if o.col < s.col {
			left := o
			left.text = columns(o.text, 0, s.col-o.col)
			left.width = s.col - o.col
			out = append(out, left)
		}
		if oEnd > sEnd {
			right := o
			right.text = columns(o.text, sEnd-o.col, o.width)
			right.col = sEnd
			right.width = oEnd - sEnd
			out = append(out, right)
		}
	}
	out = append(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].col < out[j].col })
	return out
}

func (c *canvas) String() string {
	var b strings.Builder
	for row := range c.base {
		if row > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.renderRow(row))
	}
	return b.String()
}

func (c *canvas) renderRow(row int) string {
	base, style := c.base[row], c.styles[row]
	var b strings.Builder
	pos := 0
	for _, s := range c.segs[row] {
		if s.col > pos {
			b.WriteString(style.Render(columns(base, pos, s.col)))
		}
		b.WriteString(s.style.Render(s.text))
		pos = s.col + s.width
	}
	if len(c.segs[row]) == 0 {
		return style.Render(runewidth.Truncate(base, c.width, ""))
	}
	if rest := columns(base, pos, c.width); strings.TrimRight(rest, " ") != "" {
		b.WriteString(style.Render(rest))
	}
	return b.String()
}

// columns returns display columns [from, to) of s, padded with spaces
// when s is shorter.
func columns(s string, from, to int) string {
	if to <= from {
		return ""
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if col >= to {
			break
		}
		switch {
		case col >= from && col+w <= to:
			b.WriteRune(r)
		case col+w > from && col < to:
			// straddles an edge
			for i := col; i < col+w; i++ {
				if i >= from && i < to {
					b.WriteByte(' ')
				}
			}
		}
		col += w
	}
	if col < from {
		col = from
	}
	for ; col < to; col++ {
		b.WriteByte(' ')
	}
	return b.String()
}

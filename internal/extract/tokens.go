// Package extract reconstructs towing-guide capacity tables from positioned
// text tokens and flattened page text. The PDF text layer splits numbers and
// ratios across glyph runs and aligns table cells by horizontal coordinate,
// so everything here works on (y, x, text) tokens rather than a text dump.
package extract

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Token is one positioned glyph run from a page's text stream.
type Token struct {
	Y    float64
	X    float64
	Text string
}

// Positioned is a token reduced to its horizontal position.
type Positioned struct {
	X    float64
	Text string
}

// Line is one visual line: tokens sharing a rounded vertical position,
// ordered left to right with fragments merged.
type Line struct {
	Y      float64
	Tokens []Positioned
}

// Text joins the line's tokens with single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Tokens))
	for i, t := range l.Tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

var (
	loneDigitRe   = regexp.MustCompile(`^\d$`)
	commaNumTailRe = regexp.MustCompile(`^\d{1,3},\d{3}\d?$`)
)

// GroupLines buckets tokens into lines by vertical position rounded to one
// decimal, sorts each line by x, merges split fragments, and returns lines
// top-down (descending y, PDF coordinates grow upward).
func GroupLines(tokens []Token) []Line {
	buckets := make(map[float64][]Positioned)
	for _, tok := range tokens {
		s := strings.TrimSpace(tok.Text)
		if s == "" {
			continue
		}
		y := math.Round(tok.Y*10) / 10
		buckets[y] = append(buckets[y], Positioned{X: tok.X, Text: s})
	}

	lines := make([]Line, 0, len(buckets))
	for y, toks := range buckets {
		sort.Slice(toks, func(i, j int) bool { return toks[i].X < toks[j].X })
		lines = append(lines, Line{Y: y, Tokens: mergeFragments(toks)})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Y > lines[j].Y })
	return lines
}

// mergeFragments joins adjacent tokens that are clearly halves of one value:
// a lone leading digit before a comma-grouped number ("1" + "2,300"), a token
// ending in "," or "." before a token starting with a digit.
func mergeFragments(toks []Positioned) []Positioned {
	out := make([]Positioned, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		cur := toks[i]
		if i+1 < len(toks) {
			next := toks[i+1]
			startsDigit := next.Text != "" && next.Text[0] >= '0' && next.Text[0] <= '9'
			switch {
			case loneDigitRe.MatchString(cur.Text) && commaNumTailRe.MatchString(next.Text):
				out = append(out, Positioned{X: cur.X, Text: cur.Text + next.Text})
				i++
				continue
			case strings.HasSuffix(cur.Text, ",") && startsDigit:
				out = append(out, Positioned{X: cur.X, Text: cur.Text + next.Text})
				i++
				continue
			case strings.HasSuffix(cur.Text, ".") && startsDigit:
				out = append(out, Positioned{X: cur.X, Text: cur.Text + next.Text})
				i++
				continue
			}
		}
		out = append(out, cur)
	}
	return out
}

// Package pdf adapts the two PDF backends to the extraction pipeline's page
// sources: glyph-run positions for column reconstruction and flattened text
// for the pattern paths. Pages are addressed zero-based throughout, matching
// the edition profile's page map.
package pdf

import (
	"fmt"
	"os"
	"sort"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/stonebridge-motors/towguide/internal/extract"
)

// Characters on one baseline separated by less than this many points belong
// to the same word.
const wordGapPts = 3.0

// A baseline shift below this is jitter within the same printed line.
const baselineTolPts = 0.5

// TokenReader exposes positioned word tokens from a guide PDF.
type TokenReader struct {
	f *os.File
	r *lpdf.Reader
}

// OpenTokens opens a PDF for positioned token extraction. The caller owns
// Close.
func OpenTokens(path string) (*TokenReader, error) {
	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &TokenReader{f: f, r: r}, nil
}

func (tr *TokenReader) Close() error { return tr.f.Close() }

func (tr *TokenReader) PageCount() int { return tr.r.NumPage() }

// PageTokens assembles a page's per-character glyph runs into word tokens.
func (tr *TokenReader) PageTokens(page int) (tokens []extract.Token, err error) {
	// The content-stream parser panics on malformed operators instead of
	// returning an error; a bad page degrades to a skip upstream.
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = fmt.Errorf("page %d content parse: %v", page, r)
		}
	}()

	p := tr.r.Page(page + 1)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d not present", page)
	}

	chars := p.Content().Text
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].Y != chars[j].Y {
			return chars[i].Y > chars[j].Y
		}
		return chars[i].X < chars[j].X
	})

	var cur *extract.Token
	var lastEnd float64
	for _, ch := range chars {
		switch ch.S {
		case "":
			continue
		case " ":
			cur = nil
			continue
		}
		if cur != nil && abs(cur.Y-ch.Y) < baselineTolPts && ch.X-lastEnd <= wordGapPts {
			cur.Text += ch.S
		} else {
			tokens = append(tokens, extract.Token{Y: ch.Y, X: ch.X, Text: ch.S})
			cur = &tokens[len(tokens)-1]
		}
		lastEnd = ch.X + ch.W
	}
	return tokens, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

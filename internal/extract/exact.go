package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/stonebridge-motors/towguide/internal/guide"
)

var (
	engineStartRe = regexp.MustCompile(`\b(\d\.\dL|Electric)\b`)
	ratioTokenRe  = regexp.MustCompile(`^\d\.\d{2}(?:/\d\.\d{2})?$`)
	rowCellRe     = regexp.MustCompile(`^\d{1,3},\d{3}\d?(?:/\d{1,3},\d{3}\d?)?$`)
	commaNumRe    = regexp.MustCompile(`\d{1,3},\d{3}`)
)

// PageLines is one page's grouped lines, tagged with its 0-based page index.
type PageLines struct {
	Index int
	Lines []Line
}

// columnKey identifies a selector column across pages. Bed length is derived
// from the key, so it is not part of it.
type columnKey struct {
	drivetrain string
	wheelbase  float64
	cab        guide.Cab
}

// headerCell is one wheelbase column read off a header line.
type headerCell struct {
	x          float64
	drivetrain string
	wheelbase  float64
}

// anchor ties a page-local column x position to a unified column index.
type anchor struct {
	x   float64
	col int
}

// rowState carries the sticky engine/ratio values forward across lines: the
// guide prints an engine and ratio once and lets wheelbase variants repeat on
// following rows.
type rowState struct {
	engine string
	ratio  string
}

// ExtractExactTable reconstructs a column-accurate selector table from one or
// more pages of positioned lines. Returns nil when no header can be found on
// any page; callers then fall back to the lossy selector path.
func ExtractExactTable(pages []PageLines, profile *guide.EditionProfile) *guide.ExactTable {
	type pendingCol struct {
		key columnKey
		bed *float64
		x   float64
	}

	// Pass 1: unify columns across pages. Header x positions give the column
	// order; (drivetrain, wheelbase, cab) is the cross-page identity.
	var cols []pendingCol
	seen := make(map[columnKey]bool)
	for _, page := range pages {
		cells, ok := findHeader(page.Lines)
		if !ok {
			continue
		}
		cabs, known := profile.CabForColumns(wheelbases(cells))
		for i, cell := range cells {
			if !known[i] {
				continue
			}
			key := columnKey{cell.drivetrain, cell.wheelbase, cabs[i]}
			if seen[key] {
				continue
			}
			seen[key] = true
			cols = append(cols, pendingCol{
				key: key,
				bed: profile.BedLengthFor(cabs[i], cell.wheelbase),
				x:   cell.x,
			})
		}
	}
	if len(cols) == 0 {
		return nil
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].x < cols[j].x })

	table := &guide.ExactTable{Columns: make([]guide.ColumnSpec, len(cols))}
	colIndex := make(map[columnKey]int, len(cols))
	for i, c := range cols {
		colIndex[c.key] = i
		table.Columns[i] = guide.ColumnSpec{
			Drivetrain: c.key.drivetrain,
			Wheelbase:  c.key.wheelbase,
			Cab:        c.key.cab,
			BedLength:  c.bed,
		}
	}

	// Pass 2: parse data rows page by page, projecting cells into the
	// unified column list by nearest header anchor.
	var rows []guide.ExactRow
	for _, page := range pages {
		cells, ok := findHeader(page.Lines)
		if !ok {
			continue
		}
		cabs, known := profile.CabForColumns(wheelbases(cells))
		var anchors []anchor
		for i, cell := range cells {
			if !known[i] {
				continue
			}
			if idx, ok := colIndex[columnKey{cell.drivetrain, cell.wheelbase, cabs[i]}]; ok {
				anchors = append(anchors, anchor{x: cell.x, col: idx})
			}
		}
		rows = append(rows, parsePageRows(page.Lines, anchors, len(table.Columns))...)
	}

	table.Rows = dedupeRows(rows)
	return table
}

// findHeader locates the table header line: wheelbase markers plus at least
// one of the Engine/GCWR/Ratio labels. The labels may land on a separate line
// in some extractions, so the test stays loose.
func findHeader(lines []Line) ([]headerCell, bool) {
	for _, line := range lines {
		text := line.Text()
		if !strings.Contains(text, "WB") {
			continue
		}
		if !strings.Contains(text, "Engine") && !strings.Contains(text, "GCWR") && !strings.Contains(text, "Ratio") {
			continue
		}
		var cells []headerCell
		for _, tok := range line.Tokens {
			if !strings.Contains(tok.Text, "WB") {
				continue
			}
			wb, ok := parseWheelbaseToken(tok.Text)
			if !ok {
				continue
			}
			dt, ok := drivetrainFromToken(tok.Text)
			if !ok {
				continue
			}
			cells = append(cells, headerCell{x: tok.X, drivetrain: dt, wheelbase: wb})
		}
		if len(cells) == 0 {
			continue
		}
		sort.Slice(cells, func(i, j int) bool { return cells[i].x < cells[j].x })
		return cells, true
	}
	return nil, false
}

// parsePageRows folds over one page's lines with sticky engine/ratio state.
func parsePageRows(lines []Line, anchors []anchor, columnCount int) []guide.ExactRow {
	var rows []guide.ExactRow
	var state rowState

	for _, line := range lines {
		text := line.Text()
		if strings.HasPrefix(text, "Notes:") || strings.Contains(text, "Calculated with SAE") {
			continue
		}
		if !commaNumRe.MatchString(text) {
			continue
		}
		if strings.Contains(text, "Engine") && strings.Contains(text, "Ratio") && strings.Contains(text, "WB") {
			continue
		}

		if eng := engineLabel(line.Tokens); eng != "" {
			state.engine = eng
		}
		for _, tok := range line.Tokens {
			if ratioTokenRe.MatchString(tok.Text) {
				state.ratio = tok.Text
				break
			}
		}
		if state.engine == "" || state.ratio == "" {
			continue
		}

		var numToks []Positioned
		for _, tok := range line.Tokens {
			if rowCellRe.MatchString(tok.Text) {
				numToks = append(numToks, tok)
			}
		}
		if len(numToks) < 2 {
			// A row needs a GCWR plus at least one capacity cell.
			continue
		}
		sort.Slice(numToks, func(i, j int) bool { return numToks[i].X < numToks[j].X })

		gcwr, ok := parseIntToken(numToks[0].Text)
		if !ok {
			continue
		}

		values := make([]guide.Cell, columnCount)
		for _, cell := range numToks[1:] {
			idx, ok := nearestAnchor(anchors, cell.X)
			if !ok {
				continue
			}
			values[idx] = parseCell(cell.Text)
		}

		rows = append(rows, guide.ExactRow{
			Engine:    state.engine,
			AxleRatio: state.ratio,
			GCWRLbs:   gcwr,
			Values:    values,
		})
	}
	return rows
}

// engineLabel extracts an engine label from a row's tokens: the text up to
// the axle-ratio token, provided it contains a displacement or "Electric".
func engineLabel(toks []Positioned) string {
	joined := make([]string, len(toks))
	for i, t := range toks {
		joined[i] = t.Text
	}
	if !engineStartRe.MatchString(strings.Join(joined, " ")) {
		return ""
	}
	var parts []string
	for _, t := range toks {
		if ratioTokenRe.MatchString(t.Text) {
			break
		}
		parts = append(parts, t.Text)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// nearestAnchor assigns a cell to the closest header column by x. Row token
// positions never line up exactly with the header's, so proximity is the
// join, not equality.
func nearestAnchor(anchors []anchor, x float64) (int, bool) {
	if len(anchors) == 0 {
		return 0, false
	}
	best := anchors[0]
	bestDist := absf(anchors[0].x - x)
	for _, a := range anchors[1:] {
		if d := absf(a.x - x); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best.col, true
}

// parseCell parses a capacity cell, splitting slash forms into variants.
func parseCell(tok string) guide.Cell {
	var vals []int
	for _, part := range strings.Split(tok, "/") {
		if n, ok := parseIntToken(part); ok {
			vals = append(vals, n)
		}
	}
	return guide.CellOf(vals...)
}

// dedupeRows collapses identical rows extracted from overlapping regions,
// preserving first-seen order.
func dedupeRows(rows []guide.ExactRow) []guide.ExactRow {
	seen := make(map[string]bool, len(rows))
	out := make([]guide.ExactRow, 0, len(rows))
	for _, r := range rows {
		key := fmt.Sprintf("%s|%s|%d|%v", r.Engine, r.AxleRatio, r.GCWRLbs, r.Values)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func wheelbases(cells []headerCell) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = c.wheelbase
	}
	return out
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stonebridge-motors/towguide/internal/guide"
)

// headerLine builds a three-column selector header: two Regular Cab
// wheelbases and one SuperCrew, as the conventional table prints them.
func headerLine(y float64) []Token {
	return []Token{
		{Y: y, X: 40, Text: "Engine"},
		{Y: y, X: 140, Text: "Ratio"},
		{Y: y, X: 200, Text: "GCWR"},
		{Y: y, X: 260, Text: `4x2 122.8" WB`},
		{Y: y, X: 360, Text: `4x2 141.5" WB`},
		{Y: y, X: 460, Text: `4x4 157.2" WB`},
	}
}

func testPage(t *testing.T) PageLines {
	t.Helper()
	tokens := headerLine(700)
	// Full row: engine, ratio, GCWR, three cells (one slash variant, one
	// with a fused footnote digit).
	tokens = append(tokens,
		Token{Y: 680, X: 40, Text: "3.5L"},
		Token{Y: 680, X: 70, Text: "EcoBoost"},
		Token{Y: 680, X: 140, Text: "3.55"},
		Token{Y: 680, X: 200, Text: "17,100"},
		Token{Y: 680, X: 260, Text: "12,300/13,500"},
		Token{Y: 680, X: 360, Text: "12,100"},
		Token{Y: 680, X: 460, Text: "13,5004"},
	)
	// Continuation row: ratio changes, engine carries over, only the first
	// column is offered.
	tokens = append(tokens,
		Token{Y: 660, X: 140, Text: "3.31"},
		Token{Y: 660, X: 200, Text: "15,000"},
		Token{Y: 660, X: 262, Text: "11,500"},
	)
	// Footer noise.
	tokens = append(tokens,
		Token{Y: 640, X: 40, Text: "Notes:"},
		Token{Y: 640, X: 80, Text: "Calculated with SAE J2807 method. 10,000"},
	)
	return PageLines{Index: 14, Lines: GroupLines(tokens)}
}

func TestExtractExactTable_Columns(t *testing.T) {
	profile := guide.Edition2025()
	table := ExtractExactTable([]PageLines{testPage(t)}, profile)

	require.NotNil(t, table)
	require.Len(t, table.Columns, 3)

	assert.Equal(t, "4x2", table.Columns[0].Drivetrain)
	assert.Equal(t, 122.8, table.Columns[0].Wheelbase)
	assert.Equal(t, guide.CabRegular, table.Columns[0].Cab)
	require.NotNil(t, table.Columns[0].BedLength)
	assert.Equal(t, 6.5, *table.Columns[0].BedLength)

	assert.Equal(t, 141.5, table.Columns[1].Wheelbase)
	require.NotNil(t, table.Columns[1].BedLength)
	assert.Equal(t, 8.0, *table.Columns[1].BedLength)

	assert.Equal(t, "4x4", table.Columns[2].Drivetrain)
	assert.Equal(t, guide.CabSuperCrew, table.Columns[2].Cab)
}

func TestExtractExactTable_RowsAndCells(t *testing.T) {
	profile := guide.Edition2025()
	table := ExtractExactTable([]PageLines{testPage(t)}, profile)

	require.NotNil(t, table)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, "3.5L EcoBoost", first.Engine)
	assert.Equal(t, "3.55", first.AxleRatio)
	assert.Equal(t, 17100, first.GCWRLbs)
	require.Len(t, first.Values, 3)
	assert.Equal(t, []int{12300, 13500}, first.Values[0].Values())
	assert.Equal(t, []int{12100}, first.Values[1].Values())
	// The fused footnote digit is trimmed.
	assert.Equal(t, []int{13500}, first.Values[2].Values())
}

func TestExtractExactTable_StickyEngineAcrossRatioRows(t *testing.T) {
	profile := guide.Edition2025()
	table := ExtractExactTable([]PageLines{testPage(t)}, profile)

	require.NotNil(t, table)
	require.Len(t, table.Rows, 2)

	second := table.Rows[1]
	assert.Equal(t, "3.5L EcoBoost", second.Engine)
	assert.Equal(t, "3.31", second.AxleRatio)
	assert.Equal(t, 15000, second.GCWRLbs)
	assert.Equal(t, []int{11500}, second.Values[0].Values())
	assert.True(t, second.Values[1].IsNull())
	assert.True(t, second.Values[2].IsNull())
}

func TestExtractExactTable_DedupesAcrossPages(t *testing.T) {
	profile := guide.Edition2025()
	page := testPage(t)
	table := ExtractExactTable([]PageLines{page, page}, profile)

	require.NotNil(t, table)
	assert.Len(t, table.Columns, 3)
	assert.Len(t, table.Rows, 2)
}

func TestExtractExactTable_NoHeader(t *testing.T) {
	profile := guide.Edition2025()
	tokens := []Token{
		{Y: 700, X: 40, Text: "SUPER"},
		{Y: 700, X: 100, Text: "DUTY"},
		{Y: 680, X: 40, Text: "28,000"},
	}
	page := PageLines{Index: 19, Lines: GroupLines(tokens)}

	assert.Nil(t, ExtractExactTable([]PageLines{page}, profile))
}

func TestExtractExactTable_SharedWheelbaseSplitsSuperCabSuperCrew(t *testing.T) {
	profile := guide.Edition2025()
	tokens := []Token{
		{Y: 700, X: 40, Text: "Engine"},
		{Y: 700, X: 140, Text: "Ratio"},
		{Y: 700, X: 260, Text: `4x2 145.4" WB`},
		{Y: 700, X: 360, Text: `4x4 145.4" WB`},
		{Y: 700, X: 460, Text: `4x2 145.4" WB`},
		{Y: 680, X: 40, Text: "2.7L"},
		{Y: 680, X: 70, Text: "EcoBoost"},
		{Y: 680, X: 140, Text: "3.55"},
		{Y: 680, X: 200, Text: "13,500"},
		{Y: 680, X: 260, Text: "8,400"},
	}
	// The duplicate 4x2 key collapses after the cab split assigns SuperCab
	// to the first two occurrences and SuperCrew to the rest.
	table := ExtractExactTable([]PageLines{{Index: 14, Lines: GroupLines(tokens)}}, profile)

	require.NotNil(t, table)
	require.Len(t, table.Columns, 3)
	assert.Equal(t, guide.CabSuperCab, table.Columns[0].Cab)
	assert.Equal(t, guide.CabSuperCab, table.Columns[1].Cab)
	assert.Equal(t, guide.CabSuperCrew, table.Columns[2].Cab)
}

func TestFindHeader_RequiresLabelAndWheelbases(t *testing.T) {
	lines := GroupLines([]Token{
		{Y: 700, X: 40, Text: "Engine"},
		{Y: 700, X: 260, Text: `4x2 122.8" WB`},
	})
	cells, ok := findHeader(lines)
	require.True(t, ok)
	require.Len(t, cells, 1)
	assert.Equal(t, 122.8, cells[0].wheelbase)

	// A WB mention without any of the table labels is not a header.
	lines = GroupLines([]Token{
		{Y: 700, X: 40, Text: `141.5" WB models carry more`},
	})
	_, ok = findHeader(lines)
	assert.False(t, ok)
}

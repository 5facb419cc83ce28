package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const f150PerformancePage = `2025 F-150 ENGINE PERFORMANCE
Engine Horsepower Torque Max Towing (lbs.) Max Payload (lbs.)
2.7L EcoBoost V6 325 @ 5,000 400 @ 3,000 8,400 2,416
3.5L EcoBoost V6 400 @ 6,000 500 @ 3,100 13,500 3,309
5.0L V8 400 @ 6,000 410 @ 4,250 13,000 3,315
3.5L PowerBoost Full Hybrid V6 430 @ 6,000 570 @ 3,000 11,200 2,445
Available Max Towing Package required for maximum ratings 13,500 2,455
`

func TestExtractPerformanceTable_ParsesEngineRows(t *testing.T) {
	perf := ExtractPerformanceTable(f150PerformancePage)

	require.Len(t, perf, 4)

	eco35 := perf["3.5L EcoBoost V6"]
	assert.Equal(t, 13500, eco35.MaxTowingLbs)
	assert.Equal(t, 3309, eco35.MaxPayloadLbs)

	hybrid := perf["3.5L PowerBoost Full Hybrid V6"]
	assert.Equal(t, 11200, hybrid.MaxTowingLbs)
	assert.Equal(t, 2445, hybrid.MaxPayloadLbs)
}

func TestExtractPerformanceTable_SkipsHeaderAndFootnoteLines(t *testing.T) {
	perf := ExtractPerformanceTable(f150PerformancePage)

	for key := range perf {
		assert.NotContains(t, key, "Max Towing")
		assert.NotContains(t, key, "Available")
	}
}

func TestExtractPerformanceTable_SanityBounds(t *testing.T) {
	// A misparsed row whose trailing number is a tow figure, and one whose
	// tow column caught a torque value.
	text := "6.7L Diesel V8 475 @ 2,600 30,000 25,000\n" +
		"6.8L Gas V8 405 @ 5,500 1,050 2,400\n"
	perf := ExtractPerformanceTable(text)

	assert.Empty(t, perf)
}

func TestExtractPerformanceTable_EmptyPage(t *testing.T) {
	assert.Empty(t, ExtractPerformanceTable(""))
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maverickPageText = `2025 MAVERICK
Engine Axle Ratio GCWR (lbs.) Max Trailer (lbs.) GCWR (lbs.) Max Trailer (lbs.) GCWR (lbs.) Max Trailer (lbs.)
FWD AWD AWD with 4K Tow Package
2.5L I4 Hybri d 3.80 6,000 2,000 6,050 2,000 7,700 4,000
2.0L EcoBoos t ® I4 3.81 6,200 2,000 6,250 2,000 7,900 4,000
`

const rangerPageText = `2025 RANGER
4x2 4x4
2.3L EcoBoos t ® I4 3.73 9,500 7,500 9,600 7,500
2.7L EcoBoos t V6 3.73 13,500 11,500
3.0L EcoBoos t V6 3.73 13,500 11,500
`

func TestExtractMaverick_ParsesBothEngines(t *testing.T) {
	rows := ExtractMaverick(maverickPageText)

	require.Len(t, rows, 2)

	hybrid := rows[0]
	assert.Equal(t, "2.5L I4 Hybrid", hybrid.Engine)
	assert.Equal(t, 3.80, hybrid.AxleRatio)
	require.Len(t, hybrid.Variants, 3)

	assert.Equal(t, "FWD", hybrid.Variants[0].Drivetrain)
	require.NotNil(t, hybrid.Variants[0].MaxTrailerLbs)
	assert.Equal(t, 2000, *hybrid.Variants[0].MaxTrailerLbs)

	tow4k := hybrid.Variants[2]
	assert.Equal(t, "AWD", tow4k.Drivetrain)
	assert.Equal(t, []string{"4K Tow Package"}, tow4k.Requires)
	require.NotNil(t, tow4k.GCWRLbs)
	assert.Equal(t, 7700, *tow4k.GCWRLbs)
	require.NotNil(t, tow4k.MaxTrailerLbs)
	assert.Equal(t, 4000, *tow4k.MaxTrailerLbs)

	assert.Equal(t, "2.0L EcoBoost I4", rows[1].Engine)
}

func TestExtractRanger_ParsesAllEngines(t *testing.T) {
	rows := ExtractRanger(rangerPageText)

	require.Len(t, rows, 3)

	base := rows[0]
	assert.Equal(t, "2.3L EcoBoost I4", base.Engine)
	require.Len(t, base.Variants, 2)
	assert.Equal(t, "4x2", base.Variants[0].Drivetrain)
	assert.Equal(t, "4x4", base.Variants[1].Drivetrain)
	require.NotNil(t, base.Variants[0].MaxTrailerLbs)
	assert.Equal(t, 7500, *base.Variants[0].MaxTrailerLbs)

	v6 := rows[1]
	assert.Equal(t, "2.7L EcoBoost V6", v6.Engine)
	require.Len(t, v6.Variants, 1)
	assert.Equal(t, "4x4", v6.Variants[0].Drivetrain)
	require.NotNil(t, v6.Variants[0].GCWRLbs)
	assert.Equal(t, 13500, *v6.Variants[0].GCWRLbs)
}

func TestExtractMaverick_NoMatches(t *testing.T) {
	assert.Empty(t, ExtractMaverick("nothing resembling the table"))
}

func TestCleanEngineLabel(t *testing.T) {
	assert.Equal(t, "2.0L EcoBoost I4", cleanEngineLabel("2.0L  EcoBoos t ® I4"))
	assert.Equal(t, "2.5L I4 Hybrid", cleanEngineLabel("2.5L I4 Hybri d"))
}

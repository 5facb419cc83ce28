package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stonebridge-motors/towguide/internal/guide"
	"github.com/stonebridge-motors/towguide/internal/storage"
)

func floatPtr(f float64) *float64 { return &f }
func testIntPtr(n int) *int       { return &n }

// testDocument builds a small guide document covering the three resolution
// paths: exact tables for F-150, lossy selectors for Super Duty, and
// pattern-extracted trailer rows for Maverick.
func testDocument() *guide.GuideDocument {
	f150Conv := &guide.ExactTable{
		Columns: []guide.ColumnSpec{
			{Drivetrain: "4x2", Wheelbase: 122.8, Cab: guide.CabRegular, BedLength: floatPtr(6.5)},
			{Drivetrain: "4x4", Wheelbase: 145.4, Cab: guide.CabSuperCrew, BedLength: floatPtr(5.5)},
		},
		Rows: []guide.ExactRow{
			{Engine: "3.5L EcoBoost V6", AxleRatio: "3.55", GCWRLbs: 19500,
				Values: []guide.Cell{guide.CellOf(12000), guide.CellOf(13300)}},
			{Engine: "3.5L EcoBoost V6", AxleRatio: "3.15/3.55", GCWRLbs: 17100,
				Values: []guide.Cell{guide.CellOf(11500), {}}},
			{Engine: "2.7L EcoBoost V6", AxleRatio: "3.55", GCWRLbs: 15000,
				Values: []guide.Cell{guide.CellOf(8000), guide.CellOf(8400)}},
			{Engine: "5.0L V8", AxleRatio: "3.73", GCWRLbs: 19000,
				Values: []guide.Cell{guide.CellOf(12200), guide.CellOf(12700, 13200)}},
		},
	}
	f150Fifth := &guide.ExactTable{
		Columns: []guide.ColumnSpec{
			{Drivetrain: "4x4", Wheelbase: 145.4, Cab: guide.CabSuperCrew, BedLength: floatPtr(5.5)},
		},
		Rows: []guide.ExactRow{
			{Engine: "3.5L EcoBoost V6", AxleRatio: "3.55", GCWRLbs: 19500,
				Values: []guide.Cell{guide.CellOf(13000)}},
		},
	}

	return &guide.GuideDocument{
		Year: 2025,
		Models: map[string]*guide.ModelCapacity{
			"F-150": {
				PerformanceByEngine: map[string]guide.EnginePerformance{
					"3.5L EcoBoost V6": {MaxTowingLbs: 13500, MaxPayloadLbs: 3309},
					"2.7L EcoBoost V6": {MaxTowingLbs: 8400, MaxPayloadLbs: 2416},
					"5.0L V8":          {MaxTowingLbs: 13000, MaxPayloadLbs: 3315},
				},
				SelectorsExact: map[string]*guide.ExactTable{
					"conventional":          f150Conv,
					"fifth_wheel_gooseneck": f150Fifth,
				},
				Selectors: map[string]*guide.SelectorSection{
					"conventional": {
						Name: "conventional",
						ByEngine: map[string]*guide.EngineAccumulator{
							"3.5L EcoBoost V6": {TowValuesLbs: []int{11000, 13500}},
							"2.7L EcoBoost V6": {TowValuesLbs: []int{7600, 8400}},
						},
					},
					"fifth_wheel_gooseneck": {
						Name: "fifth_wheel_gooseneck",
						ByEngine: map[string]*guide.EngineAccumulator{
							"3.5L EcoBoost V6": {TowValuesLbs: []int{12500, 13500}},
						},
					},
				},
			},
			"Super Duty": {
				Selectors: map[string]*guide.SelectorSection{
					"f250_conventional": {
						Name: "f250_conventional",
						ByEngine: map[string]*guide.EngineAccumulator{
							"6.8L Gas V8": {TowValuesLbs: []int{12300, 14700}},
						},
					},
					"f250_fifth_wheel_gooseneck": {
						Name: "f250_fifth_wheel_gooseneck",
						ByEngine: map[string]*guide.EngineAccumulator{
							"6.8L Gas V8": {TowValuesLbs: []int{13000, 15000}},
						},
					},
				},
			},
			"Maverick": {
				TrailerRows: []guide.EngineTrailerRow{
					{Engine: "2.5L I4 Hybrid", AxleRatio: 3.80, Variants: []guide.TrailerVariant{
						{Drivetrain: "FWD", GCWRLbs: testIntPtr(6000), MaxTrailerLbs: testIntPtr(2000)},
						{Drivetrain: "AWD", GCWRLbs: testIntPtr(6050), MaxTrailerLbs: testIntPtr(2000)},
						{Drivetrain: "AWD", GCWRLbs: testIntPtr(7700), MaxTrailerLbs: testIntPtr(4000),
							Requires: []string{"4K Tow Package"}},
					}},
				},
			},
		},
	}
}

func testResolver() *Resolver {
	return NewResolver(testDocument(), guide.Edition2025(), nil)
}

func f150SuperCrew() *storage.VehicleRecord {
	return &storage.VehicleRecord{
		VIN:            "1FTFW1ED5PFA00001",
		Model:          "F-150",
		Trim:           "Lariat",
		Drivetrain:     "4X4",
		Engine:         "3.5L V6 EcoBoost",
		TruckBodyStyle: "SuperCrew",
		Wheelbase:      floatPtr(145.4),
		BedLength:      floatPtr(5.5),
		OptionalJSON:   `["3.55 RATIO REGULAR AXLE"]`,
	}
}

func TestResolver_Resolve_ExactHit(t *testing.T) {
	result := testResolver().Resolve(f150SuperCrew())

	assert.Equal(t, "F-150", result.Model)
	assert.Equal(t, 2025, result.Year)
	assert.Empty(t, result.MissingInputs)

	assert.Equal(t, 13300, result.Results[KeyConventionalTow])
	assert.Equal(t, 19500, result.Results[KeyGCWR])
	assert.Equal(t, 13000, result.Results[KeyFifthWheelTow])
	assert.Equal(t, 13000, result.Results[KeyGooseneckTow])
	assert.Equal(t, "3.5L EcoBoost V6", result.Results[KeyMatchedEngine])
	assert.Equal(t, "3.55", result.Results[KeyMatchedAxleRatio])

	assert.Equal(t, 3309, result.Results[KeyMaxPayload])
	assert.Equal(t, 13500, result.Results[KeyPerformanceTow])
}

func TestResolver_Resolve_MissingAxleRatioFallsBackToRange(t *testing.T) {
	v := f150SuperCrew()
	v.OptionalJSON = ""

	result := testResolver().Resolve(v)

	assert.Contains(t, result.MissingInputs, MissingAxleRatio)
	assert.Equal(t, Range{Min: 11000, Max: 13500}, result.Results[KeyConventionalTow])
	assert.Equal(t, Range{Min: 12500, Max: 13500}, result.Results[KeyFifthWheelTow])
	assert.Equal(t, Range{Min: 12500, Max: 13500}, result.Results[KeyGooseneckTow])
	// No cell was read, so no GCWR either.
	assert.NotContains(t, result.Results, KeyGCWR)
}

func TestResolver_Resolve_MissingInputsReported(t *testing.T) {
	v := &storage.VehicleRecord{Model: "F-150"}

	result := testResolver().Resolve(v)

	assert.ElementsMatch(t,
		[]string{MissingEngine, MissingDrivetrain, MissingCab, MissingAxleRatio},
		result.MissingInputs)
}

func TestResolver_Resolve_CompactModelSkipsExactInputs(t *testing.T) {
	v := &storage.VehicleRecord{Model: "Maverick", Drivetrain: "AWD", Engine: "2.5L I4 Hybrid"}

	result := testResolver().Resolve(v)

	assert.ElementsMatch(t, []string{}, result.MissingInputs)
}

func TestResolver_Resolve_SlashRatioRowMatches(t *testing.T) {
	v := f150SuperCrew()
	v.TruckBodyStyle = "Regular Cab"
	v.Drivetrain = "4X2"
	v.Wheelbase = floatPtr(122.8)
	v.BedLength = floatPtr(6.5)
	v.OptionalJSON = `["3.15 RATIO AXLE"]`

	result := testResolver().Resolve(v)

	// Only the 3.15/3.55 row matches ratio 3.15; it reads the Regular Cab
	// column.
	assert.Equal(t, 11500, result.Results[KeyConventionalTow])
	assert.Equal(t, 17100, result.Results[KeyGCWR])
	assert.Equal(t, "3.15/3.55", result.Results[KeyMatchedAxleRatio])
}

func TestResolver_Resolve_PrefersRowWithNonNullCell(t *testing.T) {
	// Ratio 3.55 matches both 3.5L rows; the 3.15/3.55 row has a null cell
	// in the SuperCrew column, so the 3.55 row is chosen.
	v := f150SuperCrew()

	result := testResolver().Resolve(v)

	assert.Equal(t, 13300, result.Results[KeyConventionalTow])
}

func TestResolver_Resolve_PerformanceTrimPicksTrailingVariant(t *testing.T) {
	v := f150SuperCrew()
	v.Engine = "5.0L V8"
	v.OptionalJSON = `["3.73 RATIO AXLE"]`

	v.Trim = "XLT"
	result := testResolver().Resolve(v)
	assert.Equal(t, 12700, result.Results[KeyConventionalTow])

	v.Trim = "Tremor"
	result = testResolver().Resolve(v)
	assert.Equal(t, 13200, result.Results[KeyConventionalTow])
}

func TestResolver_Resolve_SuperDutyRangesViaAlias(t *testing.T) {
	v := &storage.VehicleRecord{
		Model:          "F-250",
		Drivetrain:     "4X4",
		Engine:         "6.8L Gas V8",
		TruckBodyStyle: "Crew Cab",
		OptionalJSON:   `["4.30 RATIO AXLE"]`,
	}

	result := testResolver().Resolve(v)

	assert.Equal(t, "F-250", result.Model)
	assert.Equal(t, Range{Min: 12300, Max: 14700}, result.Results[KeyConventionalTow])
	assert.Equal(t, Range{Min: 13000, Max: 15000}, result.Results[KeyFifthWheelTow])
	assert.Equal(t, Range{Min: 13000, Max: 15000}, result.Results[KeyGooseneckTow])
}

func TestResolver_Resolve_MaverickDrivetrainVariant(t *testing.T) {
	v := &storage.VehicleRecord{
		Model:      "Maverick",
		Drivetrain: "AWD",
		Engine:     "2.5L I4 Hybrid",
	}

	result := testResolver().Resolve(v)

	// Without the tow package only the plain AWD variant qualifies.
	assert.Equal(t, 2000, result.Results[KeyConventionalTow])
	assert.Equal(t, 6050, result.Results[KeyGCWR])
	assert.NotContains(t, result.Results, KeyRequires)
}

func TestResolver_Resolve_MaverickTowPackage(t *testing.T) {
	v := &storage.VehicleRecord{
		Model:        "Maverick",
		Drivetrain:   "AWD",
		Engine:       "2.5L I4 Hybrid",
		OptionalJSON: `["4K TOWING PACKAGE"]`,
	}

	result := testResolver().Resolve(v)

	assert.Equal(t, 4000, result.Results[KeyConventionalTow])
	assert.Equal(t, 7700, result.Results[KeyGCWR])
	assert.Equal(t, []string{"4K Tow Package"}, result.Results[KeyRequires])
	assert.Equal(t, "2.5L I4 Hybrid", result.Results[KeyMatchedEngine])
}

func TestResolver_Resolve_UnknownModel(t *testing.T) {
	v := &storage.VehicleRecord{Model: "Mustang", Engine: "5.0L V8", Drivetrain: "RWD"}

	result := testResolver().Resolve(v)

	assert.Contains(t, result.Results, KeyError)
	assert.Len(t, result.Results, 1)
}

func TestResolver_Resolve_InputsEchoed(t *testing.T) {
	result := testResolver().Resolve(f150SuperCrew())

	assert.Equal(t, "1FTFW1ED5PFA00001", result.Inputs["vin"])
	assert.Equal(t, "F-150", result.Inputs["model"])
	assert.Equal(t, "4X4", result.Inputs["drivetrain"])
	assert.Equal(t, "SuperCrew", result.Inputs["cab"])
}

func TestResolver_Resolve_VehicleYearOverridesGuideYear(t *testing.T) {
	year := 2024
	v := f150SuperCrew()
	v.Year = &year

	result := testResolver().Resolve(v)
	assert.Equal(t, 2024, result.Year)
}

func TestResolver_Resolve_UnplaceableColumnFallsBackToRange(t *testing.T) {
	// A wheelbase the table does not carry cannot be placed in a column.
	v := f150SuperCrew()
	v.Wheelbase = floatPtr(163.7)
	v.BedLength = nil

	result := testResolver().Resolve(v)

	require.Empty(t, result.MissingInputs)
	assert.Equal(t, Range{Min: 11000, Max: 13500}, result.Results[KeyConventionalTow])
}

// Package resolve computes towing and payload figures for a specific vehicle
// from the extracted guide document. Resolution is read-only and per-call:
// a loaded GuideDocument is safe to share across concurrent resolvers.
package resolve

// Result field keys. Capacity fields hold an int (exact) or a Range; the
// diagnostic fields hold strings.
const (
	KeyConventionalTow  = "conventional_tow_lbs"
	KeyFifthWheelTow    = "fifth_wheel_tow_lbs"
	KeyGooseneckTow     = "gooseneck_tow_lbs"
	KeyMaxPayload       = "max_payload_lbs"
	KeyGCWR             = "gcwr_lbs"
	KeyPerformanceTow   = "max_conventional_tow_lbs_from_performance"
	KeyMatchedEngine    = "matched_engine_key"
	KeyMatchedAxleRatio = "matched_axle_ratio_key"
	KeyRequires         = "requires"
	KeyError            = "error"
)

// Missing-input names reported to callers.
const (
	MissingEngine     = "engine"
	MissingDrivetrain = "drivetrain"
	MissingCab        = "cab/body_style"
	MissingAxleRatio  = "axle_ratio"
)

// Range is a conservative capacity bound used when the inputs cannot pin an
// exact table cell.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// TowResult is the outcome of one lookup. Results values are ints, Ranges,
// or strings depending on the key; MissingInputs explains why a range rather
// than an exact figure was produced.
type TowResult struct {
	Model         string                 `json:"model"`
	Year          int                    `json:"year"`
	Inputs        map[string]interface{} `json:"inputs"`
	MissingInputs []string               `json:"missing_inputs"`
	Results       map[string]interface{} `json:"results"`
}

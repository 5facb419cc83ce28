// Package guide defines the extracted towing-guide data model and its JSON
// persistence. A GuideDocument is produced once per guide revision by the
// extract pipeline, written to a single JSON file keyed by model year, and
// treated as immutable by every reader.
package guide

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cab is a truck passenger-compartment configuration.
type Cab string

// Cab styles as printed by the guide (and stored by the vehicle DB).
const (
	CabRegular   Cab = "Regular Cab"
	CabSuperCab  Cab = "Super Cab"
	CabSuperCrew Cab = "SuperCrew"
	CabCrew      Cab = "Crew Cab"
)

// ColumnID is an opaque index into an ExactTable's column list. Rows and
// columns are joined positionally; the newtype keeps that join from being
// confused with arbitrary ints when tables are transformed.
type ColumnID int

// NoColumn marks a failed column resolution.
const NoColumn ColumnID = -1

// GuideDocument is one extracted towing-guide revision.
type GuideDocument struct {
	Year        int                       `json:"year"`
	SourcePDF   string                    `json:"source_pdf"`
	ExtractedAt time.Time                 `json:"extracted_at"`
	Models      map[string]*ModelCapacity `json:"models"`
}

// ModelCapacity holds everything extracted for one model line.
type ModelCapacity struct {
	// PerformanceByEngine carries the marketing "max towing / max payload"
	// table, exact per engine label.
	PerformanceByEngine map[string]EnginePerformance `json:"performance_by_engine,omitempty"`

	// Selectors holds lossy per-engine accumulations for tables whose column
	// structure could not be reconstructed. Consumers derive ranges only.
	Selectors map[string]*SelectorSection `json:"selectors,omitempty"`

	// SelectorsExact holds column-accurate tables keyed by section name
	// (conventional, fifth_wheel_gooseneck).
	SelectorsExact map[string]*ExactTable `json:"selectors_exact,omitempty"`

	// TrailerRows holds pattern-extracted rows for the compact trucks whose
	// selector tables are small and regular (Ranger, Maverick).
	TrailerRows []EngineTrailerRow `json:"max_loaded_trailer_weight,omitempty"`
}

// EnginePerformance is one row of the performance table.
type EnginePerformance struct {
	MaxTowingLbs  int `json:"max_towing_lbs"`
	MaxPayloadLbs int `json:"max_payload_lbs"`
}

// ColumnSpec describes one column of an exact selector table.
type ColumnSpec struct {
	Drivetrain string   `json:"drivetrain"`
	Wheelbase  float64  `json:"wheelbase"`
	Cab        Cab      `json:"cab"`
	BedLength  *float64 `json:"bed_length"`
}

// ExactRow is one engine/ratio row. Values is index-aligned with the owning
// table's Columns; a null cell means the configuration is not offered.
type ExactRow struct {
	Engine    string `json:"engine"`
	AxleRatio string `json:"axle_ratio"`
	GCWRLbs   int    `json:"gcwr_lbs"`
	Values    []Cell `json:"values"`
}

// ExactTable is a fully reconstructed selector table. Column order follows the
// original on-page horizontal order and is the only row/column join key.
type ExactTable struct {
	Columns []ColumnSpec `json:"columns"`
	Rows    []ExactRow   `json:"rows"`
}

// SelectorSection is the lossy fallback representation: per-engine sets of
// GCWR and tow numbers with no positional structure preserved.
type SelectorSection struct {
	Name        string                        `json:"name"`
	PageIndexes []int                         `json:"page_indexes"`
	ByEngine    map[string]*EngineAccumulator `json:"by_engine"`
}

// EngineAccumulator collects every number seen for one engine label across a
// selector section. Value lists are sorted and de-duplicated.
type EngineAccumulator struct {
	GCWRValuesLbs []int    `json:"gcwr_values_lbs"`
	TowValuesLbs  []int    `json:"tow_values_lbs"`
	RawLines      []string `json:"raw_lines,omitempty"`
}

// EngineTrailerRow is a pattern-extracted row for the compact-truck tables.
type EngineTrailerRow struct {
	Engine    string           `json:"engine"`
	AxleRatio float64          `json:"axle_ratio"`
	Variants  []TrailerVariant `json:"variants"`
}

// TrailerVariant is one drivetrain/package variant of a trailer row.
type TrailerVariant struct {
	Drivetrain    string   `json:"drivetrain"`
	GCWRLbs       *int     `json:"gcwr_lbs"`
	MaxTrailerLbs *int     `json:"max_trailer_lbs"`
	Requires      []string `json:"requires,omitempty"`
}

// Cell is one capacity cell of an exact table: not offered (null), a single
// rating, or a multi-variant list (e.g. base/Tremor). The JSON form mirrors
// the source file: null, a bare number, or an array.
type Cell struct {
	vals []int
}

// CellOf builds a cell from its variant values. No values means "not offered".
func CellOf(vals ...int) Cell {
	return Cell{vals: vals}
}

// IsNull reports whether the configuration is not offered.
func (c Cell) IsNull() bool { return len(c.vals) == 0 }

// Values returns the variant values in stored order.
func (c Cell) Values() []int { return c.vals }

// MarshalJSON writes null, a bare int, or an int array.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch len(c.vals) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(c.vals[0])
	default:
		return json.Marshal(c.vals)
	}
}

// UnmarshalJSON accepts null, a bare int, or an int array.
func (c *Cell) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		c.vals = nil
		return nil
	}
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		c.vals = []int{single}
		return nil
	}
	var many []int
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("cell must be null, int, or int array: %s", s)
	}
	c.vals = many
	return nil
}

// FindColumn resolves the column matching a vehicle configuration. Drivetrain
// and cab must match exactly, wheelbase within wheelbaseTol inches. When both
// the vehicle and the column carry a bed length it must also agree within
// bedTol feet. The first match in stored column order wins.
func (t *ExactTable) FindColumn(drivetrain string, cab Cab, wheelbase float64, bedLength *float64, wheelbaseTol, bedTol float64) (ColumnID, bool) {
	for i, col := range t.Columns {
		if col.Drivetrain != drivetrain || col.Cab != cab {
			continue
		}
		if abs(col.Wheelbase-wheelbase) > wheelbaseTol {
			continue
		}
		if bedLength != nil && col.BedLength != nil && abs(*col.BedLength-*bedLength) > bedTol {
			continue
		}
		return ColumnID(i), true
	}
	return NoColumn, false
}

// Cell returns the row's cell at the given column, or a null cell when the
// row is shorter than the column list.
func (r *ExactRow) Cell(id ColumnID) Cell {
	if id < 0 || int(id) >= len(r.Values) {
		return Cell{}
	}
	return r.Values[id]
}

// Save writes the document as indented UTF-8 JSON. Struct field order and
// Go's sorted map keys make the output deterministic for a given document.
func (d *GuideDocument) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal guide document: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write guide document: %w", err)
	}
	return nil
}

// Load reads a document previously written by Save.
func Load(path string) (*GuideDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guide document: %w", err)
	}
	var doc GuideDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse guide document: %w", err)
	}
	return &doc, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

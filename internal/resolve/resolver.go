package resolve

import (
	"fmt"
	"strings"

	"github.com/stonebridge-motors/towguide/internal/guide"
	"github.com/stonebridge-motors/towguide/internal/observability"
	"github.com/stonebridge-motors/towguide/internal/storage"
)

// Resolver answers capacity lookups against one immutable guide document.
type Resolver struct {
	doc     *guide.GuideDocument
	profile *guide.EditionProfile
	log     *observability.Logger
}

// NewResolver builds a resolver over a loaded guide document.
func NewResolver(doc *guide.GuideDocument, profile *guide.EditionProfile, log *observability.Logger) *Resolver {
	if log == nil {
		log = observability.NewNopLogger()
	}
	return &Resolver{doc: doc, profile: profile, log: log}
}

// Resolve computes towing/payload figures for one vehicle. Each result field
// resolves independently: the exact column path first, then the lossy
// per-engine range, then omission. Missing inputs are always reported so a
// caller can explain a range instead of an exact figure.
func (r *Resolver) Resolve(v *storage.VehicleRecord) *TowResult {
	cab := CabFromBodyStyle(v.BodyStyle, v.TruckBodyStyle)
	axleRatio := AxleRatioFromEquipment(v.OptionalJSON, v.StandardJSON)
	engineNorm := NormalizeEngine(v.Engine)
	equip := EquipmentText(v.OptionalJSON, v.StandardJSON)

	year := r.profile.Year
	if v.Year != nil && *v.Year != 0 {
		year = *v.Year
	}

	missing := []string{}
	if v.Engine == "" {
		missing = append(missing, MissingEngine)
	}
	if v.Drivetrain == "" {
		missing = append(missing, MissingDrivetrain)
	}
	if r.profile.RequiresExactInputs(v.Model) {
		if cab == "" {
			missing = append(missing, MissingCab)
		}
		if axleRatio == nil {
			missing = append(missing, MissingAxleRatio)
		}
	}

	result := &TowResult{
		Model: v.Model,
		Year:  year,
		Inputs: map[string]interface{}{
			"vin":        v.VIN,
			"model":      v.Model,
			"trim":       v.Trim,
			"drivetrain": v.Drivetrain,
			"engine":     v.Engine,
			"cab":        string(cab),
			"axle_ratio": axleRatio,
		},
		MissingInputs: missing,
		Results:       map[string]interface{}{},
	}

	modelObj := r.doc.Models[r.profile.GuideModelKey(v.Model)]
	if modelObj == nil {
		result.Results[KeyError] = fmt.Sprintf("no towing guide data for model %q", v.Model)
		return result
	}
	res := result.Results

	// Performance table: exact payload plus the headline towing figure.
	if len(modelObj.PerformanceByEngine) > 0 {
		if key, _ := BestEngineKey(engineNorm, sortedKeys(modelObj.PerformanceByEngine)); key != "" {
			perf := modelObj.PerformanceByEngine[key]
			res[KeyMaxPayload] = perf.MaxPayloadLbs
			res[KeyPerformanceTow] = perf.MaxTowingLbs
			res[KeyMatchedEngine] = key
		}
	}

	selKeys, hasSelKeys := r.profile.SelectorKeys[v.Model]

	if hasSelKeys && modelObj.SelectorsExact != nil {
		r.resolveExact(modelObj, selKeys, v, cab, engineNorm, axleRatio, res)
	}

	// Range fallbacks apply only where the exact path yielded nothing; the
	// three tow fields degrade independently.
	if hasSelKeys {
		if _, ok := res[KeyConventionalTow]; !ok {
			if sec := modelObj.Selectors[selKeys.Conventional]; sec != nil {
				if rng, found := rangeFromSelector(sec, engineNorm); found {
					res[KeyConventionalTow] = rng
				}
			}
		}
		if _, ok := res[KeyFifthWheelTow]; !ok {
			if sec := modelObj.Selectors[selKeys.FifthWheel]; sec != nil {
				if rng, found := rangeFromSelector(sec, engineNorm); found {
					res[KeyFifthWheelTow] = rng
					res[KeyGooseneckTow] = rng
				}
			}
		}
	}

	if len(modelObj.TrailerRows) > 0 {
		r.resolveTrailerRows(modelObj.TrailerRows, v, engineNorm, equip, res)
	}

	return result
}

// resolveExact walks the column-accurate tables. The fifth-wheel table is
// only consulted once the conventional table's column resolved: the two
// share layout, and a vehicle that cannot be placed in one cannot be placed
// in the other.
func (r *Resolver) resolveExact(modelObj *guide.ModelCapacity, selKeys guide.SelectorKeyPair, v *storage.VehicleRecord, cab guide.Cab, engineNorm string, axleRatio *float64, res map[string]interface{}) {
	drivetrain := NormalizeDrivetrain(v.Drivetrain)
	if cab == "" || drivetrain == "" || v.Wheelbase == nil {
		return
	}

	conv := modelObj.SelectorsExact[selKeys.Conventional]
	if conv == nil {
		return
	}
	col, ok := conv.FindColumn(drivetrain, cab, *v.Wheelbase, v.BedLength, r.profile.ColumnWheelbaseTol, r.profile.ColumnBedTol)
	if !ok {
		return
	}
	if val, row, engineKey, got := r.exactCell(conv, engineNorm, axleRatio, col, v.Trim); got {
		res[KeyConventionalTow] = val
		res[KeyGCWR] = row.GCWRLbs
		res[KeyMatchedEngine] = engineKey
		res[KeyMatchedAxleRatio] = row.AxleRatio
	}

	fw := modelObj.SelectorsExact[selKeys.FifthWheel]
	if fw == nil {
		return
	}
	// Bed length does not discriminate fifth-wheel columns; wheelbase and
	// cab already pin the configuration.
	fwCol, ok := fw.FindColumn(drivetrain, cab, *v.Wheelbase, nil, r.profile.ColumnWheelbaseTol, r.profile.ColumnBedTol)
	if !ok {
		return
	}
	if val, _, _, got := r.exactCell(fw, engineNorm, axleRatio, fwCol, v.Trim); got {
		res[KeyFifthWheelTow] = val
		res[KeyGooseneckTow] = val
	}
}

// exactCell selects the best row for an engine/ratio pair and reads its cell
// at the resolved column. The same engine/ratio pair appears on multiple
// printed rows covering different wheelbase groups; a row with a non-null
// cell for this column is preferred, otherwise the first candidate stands.
func (r *Resolver) exactCell(table *guide.ExactTable, engineNorm string, axleRatio *float64, col guide.ColumnID, trim string) (int, *guide.ExactRow, string, bool) {
	var keys []string
	seen := make(map[string]bool)
	for _, row := range table.Rows {
		if row.Engine != "" && !seen[row.Engine] {
			seen[row.Engine] = true
			keys = append(keys, row.Engine)
		}
	}
	engineKey, _ := BestEngineKey(engineNorm, keys)
	if engineKey == "" {
		return 0, nil, "", false
	}

	var candidates []*guide.ExactRow
	for i := range table.Rows {
		row := &table.Rows[i]
		if row.Engine != engineKey {
			continue
		}
		if !MatchAxleRatio(row.AxleRatio, axleRatio, r.profile.AxleRatioTol) {
			continue
		}
		candidates = append(candidates, row)
	}
	if len(candidates) == 0 {
		return 0, nil, engineKey, false
	}

	chosen := candidates[0]
	for _, c := range candidates {
		if !c.Cell(col).IsNull() {
			chosen = c
			break
		}
	}

	val, ok := r.pickCellValue(chosen.Cell(col), trim)
	if !ok {
		return 0, nil, engineKey, false
	}
	return val, chosen, engineKey, true
}

// pickCellValue disambiguates multi-variant cells: the trailing value
// belongs to the performance trim, the leading one to everything else.
func (r *Resolver) pickCellValue(cell guide.Cell, trim string) (int, bool) {
	vals := cell.Values()
	if len(vals) == 0 {
		return 0, false
	}
	if len(vals) >= 2 && trim != "" &&
		strings.Contains(strings.ToLower(trim), r.profile.PerformanceTrimKeyword) {
		return vals[len(vals)-1], true
	}
	return vals[0], true
}

// rangeFromSelector derives the conservative [min,max] bound from a lossy
// section's accumulated tow values for the best-matching engine.
func rangeFromSelector(sec *guide.SelectorSection, engineNorm string) (Range, bool) {
	if len(sec.ByEngine) == 0 {
		return Range{}, false
	}
	key, _ := BestEngineKey(engineNorm, sortedKeys(sec.ByEngine))
	if key == "" {
		return Range{}, false
	}
	vals := sec.ByEngine[key].TowValuesLbs
	if len(vals) == 0 {
		return Range{}, false
	}
	rng := Range{Min: vals[0], Max: vals[0]}
	for _, n := range vals[1:] {
		if n < rng.Min {
			rng.Min = n
		}
		if n > rng.Max {
			rng.Max = n
		}
	}
	return rng, true
}

// resolveTrailerRows handles the compact trucks: pick the best engine row,
// then the drivetrain-matching variant whose package requirements the
// vehicle's equipment satisfies, falling back to the highest-capacity
// requirement-satisfying variant regardless of drivetrain.
func (r *Resolver) resolveTrailerRows(rows []guide.EngineTrailerRow, v *storage.VehicleRecord, engineNorm, equip string, res map[string]interface{}) {
	var keys []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if row.Engine != "" && !seen[row.Engine] {
			seen[row.Engine] = true
			keys = append(keys, row.Engine)
		}
	}
	engineKey, _ := BestEngineKey(engineNorm, keys)
	if engineKey == "" {
		return
	}

	var bestRow *guide.EngineTrailerRow
	for i := range rows {
		if rows[i].Engine == engineKey {
			bestRow = &rows[i]
			break
		}
	}
	if bestRow == nil {
		return
	}

	dt := strings.ToUpper(strings.ReplaceAll(v.Drivetrain, " ", ""))
	pick := func(matchDrivetrain bool) *guide.TrailerVariant {
		var best *guide.TrailerVariant
		for i := range bestRow.Variants {
			vr := &bestRow.Variants[i]
			if vr.MaxTrailerLbs == nil {
				continue
			}
			if !requirementsSatisfied(vr.Requires, equip) {
				continue
			}
			if matchDrivetrain && strings.ToUpper(strings.ReplaceAll(vr.Drivetrain, " ", "")) != dt {
				continue
			}
			if best == nil || *vr.MaxTrailerLbs > *best.MaxTrailerLbs {
				best = vr
			}
		}
		return best
	}

	best := pick(true)
	if best == nil {
		best = pick(false)
	}
	if best == nil {
		return
	}

	res[KeyConventionalTow] = *best.MaxTrailerLbs
	if best.GCWRLbs != nil {
		res[KeyGCWR] = *best.GCWRLbs
	}
	if len(best.Requires) > 0 {
		res[KeyRequires] = best.Requires
	}
	res[KeyMatchedEngine] = engineKey
}

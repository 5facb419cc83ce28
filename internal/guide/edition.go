package guide

import "fmt"

// EditionProfile captures everything about one guide edition's formatting
// that the extractor and resolver would otherwise hard-code: page layout,
// numeric thresholds, and the cab/bed inference mappings. These constants
// are reverse-engineered from a specific revision and must be re-derived
// for a new one; nothing here is assumed portable across editions.
type EditionProfile struct {
	Year int

	// PerformancePages maps model name to the 0-based page carrying its
	// max-towing/max-payload performance table.
	PerformancePages map[string]int

	// ExactSections lists the selector tables reconstructed column-exactly.
	ExactSections []SectionSpec

	// SelectorSections lists the wide tables captured via the lossy
	// per-engine accumulation path.
	SelectorSections []SectionSpec

	// TrailerPages maps compact-truck models to their pattern-extracted page.
	TrailerPages map[string]int

	// CanonicalWheelbaseTol bounds how far a header wheelbase may sit from a
	// known canonical value before cab/bed inference refuses to guess.
	CanonicalWheelbaseTol float64

	// ColumnWheelbaseTol and ColumnBedTol bound the resolver's column match.
	ColumnWheelbaseTol float64
	ColumnBedTol       float64

	// AxleRatioTol bounds the resolver's ratio match.
	AxleRatioTol float64

	// GCWRFloorLbs is the smallest number treated as a GCWR on a selector
	// row; TowFloorLbs filters horsepower/torque leakage out of tow sets.
	GCWRFloorLbs int
	TowFloorLbs  int

	// Cab inference: wheelbases owned outright by a cab style, plus the one
	// wheelbase shared between SuperCab and SuperCrew where the first
	// SharedSuperCabCount occurrences belong to SuperCab.
	RegularCabWheelbases []float64
	SuperCrewWheelbases  []float64
	SharedWheelbase      float64
	SharedSuperCabCount  int

	// BedRules maps (cab, wheelbase) to bed length in feet.
	BedRules []BedRule

	// ModelAliases maps DB model names onto guide model keys.
	ModelAliases map[string]string

	// SelectorKeys maps DB model names to their lossy section names.
	SelectorKeys map[string]SelectorKeyPair

	// ExactResolutionModels lists models whose exact path needs the full
	// input set; missing-input reporting applies to these.
	ExactResolutionModels []string

	// PerformanceTrimKeyword selects the trailing variant of a multi-value
	// cell when present in the vehicle trim (e.g. Tremor).
	PerformanceTrimKeyword string
}

// SectionSpec names one extractable table region.
type SectionSpec struct {
	Model string
	Name  string
	Pages []int
}

// SelectorKeyPair names the conventional and fifth-wheel/gooseneck selector
// sections applicable to one DB model.
type SelectorKeyPair struct {
	Conventional string
	FifthWheel   string
}

// BedRule maps a cab/wheelbase pair to a bed length in feet.
type BedRule struct {
	Cab       Cab
	Wheelbase float64
	BedFeet   float64
}

// CabForColumns assigns a cab style to each header wheelbase, in on-page
// order. The shared wheelbase is ambiguous in print: its first
// SharedSuperCabCount occurrences are SuperCab, the remainder SuperCrew.
// Returns false for any wheelbase outside the canonical set.
func (p *EditionProfile) CabForColumns(wheelbases []float64) ([]Cab, []bool) {
	cabs := make([]Cab, len(wheelbases))
	known := make([]bool, len(wheelbases))

	firstShared := -1
	for i, wb := range wheelbases {
		if abs(wb-p.SharedWheelbase) <= p.CanonicalWheelbaseTol {
			firstShared = i
			break
		}
	}

	for i, wb := range wheelbases {
		switch {
		case p.matchesAny(wb, p.RegularCabWheelbases):
			cabs[i], known[i] = CabRegular, true
		case p.matchesAny(wb, p.SuperCrewWheelbases):
			cabs[i], known[i] = CabSuperCrew, true
		case abs(wb-p.SharedWheelbase) <= p.CanonicalWheelbaseTol:
			if firstShared >= 0 && i >= firstShared && i < firstShared+p.SharedSuperCabCount {
				cabs[i] = CabSuperCab
			} else {
				cabs[i] = CabSuperCrew
			}
			known[i] = true
		}
	}
	return cabs, known
}

// BedLengthFor returns the bed length for a cab/wheelbase pair, or nil when
// the edition defines none.
func (p *EditionProfile) BedLengthFor(cab Cab, wheelbase float64) *float64 {
	for _, rule := range p.BedRules {
		if rule.Cab == cab && abs(rule.Wheelbase-wheelbase) <= p.CanonicalWheelbaseTol {
			bed := rule.BedFeet
			return &bed
		}
	}
	return nil
}

// GuideModelKey maps a DB model name onto the guide's model key.
func (p *EditionProfile) GuideModelKey(model string) string {
	if alias, ok := p.ModelAliases[model]; ok {
		return alias
	}
	return model
}

// RequiresExactInputs reports whether the model's exact path depends on the
// full engine/drivetrain/cab/ratio input set.
func (p *EditionProfile) RequiresExactInputs(model string) bool {
	for _, m := range p.ExactResolutionModels {
		if m == model {
			return true
		}
	}
	return false
}

func (p *EditionProfile) matchesAny(wb float64, canon []float64) bool {
	for _, c := range canon {
		if abs(wb-c) <= p.CanonicalWheelbaseTol {
			return true
		}
	}
	return false
}

// Edition2025 is the profile for the 2025 RV & trailer towing guide revision.
func Edition2025() *EditionProfile {
	return &EditionProfile{
		Year: 2025,
		PerformancePages: map[string]int{
			"F-150":      11,
			"Super Duty": 12,
		},
		ExactSections: []SectionSpec{
			{Model: "F-150", Name: "conventional", Pages: []int{14, 15}},
			{Model: "F-150", Name: "fifth_wheel_gooseneck", Pages: []int{16, 17, 18}},
		},
		SelectorSections: []SectionSpec{
			{Model: "F-150", Name: "conventional", Pages: []int{14, 15}},
			{Model: "F-150", Name: "fifth_wheel_gooseneck", Pages: []int{16, 17, 18}},
			{Model: "Super Duty", Name: "f250_conventional", Pages: []int{19}},
			{Model: "Super Duty", Name: "f250_fifth_wheel_gooseneck", Pages: []int{20}},
			{Model: "Super Duty", Name: "f350_srw_conventional", Pages: []int{21, 22}},
			{Model: "Super Duty", Name: "f350_srw_fifth_wheel_gooseneck", Pages: []int{22}},
			{Model: "Super Duty", Name: "f350_f450_drw_conventional", Pages: []int{23}},
			{Model: "Super Duty", Name: "f350_f450_drw_fifth_wheel_gooseneck", Pages: []int{24, 25}},
		},
		TrailerPages: map[string]int{
			"Ranger":   26,
			"Maverick": 27,
		},
		CanonicalWheelbaseTol: 0.2,
		ColumnWheelbaseTol:    0.3,
		ColumnBedTol:          0.3,
		AxleRatioTol:          0.02,
		GCWRFloorLbs:          6000,
		TowFloorLbs:           1500,
		RegularCabWheelbases:  []float64{122.8, 141.5},
		SuperCrewWheelbases:   []float64{157.2},
		SharedWheelbase:       145.4,
		SharedSuperCabCount:   2,
		BedRules: []BedRule{
			{Cab: CabRegular, Wheelbase: 122.8, BedFeet: 6.5},
			{Cab: CabRegular, Wheelbase: 141.5, BedFeet: 8.0},
			{Cab: CabSuperCab, Wheelbase: 145.4, BedFeet: 6.5},
			{Cab: CabSuperCrew, Wheelbase: 145.4, BedFeet: 5.5},
			{Cab: CabSuperCrew, Wheelbase: 157.2, BedFeet: 6.5},
		},
		ModelAliases: map[string]string{
			"F-250": "Super Duty",
			"F-350": "Super Duty",
			"F-450": "Super Duty",
		},
		SelectorKeys: map[string]SelectorKeyPair{
			"F-150": {Conventional: "conventional", FifthWheel: "fifth_wheel_gooseneck"},
			"F-250": {Conventional: "f250_conventional", FifthWheel: "f250_fifth_wheel_gooseneck"},
			"F-350": {Conventional: "f350_srw_conventional", FifthWheel: "f350_srw_fifth_wheel_gooseneck"},
			"F-450": {Conventional: "f350_f450_drw_conventional", FifthWheel: "f350_f450_drw_fifth_wheel_gooseneck"},
		},
		ExactResolutionModels:  []string{"F-150", "F-250", "F-350", "F-450"},
		PerformanceTrimKeyword: "tremor",
	}
}

// ProfileForYear returns the edition profile for a guide year.
func ProfileForYear(year int) (*EditionProfile, error) {
	switch year {
	case 2025:
		return Edition2025(), nil
	}
	return nil, fmt.Errorf("no edition profile for year %d", year)
}

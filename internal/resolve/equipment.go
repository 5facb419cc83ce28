package resolve

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/stonebridge-motors/towguide/internal/guide"
)

var (
	axleRatioEquipRe = regexp.MustCompile(`(?i)\b(\d\.\d{2})\s*RATIO\b`)
	ratioSplitRe     = regexp.MustCompile(`[^\d.]+`)
)

// equipmentItem is one entry of a sticker equipment array; the pipeline
// writes either bare strings or {description, included} objects.
type equipmentItem struct {
	Description string `json:"description"`
	Included    string `json:"included"`
}

// flattenEquipment joins the optional and standard equipment JSON blobs into
// one text. Unparseable blobs are skipped, not fatal.
func flattenEquipment(blobs ...string) string {
	var parts []string
	for _, raw := range blobs {
		if raw == "" {
			continue
		}
		var asStrings []string
		if err := json.Unmarshal([]byte(raw), &asStrings); err == nil {
			parts = append(parts, asStrings...)
			continue
		}
		var asItems []equipmentItem
		if err := json.Unmarshal([]byte(raw), &asItems); err == nil {
			for _, item := range asItems {
				parts = append(parts, item.Description+" "+item.Included)
			}
		}
	}
	return strings.Join(parts, " ")
}

// EquipmentText returns the lowercased equipment blob for substring checks.
func EquipmentText(optionalJSON, standardJSON string) string {
	return strings.ToLower(flattenEquipment(optionalJSON, standardJSON))
}

// AxleRatioFromEquipment extracts the rear axle ratio from sticker equipment
// lines such as "3.55 RATIO REGULAR AXLE".
func AxleRatioFromEquipment(optionalJSON, standardJSON string) *float64 {
	text := flattenEquipment(optionalJSON, standardJSON)
	m := axleRatioEquipRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &f
}

// CabFromBodyStyle returns the canonical cab style: the previously derived
// truck body style when present, otherwise inferred from the free-text body
// style.
func CabFromBodyStyle(bodyStyle, truckBodyStyle string) guide.Cab {
	if truckBodyStyle != "" {
		return guide.Cab(strings.Join(strings.Fields(truckBodyStyle), " "))
	}
	bs := strings.ToLower(bodyStyle)
	switch {
	case strings.Contains(bs, "regular"):
		return guide.CabRegular
	case strings.Contains(bs, "supercab") || strings.Contains(bs, "super cab"):
		return guide.CabSuperCab
	case strings.Contains(bs, "supercrew"):
		return guide.CabSuperCrew
	case strings.Contains(bs, "super crew") || strings.Contains(bs, "crew cab"):
		// Compact trucks print SuperCrew; Super Duty prints Crew Cab.
		return guide.CabCrew
	}
	return ""
}

// NormalizeDrivetrain canonicalizes drivetrain strings to the guide's 4x4 /
// 4x2 column tokens. Unrecognized values pass through upcased and unspaced.
func NormalizeDrivetrain(dt string) string {
	d := strings.ToUpper(strings.ReplaceAll(dt, " ", ""))
	switch d {
	case "4X4", "4WD", "AWD":
		return "4x4"
	case "4X2", "RWD":
		return "4x2"
	}
	return d
}

// requirementsSatisfied checks a variant's package requirements against the
// vehicle's equipment blob by case-insensitive substring. The 4K tow package
// accepts both sticker spellings.
func requirementsSatisfied(requires []string, equipLower string) bool {
	for _, req := range requires {
		r := strings.ToLower(req)
		if r == "" {
			continue
		}
		if strings.Contains(r, "4k tow") {
			if !strings.Contains(equipLower, "4k tow") && !strings.Contains(equipLower, "4k towing") {
				return false
			}
			continue
		}
		if !strings.Contains(equipLower, r) {
			return false
		}
	}
	return true
}

// MatchAxleRatio reports whether a vehicle ratio matches a row's ratio
// string, which may be a single value ("3.55") or a slash-delimited dual
// ratio ("3.15/3.55") where either applies.
func MatchAxleRatio(rowRatio string, axleRatio *float64, tol float64) bool {
	if axleRatio == nil {
		return false
	}
	for _, part := range ratioSplitRe.Split(rowRatio, -1) {
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			continue
		}
		if absf(v-*axleRatio) < tol {
			return true
		}
	}
	return false
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

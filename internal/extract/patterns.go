package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stonebridge-motors/towguide/internal/guide"
)

// The compact-truck selector tables are small fixed structures: a handful of
// engine/drivetrain combinations per page. A pattern per engine over the
// whitespace-flattened text is more reliable there than general table
// reconstruction. Patterns allow mid-word spaces because the text layer
// splits words like "EcoBoost" arbitrarily.

var (
	maverickRowRe = regexp.MustCompile(`(?i)(2\.5L\s+I4\s+Hybri\s*d|2\.0L\s+EcoBoos\s*t\s*®?\s*I4)\s+` +
		`(\d\.\d{2})\s+` +
		`(\d{1,3}(?:,\d{3})+)\s+(\d{1,3}(?:,\d{3})+)\s+` +
		`(\d{1,3}(?:,\d{3})+)\s+(\d{1,3}(?:,\d{3})+)\s+` +
		`(\d{1,3}(?:,\d{3})+)\s+(\d{1,3}(?:,\d{3})+)`)

	rangerTwoPairRe = regexp.MustCompile(`(?i)(2\.3L\s+EcoBoos\s*t\s*®?\s*I4)\s+` +
		`(\d\.\d{2})\s+` +
		`(\d{1,3}(?:,\d{3})+)\s+(\d{1,3}(?:,\d{3})+)\s+` +
		`(\d{1,3}(?:,\d{3})+)\s+(\d{1,3}(?:,\d{3})+)`)

	rangerOnePairRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(2\.7L\s+EcoBoos\s*t\s*V6)\s+(\d\.\d{2})\s+(\d{1,3}(?:,\d{3})+)\s+(\d{1,3}(?:,\d{3})+)`),
		regexp.MustCompile(`(?i)(3\.0L\s+EcoBoos\s*t\s*V6)\s+(\d\.\d{2})\s+(\d{1,3}(?:,\d{3})+)\s+(\d{1,3}(?:,\d{3})+)`),
	}
)

// ExtractMaverick parses the Maverick trailer table: FWD, AWD, and AWD with
// the 4K Tow Package, per engine.
func ExtractMaverick(pageText string) []guide.EngineTrailerRow {
	flat := strings.Join(strings.Fields(pageText), " ")
	var rows []guide.EngineTrailerRow

	for _, m := range maverickRowRe.FindAllStringSubmatch(flat, -1) {
		rows = append(rows, guide.EngineTrailerRow{
			Engine:    cleanEngineLabel(m[1]),
			AxleRatio: mustRatio(m[2]),
			Variants: []guide.TrailerVariant{
				{Drivetrain: "FWD", GCWRLbs: intTokenPtr(m[3]), MaxTrailerLbs: intTokenPtr(m[4])},
				{Drivetrain: "AWD", GCWRLbs: intTokenPtr(m[5]), MaxTrailerLbs: intTokenPtr(m[6])},
				{Drivetrain: "AWD", GCWRLbs: intTokenPtr(m[7]), MaxTrailerLbs: intTokenPtr(m[8]), Requires: []string{"4K Tow Package"}},
			},
		})
	}
	return rows
}

// ExtractRanger parses the Ranger trailer table: the 2.3L row carries 4x2 and
// 4x4 pairs, the V6 rows a single 4x4 pair.
func ExtractRanger(pageText string) []guide.EngineTrailerRow {
	flat := strings.Join(strings.Fields(pageText), " ")
	var rows []guide.EngineTrailerRow

	if m := rangerTwoPairRe.FindStringSubmatch(flat); m != nil {
		rows = append(rows, guide.EngineTrailerRow{
			Engine:    cleanEngineLabel(m[1]),
			AxleRatio: mustRatio(m[2]),
			Variants: []guide.TrailerVariant{
				{Drivetrain: "4x2", GCWRLbs: intTokenPtr(m[3]), MaxTrailerLbs: intTokenPtr(m[4])},
				{Drivetrain: "4x4", GCWRLbs: intTokenPtr(m[5]), MaxTrailerLbs: intTokenPtr(m[6])},
			},
		})
	}
	for _, re := range rangerOnePairRes {
		if m := re.FindStringSubmatch(flat); m != nil {
			rows = append(rows, guide.EngineTrailerRow{
				Engine:    cleanEngineLabel(m[1]),
				AxleRatio: mustRatio(m[2]),
				Variants: []guide.TrailerVariant{
					{Drivetrain: "4x4", GCWRLbs: intTokenPtr(m[3]), MaxTrailerLbs: intTokenPtr(m[4])},
				},
			})
		}
	}
	return rows
}

// cleanEngineLabel repairs the mid-word splits the text layer introduces and
// drops trademark glyphs.
func cleanEngineLabel(s string) string {
	s = strings.ReplaceAll(s, "®", "")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "EcoBoos t", "EcoBoost")
	s = strings.ReplaceAll(s, "Hybri d", "Hybrid")
	return strings.TrimSpace(s)
}

func mustRatio(s string) float64 {
	// The pattern guarantees a d.dd token.
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func intTokenPtr(tok string) *int {
	n, ok := parseIntToken(tok)
	if !ok {
		return nil
	}
	return &n
}

package extract

import (
	"regexp"
	"strings"

	"github.com/stonebridge-motors/towguide/internal/guide"
)

var (
	perfEngineHPRe   = regexp.MustCompile(`^(.+?)\s+\d{2,3}\s+@\s+`)
	perfEngineDispRe = regexp.MustCompile(`^(\d\.\dL.+?)\s+\d{2,3}\s+`)
)

// Sanity bounds for performance rows: a payload above this is a misparsed
// tow figure, a tow figure below it is horsepower/torque leakage.
const (
	perfMaxPayloadCeiling = 20000
	perfMinTowFloor       = 1500
)

// ExtractPerformanceTable parses the per-engine max-towing/max-payload table
// from flattened page text. The last two numbers on an engine row are max
// towing and max payload.
func ExtractPerformanceTable(pageText string) map[string]guide.EnginePerformance {
	engines := make(map[string]guide.EnginePerformance)

	for _, raw := range strings.Split(pageText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		nums := numbersInLine(line)
		if len(nums) < 2 {
			continue
		}
		if !strings.Contains(line, "L") {
			continue
		}
		if strings.Contains(line, "Max Payload") || strings.Contains(line, "Max Towing") || strings.Contains(line, "Available") {
			continue
		}

		m := perfEngineHPRe.FindStringSubmatch(line)
		if m == nil {
			// Some extractions drop the "@" from the horsepower column.
			m = perfEngineDispRe.FindStringSubmatch(line)
		}
		if m == nil {
			continue
		}
		engine := strings.Join(strings.Fields(m[1]), " ")

		maxTow := nums[len(nums)-2]
		maxPayload := nums[len(nums)-1]
		if maxPayload > perfMaxPayloadCeiling || maxTow < perfMinTowFloor {
			continue
		}
		engines[engine] = guide.EnginePerformance{
			MaxTowingLbs:  maxTow,
			MaxPayloadLbs: maxPayload,
		}
	}
	return engines
}

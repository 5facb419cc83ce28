package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/stonebridge-motors/towguide/internal/guide"
)

var (
	engineLineStartRe  = regexp.MustCompile(`^\s*(Electric|\d\.\dL)\b`)
	continuationRe     = regexp.MustCompile(`^\s*\d{1,3},\d{3}`)
	selectorEngineRe   = regexp.MustCompile(`^(Electric|\d\.\dL.+?)\s+(?:\d\.\d{2}(?:/\d\.\d{2})?\s+)?\d{1,3},\d{3}`)
)

// ExtractSelectorSection accumulates tokenized selector rows from flattened
// page text. This path is deliberately lossy: wide tables defeat reliable
// column assignment, and a silently wrong exact number is worse than an
// honest per-engine value set from which only a range can be derived.
func ExtractSelectorSection(pagesText map[int]string, spec guide.SectionSpec, profile *guide.EditionProfile) *guide.SelectorSection {
	section := &guide.SelectorSection{
		Name:        spec.Name,
		PageIndexes: spec.Pages,
		ByEngine:    make(map[string]*guide.EngineAccumulator),
	}

	var currentEngine string
	for _, pi := range spec.Pages {
		for _, raw := range strings.Split(pagesText[pi], "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			if strings.HasPrefix(strings.ToLower(line), "notes:") {
				currentEngine = ""
				continue
			}
			if strings.Contains(line, "TABLE OF") && strings.Contains(line, "CONTENT") {
				continue
			}

			isEngineLine := engineLineStartRe.MatchString(line)
			isContinuation := continuationRe.MatchString(line)
			if !isEngineLine && !isContinuation {
				continue
			}

			if isEngineLine {
				if m := selectorEngineRe.FindStringSubmatch(line); m != nil {
					currentEngine = strings.Join(strings.Fields(m[1]), " ")
				} else {
					// Fallback label: the leading tokens of the line.
					fields := strings.Fields(line)
					if len(fields) > 6 {
						fields = fields[:6]
					}
					currentEngine = strings.Join(fields, " ")
				}
			}
			if currentEngine == "" {
				continue
			}

			nums := numbersInLine(line)
			if len(nums) == 0 {
				continue
			}

			// The leading number is GCWR when it clears the truck GCWR
			// floor; everything after it is a tow figure.
			var gcwr *int
			towValues := nums
			if nums[0] >= profile.GCWRFloorLbs {
				g := nums[0]
				gcwr = &g
				towValues = nums[1:]
			}
			var filtered []int
			for _, n := range towValues {
				if n >= profile.TowFloorLbs {
					filtered = append(filtered, n)
				}
			}

			acc := section.ByEngine[currentEngine]
			if acc == nil {
				acc = &guide.EngineAccumulator{}
				section.ByEngine[currentEngine] = acc
			}
			if gcwr != nil {
				acc.GCWRValuesLbs = append(acc.GCWRValuesLbs, *gcwr)
			}
			acc.TowValuesLbs = append(acc.TowValuesLbs, filtered...)
			acc.RawLines = append(acc.RawLines, line)
		}
	}

	for _, acc := range section.ByEngine {
		acc.GCWRValuesLbs = sortedUnique(acc.GCWRValuesLbs)
		acc.TowValuesLbs = sortedUnique(acc.TowValuesLbs)
	}
	return section
}

func sortedUnique(vals []int) []int {
	if len(vals) == 0 {
		return vals
	}
	seen := make(map[int]bool, len(vals))
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

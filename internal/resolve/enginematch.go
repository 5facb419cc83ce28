package resolve

import (
	"regexp"
	"sort"
	"strings"
)

var (
	displacementRe = regexp.MustCompile(`(\d\.\d)\s*l`)
	dispKeyRe      = regexp.MustCompile(`\b(\d\.\d)l\b`)
	tokenSplitRe   = regexp.MustCompile(`[^a-z0-9]+`)
)

// genericEngineTokens carry no discriminating signal between engine labels.
var genericEngineTokens = map[string]bool{
	"l": true, "v": true, "i4": true, "v6": true, "v8": true,
}

// NormalizeEngine lowers a free-text engine string and front-loads its
// displacement so the matcher can key on it.
func NormalizeEngine(engine string) string {
	if engine == "" {
		return ""
	}
	e := strings.ToLower(engine)
	if m := displacementRe.FindStringSubmatch(e); m != nil {
		return m[1] + "l " + e
	}
	return e
}

// BestEngineKey scores guide engine labels against a normalized vehicle
// engine string and returns the best key with its score. Candidates sharing
// the vehicle's displacement are preferred outright; among those, the label
// with the highest non-generic token overlap wins, ties keeping the earliest
// candidate. The score is returned so callers can apply their own acceptance
// threshold; an empty key means no candidate at all.
func BestEngineKey(engineNorm string, candidates []string) (string, int) {
	if engineNorm == "" || len(candidates) == 0 {
		return "", 0
	}

	pool := candidates
	if m := dispKeyRe.FindStringSubmatch(engineNorm); m != nil {
		var hits []string
		for _, k := range candidates {
			if strings.Contains(strings.ToLower(k), m[1]) {
				hits = append(hits, k)
			}
		}
		if len(hits) > 0 {
			pool = hits
		}
	}

	var tokens []string
	for _, t := range tokenSplitRe.Split(engineNorm, -1) {
		if t != "" && !genericEngineTokens[t] {
			tokens = append(tokens, t)
		}
	}

	best := ""
	bestScore := -1
	for _, k := range pool {
		kl := strings.ToLower(k)
		score := 0
		for _, t := range tokens {
			if strings.Contains(kl, t) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = k
		}
	}
	return best, bestScore
}

// sortedKeys returns map keys in a deterministic order for matching.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

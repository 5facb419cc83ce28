package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// footnoteNumRe matches a comma-grouped number with exactly one stray
	// digit appended ("13,5004"): an extraction artifact where a footnote
	// marker fused onto the value.
	footnoteNumRe = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+\d$`)

	// lineNumberRe finds numeric tokens on a flattened line: comma-grouped
	// numbers (optionally fused with extra digits or slash variants) and
	// plain 3-6 digit numbers.
	lineNumberRe = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\d+)?|\d{3,6}`)

	nonDigitRe = regexp.MustCompile(`[^\d]`)

	wheelbaseRe = regexp.MustCompile(`(?i)(\d{3}\.\d)\s*"?\s*WB`)
)

// parseIntToken parses an integer that may carry comma grouping and a fused
// trailing footnote digit. The trailing digit is dropped only when the
// original token unambiguously shows the appended-digit pattern.
func parseIntToken(tok string) (int, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, false
	}
	cleaned := strings.ReplaceAll(tok, ",", "")
	if footnoteNumRe.MatchString(tok) {
		cleaned = cleaned[:len(cleaned)-1]
	}
	cleaned = nonDigitRe.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return n, true
}

// numbersInLine extracts every integer on a flattened line, splitting slash
// forms ("10,300/9,9002") into separate values. Malformed tokens are skipped.
func numbersInLine(line string) []int {
	var out []int
	for _, tok := range lineNumberRe.FindAllString(line, -1) {
		for _, part := range strings.Split(tok, "/") {
			if n, ok := parseIntToken(part); ok {
				out = append(out, n)
			}
		}
	}
	return out
}

// parseWheelbaseToken extracts the wheelbase from a header token such as
// `4x4 141.5" WB`.
func parseWheelbaseToken(s string) (float64, bool) {
	m := wheelbaseRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	wb, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return wb, true
}

// drivetrainFromToken pulls the drivetrain prefix off a header wheelbase
// token. Only 4x4/4x2 appear in the guide's headers.
func drivetrainFromToken(s string) (string, bool) {
	switch {
	case strings.Contains(s, "4x4"):
		return "4x4", true
	case strings.Contains(s, "4x2"):
		return "4x2", true
	default:
		return "", false
	}
}

package lyrics

import (
	"regexp"
	"strings"
)

var sectionHeader = regexp.MustCompile(`^\[[^\]]+\]`)

// Clean normalizes scraped lyrics text. The scraped markup leaves two
// artifacts regardless of source: continuation fragments that start with a
// comma on their own line, and section headers like "[Chorus]" jammed
// against the preceding line. Applying Clean to already-clean text is a
// no-op.
func Clean(text string) string {
	lines := strings.Split(text, "\n")

	// fold ", ..." continuation lines back into the previous non-blank line
	merged := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ",") {
			folded := false
			for i := len(merged) - 1; i >= 0; i-- {
				if strings.TrimSpace(merged[i]) != "" {
					merged[i] += trimmed
					folded = true
					break
				}
			}
			if folded {
				continue
			}
		}
		merged = append(merged, line)
	}

	// a section header gets one blank line above it unless it already has one
	// or opens the text
	spaced := make([]string, 0, len(merged))
	for _, line := range merged {
		if sectionHeader.MatchString(strings.TrimSpace(line)) &&
			len(spaced) > 0 && strings.TrimSpace(spaced[len(spaced)-1]) != "" {
			spaced = append(spaced, "")
		}
		spaced = append(spaced, line)
	}

	// runs of 3+ blank lines collapse to exactly one
	out := make([]string, 0, len(spaced))
	blanks := 0
	flush := func() {
		if blanks >= 3 {
			out = append(out, "")
		} else {
			for i := 0; i < blanks; i++ {
				out = append(out, "")
			}
		}
		blanks = 0
	}
	for _, line := range spaced {
		if strings.TrimSpace(line) == "" {
			blanks++
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	return strings.Join(out, "\n")
}

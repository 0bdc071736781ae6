package align

import "strings"

// Delimiter separates segment texts in the single synthesis request. The
// three-dot marker is the only boundary signal the slicer has, so segment
// texts must never contain it themselves.
const (
	Delimiter = " ... "
	marker    = "."
	markerRun = 3
)

// SanitizeText removes anything that could be mistaken for the delimiter:
// literal ellipsis runes and runs of three or more periods are replaced with
// a comma. This is a correctness requirement, not cosmetics: a stray run
// would split the narration at the wrong place.
func SanitizeText(text string) string {
	clean := strings.ReplaceAll(text, "…", ",")

	var b strings.Builder
	b.Grow(len(clean))
	run := 0
	for _, r := range clean {
		if r == '.' {
			run++
			continue
		}
		b.WriteString(flushDots(run))
		run = 0
		b.WriteRune(r)
	}
	b.WriteString(flushDots(run))
	return b.String()
}

// flushDots renders a pending period run, collapsing delimiter-length runs.
func flushDots(run int) string {
	if run >= markerRun {
		return ","
	}
	return strings.Repeat(".", run)
}

// BuildScript sanitizes and joins the participating segment texts into the
// one string sent to synthesis. Empty texts are skipped entirely; they do
// not produce an empty slot in the joined script.
func BuildScript(texts []string) (string, int) {
	parts := make([]string, 0, len(texts))
	for _, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		parts = append(parts, SanitizeText(trimmed))
	}
	return strings.Join(parts, Delimiter), len(parts)
}

package align

import (
	"fmt"

	"voicecut/internal/domain"
)

// lastPadSeconds extends the final segment's window past its last character
// so the closing word is not clipped.
const lastPadSeconds = 0.5

// nearZeroWidth is the width below which a sliced window is considered
// degenerate and worth flagging.
const nearZeroWidth = 0.01

// Result carries the sliced per-segment windows plus advisory warnings for
// degenerate (near-zero) windows.
type Result struct {
	Ranges   []domain.AudioRange
	Warnings []string
}

// Slice recovers per-segment audio windows from character-level alignment of
// the delimiter-joined synthesis output. expected is the number of texts that
// participated in the joined script; a mismatch between detected boundaries
// and expected segments aborts with a delimiter error rather than mis-pairing
// trailing segments positionally.
func Slice(al domain.Alignment, expected int) (Result, error) {
	if err := validateAlignment(al); err != nil {
		return Result{}, err
	}
	if expected <= 0 {
		return Result{}, domain.NewError(domain.KindAlignmentMalformed, "no segments participate in slicing")
	}
	if len(al.Characters) == 0 {
		return Result{}, domain.NewError(domain.KindAlignmentMalformed, "alignment contains no characters")
	}

	ranges := scan(al)
	if len(ranges) != expected {
		return Result{}, domain.NewError(
			domain.KindDelimiterMismatch,
			"detected %d narration windows for %d segments (synthesis dropped or merged a delimiter)",
			len(ranges), expected,
		)
	}

	absorbPauses(ranges)

	result := Result{Ranges: ranges}
	for i, r := range ranges {
		if r.End-r.Start < nearZeroWidth {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("segment %d narration window is nearly empty (%.3fs-%.3fs)", i, r.Start, r.End))
		}
	}
	return result, nil
}

// scan walks the character stream once and cuts a provisional window at each
// run of three or more consecutive marker characters. Synthesis engines drop
// whitespace unpredictably, so the markers may or may not be separated by
// spaces; the run match tolerates both.
func scan(al domain.Alignment) []domain.AudioRange {
	chars := al.Characters
	n := len(chars)

	ranges := make([]domain.AudioRange, 0, 4)
	// The first window always opens at zero, not at the first character's
	// start time, so leading synthesis silence belongs to the first segment.
	current := domain.AudioRange{Start: 0}

	for i := 0; i < n; i++ {
		if !isMarkerRun(chars, i) {
			continue
		}

		end := i
		for end+1 < n && chars[end+1] == marker {
			end++
		}

		current.End = al.StartTimes[i]
		ranges = append(ranges, current)
		current = domain.AudioRange{Start: nextWindowStart(al, end)}

		// Jump past the full run so overlapping marker triples cannot
		// re-match inside it.
		i = end
	}

	current.End = al.EndTimes[n-1]
	ranges = append(ranges, current)
	return ranges
}

// isMarkerRun reports whether a delimiter-length marker run begins at i.
func isMarkerRun(chars []string, i int) bool {
	if i+markerRun > len(chars) {
		return false
	}
	for j := i; j < i+markerRun; j++ {
		if chars[j] != marker {
			return false
		}
	}
	return true
}

// nextWindowStart picks the opening time of the window that follows a
// delimiter run ending at index end: the character two past the run (the one
// after the usual trailing space), else the one immediately after, else the
// run's own end time when the stream is exhausted.
func nextWindowStart(al domain.Alignment, end int) float64 {
	if end+2 < len(al.Characters) {
		return al.StartTimes[end+2]
	}
	if end+1 < len(al.Characters) {
		return al.StartTimes[end+1]
	}
	return al.EndTimes[end]
}

// absorbPauses folds each inter-segment pause into the earlier window so
// sync stretches the video across the pause instead of leaving a gap. The
// final window gets the fixed tail pad instead.
func absorbPauses(ranges []domain.AudioRange) {
	for i := 0; i < len(ranges)-1; i++ {
		ranges[i].End = ranges[i+1].Start
	}
	if len(ranges) > 0 {
		ranges[len(ranges)-1].End += lastPadSeconds
	}
}

// validateAlignment rejects mismatched array lengths and non-monotonic
// timestamps before any boundary is computed. Partial slicing is never
// acceptable: narration windows are valid all-or-nothing.
func validateAlignment(al domain.Alignment) error {
	if len(al.Characters) != len(al.StartTimes) || len(al.Characters) != len(al.EndTimes) {
		return domain.NewError(
			domain.KindAlignmentMalformed,
			"alignment arrays disagree: %d characters, %d start times, %d end times",
			len(al.Characters), len(al.StartTimes), len(al.EndTimes),
		)
	}

	prev := 0.0
	for i := range al.Characters {
		if al.StartTimes[i] < prev {
			return domain.NewError(
				domain.KindAlignmentMalformed,
				"start times regress at character %d (%.4f < %.4f)", i, al.StartTimes[i], prev,
			)
		}
		if al.EndTimes[i] < al.StartTimes[i] {
			return domain.NewError(
				domain.KindAlignmentMalformed,
				"character %d ends before it starts (%.4f < %.4f)", i, al.EndTimes[i], al.StartTimes[i],
			)
		}
		prev = al.StartTimes[i]
	}
	return nil
}

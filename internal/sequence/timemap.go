package sequence

import "voicecut/internal/domain"

// The time mapper converts between sequence time (gapless concatenation of
// segment durations, what the scrubber shows) and source time (raw offsets
// into the original video, which may have trimmed-out gaps). Pure functions
// over a snapshot; playback state never enters here.

// TotalSequenceDuration sums the visual duration of every segment.
func TotalSequenceDuration(segments []domain.Segment) float64 {
	total := 0.0
	for _, seg := range segments {
		total += seg.SourceDuration()
	}
	return total
}

// ToSequenceTime maps a source-video time to gapless sequence time. Times
// before the first segment map to 0; times matching no segment (inside a
// trimmed gap) are treated as past-the-end and map to the total duration.
func ToSequenceTime(segments []domain.Segment, sourceTime float64) float64 {
	if len(segments) == 0 {
		return 0
	}
	if sourceTime < segments[0].SourceStart {
		return 0
	}

	acc := 0.0
	for _, seg := range segments {
		if sourceTime >= seg.SourceStart && sourceTime < seg.SourceEnd {
			return acc + (sourceTime - seg.SourceStart)
		}
		acc += seg.SourceDuration()
	}
	return acc
}

// SourcePosition is a resolved point on the original video timeline.
type SourcePosition struct {
	Time      float64 `json:"time"`
	SegmentID string  `json:"segmentId,omitempty"`
}

// ToSourceTime maps a gapless sequence time back to the original video,
// clamping the input to the valid range. An empty sequence resolves to the
// zero position with no segment.
func ToSourceTime(segments []domain.Segment, sequenceTime float64) SourcePosition {
	if len(segments) == 0 {
		return SourcePosition{}
	}

	total := TotalSequenceDuration(segments)
	if sequenceTime < 0 {
		sequenceTime = 0
	}
	if sequenceTime >= total {
		last := segments[len(segments)-1]
		return SourcePosition{Time: last.SourceEnd, SegmentID: last.ID}
	}

	acc := 0.0
	for _, seg := range segments {
		dur := seg.SourceDuration()
		if sequenceTime < acc+dur {
			return SourcePosition{Time: seg.SourceStart + (sequenceTime - acc), SegmentID: seg.ID}
		}
		acc += dur
	}

	last := segments[len(segments)-1]
	return SourcePosition{Time: last.SourceEnd, SegmentID: last.ID}
}

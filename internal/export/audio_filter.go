package export

import (
	"fmt"
	"strings"
)

// buildAudioFilter produces the filter_complex for the encoder's audio
// input (stream 1). Narrated exports retime the single pre-sliced track by
// the user speed and trim it to the output length; fallback exports rebuild
// the track from the source audio clip by clip, retimed per clip. The
// narrated track is silence-padded first so the footage tail past the last
// sample survives the encoder's -shortest cutoff.
func buildAudioFilter(plan Plan) string {
	if plan.Narrated {
		return fmt.Sprintf("[1:a]apad%s,atrim=0:%f,asetpts=PTS-STARTPTS[aout]",
			atempoChain(plan.Speed), plan.TotalDuration())
	}
	return buildSourceAudioFilter(plan.Clips)
}

// buildSourceAudioFilter trims each clip's window out of the source audio,
// retimes it with atempo, and concatenates the pieces.
func buildSourceAudioFilter(clips []Clip) string {
	var b strings.Builder
	labels := make([]string, len(clips))

	for i, clip := range clips {
		label := fmt.Sprintf("[a%d]", i)
		labels[i] = label
		fmt.Fprintf(&b, "[1:a]atrim=%f:%f,asetpts=PTS-STARTPTS%s%s;",
			clip.SourceStart, clip.SourceEnd, atempoChain(clip.Rate), label)
	}

	b.WriteString(strings.Join(labels, ""))
	fmt.Fprintf(&b, "concat=n=%d:v=0:a=1[aout]", len(clips))
	return b.String()
}

// atempoChain renders a rate as a chain of atempo filters. ffmpeg bounds a
// single atempo to [0.5, 2.0], so rates outside that range are decomposed
// into in-range factors.
func atempoChain(rate float64) string {
	if rate <= 0 || rate == 1.0 {
		return ""
	}

	var b strings.Builder
	for _, factor := range atempoFactors(rate) {
		fmt.Fprintf(&b, ",atempo=%f", factor)
	}
	return b.String()
}

// atempoFactors decomposes a rate into factors each within [0.5, 2.0].
func atempoFactors(rate float64) []float64 {
	var factors []float64
	for rate > 2.0 {
		factors = append(factors, 2.0)
		rate /= 2.0
	}
	for rate < 0.5 {
		factors = append(factors, 0.5)
		rate /= 0.5
	}
	return append(factors, rate)
}

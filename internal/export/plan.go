package export

import (
	"fmt"

	"voicecut/internal/domain"
	"voicecut/internal/playback"
)

// Clip is one segment resolved for rendering: a source window, the export
// playback rate, and the clip's duration on the output timeline. With
// narration the audio window is the clock; without it the footage plays at
// the user speed.
type Clip struct {
	SegmentID   string
	SourceStart float64
	SourceEnd   float64
	Rate        float64
	Duration    float64
	// Freeze is how many trailing seconds of the clip slot have no footage
	// behind them. Non-zero only when the rate is pinned at the floor; the
	// compositor holds the last decoded frame for that long.
	Freeze float64
}

// Plan is the full render order.
type Plan struct {
	Clips []Clip
	// Narrated reports whether the master narration track is the audio
	// source; otherwise the source video's own audio is used.
	Narrated bool
	// Speed is the normalized narration speed multiplier the plan was built
	// with; the narrated audio track is retimed by it.
	Speed float64
}

// TotalDuration is the output length: the sum of all clip durations.
func (p Plan) TotalDuration() float64 {
	total := 0.0
	for _, clip := range p.Clips {
		total += clip.Duration
	}
	return total
}

// BuildPlan resolves segments into render clips. When narration is present
// every spoken clip must carry an audio window; mixing annotated and
// unannotated spoken segments would desynchronize the single master track.
func BuildPlan(segments []domain.Segment, narrated bool, cfg playback.RateConfig) (Plan, error) {
	if len(segments) == 0 {
		return Plan{}, fmt.Errorf("nothing to export: sequence is empty")
	}

	speed := cfg.Speed
	if speed <= 0 {
		speed = playback.DefaultNarration
	}
	plan := Plan{Narrated: narrated, Speed: speed, Clips: make([]Clip, 0, len(segments))}

	for i, seg := range segments {
		clip := Clip{
			SegmentID:   seg.ID,
			SourceStart: seg.SourceStart,
			SourceEnd:   seg.SourceEnd,
		}

		if narrated {
			if !seg.HasNarration() {
				if !seg.IsSpoken() {
					// Silent segments are skipped in narrated exports; they
					// have no window on the narration timeline.
					continue
				}
				return Plan{}, fmt.Errorf("segment %d has no narration window", i)
			}
			// The clip occupies the segment's window on the retimed
			// narration track, so the slot shrinks with the speed factor.
			audioDur := seg.AudioDuration()
			clip.Rate = playback.RateFor(seg.SourceDuration(), audioDur, cfg)
			clip.Duration = audioDur / speed
			covered := clip.Rate * clip.Duration
			if covered < seg.SourceDuration() {
				// Ceiling-pinned: trim the source so the decode stream ends
				// with the slot instead of overrunning it.
				clip.SourceEnd = clip.SourceStart + covered
			} else if covered > seg.SourceDuration() {
				// Floor-pinned: the footage runs dry before the slot does.
				clip.Freeze = clip.Duration - seg.SourceDuration()/clip.Rate
			}
		} else {
			clip.Rate = playback.RateFor(seg.SourceDuration(), 0, cfg)
			clip.Duration = seg.SourceDuration() / clip.Rate
		}

		if clip.Duration <= 0 {
			return Plan{}, fmt.Errorf("segment %d resolves to an empty clip", i)
		}
		plan.Clips = append(plan.Clips, clip)
	}

	if len(plan.Clips) == 0 {
		return Plan{}, fmt.Errorf("nothing to export: no segment has narration")
	}
	return plan, nil
}

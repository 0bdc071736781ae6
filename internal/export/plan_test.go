package export

import (
	"math"
	"testing"

	"voicecut/internal/domain"
	"voicecut/internal/playback"
)

func floatPtr(v float64) *float64 { return &v }

// TestBuildPlanNarratedUsesAudioWindow checks the narration window sets the
// clip duration and the rate covers the footage.
func TestBuildPlanNarratedUsesAudioWindow(t *testing.T) {
	segments := []domain.Segment{{
		ID:          "a",
		SourceStart: 2,
		SourceEnd:   12,
		Text:        "hello",
		AudioStart:  floatPtr(0),
		AudioEnd:    floatPtr(5),
	}}

	plan, err := BuildPlan(segments, true, playback.ExportRateConfig(1.0, 0))
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if len(plan.Clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(plan.Clips))
	}
	clip := plan.Clips[0]
	if clip.Duration != 5 {
		t.Fatalf("duration = %v, want 5", clip.Duration)
	}
	if clip.Rate != 2.0 {
		t.Fatalf("rate = %v, want 2.0", clip.Rate)
	}
	if clip.SourceEnd != 12 {
		t.Fatalf("source end = %v, want 12 (full coverage, no trim)", clip.SourceEnd)
	}
}

// TestBuildPlanTrimsSourceAtRateCeiling checks a clip whose footage cannot
// be covered at the capped rate gets its source window shortened.
func TestBuildPlanTrimsSourceAtRateCeiling(t *testing.T) {
	segments := []domain.Segment{{
		ID:          "a",
		SourceStart: 0,
		SourceEnd:   10,
		Text:        "fast",
		AudioStart:  floatPtr(0),
		AudioEnd:    floatPtr(2),
	}}

	plan, err := BuildPlan(segments, true, playback.ExportRateConfig(1.0, 0))
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	clip := plan.Clips[0]
	if clip.Rate != 4.0 {
		t.Fatalf("rate = %v, want ceiling 4.0", clip.Rate)
	}
	if math.Abs(clip.SourceEnd-8.0) > 1e-9 {
		t.Fatalf("source end = %v, want 8.0", clip.SourceEnd)
	}
	if clip.Duration != 2 {
		t.Fatalf("duration = %v, want 2", clip.Duration)
	}
}

// TestBuildPlanNarratedSpeedShrinksSlot checks the speed multiplier shrinks
// the clip slot to match the retimed narration, keeping rate and footage in
// lockstep.
func TestBuildPlanNarratedSpeedShrinksSlot(t *testing.T) {
	segments := []domain.Segment{{
		ID:          "a",
		SourceStart: 0,
		SourceEnd:   10,
		Text:        "hello",
		AudioStart:  floatPtr(0),
		AudioEnd:    floatPtr(5),
	}}

	plan, err := BuildPlan(segments, true, playback.ExportRateConfig(1.2, 0))
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	clip := plan.Clips[0]
	if math.Abs(clip.Rate-2.4) > 1e-9 {
		t.Fatalf("rate = %v, want 2.4", clip.Rate)
	}
	if math.Abs(clip.Duration-5.0/1.2) > 1e-9 {
		t.Fatalf("duration = %v, want %v", clip.Duration, 5.0/1.2)
	}
	// Footage at rate 2.4 delivers exactly the slot length; no trim.
	if math.Abs(clip.SourceEnd-10) > 1e-9 {
		t.Fatalf("source end = %v, want 10", clip.SourceEnd)
	}
	deliverable := (clip.SourceEnd - clip.SourceStart) / clip.Rate
	if math.Abs(deliverable-clip.Duration) > 1e-9 {
		t.Fatalf("deliverable footage %v does not fill the %vs slot", deliverable, clip.Duration)
	}
	if plan.Speed != 1.2 {
		t.Fatalf("plan speed = %v, want 1.2", plan.Speed)
	}
}

// TestBuildPlanFreezesTailAtRateFloor checks a floor-pinned clip records the
// footage-less tail of its slot instead of starving the render.
func TestBuildPlanFreezesTailAtRateFloor(t *testing.T) {
	segments := []domain.Segment{{
		ID:          "a",
		SourceStart: 0,
		SourceEnd:   0.2,
		Text:        "slow",
		AudioStart:  floatPtr(0),
		AudioEnd:    floatPtr(50),
	}}

	plan, err := BuildPlan(segments, true, playback.ExportRateConfig(1.0, 0))
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	clip := plan.Clips[0]
	if clip.Rate != playback.MinRate {
		t.Fatalf("rate = %v, want floor %v", clip.Rate, playback.MinRate)
	}
	if clip.Duration != 50 {
		t.Fatalf("duration = %v, want 50", clip.Duration)
	}
	// 0.2s of footage at rate 0.1 fills 2s; the remaining 48s are frozen.
	if math.Abs(clip.Freeze-48) > 1e-9 {
		t.Fatalf("freeze = %v, want 48", clip.Freeze)
	}
}

// TestBuildPlanSkipsSilentSegmentsWhenNarrated checks blank segments are
// dropped from a narrated render.
func TestBuildPlanSkipsSilentSegmentsWhenNarrated(t *testing.T) {
	segments := []domain.Segment{
		{ID: "silent", SourceStart: 0, SourceEnd: 3},
		{ID: "blank", SourceStart: 3, SourceEnd: 4, Text: "   "},
		{ID: "spoken", SourceStart: 4, SourceEnd: 9, Text: "hi",
			AudioStart: floatPtr(0), AudioEnd: floatPtr(5)},
	}

	plan, err := BuildPlan(segments, true, playback.ExportRateConfig(1.0, 0))
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if len(plan.Clips) != 1 || plan.Clips[0].SegmentID != "spoken" {
		t.Fatalf("clips = %+v, want only the spoken segment", plan.Clips)
	}
}

// TestBuildPlanRejectsMissingWindow checks a segment with text but no audio
// window fails the narrated plan.
func TestBuildPlanRejectsMissingWindow(t *testing.T) {
	segments := []domain.Segment{{ID: "a", SourceStart: 0, SourceEnd: 3, Text: "hi"}}
	if _, err := BuildPlan(segments, true, playback.ExportRateConfig(1.0, 0)); err == nil {
		t.Fatal("expected error for narrated plan without window")
	}
}

// TestBuildPlanFallbackUsesSpeed checks that without narration the clip
// plays the source window at the user speed.
func TestBuildPlanFallbackUsesSpeed(t *testing.T) {
	segments := []domain.Segment{{ID: "a", SourceStart: 0, SourceEnd: 10}}

	plan, err := BuildPlan(segments, false, playback.ExportRateConfig(2.0, 0))
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	clip := plan.Clips[0]
	if clip.Rate != 2.0 {
		t.Fatalf("rate = %v, want 2.0", clip.Rate)
	}
	if clip.Duration != 5 {
		t.Fatalf("duration = %v, want 5", clip.Duration)
	}
	if plan.TotalDuration() != 5 {
		t.Fatalf("total = %v, want 5", plan.TotalDuration())
	}
}

// TestBuildPlanRejectsEmptySequence checks empty input fails early.
func TestBuildPlanRejectsEmptySequence(t *testing.T) {
	if _, err := BuildPlan(nil, false, playback.ExportRateConfig(1.0, 0)); err == nil {
		t.Fatal("expected error for empty sequence")
	}
}

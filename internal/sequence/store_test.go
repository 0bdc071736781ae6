package sequence

import (
	"errors"
	"fmt"
	"testing"

	"voicecut/internal/domain"
	"voicecut/internal/playback"
)

// newTestStore creates a store with sequential ids seg-1, seg-2, ...
func newTestStore() *Store {
	n := 0
	return NewStoreForTests(func() string {
		n++
		return fmt.Sprintf("seg-%d", n)
	})
}

// loadFive populates five one-sentence segments of 10 source seconds each.
func loadFive(t *testing.T, s *Store) []domain.Segment {
	t.Helper()
	items := make([]domain.AnalysisSegment, 5)
	for i := range items {
		items[i] = domain.AnalysisSegment{
			StartSeconds:    float64(i) * 10,
			DurationSeconds: 10,
			Text:            fmt.Sprintf("sentence %d", i),
		}
	}
	if got := s.LoadAnalysis(items); got != 5 {
		t.Fatalf("loaded %d segments, want 5", got)
	}
	return s.Snapshot()
}

// applyFiveRanges attaches contiguous 5-second narration windows to all five
// segments.
func applyFiveRanges(t *testing.T, s *Store) {
	t.Helper()
	ranges := make([]domain.AudioRange, 5)
	for i := range ranges {
		ranges[i] = domain.AudioRange{Start: float64(i) * 5, End: float64(i+1) * 5}
	}
	audio := domain.MasterAudio{Path: "/tmp/narration.wav", Duration: 25}
	err := s.ApplyNarration(s.Generation(), audio, ranges, playback.LiveRateConfig(1, 0))
	if err != nil {
		t.Fatalf("ApplyNarration() error = %v", err)
	}
}

// TestLoadAnalysisCreatesOrderedSegments checks bulk creation from analysis.
func TestLoadAnalysisCreatesOrderedSegments(t *testing.T) {
	s := newTestStore()
	segs := loadFive(t, s)

	if segs[2].SourceStart != 20 || segs[2].SourceEnd != 30 {
		t.Fatalf("segment 2 window = [%v, %v]", segs[2].SourceStart, segs[2].SourceEnd)
	}
	if segs[2].Text != "sentence 2" {
		t.Fatalf("segment 2 text = %q", segs[2].Text)
	}
	if segs[0].ID == segs[1].ID {
		t.Fatal("segment ids must be unique")
	}
}

// TestApplyNarrationAnnotatesRatesAndAudio checks windows and clamped rates
// land on every spoken segment.
func TestApplyNarrationAnnotatesRatesAndAudio(t *testing.T) {
	s := newTestStore()
	loadFive(t, s)
	applyFiveRanges(t, s)

	segs := s.Snapshot()
	for i, seg := range segs {
		if !seg.HasNarration() {
			t.Fatalf("segment %d has no narration window", i)
		}
		// 10s of footage over 5s of narration is rate 2.0, clamped to the
		// live ceiling of 1.5.
		if *seg.PlaybackRate != playback.MaxRateLive {
			t.Fatalf("segment %d rate = %v, want %v", i, *seg.PlaybackRate, playback.MaxRateLive)
		}
	}
	if s.Audio() == nil {
		t.Fatal("master audio handle missing")
	}
}

// TestEditTextInvalidatesEverySegment checks one text edit clears narration
// state on all five segments and the master audio handle atomically.
func TestEditTextInvalidatesEverySegment(t *testing.T) {
	s := newTestStore()
	segs := loadFive(t, s)
	applyFiveRanges(t, s)

	if err := s.EditText(segs[2].ID, "rewritten line"); err != nil {
		t.Fatalf("EditText() error = %v", err)
	}

	for i, seg := range s.Snapshot() {
		if seg.AudioStart != nil || seg.AudioEnd != nil || seg.PlaybackRate != nil {
			t.Fatalf("segment %d kept narration fields after edit", i)
		}
	}
	if s.Audio() != nil {
		t.Fatal("master audio handle survived invalidation")
	}
}

// TestReorderAndRemoveInvalidate checks structural edits drop narration too.
func TestReorderAndRemoveInvalidate(t *testing.T) {
	s := newTestStore()
	segs := loadFive(t, s)
	applyFiveRanges(t, s)

	if err := s.Swap(segs[1].ID, 1); err != nil {
		t.Fatalf("Swap() error = %v", err)
	}
	if s.Audio() != nil {
		t.Fatal("audio survived reorder")
	}

	applyFiveRanges(t, s)
	if err := s.Remove(segs[0].ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if s.Audio() != nil {
		t.Fatal("audio survived removal")
	}
	if len(s.Snapshot()) != 4 {
		t.Fatalf("segments = %d, want 4", len(s.Snapshot()))
	}
}

// TestApplyNarrationRejectsStaleGeneration checks results computed against
// an outdated list are discarded without touching segments.
func TestApplyNarrationRejectsStaleGeneration(t *testing.T) {
	s := newTestStore()
	segs := loadFive(t, s)
	staleGen := s.Generation()

	// List mutates while synthesis is in flight.
	if err := s.EditText(segs[0].ID, "changed"); err != nil {
		t.Fatalf("EditText() error = %v", err)
	}

	ranges := make([]domain.AudioRange, 5)
	for i := range ranges {
		ranges[i] = domain.AudioRange{Start: float64(i), End: float64(i) + 1}
	}
	err := s.ApplyNarration(staleGen, domain.MasterAudio{Path: "x.wav"}, ranges, playback.LiveRateConfig(1, 0))
	if err == nil {
		t.Fatal("expected stale result error")
	}
	if !domain.IsKind(err, domain.KindStaleResult) {
		t.Fatalf("error = %v, want stale result kind", err)
	}
	for i, seg := range s.Snapshot() {
		if seg.HasNarration() {
			t.Fatalf("segment %d gained narration from stale result", i)
		}
	}
}

// TestApplyNarrationSkipsSilentSegments checks windows pair only with
// segments that have text.
func TestApplyNarrationSkipsSilentSegments(t *testing.T) {
	s := newTestStore()
	segs := loadFive(t, s)
	if err := s.EditText(segs[3].ID, ""); err != nil {
		t.Fatalf("EditText() error = %v", err)
	}

	ranges := make([]domain.AudioRange, 4)
	for i := range ranges {
		ranges[i] = domain.AudioRange{Start: float64(i) * 2, End: float64(i+1) * 2}
	}
	err := s.ApplyNarration(s.Generation(), domain.MasterAudio{Path: "n.wav"}, ranges, playback.LiveRateConfig(1, 0))
	if err != nil {
		t.Fatalf("ApplyNarration() error = %v", err)
	}

	snapshot := s.Snapshot()
	if snapshot[3].HasNarration() {
		t.Fatal("silent segment received a narration window")
	}
	if !snapshot[4].HasNarration() {
		t.Fatal("segment after the silent one lost its window")
	}
}

// TestApplyNarrationTreatsWhitespaceTextAsSilent checks pairing counts
// spoken segments the way the script builder does: text that trims to
// nothing never reaches synthesis, so it must not claim a window either.
func TestApplyNarrationTreatsWhitespaceTextAsSilent(t *testing.T) {
	s := newTestStore()
	segs := loadFive(t, s)
	if err := s.EditText(segs[2].ID, "   "); err != nil {
		t.Fatalf("EditText() error = %v", err)
	}

	ranges := make([]domain.AudioRange, 4)
	for i := range ranges {
		ranges[i] = domain.AudioRange{Start: float64(i) * 2, End: float64(i+1) * 2}
	}
	err := s.ApplyNarration(s.Generation(), domain.MasterAudio{Path: "n.wav"}, ranges, playback.LiveRateConfig(1, 0))
	if err != nil {
		t.Fatalf("ApplyNarration() error = %v", err)
	}

	snapshot := s.Snapshot()
	if snapshot[2].HasNarration() {
		t.Fatal("whitespace-only segment received a narration window")
	}
	if !snapshot[3].HasNarration() || !snapshot[4].HasNarration() {
		t.Fatal("segments after the whitespace one lost their windows")
	}
}

// TestApplyNarrationWindowCountMismatch checks pairing refuses to guess.
func TestApplyNarrationWindowCountMismatch(t *testing.T) {
	s := newTestStore()
	loadFive(t, s)

	err := s.ApplyNarration(s.Generation(), domain.MasterAudio{}, []domain.AudioRange{{Start: 0, End: 1}}, playback.LiveRateConfig(1, 0))
	if !domain.IsKind(err, domain.KindDelimiterMismatch) {
		t.Fatalf("error = %v, want delimiter mismatch kind", err)
	}
}

// TestSplitDividesWindowAndIssues checks the cut point, text ownership, and
// issue distribution.
func TestSplitDividesWindowAndIssues(t *testing.T) {
	s := newTestStore()
	segs := loadFive(t, s)
	target := segs[1] // [10, 20)

	if err := s.AddIssue(target.ID, domain.Issue{Kind: domain.IssueSilence, Start: 11, End: 12, Reason: "dead air"}); err != nil {
		t.Fatalf("AddIssue() error = %v", err)
	}
	if err := s.AddIssue(target.ID, domain.Issue{Kind: domain.IssueRedundancy, Start: 17, End: 19, Reason: "repeats intro"}); err != nil {
		t.Fatalf("AddIssue() error = %v", err)
	}

	newID, err := s.Split(target.ID, 15)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	snapshot := s.Snapshot()
	if len(snapshot) != 6 {
		t.Fatalf("segments = %d, want 6", len(snapshot))
	}
	first, second := snapshot[1], snapshot[2]
	if first.SourceEnd != 15 || second.SourceStart != 15 || second.SourceEnd != 20 {
		t.Fatalf("split windows = [%v,%v] [%v,%v]", first.SourceStart, first.SourceEnd, second.SourceStart, second.SourceEnd)
	}
	if second.ID != newID {
		t.Fatalf("second id = %q, want %q", second.ID, newID)
	}
	if first.Text != "sentence 1" || second.Text != "" {
		t.Fatalf("text after split: first=%q second=%q", first.Text, second.Text)
	}
	if len(first.Issues) != 1 || first.Issues[0].Kind != domain.IssueSilence {
		t.Fatalf("first issues = %+v", first.Issues)
	}
	if len(second.Issues) != 1 || second.Issues[0].Kind != domain.IssueRedundancy {
		t.Fatalf("second issues = %+v", second.Issues)
	}
}

// TestSplitRejectsOutOfWindowCut checks boundary validation.
func TestSplitRejectsOutOfWindowCut(t *testing.T) {
	s := newTestStore()
	segs := loadFive(t, s)

	if _, err := s.Split(segs[0].ID, 0); err == nil {
		t.Fatal("expected error for cut at window start")
	}
	if _, err := s.Split(segs[0].ID, 25); err == nil {
		t.Fatal("expected error for cut outside window")
	}
}

// TestOperationsOnUnknownSegment checks the sentinel not-found error.
func TestOperationsOnUnknownSegment(t *testing.T) {
	s := newTestStore()
	loadFive(t, s)

	if err := s.EditText("nope", "x"); !errors.Is(err, ErrSegmentNotFound) {
		t.Fatalf("error = %v, want ErrSegmentNotFound", err)
	}
	if err := s.Swap("nope", 1); !errors.Is(err, ErrSegmentNotFound) {
		t.Fatalf("error = %v, want ErrSegmentNotFound", err)
	}
}

// TestSwapRejectsEdgeMoves checks moves past the sequence edge fail.
func TestSwapRejectsEdgeMoves(t *testing.T) {
	s := newTestStore()
	segs := loadFive(t, s)

	if err := s.Swap(segs[0].ID, -1); err == nil {
		t.Fatal("expected edge error")
	}
	if err := s.Swap(segs[4].ID, 1); err == nil {
		t.Fatal("expected edge error")
	}
}

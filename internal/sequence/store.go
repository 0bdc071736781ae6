package sequence

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"voicecut/internal/domain"
	"voicecut/internal/playback"
)

// ErrSegmentNotFound is returned when an operation targets an unknown id.
var ErrSegmentNotFound = errors.New("segment not found")

// Store owns the ordered segment list and the master audio handle. It is the
// only mutator of segment state; the live sequencer and the offline
// compositor read snapshots and never write back.
//
// Any edit to text or ordering desynchronizes the whole narration track, so
// every mutator drops the audio fields of every segment and the master audio
// in the same critical section, and bumps the generation counter used to
// discard stale synthesis results.
type Store struct {
	mu         sync.RWMutex
	segments   []domain.Segment
	audio      *domain.MasterAudio
	generation int64

	newID func() string
}

// NewStore creates an empty segment store.
func NewStore() *Store {
	return &Store{
		newID: uuid.NewString,
	}
}

// LoadAnalysis replaces the whole list with freshly analyzed segments and
// returns how many were loaded.
func (s *Store) LoadAnalysis(items []domain.AnalysisSegment) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.segments = make([]domain.Segment, 0, len(items))
	for _, item := range items {
		if item.DurationSeconds <= 0 {
			continue
		}
		s.segments = append(s.segments, domain.Segment{
			ID:          s.newID(),
			SourceStart: item.StartSeconds,
			SourceEnd:   item.StartSeconds + item.DurationSeconds,
			Text:        item.Text,
		})
	}
	s.invalidateLocked()
	return len(s.segments)
}

// LoadProject replaces the list and audio handle from a saved project.
func (s *Store) LoadProject(project domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.segments = append([]domain.Segment(nil), project.Segments...)
	for i := range s.segments {
		if s.segments[i].ID == "" {
			s.segments[i].ID = s.newID()
		}
	}
	s.audio = nil
	if project.Audio != nil {
		audio := *project.Audio
		s.audio = &audio
	}
	s.generation++
}

// Snapshot returns a copy of the current segment list.
func (s *Store) Snapshot() []domain.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Segment, len(s.segments))
	copy(out, s.segments)
	for i := range out {
		out[i].Issues = append([]domain.Issue(nil), s.segments[i].Issues...)
	}
	return out
}

// Audio returns the current master audio handle, or nil when narration is
// absent or invalidated.
func (s *Store) Audio() *domain.MasterAudio {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.audio == nil {
		return nil
	}
	audio := *s.audio
	return &audio
}

// Generation returns the mutation counter used to detect stale async results.
func (s *Store) Generation() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// EditText replaces one segment's narration text and invalidates all
// narration windows.
func (s *Store) EditText(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexLocked(id)
	if err != nil {
		return err
	}
	s.segments[i].Text = text
	s.invalidateLocked()
	return nil
}

// Split cuts one segment into two at a source-video time strictly inside its
// window. The first half keeps the narration text; the second starts blank,
// since spoken text cannot be split mechanically. Issues follow whichever
// side of the cut they fall on. Returns the new second segment's id.
func (s *Store) Split(id string, atSource float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexLocked(id)
	if err != nil {
		return "", err
	}

	seg := s.segments[i]
	if atSource <= seg.SourceStart || atSource >= seg.SourceEnd {
		return "", fmt.Errorf("split point %.3f outside segment window [%.3f, %.3f]",
			atSource, seg.SourceStart, seg.SourceEnd)
	}

	var firstIssues, secondIssues []domain.Issue
	for _, issue := range seg.Issues {
		if issue.End <= atSource {
			firstIssues = append(firstIssues, issue)
		} else if issue.Start >= atSource {
			secondIssues = append(secondIssues, issue)
		}
		// Issues straddling the cut are dropped with the boundary.
	}

	second := domain.Segment{
		ID:          s.newID(),
		SourceStart: atSource,
		SourceEnd:   seg.SourceEnd,
		Issues:      secondIssues,
	}
	s.segments[i].SourceEnd = atSource
	s.segments[i].Issues = firstIssues

	s.segments = append(s.segments, domain.Segment{})
	copy(s.segments[i+2:], s.segments[i+1:])
	s.segments[i+1] = second

	s.invalidateLocked()
	return second.ID, nil
}

// Remove deletes one segment from the sequence.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexLocked(id)
	if err != nil {
		return err
	}
	s.segments = append(s.segments[:i], s.segments[i+1:]...)
	s.invalidateLocked()
	return nil
}

// Swap exchanges a segment with its neighbor at offset +1 or -1.
func (s *Store) Swap(id string, offset int) error {
	if offset != 1 && offset != -1 {
		return fmt.Errorf("swap offset must be +1 or -1, got %d", offset)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexLocked(id)
	if err != nil {
		return err
	}
	j := i + offset
	if j < 0 || j >= len(s.segments) {
		return fmt.Errorf("cannot move segment %s beyond the sequence edge", id)
	}
	s.segments[i], s.segments[j] = s.segments[j], s.segments[i]
	s.invalidateLocked()
	return nil
}

// AddIssue attaches an advisory flag to a segment without invalidating
// narration; issues never affect sync.
func (s *Store) AddIssue(id string, issue domain.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexLocked(id)
	if err != nil {
		return err
	}
	s.segments[i].Issues = append(s.segments[i].Issues, issue)
	return nil
}

// ApplyNarration attaches sliced audio windows and computed playback rates
// produced for the given generation. When the list changed underneath the
// synthesis call the result is rejected as stale and no segment is touched;
// previously valid narration, if any, stays in place.
func (s *Store) ApplyNarration(generation int64, audio domain.MasterAudio, ranges []domain.AudioRange, cfg playback.RateConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return domain.NewError(domain.KindStaleResult,
			"narration was synthesized for generation %d but the sequence is at %d", generation, s.generation)
	}

	spoken := make([]int, 0, len(s.segments))
	for i := range s.segments {
		if s.segments[i].IsSpoken() {
			spoken = append(spoken, i)
		}
	}
	if len(spoken) != len(ranges) {
		return domain.NewError(domain.KindDelimiterMismatch,
			"%d narration windows cannot be paired with %d spoken segments", len(ranges), len(spoken))
	}

	for k, i := range spoken {
		r := ranges[k]
		start, end := r.Start, r.End
		rate := playback.RateFor(s.segments[i].SourceDuration(), end-start, cfg)
		s.segments[i].AudioStart = &start
		s.segments[i].AudioEnd = &end
		s.segments[i].PlaybackRate = &rate
	}
	s.audio = &audio
	return nil
}

// invalidateLocked drops every narration window and the master audio handle
// in one step. Callers must hold the write lock.
func (s *Store) invalidateLocked() {
	for i := range s.segments {
		s.segments[i].AudioStart = nil
		s.segments[i].AudioEnd = nil
		s.segments[i].PlaybackRate = nil
	}
	s.audio = nil
	s.generation++
}

// indexLocked resolves a segment id to its position.
func (s *Store) indexLocked(id string) (int, error) {
	for i := range s.segments {
		if s.segments[i].ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrSegmentNotFound, id)
}

// NewStoreForTests creates a store with a deterministic id generator.
func NewStoreForTests(newID func() string) *Store {
	return &Store{newID: newID}
}

package playback

import (
	"sync"
	"time"

	"voicecut/internal/domain"
)

// State is the live sequencer lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateReady   State = "ready"
	StatePlaying State = "playing"
	StateEnded   State = "ended"
)

// AuthorityEvent is a media event observed on the authority element.
type AuthorityEvent string

const (
	EventPlay    AuthorityEvent = "play"
	EventPlaying AuthorityEvent = "playing"
	EventPause   AuthorityEvent = "pause"
	EventWaiting AuthorityEvent = "waiting"
	EventEnded   AuthorityEvent = "ended"
)

// FollowerAction tells the follower element how to mirror the authority.
type FollowerAction string

const (
	FollowerNone  FollowerAction = "none"
	FollowerPlay  FollowerAction = "play"
	FollowerPause FollowerAction = "pause"
)

// Drift and completion tuning. Sub-threshold drift is tolerated because
// correcting it every tick causes seek stutter worse than the drift itself.
const (
	seekDriftThreshold = 0.2
	endEpsilon         = 0.1
	manualSeekWindow   = 100 * time.Millisecond
)

// TickInput is one observation of the two independent media clocks.
type TickInput struct {
	AudioTime   float64 `json:"audioTime"`
	VideoTime   float64 `json:"videoTime"`
	VideoPaused bool    `json:"videoPaused"`
}

// Directive is what the follower element must do after one tick. Nil
// pointers mean "leave as is".
type Directive struct {
	ActiveSegmentID string   `json:"activeSegmentId,omitempty"`
	ActiveChanged   bool     `json:"activeChanged,omitempty"`
	Rate            *float64 `json:"rate,omitempty"`
	Seek            *float64 `json:"seek,omitempty"`
	ResumeVideo     bool     `json:"resumeVideo,omitempty"`
	Ended           bool     `json:"ended,omitempty"`
}

// Sequencer drives interactive preview. When a master narration track
// exists the audio element is the timing authority and the video element is
// a rate-adjusted, periodically corrected follower; without narration the
// video element is authority and the sequencer only walks segment
// boundaries. The sequencer is a read-only consumer of segment snapshots.
type Sequencer struct {
	mu            sync.Mutex
	state         State
	segments      []domain.Segment
	audioDuration float64
	hasNarration  bool
	rateCfg       RateConfig
	activeIndex   int
	overrideUntil time.Time

	now func() time.Time
}

// NewSequencer creates an idle sequencer with default live rate bounds.
func NewSequencer() *Sequencer {
	return &Sequencer{
		state:   StateIdle,
		rateCfg: LiveRateConfig(DefaultNarration, MaxRateLive),
		now:     time.Now,
	}
}

// Load installs a segment snapshot, optional master audio, and the rate
// bounds to sync with, resetting to the first segment.
func (q *Sequencer) Load(segments []domain.Segment, audio *domain.MasterAudio, cfg RateConfig) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.segments = segments
	q.activeIndex = 0
	q.rateCfg = cfg
	q.hasNarration = audio != nil
	q.audioDuration = 0
	if audio != nil {
		q.audioDuration = audio.Duration
	}

	if len(segments) == 0 {
		q.state = StateIdle
		return
	}
	q.state = StateReady
}

// Play transitions to playing when segments are loaded.
func (q *Sequencer) Play() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == StateReady || q.state == StateEnded {
		q.state = StatePlaying
	}
}

// Pause returns to ready without losing position.
func (q *Sequencer) Pause() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == StatePlaying {
		q.state = StateReady
	}
}

// State returns the current lifecycle state.
func (q *Sequencer) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// ActiveSegmentID returns the id of the segment under the playhead.
func (q *Sequencer) ActiveSegmentID() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.activeIndex < 0 || q.activeIndex >= len(q.segments) {
		return ""
	}
	return q.segments[q.activeIndex].ID
}

// BeginManualSeek opens the manual-override window: automatic tick handling
// is suppressed until it expires, so user scrubbing and sync-driven seeks
// cannot feed back into each other. The window is time-based, not a real
// lock; scrubs are user gestures and bounded in frequency.
func (q *Sequencer) BeginManualSeek() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.overrideUntil = q.now().Add(manualSeekWindow)
}

// ManualOverrideActive reports whether automatic sync is suppressed.
func (q *Sequencer) ManualOverrideActive() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.now().Before(q.overrideUntil)
}

// HandleAudioTick runs one sync step with the narration track as authority.
func (q *Sequencer) HandleAudioTick(in TickInput) Directive {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != StatePlaying || !q.hasNarration {
		return Directive{}
	}
	if q.now().Before(q.overrideUntil) {
		return Directive{}
	}

	idx := q.segmentAtAudioTime(in.AudioTime)
	if idx < 0 {
		// Inside an inter-window gap or past the end. Only the very end of
		// the track counts as completion.
		if q.audioDuration > 0 && q.audioDuration-in.AudioTime <= endEpsilon {
			return q.finishLocked()
		}
		return Directive{}
	}

	seg := q.segments[idx]
	dir := Directive{ActiveSegmentID: seg.ID}
	if idx != q.activeIndex {
		q.activeIndex = idx
		dir.ActiveChanged = true
	}

	audioDur := seg.AudioDuration()
	videoDur := seg.SourceDuration()
	progress := (in.AudioTime - *seg.AudioStart) / audioDur
	target := seg.SourceStart + progress*videoDur

	rate := RateFor(videoDur, audioDur, q.rateCfg)
	dir.Rate = &rate

	if rate < q.rateCfg.Max {
		if abs(in.VideoTime-target) > seekDriftThreshold {
			dir.Seek = &target
		}
	} else if in.VideoTime < seg.SourceStart {
		// Pinned at the ceiling: exact sync is unachievable, only stop the
		// video from trailing behind the segment's own window.
		start := seg.SourceStart
		dir.Seek = &start
	}

	if in.VideoPaused {
		dir.ResumeVideo = true
	}
	return dir
}

// HandleVideoTick runs one step of the no-narration fallback where the
// video element is both authority and audio source.
func (q *Sequencer) HandleVideoTick(videoTime float64) Directive {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != StatePlaying || q.hasNarration || len(q.segments) == 0 {
		return Directive{}
	}
	if q.now().Before(q.overrideUntil) {
		return Directive{}
	}

	seg := q.segments[q.activeIndex]
	if videoTime < seg.SourceEnd {
		return Directive{ActiveSegmentID: seg.ID}
	}

	if q.activeIndex+1 < len(q.segments) {
		q.activeIndex++
		next := q.segments[q.activeIndex]
		start := next.SourceStart
		return Directive{ActiveSegmentID: next.ID, ActiveChanged: true, Seek: &start}
	}

	// Past the last segment: loop back to the first.
	q.activeIndex = 0
	first := q.segments[0]
	start := first.SourceStart
	return Directive{ActiveSegmentID: first.ID, ActiveChanged: true, Seek: &start}
}

// MirrorAuthorityEvent maps an authority media event to the follower's
// play/pause action; the follower is never driven by polling.
func (q *Sequencer) MirrorAuthorityEvent(event AuthorityEvent) FollowerAction {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch event {
	case EventPlay, EventPlaying:
		return FollowerPlay
	case EventPause, EventWaiting:
		return FollowerPause
	case EventEnded:
		if q.state == StatePlaying {
			q.finishLocked()
		}
		return FollowerPause
	default:
		return FollowerNone
	}
}

// finishLocked completes playback and rewinds to the first segment. The
// ended state immediately settles back to ready per the lifecycle.
func (q *Sequencer) finishLocked() Directive {
	q.state = StateReady
	q.activeIndex = 0
	return Directive{Ended: true}
}

// segmentAtAudioTime locates the segment whose narration window contains
// the given master-audio time, or -1.
func (q *Sequencer) segmentAtAudioTime(audioTime float64) int {
	for i, seg := range q.segments {
		if !seg.HasNarration() {
			continue
		}
		if audioTime >= *seg.AudioStart && audioTime < *seg.AudioEnd {
			return i
		}
	}
	return -1
}

// abs avoids importing math for one float operation.
func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// NewSequencerForTests creates a sequencer with an injectable clock for
// exercising the manual-override window.
func NewSequencerForTests(now func() time.Time) *Sequencer {
	return &Sequencer{
		state:   StateIdle,
		rateCfg: LiveRateConfig(DefaultNarration, MaxRateLive),
		now:     now,
	}
}

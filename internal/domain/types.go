package domain

import "strings"

// Segment is one narration-bearing cut unit. Source times index into the
// original video; audio times index into the shared master narration track
// and are only present after a successful synthesis + slicing pass.
type Segment struct {
	ID           string   `json:"id"`
	SourceStart  float64  `json:"sourceStart"`
	SourceEnd    float64  `json:"sourceEnd"`
	Text         string   `json:"text"`
	AudioStart   *float64 `json:"audioStart,omitempty"`
	AudioEnd     *float64 `json:"audioEnd,omitempty"`
	PlaybackRate *float64 `json:"playbackRate,omitempty"`
	Issues       []Issue  `json:"issues,omitempty"`
}

// SourceDuration returns the length of the segment's visual footage.
func (s Segment) SourceDuration() float64 {
	return s.SourceEnd - s.SourceStart
}

// AudioDuration returns the narration window length, or 0 when absent.
func (s Segment) AudioDuration() float64 {
	if s.AudioStart == nil || s.AudioEnd == nil {
		return 0
	}
	return *s.AudioEnd - *s.AudioStart
}

// HasNarration reports whether a sliced narration window is attached.
func (s Segment) HasNarration() bool {
	return s.AudioStart != nil && s.AudioEnd != nil
}

// IsSpoken reports whether the segment contributes text to the narration
// script. Whitespace-only text is treated as silent, matching what the
// script builder sends to synthesis.
func (s Segment) IsSpoken() bool {
	return strings.TrimSpace(s.Text) != ""
}

// IssueKind classifies an advisory flag on a segment sub-range.
type IssueKind string

const (
	IssueSilence    IssueKind = "silence"
	IssueRedundancy IssueKind = "redundancy"
)

// Issue marks a source-time sub-range worth manual review. Advisory only;
// it never affects playback or export.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Start  float64   `json:"start"`
	End    float64   `json:"end"`
	Reason string    `json:"reason"`
}

// Alignment carries character-level timing for one synthesized track.
// The three slices are parallel and cover the entire audio.
type Alignment struct {
	Characters []string  `json:"characters"`
	StartTimes []float64 `json:"startTimes"`
	EndTimes   []float64 `json:"endTimes"`
}

// MasterAudio is the single narration track covering every segment's text.
// Replaced wholesale on regeneration, never patched.
type MasterAudio struct {
	Path      string    `json:"path"`
	Duration  float64   `json:"duration"`
	Alignment Alignment `json:"-"`
}

// AnalysisSegment is one entry of the external video-analysis response.
type AnalysisSegment struct {
	StartSeconds    float64 `json:"startSeconds"`
	DurationSeconds float64 `json:"durationSeconds"`
	Text            string  `json:"text"`
}

// AudioRange is one sliced narration window in master-audio seconds.
type AudioRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Project is the JSON snapshot consumed by the headless render CLI:
// the ordered segment list plus the master audio handle, if any.
type Project struct {
	VideoPath string       `json:"videoPath"`
	Audio     *MasterAudio `json:"audio,omitempty"`
	Segments  []Segment    `json:"segments"`
}

// Settings contains user-selectable runtime configuration.
type Settings struct {
	OutputDir      string  `json:"outputDir"`
	VoiceID        string  `json:"voiceId"`
	NarrationSpeed float64 `json:"narrationSpeed"`
	MaxRateLive    float64 `json:"maxRateLive"`
	MaxRateExport  float64 `json:"maxRateExport"`
	ExportFPS      int     `json:"exportFps"`
	ExportBitrate  int     `json:"exportBitrate"`
}

// JobStatus tracks each stage of an asynchronous narration or export job.
type JobStatus string

const (
	JobStatusIdle         JobStatus = "idle"
	JobStatusSynthesizing JobStatus = "synthesizing"
	JobStatusSlicing      JobStatus = "slicing"
	JobStatusRendering    JobStatus = "rendering"
	JobStatusDone         JobStatus = "done"
	JobStatusFailed       JobStatus = "failed"
	JobStatusCancelled    JobStatus = "cancelled"
)

// Job stores the current job identity and lifecycle status.
type Job struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
}

// VoiceOption describes one narration voice preset offered in settings.
type VoiceOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Language    string `json:"language"`
	Description string `json:"description,omitempty"`
	Selected    bool   `json:"selected,omitempty"`
}

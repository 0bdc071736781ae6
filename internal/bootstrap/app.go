package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"voicecut/internal/align"
	"voicecut/internal/config"
	"voicecut/internal/diagnostics"
	"voicecut/internal/domain"
	"voicecut/internal/export"
	"voicecut/internal/jobs"
	"voicecut/internal/playback"
	"voicecut/internal/sequence"
	"voicecut/internal/tts"
	"voicecut/internal/waveform"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var videoDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Video files",
		Pattern:     "*.mp4;*.mov;*.mkv;*.avi;*.webm",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

var analysisDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Analysis files",
		Pattern:     "*.json",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

// App wires configuration, the segment sequence, narration synthesis,
// playback and export behind Wails-bound methods.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Jobs        *jobs.Manager
	Sequence    *sequence.Store
	Sequencer   *playback.Sequencer
	Synth       tts.Synthesizer
	Waveforms   *waveform.Service
	Exporter    videoExporter
	Diagnostics domain.DiagnosticReport
	assets      fs.FS
	checker     *diagnostics.Checker
	log         zerolog.Logger

	narrationDir string

	mu          sync.Mutex
	videoPath   string
	activeJobID string
	cancel      context.CancelFunc
	events      *jobs.EventBus
	runtimeCtx  context.Context
}

// videoExporter isolates the offline render behind an interface.
type videoExporter interface {
	Export(ctx context.Context, opts export.Options, progress export.ProgressFunc) (string, error)
}

// New builds the application with persisted settings and startup diagnostics.
func New(log zerolog.Logger) (*App, error) {
	return NewWithAssets(nil, log)
}

// NewWithAssets builds the application and optionally configures embedded frontend assets.
func NewWithAssets(assets fs.FS, log zerolog.Logger) (*App, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user home: %w", err)
	}
	if err := ensureLocalBinOnPATH(homeDir); err != nil {
		return nil, fmt.Errorf("prepare local tool path: %w", err)
	}

	store := config.NewJSONStore(filepath.Join(homeDir, ".voicecut", "settings.json"))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	checker := diagnostics.NewChecker()
	report := checker.Run(settings)

	return &App{
		Settings:     settings,
		Store:        store,
		Jobs:         jobs.NewManager(),
		Sequence:     sequence.NewStore(),
		Sequencer:    playback.NewSequencer(),
		Synth:        tts.NewClient(tts.DefaultBaseURL, os.Getenv(diagnostics.APIKeyEnv)),
		Waveforms:    waveform.NewService(),
		Exporter:     export.NewExporter("ffmpeg", "ffprobe"),
		Diagnostics:  report,
		assets:       assets,
		checker:      checker,
		log:          log,
		narrationDir: filepath.Join(homeDir, ".voicecut", "narration"),
		events:       jobs.NewEventBus(1000),
	}, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "VoiceCut",
		Width:       1280,
		Height:      820,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown: func(ctx context.Context) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.runtimeCtx = nil
		},
		Bind: []interface{}{a},
	})
}

// Startup stores Wails runtime context for push events.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimeCtx = ctx
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	return a.Diagnostics
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings, then refreshes diagnostics.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := normalizeSettings(settings)
	if err := a.Store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = normalized
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(normalized)
	}
	a.mu.Unlock()

	return normalized, nil
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}

	a.Settings = settings
	a.Diagnostics = a.checker.Run(settings)
	return a.Diagnostics, nil
}

// LoadVideo records the source video backing the current session.
func (a *App) LoadVideo(path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return fmt.Errorf("video path is empty")
	}
	if _, err := os.Stat(trimmed); err != nil {
		return fmt.Errorf("resolve video: %w", err)
	}

	a.mu.Lock()
	a.videoPath = trimmed
	a.mu.Unlock()
	return nil
}

// LoadAnalysis reads a video-analysis JSON file and replaces the sequence.
func (a *App) LoadAnalysis(path string) ([]domain.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis file: %w", err)
	}

	var items []domain.AnalysisSegment
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse analysis file: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("analysis file contains no segments")
	}

	count := a.Sequence.LoadAnalysis(items)
	a.log.Info().Int("segments", count).Str("path", path).Msg("analysis loaded")
	a.syncSequencer()
	return a.Sequence.Snapshot(), nil
}

// Segments returns the current ordered segment list.
func (a *App) Segments() []domain.Segment {
	return a.Sequence.Snapshot()
}

// EditSegmentText replaces one segment's narration text.
func (a *App) EditSegmentText(id, text string) ([]domain.Segment, error) {
	if err := a.Sequence.EditText(id, text); err != nil {
		return nil, err
	}
	a.syncSequencer()
	return a.Sequence.Snapshot(), nil
}

// SplitSegment cuts a segment in two at a source timestamp.
func (a *App) SplitSegment(id string, atSource float64) ([]domain.Segment, error) {
	if _, err := a.Sequence.Split(id, atSource); err != nil {
		return nil, err
	}
	a.syncSequencer()
	return a.Sequence.Snapshot(), nil
}

// RemoveSegment drops a segment from the sequence.
func (a *App) RemoveSegment(id string) ([]domain.Segment, error) {
	if err := a.Sequence.Remove(id); err != nil {
		return nil, err
	}
	a.syncSequencer()
	return a.Sequence.Snapshot(), nil
}

// MoveSegment shifts a segment one position earlier or later.
func (a *App) MoveSegment(id string, offset int) ([]domain.Segment, error) {
	if err := a.Sequence.Swap(id, offset); err != nil {
		return nil, err
	}
	a.syncSequencer()
	return a.Sequence.Snapshot(), nil
}

// SaveProject writes the current session as a JSON snapshot.
func (a *App) SaveProject(path string) error {
	a.mu.Lock()
	videoPath := a.videoPath
	a.mu.Unlock()

	project := domain.Project{
		VideoPath: videoPath,
		Audio:     a.Sequence.Audio(),
		Segments:  a.Sequence.Snapshot(),
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadProject restores a previously saved session snapshot.
func (a *App) LoadProject(path string) ([]domain.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	var project domain.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}

	a.mu.Lock()
	a.videoPath = project.VideoPath
	a.mu.Unlock()

	a.Sequence.LoadProject(project)
	a.syncSequencer()
	return a.Sequence.Snapshot(), nil
}

// GenerateNarration synthesizes the full script and slices it back onto
// the segments, asynchronously.
func (a *App) GenerateNarration() (domain.Job, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Job{}, fmt.Errorf("load settings: %w", err)
	}
	if strings.TrimSpace(settings.VoiceID) == "" {
		return domain.Job{}, fmt.Errorf("no narration voice selected")
	}

	segments := a.Sequence.Snapshot()
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	script, spoken := align.BuildScript(texts)
	if spoken == 0 {
		return domain.Job{}, fmt.Errorf("no segment has narration text")
	}

	jobID := fmt.Sprintf("job-%d", time.Now().UnixNano())
	if err := a.Jobs.Start(jobID, domain.JobStatusSynthesizing); err != nil {
		return domain.Job{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.activeJobID = jobID
	a.cancel = cancel
	a.Settings = settings
	a.mu.Unlock()

	generation := a.Sequence.Generation()
	a.publishStatus(jobID, domain.JobStatusSynthesizing, "Synthesizing narration")

	go a.runNarrationJob(ctx, jobID, script, spoken, generation, settings)
	return a.Jobs.Current(), nil
}

// runNarrationJob executes synthesis and slicing and maps outcomes to
// job events. Results raced by a sequence edit are dropped, not applied.
func (a *App) runNarrationJob(ctx context.Context, jobID, script string, spoken int, generation int64, settings domain.Settings) {
	resp, err := a.Synth.Synthesize(ctx, tts.Request{Text: script, VoiceID: settings.VoiceID})
	if err != nil {
		a.failJob(ctx, jobID, err)
		return
	}

	if err := os.MkdirAll(a.narrationDir, 0o755); err != nil {
		a.failJob(ctx, jobID, fmt.Errorf("create narration directory: %w", err))
		return
	}
	audioPath := filepath.Join(a.narrationDir, fmt.Sprintf("narration-%d.wav", time.Now().UnixNano()))
	if err := tts.WriteWAV(audioPath, resp.Audio, resp.SampleRate); err != nil {
		a.failJob(ctx, jobID, fmt.Errorf("write narration track: %w", err))
		return
	}
	duration, err := waveform.Duration(audioPath)
	if err != nil {
		a.failJob(ctx, jobID, fmt.Errorf("measure narration track: %w", err))
		return
	}

	if err := a.Jobs.Transition(domain.JobStatusSlicing); err == nil {
		a.publishStatus(jobID, domain.JobStatusSlicing, "Slicing narration onto segments")
	}

	result, err := align.Slice(resp.Alignment, spoken)
	if err != nil {
		a.failJob(ctx, jobID, err)
		return
	}
	for _, warning := range result.Warnings {
		a.publishEvent(jobs.Event{
			JobID:   jobID,
			Type:    jobs.EventTypeLog,
			Message: warning,
		})
	}

	master := domain.MasterAudio{Path: audioPath, Duration: duration, Alignment: resp.Alignment}
	cfg := playback.LiveRateConfig(settings.NarrationSpeed, settings.MaxRateLive)
	if err := a.Sequence.ApplyNarration(generation, master, result.Ranges, cfg); err != nil {
		if domain.IsKind(err, domain.KindStaleResult) {
			a.log.Debug().Str("job", jobID).Msg("narration discarded: sequence changed during synthesis")
			_ = a.Jobs.Transition(domain.JobStatusCancelled)
			a.publishStatus(jobID, domain.JobStatusCancelled, "Narration discarded: sequence changed")
			a.clearActiveJob(jobID)
			return
		}
		a.failJob(ctx, jobID, err)
		return
	}

	a.syncSequencer()
	a.Waveforms.Invalidate()

	if err := a.Jobs.Transition(domain.JobStatusDone); err == nil {
		a.publishStatus(jobID, domain.JobStatusDone, "Narration ready")
	}
	a.publishEvent(jobs.Event{
		JobID:    jobID,
		Type:     jobs.EventTypeResult,
		Status:   domain.JobStatusDone,
		Message:  "Narration generated",
		Warnings: result.Warnings,
	})
	a.clearActiveJob(jobID)
}

// StartExport renders the current sequence to a standalone video file,
// asynchronously.
func (a *App) StartExport() (domain.Job, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Job{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	videoPath := a.videoPath
	a.mu.Unlock()
	if videoPath == "" {
		return domain.Job{}, fmt.Errorf("no source video loaded")
	}

	segments := a.Sequence.Snapshot()
	if len(segments) == 0 {
		return domain.Job{}, fmt.Errorf("nothing to export: sequence is empty")
	}

	audioPath := ""
	if audio := a.Sequence.Audio(); audio != nil {
		audioPath = audio.Path
	}

	jobID := fmt.Sprintf("job-%d", time.Now().UnixNano())
	if err := a.Jobs.Start(jobID, domain.JobStatusRendering); err != nil {
		return domain.Job{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.activeJobID = jobID
	a.cancel = cancel
	a.Settings = settings
	a.mu.Unlock()

	a.publishStatus(jobID, domain.JobStatusRendering, "Rendering video")

	opts := export.Options{
		VideoPath: videoPath,
		AudioPath: audioPath,
		Segments:  segments,
		Speed:     settings.NarrationSpeed,
		MaxRate:   settings.MaxRateExport,
		OutputDir: settings.OutputDir,
		FPS:       settings.ExportFPS,
		Bitrate:   settings.ExportBitrate,
	}
	go a.runExportJob(ctx, jobID, opts)
	return a.Jobs.Current(), nil
}

// runExportJob drives the offline render and maps outcomes to job events.
func (a *App) runExportJob(ctx context.Context, jobID string, opts export.Options) {
	progress := func(percent float64, message string) {
		a.publishEvent(jobs.Event{
			JobID:    jobID,
			Type:     jobs.EventTypeProgress,
			Status:   domain.JobStatusRendering,
			Message:  message,
			Progress: percent,
		})
	}

	outputPath, err := a.Exporter.Export(ctx, opts, progress)
	if err != nil {
		a.failJob(ctx, jobID, err)
		return
	}

	if err := a.Jobs.Transition(domain.JobStatusDone); err == nil {
		a.publishStatus(jobID, domain.JobStatusDone, "Export completed")
	}
	a.publishEvent(jobs.Event{
		JobID:      jobID,
		Type:       jobs.EventTypeResult,
		Status:     domain.JobStatusDone,
		Message:    "Video exported",
		ExportPath: outputPath,
	})
	a.clearActiveJob(jobID)
}

// CancelJob cancels the currently running job, if any.
func (a *App) CancelJob() error {
	a.mu.Lock()
	cancel := a.cancel
	activeJobID := a.activeJobID
	a.mu.Unlock()

	if cancel == nil {
		return jobs.ErrNoRunningJob
	}

	cancel()
	if err := a.Jobs.Cancel(); err != nil && !errors.Is(err, jobs.ErrNoRunningJob) {
		return err
	}

	if activeJobID != "" {
		a.publishStatus(activeJobID, domain.JobStatusCancelled, "Cancellation requested")
	}
	return nil
}

// CurrentJob returns current job metadata and status.
func (a *App) CurrentJob() domain.Job {
	return a.Jobs.Current()
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// Play arms playback from the active segment.
func (a *App) Play() {
	a.Sequencer.Play()
}

// Pause suspends playback without losing position.
func (a *App) Pause() {
	a.Sequencer.Pause()
}

// PlaybackState returns the sequencer lifecycle state.
func (a *App) PlaybackState() playback.State {
	return a.Sequencer.State()
}

// AudioTick resolves one audio-clock observation into follower directives.
func (a *App) AudioTick(in playback.TickInput) playback.Directive {
	return a.Sequencer.HandleAudioTick(in)
}

// VideoTick advances video-only playback across segment boundaries.
func (a *App) VideoTick(videoTime float64) playback.Directive {
	return a.Sequencer.HandleVideoTick(videoTime)
}

// BeginScrub opens the manual-seek window during which drift correction
// is suppressed.
func (a *App) BeginScrub() {
	a.Sequencer.BeginManualSeek()
}

// MirrorPlaybackEvent maps an authority media event to a follower action.
func (a *App) MirrorPlaybackEvent(event playback.AuthorityEvent) playback.FollowerAction {
	return a.Sequencer.MirrorAuthorityEvent(event)
}

// MapToSequenceTime converts a source-video timestamp to sequence time.
func (a *App) MapToSequenceTime(sourceTime float64) float64 {
	return sequence.ToSequenceTime(a.Sequence.Snapshot(), sourceTime)
}

// MapToSourceTime converts a sequence timestamp back to a source position.
func (a *App) MapToSourceTime(sequenceTime float64) sequence.SourcePosition {
	return sequence.ToSourceTime(a.Sequence.Snapshot(), sequenceTime)
}

// SequenceDuration returns the total sequence length in seconds.
func (a *App) SequenceDuration() float64 {
	return sequence.TotalSequenceDuration(a.Sequence.Snapshot())
}

// GetWaveform returns normalized peak buckets for a narration time range.
func (a *App) GetWaveform(from, to float64, buckets int) ([]float64, error) {
	audio := a.Sequence.Audio()
	if audio == nil {
		return nil, fmt.Errorf("no narration track available")
	}
	return a.Waveforms.Peaks(audio.Path, from, to, buckets)
}

// PickVideoFile opens a native file dialog for video selection.
func (a *App) PickVideoFile() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select source video",
		Filters: videoDialogFilter,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// PickAnalysisFile opens a native file dialog for analysis JSON selection.
func (a *App) PickAnalysisFile() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select analysis file",
		Filters: analysisDialogFilter,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// PickOutputDirectory opens a native directory picker for video exports.
func (a *App) PickOutputDirectory() (string, error) {
	ctx, err := a.runtimeContext()
	if err != nil {
		return "", err
	}

	path, err := wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title: "Select output directory",
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

// OpenOutputFolder opens the given path (or configured output dir) in file manager.
func (a *App) OpenOutputFolder(path string) error {
	target := strings.TrimSpace(path)
	if target == "" {
		a.mu.Lock()
		target = a.Settings.OutputDir
		a.mu.Unlock()
	}
	if target == "" {
		return fmt.Errorf("output path is empty")
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	openPath := target
	if !info.IsDir() {
		openPath = filepath.Dir(target)
	}

	return openInFileManager(openPath)
}

// syncSequencer pushes the latest sequence snapshot into the live player.
func (a *App) syncSequencer() {
	a.mu.Lock()
	cfg := playback.LiveRateConfig(a.Settings.NarrationSpeed, a.Settings.MaxRateLive)
	a.mu.Unlock()
	a.Sequencer.Load(a.Sequence.Snapshot(), a.Sequence.Audio(), cfg)
}

// failJob maps one error to terminal job state and events. Cancellation is
// reported as cancelled, everything else as failed.
func (a *App) failJob(ctx context.Context, jobID string, err error) {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		_ = a.Jobs.Transition(domain.JobStatusCancelled)
		a.publishStatus(jobID, domain.JobStatusCancelled, "Job cancelled")
		a.clearActiveJob(jobID)
		return
	}

	a.log.Error().Err(err).Str("job", jobID).Msg("job failed")
	_ = a.Jobs.Transition(domain.JobStatusFailed)
	a.publishStatus(jobID, domain.JobStatusFailed, "Job failed")
	a.publishEvent(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeError,
		Status:  domain.JobStatusFailed,
		Message: err.Error(),
	})
	a.clearActiveJob(jobID)
}

// publishStatus sends a normalized status event.
func (a *App) publishStatus(jobID string, status domain.JobStatus, message string) {
	a.publishEvent(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeStatus,
		Status:  status,
		Message: message,
	})
}

// publishEvent stores event history and emits runtime push notifications.
func (a *App) publishEvent(event jobs.Event) {
	published := a.events.Publish(event)

	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, "job:event", published)
	}
}

// clearActiveJob clears cancellation handles for completed job IDs.
func (a *App) clearActiveJob(jobID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.activeJobID == jobID {
		a.activeJobID = ""
		a.cancel = nil
	}
}

// runtimeContext returns current Wails runtime context for dialog APIs.
func (a *App) runtimeContext() (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runtimeCtx == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}
	return a.runtimeCtx, nil
}

// normalizeSettings trims user inputs and clamps numeric ranges.
func normalizeSettings(settings domain.Settings) domain.Settings {
	settings.OutputDir = strings.TrimSpace(settings.OutputDir)
	settings.VoiceID = strings.TrimSpace(settings.VoiceID)
	return config.Normalize(settings)
}

// openInFileManager launches the platform file explorer for the provided path.
func openInFileManager(path string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch file manager: %w", err)
	}
	return nil
}

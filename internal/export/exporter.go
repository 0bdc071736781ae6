package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"voicecut/internal/domain"
	"voicecut/internal/playback"
)

// Options describes one export request.
type Options struct {
	VideoPath string
	// AudioPath is the master narration track; empty means the export falls
	// back to the source video's own audio.
	AudioPath string
	Segments []domain.Segment
	Speed    float64
	// MaxRate caps the per-clip playback rate; zero uses the default
	// export ceiling.
	MaxRate   float64
	OutputDir string
	FPS       int
	Bitrate   int
}

// Exporter renders a segment sequence into a standalone video file.
type Exporter struct {
	ffmpegPath  string
	ffprobePath string
	runner      commandRunner

	// Injectable for tests.
	newSource  func(info VideoInfo, opts Options) FrameSource
	newEncoder func(spec encoderSpec) (Encoder, error)
	now        func() time.Time
}

// NewExporter builds a production exporter driving local ffmpeg binaries.
func NewExporter(ffmpegPath, ffprobePath string) *Exporter {
	e := &Exporter{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		runner:      &execRunner{},
		now:         time.Now,
	}
	e.newSource = func(info VideoInfo, opts Options) FrameSource {
		return &ffmpegFrameSource{
			ffmpegPath: e.ffmpegPath,
			videoPath:  opts.VideoPath,
			width:      info.Width,
			height:     info.Height,
			fps:        opts.FPS,
		}
	}
	e.newEncoder = func(spec encoderSpec) (Encoder, error) {
		return startEncoder(spec)
	}
	return e
}

// NewExporterForTests builds an exporter with injected process handling.
func NewExporterForTests(runner commandRunner, newSource func(VideoInfo, Options) FrameSource, newEncoder func(encoderSpec) (Encoder, error), now func() time.Time) *Exporter {
	return &Exporter{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		runner:      runner,
		newSource:   newSource,
		newEncoder:  newEncoder,
		now:         now,
	}
}

// Export probes the source, picks an encoder, and renders the full plan.
// It returns the written output path.
func (e *Exporter) Export(ctx context.Context, opts Options, progress ProgressFunc) (string, error) {
	if opts.FPS <= 0 || opts.Bitrate <= 0 {
		return "", fmt.Errorf("invalid export parameters: fps=%d bitrate=%d", opts.FPS, opts.Bitrate)
	}

	info, err := probeVideo(ctx, e.runner, e.ffprobePath, opts.VideoPath)
	if err != nil {
		return "", err
	}

	narrated := opts.AudioPath != ""
	if !narrated && !info.HasAudio {
		return "", domain.NewError(domain.KindMediaAcquisitionFailed,
			"source video %s has no audio track and no narration is available", opts.VideoPath)
	}

	codec, err := selectCodec(ctx, e.runner, e.ffmpegPath)
	if err != nil {
		return "", err
	}

	plan, err := BuildPlan(opts.Segments, narrated, playback.ExportRateConfig(opts.Speed, opts.MaxRate))
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	outputPath := filepath.Join(opts.OutputDir,
		fmt.Sprintf("voicecut-%s%s", e.now().Format("20060102-150405"), codec.Extension))

	audioPath := opts.AudioPath
	if !narrated {
		audioPath = opts.VideoPath
	}

	enc, err := e.newEncoder(encoderSpec{
		FFmpegPath:  e.ffmpegPath,
		OutputPath:  outputPath,
		AudioPath:   audioPath,
		AudioFilter: buildAudioFilter(plan),
		Codec:       codec,
		Width:       info.Width,
		Height:      info.Height,
		FPS:         opts.FPS,
		Bitrate:     opts.Bitrate,
	})
	if err != nil {
		return "", err
	}

	compositor := NewCompositor(e.newSource(info, opts), opts.FPS, progress)
	if err := compositor.Render(ctx, plan, enc); err != nil {
		// Render aborts the encoder on failure; remove the partial file.
		_ = os.Remove(outputPath)
		return "", err
	}
	return outputPath, nil
}

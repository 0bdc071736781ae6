package export

import (
	"context"
	"encoding/json"
	"strconv"

	"voicecut/internal/domain"
)

// VideoInfo describes the source video as probed by ffprobe. Export always
// composes at the source's native resolution, not a preview size.
type VideoInfo struct {
	Width    int
	Height   int
	Duration float64
	HasAudio bool
}

// probeStreams mirrors the ffprobe JSON layout.
type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// probeVideo reads resolution, duration and audio presence of one file.
func probeVideo(ctx context.Context, runner commandRunner, ffprobePath, path string) (VideoInfo, error) {
	result, err := runner.Run(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)
	if err != nil {
		return VideoInfo{}, domain.WrapError(domain.KindMediaAcquisitionFailed, err,
			"ffprobe failed for %s", path)
	}

	var parsed probeOutput
	if err := json.Unmarshal([]byte(result.Stdout), &parsed); err != nil {
		return VideoInfo{}, domain.WrapError(domain.KindMediaAcquisitionFailed, err,
			"unreadable ffprobe output for %s", path)
	}

	info := VideoInfo{}
	for _, stream := range parsed.Streams {
		switch stream.CodecType {
		case "video":
			if info.Width == 0 {
				info.Width = stream.Width
				info.Height = stream.Height
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return VideoInfo{}, domain.NewError(domain.KindMediaAcquisitionFailed,
			"no video stream found in %s", path)
	}

	if parsed.Format.Duration != "" {
		if seconds, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
			info.Duration = seconds
		}
	}
	return info, nil
}

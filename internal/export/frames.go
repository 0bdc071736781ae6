package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// ffmpegFrameSource decodes source clips into raw RGB frames by piping
// ffmpeg's rawvideo output. One decode process per clip keeps seek cost
// bounded and lets rate retiming happen inside ffmpeg's filter graph.
type ffmpegFrameSource struct {
	ffmpegPath string
	videoPath  string
	width      int
	height     int
	fps        int
}

// Open starts a decoder for one clip window.
func (s *ffmpegFrameSource) Open(ctx context.Context, clip Clip) (FrameReader, error) {
	sourceDur := clip.SourceEnd - clip.SourceStart
	if sourceDur <= 0 {
		return nil, fmt.Errorf("empty source window [%f, %f]", clip.SourceStart, clip.SourceEnd)
	}

	// setpts retimes the trimmed window to the clip's playback rate; fps
	// resamples so the pipe delivers exactly the output cadence.
	filter := fmt.Sprintf("setpts=PTS/%f,fps=%d,scale=%d:%d",
		clip.Rate, s.fps, s.width, s.height)

	cmd := exec.CommandContext(ctx, s.ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-ss", fmt.Sprintf("%f", clip.SourceStart),
		"-t", fmt.Sprintf("%f", sourceDur),
		"-i", s.videoPath,
		"-vf", filter,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("decoder stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start decoder: %w", err)
	}

	return &ffmpegFrameReader{
		cmd:       cmd,
		stdout:    stdout,
		stderr:    &stderr,
		frameSize: s.width * s.height * 3,
	}, nil
}

// ffmpegFrameReader reads fixed-size RGB frames off a decode pipe.
type ffmpegFrameReader struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	stderr    *bytes.Buffer
	frameSize int
	closed    bool
}

// Next returns the next full frame, or io.EOF when the stream is exhausted.
func (r *ffmpegFrameReader) Next() ([]byte, error) {
	frame := make([]byte, r.frameSize)
	if _, err := io.ReadFull(r.stdout, frame); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return frame, nil
}

// Close drains and reaps the decoder process. Safe to call more than once.
func (r *ffmpegFrameReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	// Discard whatever the decoder still has buffered so it can exit.
	_, _ = io.Copy(io.Discard, r.stdout)
	_ = r.stdout.Close()

	if err := r.cmd.Wait(); err != nil {
		detail := r.stderr.String()
		if detail != "" {
			return fmt.Errorf("decoder exited: %w: %s", err, detail)
		}
		return fmt.Errorf("decoder exited: %w", err)
	}
	return nil
}

package export

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
)

// encoderSpec is everything the muxing process needs up front.
type encoderSpec struct {
	FFmpegPath  string
	OutputPath  string
	AudioPath   string
	AudioFilter string
	Codec       Codec
	Width       int
	Height      int
	FPS         int
	Bitrate     int
}

// ffmpegEncoder muxes raw RGB frames from stdin with the audio track into
// the output container. It is single-use.
type ffmpegEncoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	done   bool
}

// startEncoder launches the muxing process.
func startEncoder(spec encoderSpec) (*ffmpegEncoder, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", spec.Width, spec.Height),
		"-r", fmt.Sprintf("%d", spec.FPS),
		"-i", "pipe:0",
		"-i", spec.AudioPath,
		"-filter_complex", spec.AudioFilter,
		"-map", "0:v",
		"-map", "[aout]",
		"-c:v", spec.Codec.Name,
		"-b:v", fmt.Sprintf("%d", spec.Bitrate),
		"-pix_fmt", "yuv420p",
		"-shortest",
		spec.OutputPath,
	}

	cmd := exec.Command(spec.FFmpegPath, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder stdin pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start encoder: %w", err)
	}
	return &ffmpegEncoder{cmd: cmd, stdin: stdin, stderr: &stderr}, nil
}

// WriteFrame feeds one raw frame to the muxer.
func (e *ffmpegEncoder) WriteFrame(frame []byte) error {
	if _, err := e.stdin.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w: %s", err, e.stderr.String())
	}
	return nil
}

// Finish closes the frame stream and waits for the container to flush.
func (e *ffmpegEncoder) Finish() error {
	if e.done {
		return nil
	}
	e.done = true

	_ = e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		detail := e.stderr.String()
		if detail != "" {
			return fmt.Errorf("encoder exited: %w: %s", err, detail)
		}
		return fmt.Errorf("encoder exited: %w", err)
	}
	return nil
}

// Abort kills the muxer without finalizing the container.
func (e *ffmpegEncoder) Abort() {
	if e.done {
		return
	}
	e.done = true

	_ = e.stdin.Close()
	if e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}
	_ = e.cmd.Wait()
}

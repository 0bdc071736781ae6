package export

import (
	"context"
	"fmt"
	"io"
)

// endTolerance mirrors the live player's end window: a render whose clock
// reaches total duration minus this margin counts as complete even if the
// frame source reports more material.
const endTolerance = 0.1

// FrameReader yields decoded frames for one clip. Next returns io.EOF when
// the clip is exhausted; Close must be safe after an error.
type FrameReader interface {
	Next() ([]byte, error)
	Close() error
}

// FrameSource opens a frame stream per clip at the clip's playback rate.
type FrameSource interface {
	Open(ctx context.Context, clip Clip) (FrameReader, error)
}

// Encoder consumes raw frames and muxes the final file. Finish must flush
// and close the container; Abort must tear down without finalizing.
type Encoder interface {
	WriteFrame(frame []byte) error
	Finish() error
	Abort()
}

// ProgressFunc receives render progress in percent with a short status line.
type ProgressFunc func(percent float64, message string)

// Compositor drives the offline render: it walks the plan clip by clip,
// pumps frames from the source into the encoder, and reports progress on
// every frame.
type Compositor struct {
	source   FrameSource
	fps      int
	progress ProgressFunc
}

// NewCompositor builds a compositor over a frame source. progress may be nil.
func NewCompositor(source FrameSource, fps int, progress ProgressFunc) *Compositor {
	if progress == nil {
		progress = func(float64, string) {}
	}
	return &Compositor{source: source, fps: fps, progress: progress}
}

// Render writes the whole plan into the encoder. The encoder is always
// terminated exactly once: Finish on success, Abort on any failure or
// cancellation. A clip stream that runs dry inside the end tolerance is
// treated as completion, not an error.
func (c *Compositor) Render(ctx context.Context, plan Plan, enc Encoder) (err error) {
	finished := false
	defer func() {
		if finished {
			return
		}
		enc.Abort()
	}()

	total := plan.TotalDuration()
	if total <= 0 {
		return fmt.Errorf("render plan has no duration")
	}
	frameDur := 1.0 / float64(c.fps)

	elapsed := 0.0
	for i, clip := range plan.Clips {
		done, clipErr := c.renderClip(ctx, clip, enc, total, &elapsed, frameDur, i, len(plan.Clips))
		if clipErr != nil {
			return clipErr
		}
		if done {
			break
		}
	}

	if total-elapsed > endTolerance {
		return fmt.Errorf("render stopped early at %.2fs of %.2fs", elapsed, total)
	}

	if err := enc.Finish(); err != nil {
		return fmt.Errorf("finalize output: %w", err)
	}
	finished = true
	c.progress(100, "finalizing")
	return nil
}

// renderClip pumps one clip's frames. It returns done=true when the overall
// render clock has reached the completion window.
func (c *Compositor) renderClip(ctx context.Context, clip Clip, enc Encoder, total float64, elapsed *float64, frameDur float64, index, count int) (done bool, err error) {
	reader, err := c.source.Open(ctx, clip)
	if err != nil {
		return false, fmt.Errorf("open clip %d: %w", index, err)
	}
	defer reader.Close()

	clipEnd := *elapsed + clip.Duration
	var lastFrame []byte
	for *elapsed < clipEnd {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		frame, readErr := reader.Next()
		if readErr == io.EOF {
			// Decoders round clip lengths to whole frames; a stream that
			// dries up within the end window is a finished render.
			if total-*elapsed <= endTolerance {
				return true, nil
			}
			if lastFrame != nil && clipEnd-*elapsed <= clip.Freeze+endTolerance {
				// Floor-pinned clips have no footage behind the slot's tail;
				// hold the last frame so the timeline keeps its length.
				frame = lastFrame
			} else {
				// Short of the clip boundary mid-plan: move on to the next
				// clip rather than fail, the timeline math absorbs sub-frame
				// gaps.
				break
			}
		} else if readErr != nil {
			return false, fmt.Errorf("decode clip %d: %w", index, readErr)
		}

		if err := enc.WriteFrame(frame); err != nil {
			return false, fmt.Errorf("encode clip %d: %w", index, err)
		}
		lastFrame = frame

		*elapsed += frameDur
		percent := *elapsed / total * 100
		if percent > 100 {
			percent = 100
		}
		c.progress(percent, fmt.Sprintf("rendering clip %d/%d", index+1, count))

		if total-*elapsed <= endTolerance && index == count-1 {
			return true, nil
		}
	}
	return false, nil
}

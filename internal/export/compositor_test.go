package export

import (
	"context"
	"errors"
	"io"
	"testing"
)

type fakeReader struct {
	remaining int
	closed    bool
}

func (r *fakeReader) Next() ([]byte, error) {
	if r.remaining <= 0 {
		return nil, io.EOF
	}
	r.remaining--
	return make([]byte, 3), nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type fakeSource struct {
	framesPerClip int
	openErr       error
	readers       []*fakeReader
}

func (s *fakeSource) Open(ctx context.Context, clip Clip) (FrameReader, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	reader := &fakeReader{remaining: s.framesPerClip}
	s.readers = append(s.readers, reader)
	return reader, nil
}

type fakeEncoder struct {
	frames   int
	finished bool
	aborted  bool
	writeErr error
}

func (e *fakeEncoder) WriteFrame([]byte) error {
	if e.writeErr != nil {
		return e.writeErr
	}
	e.frames++
	return nil
}

func (e *fakeEncoder) Finish() error {
	e.finished = true
	return nil
}

func (e *fakeEncoder) Abort() {
	e.aborted = true
}

func singleClipPlan(duration float64) Plan {
	return Plan{Clips: []Clip{{SegmentID: "a", SourceEnd: duration, Rate: 1, Duration: duration}}}
}

// TestRenderFinishesAndReportsProgress checks the happy path: frames flow,
// progress climbs to 100 and the encoder is finalized exactly once.
func TestRenderFinishesAndReportsProgress(t *testing.T) {
	source := &fakeSource{framesPerClip: 100}
	enc := &fakeEncoder{}
	var percents []float64
	comp := NewCompositor(source, 10, func(p float64, _ string) { percents = append(percents, p) })

	if err := comp.Render(context.Background(), singleClipPlan(1.0), enc); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !enc.finished {
		t.Fatal("encoder not finalized")
	}
	if enc.aborted {
		t.Fatal("encoder aborted on success path")
	}
	if enc.frames < 9 {
		t.Fatalf("frames = %d, want at least 9", enc.frames)
	}
	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Fatalf("progress = %v, want trailing 100", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("progress regressed at %d: %v", i, percents)
		}
	}
	if !source.readers[0].closed {
		t.Fatal("frame reader not closed")
	}
}

// TestRenderCompletesWhenStreamEndsNearTotal checks a decoder that rounds
// the last clip short still yields a finalized render.
func TestRenderCompletesWhenStreamEndsNearTotal(t *testing.T) {
	// 0.95s at 10fps: the decoder delivers 9 frames, the render clock
	// reaches 0.9s, inside the end window.
	source := &fakeSource{framesPerClip: 9}
	enc := &fakeEncoder{}
	comp := NewCompositor(source, 10, nil)

	plan := singleClipPlan(0.95)
	if err := comp.Render(context.Background(), plan, enc); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !enc.finished {
		t.Fatal("encoder not finalized")
	}
}

// TestRenderHoldsLastFrameThroughFreezeTail checks a floor-pinned clip
// keeps its slot length by repeating the final decoded frame once the
// footage runs out.
func TestRenderHoldsLastFrameThroughFreezeTail(t *testing.T) {
	// 5 decodable frames at 10fps fill 0.5s of a 1.0s slot; the planned
	// freeze covers the remaining 0.5s.
	source := &fakeSource{framesPerClip: 5}
	enc := &fakeEncoder{}
	comp := NewCompositor(source, 10, nil)

	plan := Plan{Clips: []Clip{{SegmentID: "a", SourceEnd: 0.5, Rate: 1, Duration: 1.0, Freeze: 0.5}}}
	if err := comp.Render(context.Background(), plan, enc); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !enc.finished {
		t.Fatal("encoder not finalized")
	}
	if enc.frames < 9 {
		t.Fatalf("frames = %d, want the full slot at 10fps", enc.frames)
	}
}

// TestRenderFailsWhenStreamEndsEarly checks a decoder that dries up well
// before the planned duration is an error, with the encoder torn down.
func TestRenderFailsWhenStreamEndsEarly(t *testing.T) {
	source := &fakeSource{framesPerClip: 2}
	enc := &fakeEncoder{}
	comp := NewCompositor(source, 10, nil)

	if err := comp.Render(context.Background(), singleClipPlan(1.0), enc); err == nil {
		t.Fatal("expected early-stop error")
	}
	if !enc.aborted {
		t.Fatal("encoder not aborted on failure")
	}
	if enc.finished {
		t.Fatal("encoder must not be finalized on failure")
	}
}

// TestRenderAbortsOnCancel checks context cancellation tears down the
// encoder and closes the open reader.
func TestRenderAbortsOnCancel(t *testing.T) {
	source := &fakeSource{framesPerClip: 100}
	enc := &fakeEncoder{}
	comp := NewCompositor(source, 10, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := comp.Render(ctx, singleClipPlan(1.0), enc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if !enc.aborted {
		t.Fatal("encoder not aborted on cancel")
	}
	if !source.readers[0].closed {
		t.Fatal("reader not closed on cancel")
	}
}

// TestRenderAbortsOnEncodeError checks a failing write aborts the encoder.
func TestRenderAbortsOnEncodeError(t *testing.T) {
	source := &fakeSource{framesPerClip: 100}
	enc := &fakeEncoder{writeErr: errors.New("pipe broke")}
	comp := NewCompositor(source, 10, nil)

	if err := comp.Render(context.Background(), singleClipPlan(1.0), enc); err == nil {
		t.Fatal("expected encode error")
	}
	if !enc.aborted {
		t.Fatal("encoder not aborted")
	}
}

// TestRenderAbortsOnOpenError checks a clip that fails to open aborts.
func TestRenderAbortsOnOpenError(t *testing.T) {
	source := &fakeSource{openErr: errors.New("no decoder")}
	enc := &fakeEncoder{}
	comp := NewCompositor(source, 10, nil)

	if err := comp.Render(context.Background(), singleClipPlan(1.0), enc); err == nil {
		t.Fatal("expected open error")
	}
	if !enc.aborted {
		t.Fatal("encoder not aborted")
	}
}

// TestRenderWalksMultipleClips checks every clip opens its own stream and
// the total frame count spans the whole plan.
func TestRenderWalksMultipleClips(t *testing.T) {
	source := &fakeSource{framesPerClip: 100}
	enc := &fakeEncoder{}
	comp := NewCompositor(source, 10, nil)

	plan := Plan{Clips: []Clip{
		{SegmentID: "a", SourceEnd: 1, Rate: 1, Duration: 1},
		{SegmentID: "b", SourceStart: 1, SourceEnd: 2, Rate: 1, Duration: 1},
	}}
	if err := comp.Render(context.Background(), plan, enc); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(source.readers) != 2 {
		t.Fatalf("opened %d streams, want 2", len(source.readers))
	}
	if enc.frames < 19 {
		t.Fatalf("frames = %d, want at least 19", enc.frames)
	}
}

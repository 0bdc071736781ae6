package export

import (
	"context"
	"testing"

	"voicecut/internal/domain"
)

const sampleEncoders = ` Encoders:
 V..... = Video
 ------
 V....D mpeg4                H.264 fallback profile (codec mpeg4)
 V....D libvpx-vp9           libvpx VP9 (codec vp9)
`

// TestPickSupportedPrefersHighestFidelity checks preference ordering wins
// over listing order.
func TestPickSupportedPrefersHighestFidelity(t *testing.T) {
	withX264 := sampleEncoders + " V....D libx264              H.264 (codec h264)\n"

	codec, ok := pickSupported(withX264)
	if !ok || codec.Name != "libx264" {
		t.Fatalf("codec = %+v, ok = %v", codec, ok)
	}
	if codec.Extension != ".mp4" {
		t.Fatalf("extension = %q", codec.Extension)
	}
}

// TestPickSupportedFallsThrough checks the next candidate is picked when
// the preferred one is absent.
func TestPickSupportedFallsThrough(t *testing.T) {
	codec, ok := pickSupported(sampleEncoders)
	if !ok || codec.Name != "libvpx-vp9" {
		t.Fatalf("codec = %+v, ok = %v", codec, ok)
	}
	if codec.Extension != ".webm" {
		t.Fatalf("extension = %q", codec.Extension)
	}
}

// TestSelectCodecNoneAvailable checks an empty encoder list yields the
// unsupported codec kind.
func TestSelectCodecNoneAvailable(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"ffmpeg": " Encoders:\n"}}

	_, err := selectCodec(context.Background(), runner, "ffmpeg")
	if !domain.IsKind(err, domain.KindUnsupportedCodec) {
		t.Fatalf("error = %v, want unsupported codec kind", err)
	}
}

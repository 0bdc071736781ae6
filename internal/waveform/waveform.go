// Package waveform extracts peak envelopes from the master narration WAV
// for timeline painting. Decoding is expensive, so results are served from
// a bounded LRU cache keyed by file and requested range.
package waveform

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"voicecut/internal/cache"
)

const (
	cacheCapacity = 64
	cacheMaxAge   = 10 * time.Minute
)

// Service computes and caches waveform peaks.
type Service struct {
	peaks  *cache.Cache[[]float64]
	decode func(path string) (*audio.IntBuffer, error)
}

// NewService creates a waveform service with the production WAV decoder.
func NewService() *Service {
	return &Service{
		peaks:  cache.New[[]float64](cacheCapacity, cacheMaxAge),
		decode: decodeWAV,
	}
}

// Peaks returns buckets normalized peak values in [0,1] for the audio range
// [from, to) of the given WAV file.
func (s *Service) Peaks(path string, from, to float64, buckets int) ([]float64, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("bucket count must be positive, got %d", buckets)
	}
	if to <= from {
		return nil, fmt.Errorf("invalid range [%.3f, %.3f)", from, to)
	}

	key := fmt.Sprintf("%s|%.3f|%.3f|%d", path, from, to, buckets)
	if cached, ok := s.peaks.Get(key); ok {
		return cached, nil
	}

	buf, err := s.decode(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	peaks := bucketPeaks(buf, from, to, buckets)
	s.peaks.Put(key, peaks)
	return peaks, nil
}

// Invalidate drops all cached ranges, used when the master audio is
// regenerated under the same path.
func (s *Service) Invalidate() {
	s.peaks.Purge()
}

// bucketPeaks reduces the requested sample range to per-bucket maxima of
// the absolute amplitude, normalized by bit depth.
func bucketPeaks(buf *audio.IntBuffer, from, to float64, buckets int) []float64 {
	peaks := make([]float64, buckets)
	if buf == nil || len(buf.Data) == 0 || buf.Format == nil {
		return peaks
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	rate := float64(buf.Format.SampleRate)
	frames := len(buf.Data) / channels

	firstFrame := int(from * rate)
	lastFrame := int(to * rate)
	if firstFrame < 0 {
		firstFrame = 0
	}
	if lastFrame > frames {
		lastFrame = frames
	}
	if lastFrame <= firstFrame {
		return peaks
	}

	// Decoders may leave the bit depth unset; a bad value would make the
	// shift panic or overflow, so fall back to 16-bit scaling.
	bitDepth := buf.SourceBitDepth
	if bitDepth < 1 || bitDepth > 62 {
		bitDepth = 16
	}
	norm := float64(int(1) << (bitDepth - 1))

	span := lastFrame - firstFrame
	for b := 0; b < buckets; b++ {
		start := firstFrame + b*span/buckets
		end := firstFrame + (b+1)*span/buckets
		if end == start {
			end = start + 1
		}
		peak := 0.0
		for frame := start; frame < end && frame < frames; frame++ {
			for ch := 0; ch < channels; ch++ {
				v := float64(buf.Data[frame*channels+ch]) / norm
				if v < 0 {
					v = -v
				}
				if v > peak {
					peak = v
				}
			}
		}
		if peak > 1 {
			peak = 1
		}
		peaks[b] = peak
	}
	return peaks
}

// decodeWAV reads the full PCM buffer of a WAV file.
func decodeWAV(path string) (*audio.IntBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if buf.SourceBitDepth == 0 {
		buf.SourceBitDepth = int(decoder.BitDepth)
	}
	return buf, nil
}

// Duration probes a WAV file's play time.
func Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	d, err := decoder.Duration()
	if err != nil {
		return 0, err
	}
	return d.Seconds(), nil
}

// NewServiceForTests creates a service with an injectable decoder.
func NewServiceForTests(decode func(path string) (*audio.IntBuffer, error)) *Service {
	return &Service{
		peaks:  cache.New[[]float64](cacheCapacity, cacheMaxAge),
		decode: decode,
	}
}

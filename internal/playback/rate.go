package playback

// minAudioDuration guards the rate division against pathologically short
// narration windows.
const minAudioDuration = 0.1

// Default rate bounds. Live preview caps the video speed-up at a watchable
// ceiling; export tolerates much faster footage because the narration track
// is the only clock the viewer experiences.
const (
	MinRate          = 0.1
	MaxRateLive      = 1.5
	MaxRateExport    = 4.0
	DefaultNarration = 1.0
)

// RateConfig bounds the computed playback rate and applies the user's
// global narration speed multiplier.
type RateConfig struct {
	Speed float64
	Min   float64
	Max   float64
}

// LiveRateConfig returns rate bounds for interactive preview. A
// non-positive maxRate falls back to the default live ceiling.
func LiveRateConfig(speed, maxRate float64) RateConfig {
	return RateConfig{Speed: normalizeSpeed(speed), Min: MinRate, Max: normalizeMax(maxRate, MaxRateLive)}
}

// ExportRateConfig returns rate bounds for offline rendering. A
// non-positive maxRate falls back to the default export ceiling.
func ExportRateConfig(speed, maxRate float64) RateConfig {
	return RateConfig{Speed: normalizeSpeed(speed), Min: MinRate, Max: normalizeMax(maxRate, MaxRateExport)}
}

// RateFor computes the playback multiplier that stretches videoDuration of
// footage across audioDuration of narration, clamped to the configured
// bounds. Windows at or under the guard threshold fall back to unit rate.
func RateFor(videoDuration, audioDuration float64, cfg RateConfig) float64 {
	rate := 1.0
	if audioDuration > minAudioDuration {
		rate = videoDuration / audioDuration
	}
	rate *= normalizeSpeed(cfg.Speed)
	return clampRate(rate, cfg)
}

// clampRate bounds a raw rate to the configured range.
func clampRate(rate float64, cfg RateConfig) float64 {
	minRate, maxRate := cfg.Min, cfg.Max
	if minRate <= 0 {
		minRate = MinRate
	}
	if maxRate <= 0 {
		maxRate = MaxRateLive
	}
	if rate < minRate {
		return minRate
	}
	if rate > maxRate {
		return maxRate
	}
	return rate
}

// normalizeMax maps unset or degenerate ceilings to the given default.
func normalizeMax(maxRate, fallback float64) float64 {
	if maxRate <= MinRate {
		return fallback
	}
	return maxRate
}

// normalizeSpeed maps unset multipliers to 1.0.
func normalizeSpeed(speed float64) float64 {
	if speed <= 0 {
		return DefaultNarration
	}
	return speed
}

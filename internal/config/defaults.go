package config

import (
	"os"
	"path/filepath"

	"voicecut/internal/domain"
	"voicecut/internal/playback"
)

const (
	defaultExportFPS     = 30
	defaultExportBitrate = 15_000_000
)

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		OutputDir:      filepath.Join(homeDir, "Videos", "VoiceCut"),
		VoiceID:        "",
		NarrationSpeed: playback.DefaultNarration,
		MaxRateLive:    playback.MaxRateLive,
		MaxRateExport:  playback.MaxRateExport,
		ExportFPS:      defaultExportFPS,
		ExportBitrate:  defaultExportBitrate,
	}
}

// Normalize clamps out-of-range values back to safe bounds.
func Normalize(cfg domain.Settings) domain.Settings {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultSettings().OutputDir
	}
	if cfg.NarrationSpeed <= 0 {
		cfg.NarrationSpeed = playback.DefaultNarration
	}
	if cfg.MaxRateLive < playback.MinRate || cfg.MaxRateLive > playback.MaxRateLive {
		cfg.MaxRateLive = playback.MaxRateLive
	}
	if cfg.MaxRateExport < playback.MinRate || cfg.MaxRateExport > playback.MaxRateExport {
		cfg.MaxRateExport = playback.MaxRateExport
	}
	if cfg.ExportFPS <= 0 {
		cfg.ExportFPS = defaultExportFPS
	}
	if cfg.ExportBitrate <= 0 {
		cfg.ExportBitrate = defaultExportBitrate
	}
	return cfg
}

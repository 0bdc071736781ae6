package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"voicecut/internal/config"
	"voicecut/internal/domain"
	"voicecut/internal/export"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		outputDir string
		speed     float64
		maxRate   float64
		fps       int
		bitrate   int
	)

	root := &cobra.Command{
		Use:   "render <project.json>",
		Short: "Render a saved VoiceCut project to a video file without the UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(args[0])
			if err != nil {
				return err
			}

			defaults := config.DefaultSettings()
			if outputDir == "" {
				outputDir = defaults.OutputDir
			}
			if fps <= 0 {
				fps = defaults.ExportFPS
			}
			if bitrate <= 0 {
				bitrate = defaults.ExportBitrate
			}
			if maxRate <= 0 {
				maxRate = defaults.MaxRateExport
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			audioPath := ""
			if project.Audio != nil {
				audioPath = project.Audio.Path
			}

			bar := progressbar.NewOptions(100,
				progressbar.OptionSetDescription("rendering"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			progress := func(percent float64, message string) {
				bar.Describe(message)
				_ = bar.Set(int(percent))
			}

			exporter := export.NewExporter("ffmpeg", "ffprobe")
			outputPath, err := exporter.Export(ctx, export.Options{
				VideoPath: project.VideoPath,
				AudioPath: audioPath,
				Segments:  project.Segments,
				Speed:     speed,
				MaxRate:   maxRate,
				OutputDir: outputDir,
				FPS:       fps,
				Bitrate:   bitrate,
			}, progress)
			if err != nil {
				return err
			}

			_ = bar.Finish()
			logger.Info().Str("path", outputPath).Msg("render complete")
			fmt.Println(outputPath)
			return nil
		},
	}

	root.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (defaults to the configured export directory)")
	root.Flags().Float64Var(&speed, "speed", 1.0, "narration speed multiplier")
	root.Flags().Float64Var(&maxRate, "max-rate", 0, "playback rate ceiling (defaults to the configured export ceiling)")
	root.Flags().IntVar(&fps, "fps", 0, "output frame rate")
	root.Flags().IntVar(&bitrate, "bitrate", 0, "output video bitrate in bits per second")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("render failed")
		os.Exit(1)
	}
}

// loadProject reads and validates a saved project snapshot.
func loadProject(path string) (domain.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Project{}, fmt.Errorf("read project file: %w", err)
	}

	var project domain.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return domain.Project{}, fmt.Errorf("parse project file: %w", err)
	}
	if project.VideoPath == "" {
		return domain.Project{}, fmt.Errorf("project has no source video path")
	}
	if len(project.Segments) == 0 {
		return domain.Project{}, fmt.Errorf("project has no segments")
	}
	return project, nil
}

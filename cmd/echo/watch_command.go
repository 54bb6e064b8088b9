package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"echo/internal/config"
	"echo/internal/extraction"
	"echo/internal/imageprep"
	"echo/internal/pipeline"
	"echo/internal/report"
	"echo/internal/watcher"
)

const lockFileName = ".echo.lock"

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var engineFlag string
	var fallbackFlag bool
	var noSoundFlag bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a screenshot directory and open a report for every bungie id seen",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if dirFlag != "" {
				expanded, err := config.ExpandPath(dirFlag)
				if err != nil {
					return fmt.Errorf("resolve screenshot dir: %w", err)
				}
				cfg.Watch.ScreenshotDir = expanded
			}
			if cmd.Flags().Changed("engine") {
				cfg.Extraction.Engine = engineFlag
			}
			if cmd.Flags().Changed("fallback") {
				cfg.Extraction.Fallback = fallbackFlag
			}
			if noSoundFlag {
				cfg.Report.Sound = false
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Watch.ScreenshotDir == "" {
				return errors.New("a screenshot directory is required; set watch.screenshot_dir or pass --screenshot-dir")
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			return runWatch(cmd.Context(), ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&dirFlag, "screenshot-dir", "", "Directory the game writes screenshots to")
	cmd.Flags().StringVar(&engineFlag, "engine", "", "Extraction engine to try first (ocr or vision)")
	cmd.Flags().BoolVar(&fallbackFlag, "fallback", false, "Retry with the other engine when no account is found")
	cmd.Flags().BoolVar(&noSoundFlag, "no-sound", false, "Do not play a sound when a report opens")

	return cmd
}

func runWatch(ctx context.Context, cctx *commandContext, cfg *config.Config, logger *slog.Logger) error {
	info, err := os.Stat(cfg.Watch.ScreenshotDir)
	if err != nil {
		return fmt.Errorf("screenshot dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("screenshot dir: %s is not a directory", cfg.Watch.ScreenshotDir)
	}

	lock := flock.New(filepath.Join(cfg.Watch.ScreenshotDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire watch lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another echo instance is already watching %s", cfg.Watch.ScreenshotDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release watch lock", "error", err)
		}
	}()

	client, err := cctx.platformClient(defaultClientOptions()...)
	if err != nil {
		return err
	}

	strategies := buildStrategies(cfg, logger)

	launcher := newLauncher(cfg, logger)

	normalize := func(path string) (string, error) {
		return normalizeImage(cfg, path)
	}

	controller, err := pipeline.NewController(pipeline.Config{
		Engine:   cfg.Engine(),
		Fallback: cfg.Extraction.Fallback,
	}, strategies, client, launcher, normalize, logger)
	if err != nil {
		return err
	}

	settle := time.Duration(cfg.Watch.SettleSeconds) * time.Second
	w, err := watcher.New(cfg.Watch.ScreenshotDir, settle, controller.HandleScreenshot, logger)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching for screenshots",
		"dir", cfg.Watch.ScreenshotDir,
		"engine", cfg.Extraction.Engine,
		"fallback", cfg.Extraction.Fallback,
	)

	if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("watch loop stopped")
	return nil
}

// buildStrategies returns the extraction strategies the configuration can
// actually run. The OCR engine needs no credentials, so it is always
// available as a fallback target; the vision engine is only wired when the
// configuration will use it.
func buildStrategies(cfg *config.Config, logger *slog.Logger) map[extraction.Engine]extraction.Strategy {
	strategies := map[extraction.Engine]extraction.Strategy{
		extraction.EngineOCR: extraction.NewOCREngine(logger),
	}
	if cfg.NeedsVisionCredential() {
		strategies[extraction.EngineVision] = extraction.NewVisionEngine(extraction.VisionConfig{
			APIKey:         cfg.Credentials.OpenAIAPIKey,
			BaseURL:        cfg.Vision.BaseURL,
			Model:          cfg.Vision.Model,
			TimeoutSeconds: cfg.Vision.TimeoutSeconds,
		})
	}
	return strategies
}

// normalizeImage converts a screenshot into the temporary JPEG the
// extraction engines consume. The caller owns the returned file.
func normalizeImage(cfg *config.Config, path string) (string, error) {
	return imageprep.ToJPEG(path, os.TempDir(), cfg.Extraction.JPEGQuality, cfg.Extraction.MaxWidth)
}

func newLauncher(cfg *config.Config, logger *slog.Logger) *report.Launcher {
	soundPath := ""
	if cfg.Report.Sound {
		soundPath = cfg.Report.SoundPath
	}
	return report.NewLauncher(cfg.Report.Host, soundPath, logger)
}

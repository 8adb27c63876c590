package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/soocke/pulse-monitor-go/app"
	"github.com/soocke/pulse-monitor-go/config"
	"github.com/soocke/pulse-monitor-go/debug"
	"github.com/soocke/pulse-monitor-go/domain/signal"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional JSON config path")
		frames     = flag.Int("frames", 600, "frames to process")
		confidence = flag.Int("confidence", -1, "verdict confidence level 0-9 (-1 = config value)")
		coverage   = flag.String("coverage", "full", "simulated coverage: full|partial|shifted|absent")
		debugMode  = flag.Bool("debug", false, "enable debug logging and runtime diagnostics")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if *debugMode {
		cfg.Debug = true
	}
	if *confidence >= 0 {
		cfg.ConfidenceLevel = *confidence
	}
	_ = cfg.Validate()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", *configPath, "err", err.Error())
	}

	if cfg.Debug {
		debug.StartMemLogger(2*time.Second, logger)
		debug.StartGoroutineLogger(time.Second, logger)
	}

	cov, err := signal.ParseCoverage(*coverage)
	if err != nil {
		logger.Error("bad coverage flag", "coverage", *coverage, "err", err.Error())
		os.Exit(2)
	}

	// Synthetic feed standing in for the camera pipeline: ~72 bpm pulse at the
	// configured frame rate.
	period := float64(cfg.FPS) * 60.0 / 72.0
	sim := signal.NewPulseSim(period, 30, 100, 0.4)
	sim.SetCoverage(cov)

	monitor := app.NewMonitor(cfg, logger, sim)
	logger.Info("monitoring session started",
		"frames", *frames,
		"coverage", cov.String(),
		"confidence", cfg.ConfidenceLevel,
	)

	summary, err := monitor.Run(*frames)
	if err != nil {
		logger.Error("monitoring session failed", "err", err.Error())
		os.Exit(1)
	}

	logger.Info("monitoring session complete",
		slog.String("session", summary.ID),
		slog.Duration("duration", summary.Duration),
		slog.Int("frames", summary.Frames),
		slog.Int("peaks", summary.Peaks),
		slog.Int("troughs", summary.Troughs),
		slog.Float64("ac_amplitude", summary.LastAC),
		slog.Float64("pulse_bpm", summary.PulseBPM),
	)
	for v, n := range summary.Verdicts {
		logger.Info("verdict count", "verdict", v.String(), "count", n)
	}
}

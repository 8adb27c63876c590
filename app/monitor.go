package app

import (
	"log/slog"

	"github.com/soocke/pulse-monitor-go/config"
	"github.com/soocke/pulse-monitor-go/domain/pulse"
)

// Feed supplies one RGB channel-average triplet per call, in frame order.
// The camera pipeline implements this in production; the synthetic simulator
// implements it for the demo and tests.
type Feed interface {
	Next() (r, g, b float64)
}

// VerdictListener is called on each emitted coverage verdict.
type VerdictListener func(frame int, v pulse.Verdict)

// Monitor owns one monitoring session: it advances the detector's frame
// counter, submits every frame for quality assessment, and once calibration
// has finished also drives the peak/trough detector directly for amplitude
// and rate estimation (the classifier stops driving the conditioner after
// calibration). Not concurrency-safe; run from a single goroutine.
type Monitor struct {
	cfg      *config.Config
	logger   *slog.Logger
	detector *pulse.Detector
	feed     Feed

	stats     *SessionStats
	ac        pulse.ACRange
	listeners []VerdictListener
}

// NewMonitor wires a fresh detector and session to the given feed.
// A nil cfg falls back to defaults; logger may be nil.
func NewMonitor(cfg *config.Config, logger *slog.Logger, feed Feed) *Monitor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Monitor{
		cfg:      cfg,
		logger:   logger,
		detector: pulse.NewDetector(cfg, 0, logger),
		feed:     feed,
		stats:    NewSessionStats(),
	}
}

// AddListener registers a verdict callback.
func (m *Monitor) AddListener(l VerdictListener) {
	m.listeners = append(m.listeners, l)
}

// Detector exposes the underlying detector (tests, instrumentation).
func (m *Monitor) Detector() *pulse.Detector { return m.detector }

// Run processes n frames from the feed and returns the session summary.
func (m *Monitor) Run(n int) (SessionSummary, error) {
	for i := 0; i < n; i++ {
		if err := m.Step(); err != nil {
			return SessionSummary{}, err
		}
	}
	return m.Summary(), nil
}

// Step consumes exactly one frame from the feed.
func (m *Monitor) Step() error {
	frame := m.detector.FrameCount() + 1
	if err := m.detector.SetFrameCount(frame); err != nil {
		return err
	}

	r, g, b := m.feed.Next()
	m.stats.OnFrame()

	calibrating := m.detector.Phase() == pulse.PhaseCalibrating

	verdict, err := m.detector.AssessQuality(r, g, b, m.cfg.ConfidenceLevel)
	if err != nil {
		return err
	}
	if verdict != pulse.VerdictNone {
		m.stats.OnVerdict(verdict)
		if m.logger != nil {
			m.logger.Info("coverage verdict",
				"frame", frame,
				"verdict", verdict.String(),
				"detail", verdictMessage(verdict),
			)
		}
		for _, l := range m.listeners {
			l(frame, verdict)
		}
	}

	if !calibrating {
		// The classifier no longer feeds the conditioner; keep it running for
		// AC amplitude and pulse-rate tracking.
		ext, err := m.detector.DetectPeakTrough(r)
		if err != nil {
			return err
		}
		if ext.Kind != pulse.KindNone {
			m.stats.OnExtremum(ext)
			if amplitude := m.ac.Update(ext); amplitude > 0 {
				m.stats.OnAC(amplitude)
				if m.logger != nil {
					m.logger.Debug("ac amplitude", "frame", frame, "amplitude", amplitude)
				}
			}
		}
	}

	return nil
}

// Summary returns the current session counters.
func (m *Monitor) Summary() SessionSummary {
	return m.stats.Summary(m.cfg.FPS)
}

// verdictMessage maps a verdict to the operator-facing description.
func verdictMessage(v pulse.Verdict) string {
	switch v {
	case pulse.VerdictWellCovered:
		return "finger is accurately on camera"
	case pulse.VerdictPartialCover:
		return "finger not covering camera correctly"
	case pulse.VerdictShifted:
		return "finger has shifted on camera"
	case pulse.VerdictNotCovered:
		return "finger not on camera"
	default:
		return "calculating"
	}
}

package pulse

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/soocke/pulse-monitor-go/config"
)

var (
	// ErrInvalidArgument is returned on caller contract violations: negative
	// channel averages, an out-of-range confidence level, a filter smoothing
	// factor at or below 1, or a stale negative frame count.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInsufficientData is returned if calibration ends without at least one
	// peak and one trough on record. Unreachable while the calibration target
	// is positive; kept as a guard against the divide-by-zero the thresholds
	// would otherwise hit.
	ErrInsufficientData = errors.New("insufficient calibration data")
)

// Detector analyzes per-frame color-channel averages sampled from a camera
// observing skin pulsation. It classifies each frame of the filtered red
// channel as an arbitrary point, peak or trough, and periodically judges how
// well a finger covers the lens. One instance per monitoring session; not
// concurrency-safe, call from a single goroutine with exactly one sample per
// video frame.
type Detector struct {
	cfg    *config.Config
	logger *slog.Logger

	// Externally advanced frame counter (the caller owns frame ordering).
	frameCount int

	// Conditioner state
	lpfOutput    float64
	hpfOutput    float64
	prevLpfInput float64
	raw          []float64 // last DetectorWindow raw red values
	filtered     []float64 // last DetectorWindow high-pass outputs

	// Calibration accumulators
	peakCount      int
	troughCount    int
	peakSum        float64
	troughSum      float64
	peakFrameSum   int
	troughFrameSum int

	// Steady-state classification
	armed       bool
	calcDiff    float64 // calibrated peak-to-trough amplitude threshold
	signalWidth int     // estimated peak-to-trough frame distance
	baseline    int     // frame count recorded when thresholds armed
	lag         []float64
	buckets     []int
}

// NewDetector returns a detector primed with the given frame count.
// A nil cfg falls back to defaults; logger may be nil.
func NewDetector(cfg *config.Config, frameCount int, logger *slog.Logger) *Detector {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Detector{
		cfg:        cfg,
		logger:     logger,
		frameCount: frameCount,
		buckets:    make([]int, cfg.ConfidenceBuckets),
	}
}

// FrameCount returns the current frame counter.
func (d *Detector) FrameCount() int { return d.frameCount }

// SetFrameCount replaces the frame counter. It fails when the stored counter
// has gone negative; the check is deliberately on the prior value, not on n.
func (d *Detector) SetFrameCount(n int) error {
	if d.frameCount < 0 {
		return fmt.Errorf("pulse: stale frame count %d: %w", d.frameCount, ErrInvalidArgument)
	}
	d.frameCount = n
	return nil
}

// DetectPeakTrough feeds one raw red-channel average through the low-pass /
// high-pass cascade and reports whether the sample at the center of the
// sliding window is a local peak or trough of the filtered signal. The first
// GarbageFrames frames are discarded as sensor settle noise; the two frames
// after that seed the filter stages. Call exactly once per frame, after the
// frame counter has been advanced.
func (d *Detector) DetectPeakTrough(red float64) (Extremum, error) {
	garbage := d.cfg.GarbageFrames
	window := d.cfg.DetectorWindow

	if d.frameCount <= garbage {
		return Extremum{}, nil
	}
	if d.frameCount == garbage+1 {
		// Seed the low-pass stage directly from the input.
		d.lpfOutput = red
		return Extremum{}, nil
	}

	out, err := lowPass(d.cfg.LowPassSmoothing, red, d.lpfOutput)
	if err != nil {
		return Extremum{}, err
	}
	d.lpfOutput = out

	if d.frameCount == garbage+2 {
		d.hpfOutput = 0
		d.prevLpfInput = d.lpfOutput
		return Extremum{}, nil
	}

	out, err = highPass(d.cfg.HighPassSmoothing, d.lpfOutput, d.hpfOutput, d.prevLpfInput)
	if err != nil {
		return Extremum{}, err
	}
	d.hpfOutput = out
	d.prevLpfInput = d.lpfOutput

	if d.frameCount <= garbage+window+2 {
		// Still filling the window.
		d.filtered = append(d.filtered, d.hpfOutput)
		d.raw = append(d.raw, red)
		return Extremum{}, nil
	}

	ext := d.classifyCenter()

	// Slide: evict the oldest sample, append the current one.
	d.raw = append(d.raw[1:], red)
	d.filtered = append(d.filtered[1:], d.hpfOutput)

	return ext, nil
}

// classifyCenter applies the strict local-extremum test to the center element
// of the filtered window: a peak needs each side strictly monotonic outward
// from the center, a trough the mirrored condition.
func (d *Detector) classifyCenter() Extremum {
	window := d.cfg.DetectorWindow
	center := window / 2
	f := d.filtered

	peak, trough := true, true
	for i := 0; i < center; i++ {
		if f[i] >= f[i+1] || f[window-1-i] >= f[window-2-i] {
			peak = false
		}
		if f[i] <= f[i+1] || f[window-1-i] <= f[window-2-i] {
			trough = false
		}
	}

	// The center of the window lags the current frame by center+1.
	frame := d.frameCount - (center + 1)
	switch {
	case peak:
		return Extremum{Kind: KindPeak, Frame: frame, Value: d.raw[center]}
	case trough:
		return Extremum{Kind: KindTrough, Frame: frame, Value: d.raw[center]}
	default:
		return Extremum{}
	}
}

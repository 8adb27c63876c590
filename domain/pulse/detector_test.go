package pulse

import (
	"errors"
	"math"
	"testing"

	"github.com/soocke/pulse-monitor-go/config"
)

func newTestDetector(frameCount int) *Detector {
	return NewDetector(config.DefaultConfig(), frameCount, nil)
}

// preloadWindows fills the detector's sliding windows directly and positions
// the frame counter just past warm-up, so a single DetectPeakTrough call
// evaluates the given filtered window.
func preloadWindows(d *Detector, raw, filtered []float64) {
	d.raw = append([]float64(nil), raw...)
	d.filtered = append([]float64(nil), filtered...)
	d.frameCount = d.cfg.GarbageFrames + d.cfg.DetectorWindow + 3
	// Seed filter state so the call only slides the window.
	d.lpfOutput = raw[len(raw)-1]
	d.prevLpfInput = d.lpfOutput
}

func TestDetectPeakTrough_GarbageFramesDiscarded(t *testing.T) {
	d := newTestDetector(0)
	for frame := 1; frame <= d.cfg.GarbageFrames; frame++ {
		if err := d.SetFrameCount(frame); err != nil {
			t.Fatalf("SetFrameCount(%d): %v", frame, err)
		}
		ext, err := d.DetectPeakTrough(100 + float64(frame))
		if err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		if ext.Kind != KindNone {
			t.Fatalf("frame %d: expected none, got %v", frame, ext.Kind)
		}
	}
	if d.lpfOutput != 0 || d.hpfOutput != 0 || len(d.raw) != 0 || len(d.filtered) != 0 {
		t.Fatalf("garbage frames mutated filter state: %+v", d)
	}
}

func TestDetectPeakTrough_SeedFrames(t *testing.T) {
	d := newTestDetector(0)
	g := d.cfg.GarbageFrames

	d.SetFrameCount(g + 1)
	if _, err := d.DetectPeakTrough(120); err != nil {
		t.Fatal(err)
	}
	if d.lpfOutput != 120 {
		t.Fatalf("low-pass seed: expected 120, got %v", d.lpfOutput)
	}

	d.SetFrameCount(g + 2)
	if _, err := d.DetectPeakTrough(126); err != nil {
		t.Fatal(err)
	}
	if d.hpfOutput != 0 {
		t.Fatalf("high-pass seed: expected 0, got %v", d.hpfOutput)
	}
	if d.prevLpfInput != d.lpfOutput {
		t.Fatalf("previous low-pass input not recorded: %v != %v", d.prevLpfInput, d.lpfOutput)
	}
}

func TestDetectPeakTrough_CenterPeak(t *testing.T) {
	d := newTestDetector(0)
	preloadWindows(d, []float64{10, 11, 12, 13, 14}, []float64{1, 2, 5, 3, 4})

	ext, err := d.DetectPeakTrough(15)
	if err != nil {
		t.Fatal(err)
	}
	if ext.Kind != KindPeak {
		t.Fatalf("expected peak, got %v", ext.Kind)
	}
	if want := d.frameCount - 3; ext.Frame != want {
		t.Fatalf("expected mapped frame %d, got %d", want, ext.Frame)
	}
	if ext.Value != 12 {
		t.Fatalf("expected raw value at window center (12), got %v", ext.Value)
	}
}

func TestDetectPeakTrough_CenterTrough(t *testing.T) {
	d := newTestDetector(0)
	preloadWindows(d, []float64{90, 80, 70, 75, 85}, []float64{5, 2, 1, 3, 4})

	ext, err := d.DetectPeakTrough(95)
	if err != nil {
		t.Fatal(err)
	}
	if ext.Kind != KindTrough {
		t.Fatalf("expected trough, got %v", ext.Kind)
	}
	if ext.Value != 70 {
		t.Fatalf("expected raw value at window center (70), got %v", ext.Value)
	}
}

func TestDetectPeakTrough_NonMonotonicSidesYieldNone(t *testing.T) {
	windows := [][]float64{
		{1, 2, 5, 6, 4},  // center not a maximum
		{2, 1, 3, 1, 2},  // sides not monotonic
		{1, 2, 5, 3, 10}, // right side rises again
		{3, 3, 5, 3, 1},  // plateau on the left
		{5, 2, 1, 3, 0},  // trough-like but right side falls outward
	}
	for _, w := range windows {
		d := newTestDetector(0)
		preloadWindows(d, []float64{1, 2, 3, 4, 5}, w)
		ext, err := d.DetectPeakTrough(6)
		if err != nil {
			t.Fatal(err)
		}
		if ext.Kind != KindNone {
			t.Fatalf("window %v: expected none, got %v", w, ext.Kind)
		}
	}
}

func TestDetectPeakTrough_WindowSlides(t *testing.T) {
	d := newTestDetector(0)
	g := d.cfg.GarbageFrames
	w := d.cfg.DetectorWindow

	var fed []float64
	frame := g
	feed := func(v float64) {
		frame++
		d.SetFrameCount(frame)
		if _, err := d.DetectPeakTrough(v); err != nil {
			t.Fatal(err)
		}
		if frame > g+2 {
			fed = append(fed, v)
		}
	}

	for i := 0; i < 40; i++ {
		feed(100 + 30*math.Sin(float64(i)/3))
	}

	if len(d.raw) != w || len(d.filtered) != w {
		t.Fatalf("window length invariant broken: raw=%d filtered=%d", len(d.raw), len(d.filtered))
	}
	last := fed[len(fed)-w:]
	for i, v := range last {
		if d.raw[i] != v {
			t.Fatalf("raw window out of order at %d: got %v want %v", i, d.raw[i], v)
		}
	}
}

func TestSetFrameCount_StaleNegativeFails(t *testing.T) {
	d := newTestDetector(-1)
	if err := d.SetFrameCount(10); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument on stale negative counter, got %v", err)
	}

	// The check is on the stored value: setting a negative counter from a
	// valid state succeeds, and only the following call fails.
	d = newTestDetector(0)
	if err := d.SetFrameCount(-5); err != nil {
		t.Fatalf("setting negative from valid state should pass: %v", err)
	}
	if err := d.SetFrameCount(3); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument after counter went negative, got %v", err)
	}
}

func TestDetectPeakTrough_BadSmoothingFails(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LowPassSmoothing = 0.5 // bypasses Validate on purpose
	d := NewDetector(cfg, cfg.GarbageFrames+2, nil)
	if _, err := d.DetectPeakTrough(100); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for smoothing <= 1, got %v", err)
	}
}

func TestLowPass_ConstantInputConverges(t *testing.T) {
	const input = 113.5
	out := 0.0
	for i := 0; i < 200; i++ {
		var err error
		out, err = lowPass(5.65, input, out)
		if err != nil {
			t.Fatal(err)
		}
	}
	if math.Abs(out-input) > 1e-6 {
		t.Fatalf("low-pass did not converge to constant input: %v", out)
	}
}

func TestHighPass_RampConvergesToConstant(t *testing.T) {
	const (
		smoothing = 2.0
		slope     = 0.8
	)
	b := 1 - 1/smoothing
	want := b * slope / (1 - b) // fixed point of y = b*(y + slope)

	out := 0.0
	x := 0.0
	for i := 0; i < 200; i++ {
		prev := x
		x += slope
		var err error
		out, err = highPass(smoothing, x, out, prev)
		if err != nil {
			t.Fatal(err)
		}
	}
	if math.Abs(out-want) > 1e-6 {
		t.Fatalf("high-pass on ramp: got %v want %v", out, want)
	}
}

func TestFilters_RejectSmoothingAtOrBelowOne(t *testing.T) {
	if _, err := lowPass(1, 10, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("low-pass accepted smoothing 1: %v", err)
	}
	if _, err := highPass(0.3, 10, 0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("high-pass accepted smoothing below 1: %v", err)
	}
}

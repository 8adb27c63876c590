package signal

import (
	"fmt"
	"math"
)

// Coverage selects the simulated finger placement over the lens.
type Coverage int

const (
	CoverageFull Coverage = iota
	CoveragePartial
	CoverageShifted
	CoverageAbsent
)

func (c Coverage) String() string {
	switch c {
	case CoverageFull:
		return "full"
	case CoveragePartial:
		return "partial"
	case CoverageShifted:
		return "shifted"
	case CoverageAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// ParseCoverage maps a flag value to a Coverage.
func ParseCoverage(s string) (Coverage, error) {
	switch s {
	case "full", "":
		return CoverageFull, nil
	case "partial":
		return CoveragePartial, nil
	case "shifted":
		return CoverageShifted, nil
	case "absent":
		return CoverageAbsent, nil
	default:
		return CoverageFull, fmt.Errorf("unknown coverage %q", s)
	}
}

// PulseSim generates a deterministic PPG-like frame feed (not clinical).
// The red channel carries a sinusoidal pulse over a DC offset plus cheap
// deterministic noise; green and blue sit at levels typical for the selected
// coverage. It stands in for the camera collaborator in the demo and tests.
type PulseSim struct {
	period    float64 // frames per pulse cycle
	amplitude float64
	offset    float64
	noise     float64
	coverage  Coverage
	phase     float64
}

// NewPulseSim returns a simulator producing one RGB triplet per Next call.
// period is in frames; amplitude/offset/noise are in 0-255 channel units.
func NewPulseSim(period, amplitude, offset, noise float64) *PulseSim {
	return &PulseSim{period: period, amplitude: amplitude, offset: offset, noise: noise}
}

// SetCoverage switches the simulated finger placement; takes effect on the
// next frame.
func (s *PulseSim) SetCoverage(c Coverage) { s.coverage = c }

// Next returns the next frame's channel averages and advances the cycle.
// All channels are clamped to [0, 255].
func (s *PulseSim) Next() (r, g, b float64) {
	s.phase += 1.0 / s.period
	if s.phase >= 1.0 {
		s.phase -= 1.0
	}
	t := s.phase

	pulse := s.amplitude * math.Sin(2*math.Pi*t)
	// cheap deterministic noise
	n := s.noise * (2*fract(math.Sin(12345.678*t)*9876.543) - 1)

	switch s.coverage {
	case CoveragePartial:
		// One side of the lens leaks ambient light.
		r = s.offset + pulse + n
		g = 20 + n
		b = 60 + n
	case CoverageShifted:
		// A moved finger steps the DC level, so lagged comparisons blow up.
		r = s.offset + 25 + pulse + n
		g = 8 + n
		b = 8 + n
	case CoverageAbsent:
		// Bright, flat ambient scene; no pulsatile component.
		r = 230 + n
		g = 160 + n
		b = 150 + n
	default: // CoverageFull
		r = s.offset + pulse + n
		g = 2 + n
		b = 2 + n
	}

	return clamp(r), clamp(g), clamp(b)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func fract(x float64) float64 { return x - math.Floor(x) }

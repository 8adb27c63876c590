package pulse

// ExtremumKind tags a classified sample of the filtered pulsatile signal.
type ExtremumKind int

const (
	KindNone ExtremumKind = iota
	KindPeak
	KindTrough
)

func (k ExtremumKind) String() string {
	switch k {
	case KindPeak:
		return "peak"
	case KindTrough:
		return "trough"
	default:
		return "none"
	}
}

// Extremum is the per-frame result of the peak/trough detector. Frame and
// Value are only meaningful when Kind is not KindNone: Frame is the source
// frame the detection maps back to (detection lags real time by half the
// detector window plus one), Value is the raw red average at that frame.
type Extremum struct {
	Kind  ExtremumKind
	Frame int
	Value float64
}

// Verdict is the periodic finger-coverage classification.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictWellCovered
	VerdictPartialCover
	VerdictShifted
	VerdictNotCovered
)

func (v Verdict) String() string {
	switch v {
	case VerdictWellCovered:
		return "well-covered"
	case VerdictPartialCover:
		return "partially-covered"
	case VerdictShifted:
		return "shifted"
	case VerdictNotCovered:
		return "not-covered"
	default:
		return "none"
	}
}

// Phase enumerates the quality classifier's lifecycle.
type Phase int

const (
	PhaseCalibrating Phase = iota
	PhaseArmed
	PhaseSteady
)

func (p Phase) String() string {
	switch p {
	case PhaseCalibrating:
		return "calibrating"
	case PhaseArmed:
		return "armed"
	case PhaseSteady:
		return "steady"
	default:
		return "unknown"
	}
}

// ExtremaSource is the minimal detector contract used by consumers that only
// care about peaks and troughs (e.g. amplitude or rate estimation).
type ExtremaSource interface {
	DetectPeakTrough(red float64) (Extremum, error)
}

// QualityAssessor is the coverage-classification contract.
type QualityAssessor interface {
	AssessQuality(red, green, blue float64, confidence int) (Verdict, error)
}

// FrameClock externalizes the caller-owned frame counter.
type FrameClock interface {
	SetFrameCount(n int) error
	FrameCount() int
}

// DetectorContract aggregate for DI.
type DetectorContract interface {
	ExtremaSource
	QualityAssessor
	FrameClock
	Phase() Phase
}

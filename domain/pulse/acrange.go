package pulse

import "math"

// ACRange derives the pulsatile (AC) amplitude of the red channel from the
// stream of detector results. It latches the most recent unconsumed peak and
// trough independently; repeats of a kind before the opposite kind arrives are
// ignored. The zero value is ready to use.
type ACRange struct {
	peak       float64
	trough     float64
	peakHeld   bool
	troughHeld bool
}

// Update feeds one detector result. Once a peak and a trough have both been
// latched it returns |peak - trough| and clears both latches for the next
// cycle; otherwise it returns 0.
func (a *ACRange) Update(ext Extremum) float64 {
	switch ext.Kind {
	case KindPeak:
		if !a.peakHeld {
			a.peak = ext.Value
			a.peakHeld = true
		}
	case KindTrough:
		if !a.troughHeld {
			a.trough = ext.Value
			a.troughHeld = true
		}
	}

	if a.peakHeld && a.troughHeld {
		amplitude := math.Abs(a.peak - a.trough)
		a.peakHeld = false
		a.troughHeld = false
		return amplitude
	}
	return 0
}

// Reset clears both latches.
func (a *ACRange) Reset() {
	a.peakHeld = false
	a.troughHeld = false
}

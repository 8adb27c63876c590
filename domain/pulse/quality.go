package pulse

import (
	"fmt"
	"math"
)

// AssessQuality consumes one frame of channel averages and reports how well a
// finger (or equivalent light-occluding object) covers the lens. confidence is
// the verdict threshold in batch frames (1 = 10% ... 9 = 90% at the default
// batch size).
//
// The classifier moves through three phases. While calibrating it drives the
// peak/trough detector itself and accumulates amplitude and spacing
// statistics; callers must not also call DetectPeakTrough for the same frame.
// Once enough extrema are on record the thresholds arm exactly once, after
// which the detector is free for direct use and each frame is compared against
// the sample one signal period earlier. A verdict other than VerdictNone is
// emitted every BatchSize frames; all other calls return VerdictNone.
func (d *Detector) AssessQuality(red, green, blue float64, confidence int) (Verdict, error) {
	if red < 0 || green < 0 || blue < 0 {
		return VerdictNone, fmt.Errorf("pulse: negative channel value (r=%v g=%v b=%v): %w", red, green, blue, ErrInvalidArgument)
	}
	if confidence < 0 || confidence > d.cfg.BatchSize-1 {
		return VerdictNone, fmt.Errorf("pulse: confidence level %d outside [0, %d]: %w", confidence, d.cfg.BatchSize-1, ErrInvalidArgument)
	}

	switch {
	case d.peakCount < d.cfg.CalibrationTarget || d.troughCount < d.cfg.CalibrationTarget:
		ext, err := d.DetectPeakTrough(red)
		if err != nil {
			return VerdictNone, err
		}
		switch ext.Kind {
		case KindPeak:
			d.peakSum += ext.Value
			d.peakFrameSum += ext.Frame
			d.peakCount++
		case KindTrough:
			d.troughSum += ext.Value
			d.troughFrameSum += ext.Frame
			d.troughCount++
		}

	case !d.armed:
		if err := d.arm(); err != nil {
			return VerdictNone, err
		}

	case d.frameCount-d.baseline <= d.signalWidth:
		// Filling the lag line: buffer one signal period of raw values.
		d.lag = append(d.lag, red)

	default:
		popped := d.lag[0]
		diff := math.Abs(red - popped)
		switch {
		case diff < d.calcDiff && diff > d.cfg.MinDifference && green < d.cfg.FullCoverMax && blue < d.cfg.FullCoverMax:
			d.buckets[0]++
		case diff < d.calcDiff && diff > d.cfg.MinDifference && (green < d.cfg.PartialCoverMax || blue < d.cfg.PartialCoverMax):
			d.buckets[1]++
		case diff > d.calcDiff:
			d.buckets[2]++
		default:
			d.buckets[3]++
		}
		d.lag = append(d.lag[1:], red)

		if d.frameCount%d.cfg.BatchSize == 0 {
			v := d.confidenceCheck(confidence)
			for i := range d.buckets {
				d.buckets[i] = 0
			}
			return v, nil
		}
	}

	return VerdictNone, nil
}

// arm derives the steady-state thresholds from the calibration statistics and
// records the baseline frame. Fires exactly once per detector.
func (d *Detector) arm() error {
	if d.peakCount == 0 || d.troughCount == 0 {
		return fmt.Errorf("pulse: calibration finished with %d peaks and %d troughs: %w", d.peakCount, d.troughCount, ErrInsufficientData)
	}
	tol := d.cfg.ErrorTolerance
	d.calcDiff = (d.peakSum/float64(d.peakCount) - d.troughSum/float64(d.troughCount)) + tol
	d.signalWidth = int(math.Abs(float64(d.peakFrameSum/d.peakCount-d.troughFrameSum/d.troughCount) + tol))
	d.baseline = d.frameCount
	d.armed = true
	if d.logger != nil {
		d.logger.Debug("quality thresholds armed",
			"calc_diff", d.calcDiff,
			"signal_width", d.signalWidth,
			"baseline", d.baseline,
			"peaks", d.peakCount,
			"troughs", d.troughCount,
		)
	}
	return nil
}

// confidenceCheck thresholds the bucket counters in fixed order and maps the
// first qualifying bucket to its verdict.
func (d *Detector) confidenceCheck(level int) Verdict {
	for i, count := range d.buckets {
		if count >= level {
			return Verdict(i + 1)
		}
	}
	return VerdictNone
}

// Phase reports the classifier's current lifecycle phase. PhaseArmed is the
// one-shot window between reaching the calibration target and the next
// AssessQuality call deriving the thresholds.
func (d *Detector) Phase() Phase {
	switch {
	case d.peakCount < d.cfg.CalibrationTarget || d.troughCount < d.cfg.CalibrationTarget:
		return PhaseCalibrating
	case !d.armed:
		return PhaseArmed
	default:
		return PhaseSteady
	}
}

// CalibratedThresholds exposes the armed thresholds for instrumentation.
// Returns ok=false until the classifier has armed.
func (d *Detector) CalibratedThresholds() (calcDiff float64, signalWidth int, ok bool) {
	if !d.armed {
		return 0, 0, false
	}
	return d.calcDiff, d.signalWidth, true
}

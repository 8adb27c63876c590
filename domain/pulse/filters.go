package pulse

import "fmt"

// First-order recursive filter stages used to isolate the pulsatile component
// of the red channel. These are the exact difference equations the coverage
// calibration was tuned against; do not substitute a textbook biquad.

// lowPass removes high frequency noise:
//
//	y[n] = y[n-1] + (x[n] - y[n-1]) / a
//
// where 'a' (> 1) controls the sharpness of the output peaks/troughs.
func lowPass(smoothing, input, prevOutput float64) (float64, error) {
	if smoothing <= 1 {
		return 0, fmt.Errorf("pulse: low-pass smoothing %v must be greater than 1: %w", smoothing, ErrInvalidArgument)
	}
	return prevOutput + (input-prevOutput)/smoothing, nil
}

// highPass removes low frequency baseline drift:
//
//	y[n] = b * (y[n-1] + x[n] - x[n-1]),  b = 1 - 1/a
//
// with the same a > 1 constraint.
func highPass(smoothing, input, prevOutput, prevInput float64) (float64, error) {
	if smoothing <= 1 {
		return 0, fmt.Errorf("pulse: high-pass smoothing %v must be greater than 1: %w", smoothing, ErrInvalidArgument)
	}
	b := 1 - (1 / smoothing)
	return b * (prevOutput + input - prevInput), nil
}

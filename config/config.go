package config

import (
	"encoding/json"
	"os"
)

// Config holds runtime configuration for the pulse pipeline and demo behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Signal conditioning parameters
	GarbageFrames     int     `json:"garbage_frames"`      // initial frames discarded as sensor noise
	DetectorWindow    int     `json:"detector_window"`     // sliding window length of the extrema detector
	LowPassSmoothing  float64 `json:"low_pass_smoothing"`  // 'a' in y = y_prev + (x - y_prev)/a
	HighPassSmoothing float64 `json:"high_pass_smoothing"` // 'a' behind b = 1 - 1/a

	// Quality classification parameters
	ErrorTolerance    float64 `json:"error_tolerance"`    // additive slack on calibrated thresholds
	MinDifference     float64 `json:"min_difference"`     // floor below which a frame delta is treated as flat
	FullCoverMax      float64 `json:"full_cover_max"`     // green/blue ceiling for a fully covered lens
	PartialCoverMax   float64 `json:"partial_cover_max"`  // green or blue ceiling for a partial cover
	BatchSize         int     `json:"batch_size"`         // frames per verdict emission
	ConfidenceBuckets int     `json:"confidence_buckets"` // number of coverage outcome counters
	CalibrationTarget int     `json:"calibration_target"` // peaks and troughs required before arming

	// Demo / session parameters
	FPS             int `json:"fps"`              // nominal camera frame rate for rate estimation
	ConfidenceLevel int `json:"confidence_level"` // verdict threshold, 1 = 10% ... 9 = 90%
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		GarbageFrames:     50,
		DetectorWindow:    5,
		LowPassSmoothing:  5.65,
		HighPassSmoothing: 2,
		ErrorTolerance:    1.75,
		MinDifference:     0.15,
		FullCoverMax:      5,
		PartialCoverMax:   35,
		BatchSize:         10,
		ConfidenceBuckets: 4,
		CalibrationTarget: 3,
		FPS:               30,
		ConfidenceLevel:   6,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.GarbageFrames < 0 {
		c.GarbageFrames = 50
	}
	if c.DetectorWindow < 3 || c.DetectorWindow%2 == 0 {
		c.DetectorWindow = 5
	}
	if c.LowPassSmoothing <= 1 {
		c.LowPassSmoothing = 5.65
	}
	if c.HighPassSmoothing <= 1 {
		c.HighPassSmoothing = 2
	}
	if c.ErrorTolerance < 0 {
		c.ErrorTolerance = 1.75
	}
	if c.MinDifference < 0 {
		c.MinDifference = 0.15
	}
	if c.FullCoverMax <= 0 {
		c.FullCoverMax = 5
	}
	if c.PartialCoverMax < c.FullCoverMax {
		c.PartialCoverMax = 35
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.ConfidenceBuckets <= 0 {
		c.ConfidenceBuckets = 4
	}
	if c.CalibrationTarget <= 0 {
		c.CalibrationTarget = 3
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.ConfidenceLevel < 0 || c.ConfidenceLevel > c.BatchSize-1 {
		c.ConfidenceLevel = 6
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

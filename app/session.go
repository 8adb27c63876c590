package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/soocke/pulse-monitor-go/domain/pulse"
)

// SessionStats accumulates per-session counters: frames seen, extrema,
// verdict tallies, pulsatile amplitude and peak spacing. It is decoupled from
// the frame loop; the monitor feeds it and callers read Summary().
type SessionStats struct {
	id      uuid.UUID
	started time.Time

	frames  int
	peaks   int
	troughs int

	verdicts map[pulse.Verdict]int

	lastAC float64

	lastPeakFrame  int
	spacingSum     int
	spacingSamples int
}

// NewSessionStats starts a fresh session with a random identifier.
func NewSessionStats() *SessionStats {
	return &SessionStats{
		id:       uuid.New(),
		started:  time.Now(),
		verdicts: make(map[pulse.Verdict]int),
	}
}

// OnFrame records one processed frame.
func (s *SessionStats) OnFrame() { s.frames++ }

// OnExtremum records a detected peak or trough and tracks peak spacing for
// rate estimation.
func (s *SessionStats) OnExtremum(ext pulse.Extremum) {
	switch ext.Kind {
	case pulse.KindPeak:
		s.peaks++
		if s.lastPeakFrame > 0 && ext.Frame > s.lastPeakFrame {
			s.spacingSum += ext.Frame - s.lastPeakFrame
			s.spacingSamples++
		}
		s.lastPeakFrame = ext.Frame
	case pulse.KindTrough:
		s.troughs++
	}
}

// OnVerdict tallies an emitted coverage verdict.
func (s *SessionStats) OnVerdict(v pulse.Verdict) { s.verdicts[v]++ }

// OnAC records the latest pulsatile amplitude.
func (s *SessionStats) OnAC(amplitude float64) { s.lastAC = amplitude }

// PulseRate estimates beats per minute from the mean peak spacing at the
// given frame rate. ok is false until at least one spacing sample exists.
func (s *SessionStats) PulseRate(fps int) (bpm float64, ok bool) {
	if s.spacingSamples == 0 || fps <= 0 {
		return 0, false
	}
	mean := float64(s.spacingSum) / float64(s.spacingSamples)
	return 60 * float64(fps) / mean, true
}

// SessionSummary is a point-in-time copy of the session counters.
type SessionSummary struct {
	ID       string
	Duration time.Duration
	Frames   int
	Peaks    int
	Troughs  int
	Verdicts map[pulse.Verdict]int
	LastAC   float64
	PulseBPM float64
}

// Summary returns a copy of the current counters. fps sizes the rate estimate.
func (s *SessionStats) Summary(fps int) SessionSummary {
	verdicts := make(map[pulse.Verdict]int, len(s.verdicts))
	for k, v := range s.verdicts {
		verdicts[k] = v
	}
	bpm, _ := s.PulseRate(fps)
	return SessionSummary{
		ID:       s.id.String(),
		Duration: time.Since(s.started),
		Frames:   s.frames,
		Peaks:    s.peaks,
		Troughs:  s.troughs,
		Verdicts: verdicts,
		LastAC:   s.lastAC,
		PulseBPM: bpm,
	}
}

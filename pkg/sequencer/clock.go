package sequencer

import "time"

// Clock supplies monotonic time in seconds. Events are always timestamped
// against it rather than against the re-arm timer, so timer jitter never
// shifts audible timing.
type Clock interface {
	Now() float64
}

type systemClock struct {
	start time.Time
}

// NewSystemClock returns a Clock counting seconds from its creation.
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

package synth

import (
	"log/slog"

	"github.com/guillaumesax/patternlab/pkg/music"
	"github.com/guillaumesax/patternlab/pkg/sequencer"
)

// Logger is a no-hardware backend that records every intent to a
// slog.Logger. It stands in for a real port in headless runs and when no
// MIDI device exists.
type Logger struct {
	log *slog.Logger
}

// NewLogger returns a logging backend. A nil logger uses slog.Default.
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

// Open is a no-op; there is no device.
func (l *Logger) Open() error { return nil }

// Close is a no-op.
func (l *Logger) Close() error { return nil }

// TriggerDrum logs a drum intent.
func (l *Logger) TriggerDrum(key string, at float64) {
	l.log.Info("drum", "key", key, "at", at)
}

// TriggerNote logs a melodic intent.
func (l *Logger) TriggerNote(pitch int, at float64, timbre sequencer.Timbre, duration float64) {
	l.log.Info("note",
		"pitch", pitch,
		"name", music.PitchName(pitch),
		"timbre", timbre.String(),
		"at", at,
		"duration", duration)
}

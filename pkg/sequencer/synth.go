package sequencer

import "strings"

// Timbre names the voice class a melodic intent is rendered with.
type Timbre int

// Voice classes handed to the synthesizer.
const (
	TimbreBass Timbre = iota
	TimbreChord
	TimbreLead
	TimbrePad
)

var timbreNames = [...]string{"bass", "chord", "lead", "pad"}

func (t Timbre) String() string {
	if t < 0 || int(t) >= len(timbreNames) {
		return "unknown"
	}
	return timbreNames[t]
}

// TimbreFor maps an instrument selection to the timbre its notes play with.
func TimbreFor(instrument string) Timbre {
	switch strings.ToLower(instrument) {
	case "bass":
		return TimbreBass
	case "chord", "chords":
		return TimbreChord
	default:
		return TimbreLead
	}
}

// Synthesizer renders timed playback intents. Implementations own all voice
// detail; the trigger calls are fire-and-forget and must not block.
type Synthesizer interface {
	// Open acquires the output device. Called once before playback starts;
	// an error leaves the player stopped.
	Open() error
	// Close releases the device.
	Close() error
	// TriggerDrum sounds the kit voice for key at the given clock time.
	TriggerDrum(key string, at float64)
	// TriggerNote sounds a melodic voice at the given clock time for
	// duration seconds.
	TriggerNote(pitch int, at float64, timbre Timbre, duration float64)
}

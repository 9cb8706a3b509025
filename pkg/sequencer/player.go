// Package sequencer drives real-time playback of the drum grid, a generated
// pattern, or the chord progression. It schedules look-ahead: a coarse timer
// wakes the loop, but every event is timestamped against the monotonic Clock
// up to scheduleAheadSeconds in advance, so playback accuracy does not depend
// on timer accuracy.
package sequencer

import (
	"fmt"
	"sync"
	"time"

	"github.com/guillaumesax/patternlab/pkg/music"
)

const (
	// leadInSeconds delays the first step past the clock read at Start so
	// the synthesizer never sees a timestamp already in the past.
	leadInSeconds = 0.050
	// scheduleAheadSeconds is how far past the clock the loop keeps events
	// queued. Must exceed the re-arm interval.
	scheduleAheadSeconds = 0.100
	// rearmInterval is the pump cadence. Jitter here is absorbed by the
	// schedule-ahead window.
	rearmInterval = 25 * time.Millisecond

	defaultTempo = 120
	minTempo     = 20
	maxTempo     = 300

	padOctave = 4

	// fallbackSteps sizes the loop when the active source is empty.
	fallbackSteps = music.StepsPerBar
)

// Mode selects which data source playback resolves steps against.
type Mode int

// Playback sources.
const (
	ModeDrums Mode = iota
	ModePattern
	ModeChords
)

var modeNames = [...]string{"drums", "pattern", "chords"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode maps a mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return ModeDrums, fmt.Errorf("unknown playback mode %q", s)
}

// State is the playback state machine.
type State int

// Player states.
const (
	StateStopped State = iota
	StateRunning
)

// SecondsPerStep converts a tempo in beats per minute to the length of one
// sixteenth-note step in seconds.
func SecondsPerStep(tempo float64) float64 {
	if tempo <= 0 {
		tempo = defaultTempo
	}
	return 60 / (tempo * 4)
}

// intent is one resolved synthesis event, held until the lock is released.
type intent struct {
	drum     bool
	key      string
	pitch    int
	timbre   Timbre
	at       float64
	duration float64
}

// Player is the look-ahead step sequencer. Construct it with NewPlayer; the
// zero value is not usable. All methods are safe for concurrent use. The
// player keeps its own copy of everything handed to the setters, so callers
// push a fresh snapshot after editing rather than sharing live structures.
type Player struct {
	mu sync.Mutex

	clock Clock
	synth Synthesizer

	state State
	mode  Mode
	tempo float64

	grid        *music.DrumGrid
	pattern     []music.Note
	patternBars int
	timbre      Timbre
	progression music.Progression

	step          int
	nextEventTime float64

	stop chan struct{}
	done chan struct{}
}

// NewPlayer returns a stopped Player emitting to synth. A nil clock falls
// back to a system clock started now.
func NewPlayer(clock Clock, synth Synthesizer) *Player {
	if clock == nil {
		clock = NewSystemClock()
	}
	return &Player{
		clock: clock,
		synth: synth,
		mode:  ModeDrums,
		tempo: defaultTempo,
		grid:  music.NewDrumGrid(1),
	}
}

// SetTempo sets the playback tempo, clamped to [20, 300] bpm. Takes effect
// on the next scheduling pass.
func (p *Player) SetTempo(bpm float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tempo = music.Clamp(bpm, minTempo, maxTempo)
}

// Tempo reports the playback tempo.
func (p *Player) Tempo() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tempo
}

// SetMode selects the playback source.
func (p *Player) SetMode(m Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = m
}

// Mode reports the playback source.
func (p *Player) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// SetGrid installs a snapshot of the drum grid played in ModeDrums.
func (p *Player) SetGrid(g *music.DrumGrid) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if g == nil {
		p.grid = music.NewDrumGrid(1)
		return
	}
	p.grid = g.Clone()
}

// SetPattern installs a snapshot of generated notes played in ModePattern.
// bars is the pattern length the cursor wraps over; timbre is the voice the
// notes sound with.
func (p *Player) SetPattern(notes []music.Note, bars int, timbre Timbre) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pattern = append([]music.Note(nil), notes...)
	p.patternBars = bars
	p.timbre = timbre
}

// SetProgression installs a snapshot of the chord progression played in
// ModeChords.
func (p *Player) SetProgression(prog music.Progression) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progression = prog.Clone()
}

// Running reports whether playback is active.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StateRunning
}

// CurrentStep reports the scheduling cursor. It runs up to the look-ahead
// window ahead of audible output, which is close enough for UI display.
func (p *Player) CurrentStep() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.step
}

// Start transitions Stopped to Running: it opens the synthesizer (a failure
// leaves the player stopped), resets the cursor to 0, sets the first event
// time a lead-in past the clock, and launches the scheduling loop. Starting
// a running player is a no-op.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateRunning {
		return nil
	}
	if err := p.synth.Open(); err != nil {
		return fmt.Errorf("failed to open synthesizer: %w", err)
	}
	p.state = StateRunning
	p.step = 0
	p.nextEventTime = p.clock.Now() + leadInSeconds
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(p.stop, p.done)
	return nil
}

// Stop transitions Running to Stopped and waits for the scheduling loop to
// exit. Events already handed to the synthesizer are not retracted.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.state != StateRunning {
		p.mu.Unlock()
		return
	}
	p.state = StateStopped
	stop, done := p.stop, p.done
	p.mu.Unlock()

	close(stop)
	<-done
}

// Close stops playback and releases the synthesizer.
func (p *Player) Close() error {
	p.Stop()
	return p.synth.Close()
}

func (p *Player) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(rearmInterval)
	defer ticker.Stop()

	p.pump()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.pump()
		}
	}
}

// pump is one scheduling pass: under the lock it resolves every step whose
// time falls inside the look-ahead window and advances the cursor, then
// emits the collected intents after unlocking. nextEventTime only ever
// accumulates whole steps, so step N always lands at leadIn + N*secondsPerStep
// regardless of when the timer fired.
func (p *Player) pump() {
	now := p.clock.Now()

	p.mu.Lock()
	if p.state != StateRunning {
		p.mu.Unlock()
		return
	}
	secondsPerStep := SecondsPerStep(p.tempo)
	var queue []intent
	for p.nextEventTime < now+scheduleAheadSeconds {
		queue = p.resolveStep(queue, p.step, p.nextEventTime, secondsPerStep)
		p.step = (p.step + 1) % p.totalSteps()
		p.nextEventTime += secondsPerStep
	}
	p.mu.Unlock()

	for _, in := range queue {
		if in.drum {
			p.synth.TriggerDrum(in.key, in.at)
		} else {
			p.synth.TriggerNote(in.pitch, in.at, in.timbre, in.duration)
		}
	}
}

// totalSteps is the active source's loop length. Empty sources fall back to
// one bar so the cursor keeps a sensible period. Callers hold p.mu.
func (p *Player) totalSteps() int {
	switch p.mode {
	case ModePattern:
		if p.patternBars > 0 {
			return p.patternBars * music.StepsPerBar
		}
	case ModeChords:
		if n := len(p.progression); n > 0 {
			return n * music.StepsPerBar
		}
	default:
		if p.grid != nil && p.grid.Bars > 0 {
			return p.grid.Steps()
		}
	}
	return fallbackSteps
}

// resolveStep appends the intents the active source produces for one step.
// Callers hold p.mu.
func (p *Player) resolveStep(queue []intent, step int, at, secondsPerStep float64) []intent {
	switch p.mode {
	case ModeDrums:
		if p.grid == nil {
			return queue
		}
		for _, tr := range music.Kit() {
			if p.grid.Active(tr.Index, step) {
				queue = append(queue, intent{drum: true, key: tr.SynthKey, at: at})
			}
		}
	case ModePattern:
		for _, n := range p.pattern {
			if n.Start == step {
				queue = append(queue, intent{
					pitch:    n.Pitch,
					timbre:   p.timbre,
					at:       at,
					duration: float64(n.Duration) * secondsPerStep,
				})
			}
		}
	case ModeChords:
		if step%music.StepsPerBar != 0 || len(p.progression) == 0 {
			return queue
		}
		chord := p.progression[(step/music.StepsPerBar)%len(p.progression)]
		hold := float64(music.StepsPerBar) * secondsPerStep
		for _, pitch := range chord.Pitches(padOctave) {
			queue = append(queue, intent{pitch: pitch, timbre: TimbrePad, at: at, duration: hold})
		}
	}
	return queue
}

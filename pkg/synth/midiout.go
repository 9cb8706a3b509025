// Package synth provides the synthesizer backends playback emits into: a
// real MIDI output port and a log-only stand-in for headless use.
package synth

import (
	"container/heap"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/guillaumesax/patternlab/pkg/music"
	"github.com/guillaumesax/patternlab/pkg/sequencer"
)

const (
	drumChannel    uint8 = 9
	melodicChannel uint8 = 0

	drumVelocity uint8 = 100

	// drumGateSeconds is the fixed gate for percussion hits; drum voices
	// do not track note length.
	drumGateSeconds = 0.05

	// dispatchInterval is the send-loop cadence. Port latency dwarfs it.
	dispatchInterval = 5 * time.Millisecond
)

func velocityFor(t sequencer.Timbre) uint8 {
	switch t {
	case sequencer.TimbreChord:
		return 90
	default:
		return 100
	}
}

// plannedMsg is a MIDI message waiting for its send time.
type plannedMsg struct {
	at  time.Time
	msg midi.Message
}

type msgHeap []plannedMsg

func (h msgHeap) Len() int           { return len(h) }
func (h msgHeap) Less(i, j int) bool { return h[i].at.Before(h[j].at) }
func (h msgHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *msgHeap) Push(x any)        { *h = append(*h, x.(plannedMsg)) }
func (h *msgHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// MIDIOut renders playback intents on a real MIDI output port. Intents
// arrive timestamped on the shared playback clock up to the look-ahead
// window early; they are held in a min-heap and sent by a dispatch loop
// when due. Construct with NewMIDIOut; Open picks the port.
type MIDIOut struct {
	clock    sequencer.Clock
	portName string
	log      *slog.Logger

	mu    sync.Mutex
	out   drivers.Out
	queue msgHeap
	stop  chan struct{}
	done  chan struct{}
}

// NewMIDIOut returns an unopened backend. clock must be the same Clock the
// player schedules against. portName selects the output by case-insensitive
// substring; empty means the first available port.
func NewMIDIOut(clock sequencer.Clock, portName string, log *slog.Logger) *MIDIOut {
	if clock == nil {
		clock = sequencer.NewSystemClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &MIDIOut{clock: clock, portName: portName, log: log}
}

// Open acquires the output port and starts the dispatch loop. Opening an
// open backend is a no-op.
func (m *MIDIOut) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.out != nil {
		return nil
	}

	outs, err := drivers.Outs()
	if err != nil {
		return fmt.Errorf("failed to list MIDI outputs: %w", err)
	}
	if len(outs) == 0 {
		return errors.New("no MIDI output ports available")
	}

	out := outs[0]
	if m.portName != "" {
		out = nil
		for _, o := range outs {
			if strings.Contains(strings.ToLower(o.String()), strings.ToLower(m.portName)) {
				out = o
				break
			}
		}
		if out == nil {
			return fmt.Errorf("no MIDI output port matching %q", m.portName)
		}
	}

	if err := out.Open(); err != nil {
		return fmt.Errorf("failed to open MIDI output %s: %w", out.String(), err)
	}

	m.out = out
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.dispatch(m.stop, m.done)

	m.log.Info("opened MIDI output", "port", out.String())
	return nil
}

// Close stops the dispatch loop, silences both channels, and releases the
// port. Pending queued messages are discarded.
func (m *MIDIOut) Close() error {
	m.mu.Lock()
	if m.out == nil {
		m.mu.Unlock()
		return nil
	}
	out := m.out
	m.out = nil
	m.queue = nil
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	<-done

	for _, ch := range []uint8{melodicChannel, drumChannel} {
		// CC 123, all notes off
		if err := out.Send(midi.ControlChange(ch, 123, 0).Bytes()); err != nil {
			m.log.Error("failed to silence channel", "channel", ch, "error", err)
		}
	}

	err := out.Close()
	drivers.Close()
	return err
}

// TriggerDrum queues the kit voice for key. Unknown keys are ignored.
func (m *MIDIOut) TriggerDrum(key string, at float64) {
	tr, ok := music.TrackBySynthKey(key)
	if !ok {
		return
	}
	note := uint8(tr.MIDINote)
	m.schedule(at, midi.NoteOn(drumChannel, note, drumVelocity))
	m.schedule(at+drumGateSeconds, midi.NoteOff(drumChannel, note))
}

// TriggerNote queues a melodic note-on and its note-off duration seconds
// later.
func (m *MIDIOut) TriggerNote(pitch int, at float64, timbre sequencer.Timbre, duration float64) {
	key := uint8(music.Clamp(pitch, 0, 127))
	m.schedule(at, midi.NoteOn(melodicChannel, key, velocityFor(timbre)))
	m.schedule(at+duration, midi.NoteOff(melodicChannel, key))
}

// schedule converts a playback-clock timestamp to wall time and queues the
// message. Dropped silently when the backend is closed.
func (m *MIDIOut) schedule(at float64, msg midi.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.out == nil {
		return
	}
	delay := time.Duration((at - m.clock.Now()) * float64(time.Second))
	if delay < 0 {
		delay = 0
	}
	heap.Push(&m.queue, plannedMsg{at: time.Now().Add(delay), msg: msg})
}

func (m *MIDIOut) dispatch(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case t := <-ticker.C:
			m.flushDue(t)
		}
	}
}

// flushDue sends every queued message whose time has arrived.
func (m *MIDIOut) flushDue(t time.Time) {
	m.mu.Lock()
	var due []midi.Message
	for m.queue.Len() > 0 && !t.Before(m.queue[0].at) {
		pm := heap.Pop(&m.queue).(plannedMsg)
		due = append(due, pm.msg)
	}
	out := m.out
	m.mu.Unlock()

	if out == nil {
		return
	}
	for _, msg := range due {
		if err := out.Send(msg.Bytes()); err != nil {
			m.log.Error("failed to send MIDI message", "error", err)
		}
	}
}

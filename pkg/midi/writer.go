// Package midi encodes patternlab data as Standard MIDI Files.
//
// Files are assembled byte by byte: variable-length delta times, channel
// voice events and meta events are written by hand, so the output is stable
// down to the last byte. The fixed resolution is 480 ticks per quarter note,
// which makes one sixteenth-note step 120 ticks.
package midi

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sort"
)

// Fixed timing parameters of every exported file.
const (
	TicksPerQuarter = 480
	TicksPerStep    = TicksPerQuarter / 4
)

// Channel assignments: percussion on the General MIDI drum channel,
// melodic material on channel 0.
const (
	DrumChannel    = 9
	MelodicChannel = 0
)

const (
	drumVelocity = 100
	drumHitTicks = 60
)

// AppendVLQ appends the MIDI variable-length encoding of v to dst:
// big-endian 7-bit groups with the continuation bit set on every byte but
// the last. Zero encodes as a single 0x00.
func AppendVLQ(dst []byte, v uint32) []byte {
	var tmp [5]byte
	i := len(tmp) - 1
	tmp[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		tmp[i] = byte(v&0x7F) | 0x80
	}
	return append(dst, tmp[i:]...)
}

// ErrVLQTooLong reports a variable-length quantity running past the four
// bytes the SMF format allows.
var ErrVLQTooLong = errors.New("midi: variable-length quantity longer than 4 bytes")

// ReadVLQ decodes one variable-length quantity from r.
func ReadVLQ(r io.ByteReader) (uint32, error) {
	var v uint32
	for i := 0; ; i++ {
		if i == 4 {
			return 0, ErrVLQTooLong
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v = v<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return v, nil
		}
	}
}

// event is one encoded message at an absolute tick.
type event struct {
	tick uint32
	data []byte
}

// Track accumulates events at absolute ticks and renders them as an SMF
// track payload. Events pushed at the same tick keep their push order.
type Track struct {
	events []event
}

// NewTrack returns an empty track.
func NewTrack() *Track { return &Track{} }

func (t *Track) add(tick uint32, data ...byte) {
	t.events = append(t.events, event{tick: tick, data: data})
}

// AddNoteOn appends a note-on event.
func (t *Track) AddNoteOn(tick uint32, channel, key, velocity uint8) {
	t.add(tick, 0x90|channel&0x0F, key&0x7F, velocity&0x7F)
}

// AddNoteOff appends a note-off event with release velocity 0.
func (t *Track) AddNoteOff(tick uint32, channel, key uint8) {
	t.add(tick, 0x80|channel&0x0F, key&0x7F, 0x00)
}

// AddNote appends the on/off pair for one note. A zero duration yields an
// on immediately followed by an off at the same tick; players treat that as
// an inaudible note, and it is deliberately not rejected here.
func (t *Track) AddNote(tick, durationTicks uint32, channel, key, velocity uint8) {
	t.AddNoteOn(tick, channel, key, velocity)
	t.AddNoteOff(tick+durationTicks, channel, key)
}

// AddTempo appends a Set Tempo meta event for the given beats per minute.
// Non-positive tempos fall back to 120.
func (t *Track) AddTempo(tick uint32, bpm float64) {
	if bpm <= 0 {
		bpm = 120
	}
	usPerQuarter := uint32(math.Round(60000000 / bpm))
	t.add(tick, 0xFF, 0x51, 0x03,
		byte(usPerQuarter>>16), byte(usPerQuarter>>8), byte(usPerQuarter))
}

// Payload renders the track: events stable-sorted by tick, delta-time
// encoded, closed with the End of Track meta event. The MTrk chunk header
// is not included; see File.
func (t *Track) Payload() []byte {
	evs := make([]event, len(t.events))
	copy(evs, t.events)
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].tick < evs[j].tick })

	var out []byte
	prev := uint32(0)
	for _, ev := range evs {
		out = AppendVLQ(out, ev.tick-prev)
		out = append(out, ev.data...)
		prev = ev.tick
	}
	out = AppendVLQ(out, 0)
	out = append(out, 0xFF, 0x2F, 0x00)
	return out
}

// File wraps finished track payloads in a complete SMF: the MThd header
// (format, track count, division 480) followed by one MTrk chunk per
// payload. Callers pick format 0 with a single combined track, or format 1
// with a tempo/meta track ahead of the data tracks.
func File(format uint16, tracks ...[]byte) []byte {
	out := make([]byte, 0, 64)
	out = append(out, 'M', 'T', 'h', 'd')
	out = binary.BigEndian.AppendUint32(out, 6)
	out = binary.BigEndian.AppendUint16(out, format)
	out = binary.BigEndian.AppendUint16(out, uint16(len(tracks)))
	out = binary.BigEndian.AppendUint16(out, TicksPerQuarter)
	for _, tr := range tracks {
		out = append(out, 'M', 'T', 'r', 'k')
		out = binary.BigEndian.AppendUint32(out, uint32(len(tr)))
		out = append(out, tr...)
	}
	return out
}

// TempoTrack builds a meta-only payload carrying just the tempo, for use as
// the first track of a format 1 file.
func TempoTrack(bpm float64) []byte {
	t := NewTrack()
	t.AddTempo(0, bpm)
	return t.Payload()
}

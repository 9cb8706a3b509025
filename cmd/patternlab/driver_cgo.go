//go:build cgo

package main

// rtmididrv wraps the C rtmidi library, so its driver registration only
// compiles when cgo is enabled; without it drivers.Outs reports no driver
// and newSynth falls back to the note logger.
import _ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

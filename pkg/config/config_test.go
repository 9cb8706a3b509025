package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PATTERNLAB_PORT", "")
	t.Setenv("PATTERNLAB_TEMPO", "")
	t.Setenv("PATTERNLAB_MIDI_PORT", "")
	t.Setenv("PATTERNLAB_PROJECT", "")
	t.Setenv("PATTERNLAB_DEBUG", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 0.0, cfg.Tempo)
	assert.Equal(t, "", cfg.MIDIPort)
	assert.Equal(t, "patternlab.json", cfg.ProjectPath)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PATTERNLAB_PORT", "9000")
	t.Setenv("PATTERNLAB_TEMPO", "96.5")
	t.Setenv("PATTERNLAB_MIDI_PORT", "fluid")
	t.Setenv("PATTERNLAB_PROJECT", "songs/demo.json")
	t.Setenv("PATTERNLAB_DEBUG", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 96.5, cfg.Tempo)
	assert.Equal(t, "fluid", cfg.MIDIPort)
	assert.Equal(t, "songs/demo.json", cfg.ProjectPath)
	assert.True(t, cfg.Debug)
}

func TestLoadBadTempoFallsBack(t *testing.T) {
	t.Setenv("PATTERNLAB_TEMPO", "allegro")

	cfg := Load()

	assert.Equal(t, 0.0, cfg.Tempo)
}

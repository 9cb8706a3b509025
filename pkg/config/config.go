// Package config loads application settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. Command-line flags override
// these values where a command exposes them.
type Config struct {
	// Port the HTTP API listens on.
	Port string
	// Tempo overrides the project tempo in bpm when positive;
	// zero keeps whatever the project file says.
	Tempo float64
	// MIDIPort selects the MIDI output by case-insensitive substring;
	// empty picks the first available port.
	MIDIPort string
	// ProjectPath is the default project file.
	ProjectPath string
	// Debug raises log verbosity.
	Debug bool
}

// Load reads the configuration. A .env file in the working directory is
// applied first when present; missing one is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PATTERNLAB_PORT", "8080"),
		Tempo:       getEnvFloat("PATTERNLAB_TEMPO", 0),
		MIDIPort:    getEnv("PATTERNLAB_MIDI_PORT", ""),
		ProjectPath: getEnv("PATTERNLAB_PROJECT", "patternlab.json"),
		Debug:       getEnv("PATTERNLAB_DEBUG", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

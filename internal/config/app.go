package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultLogFile = "sweeper.log"
	defaultPreset  = "beginner"
)

// LoadDotEnv reads variables from the given .env files (or ./.env) without
// overriding anything already set in the environment.
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		return fmt.Errorf("unable to load .env: %w", err)
	}
	return nil
}

func LogFile() string {
	path, ok := os.LookupEnv("SWEEPER_LOG_FILE")
	if !ok || path == "" {
		return defaultLogFile
	}
	return path
}

func Preset() string {
	preset, ok := os.LookupEnv("SWEEPER_PRESET")
	if !ok || preset == "" {
		return defaultPreset
	}
	return preset
}

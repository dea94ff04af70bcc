package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the environment-driven settings of the harvester.
// CLI flags override individual fields where a command exposes them.
type Config struct {
	DBPath  string
	Port    int
	Timeout time.Duration

	TrendsURL       string
	DistributionURL string
	ScreenplayPath  string
	ConceptsPath    string
	AudioDir        string
	SoundDir        string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBPath:          getenv("HARVESTER_DB_PATH", "./data/harvest.db"),
		TrendsURL:       getenv("TRENDS_API_URL", ""),
		DistributionURL: getenv("DISTRIBUTION_API_URL", ""),
		ScreenplayPath:  getenv("SCREENPLAY_PATH", "./data/screenplay.json"),
		ConceptsPath:    getenv("CONCEPTS_PATH", "./data/song_concepts.json"),
		AudioDir:        getenv("AUDIO_DIR", "./data/audio"),
		SoundDir:        getenv("SOUND_DIR", "./data/sounds"),
	}

	port, err := getenvInt("HARVESTER_PORT", 8090)
	if err != nil {
		return Config{}, err
	}
	cfg.Port = port

	timeout, err := getenvDuration("HARVEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.Timeout = timeout

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

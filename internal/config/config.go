package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the hosted backend used when no override is set.
const DefaultAPIURL = "https://backend-powerfolio-dv2i.onrender.com"

// Config holds everything the client needs to run.
type Config struct {
	// APIURL is the backend origin, without the /api prefix.
	APIURL string
	// DataDir holds the session file and log file, ~/.powerfolio by default.
	DataDir string
}

// Load reads configuration from the environment, after sourcing a .env
// file if one is present in the working directory.
func Load() (Config, error) {
	// A missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := Config{
		APIURL: DefaultAPIURL,
	}
	if v := os.Getenv("POWERFOLIO_API_URL"); v != "" {
		cfg.APIURL = v
	}

	if v := os.Getenv("POWERFOLIO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DataDir = filepath.Join(home, ".powerfolio")
	}
	return cfg, nil
}

// SessionPath is where the saved session lives.
func (c Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}

// LogPath is where the debug log is written. The terminal UI owns
// stdout, so logs never go there.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "powerfolio.log")
}

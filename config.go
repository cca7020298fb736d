package portfolio

import (
	"fmt"
	"os"

	"github.com/MisterReally/portfolios-1/date"
	"github.com/pelletier/go-toml/v2"
)

// Config carries the explicit settings of a portfolio. It replaces implicit
// package-level defaults: the date range used to load instrument series is
// always passed at construction time.
type Config struct {
	// Start and End bound the price series loaded for each instrument.
	// Defaults cover any realistic series ("1900-01-01" to "2100-01-01").
	Start string `toml:"start"`
	End   string `toml:"end"`
	// Currency is the single reporting currency of the portfolio.
	Currency string `toml:"currency"`
	// CacheDir is where price sources may keep local series caches.
	CacheDir string `toml:"cache_dir"`
}

// DefaultConfig returns the documented default settings.
func DefaultConfig() Config {
	return Config{
		Start:    "1900-01-01",
		End:      "2100-01-01",
		Currency: "USD",
		CacheDir: os.TempDir(),
	}
}

// LoadConfig reads a TOML configuration file and overlays it on the
// defaults, so a partial file is valid.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config %q: %w", path, err)
	}
	if _, err := cfg.Range(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Range returns the configured date range for instrument loading.
func (c Config) Range() (date.Range, error) {
	start, err := date.Parse(c.Start)
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := date.Parse(c.End)
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return date.Range{}, fmt.Errorf("config range ends %s before it starts %s", end, start)
	}
	return date.NewRange(start, end), nil
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	envparse "github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Environment variable names for the out-of-band credentials.
const (
	DestinyAPIKeyEnv = "DESTINY_API_KEY"
	OpenAIAPIKeyEnv  = "OPENAI_API_KEY"
)

// Watch contains the screenshot directory settings.
type Watch struct {
	ScreenshotDir string `toml:"screenshot_dir"`
	SettleSeconds int    `toml:"settle_seconds"`
}

// Extraction selects and tunes the identifier extraction strategies.
type Extraction struct {
	Engine      string `toml:"engine"`
	Fallback    bool   `toml:"fallback"`
	JPEGQuality int    `toml:"jpeg_quality"`
	MaxWidth    int    `toml:"max_width"`
}

// Vision contains connection settings for the remote vision model.
type Vision struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Report contains the report-launch settings.
type Report struct {
	Host      string `toml:"host"`
	Sound     bool   `toml:"sound"`
	SoundPath string `toml:"sound_path"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Credentials are supplied out of band via environment variables, never the
// config file.
type Credentials struct {
	DestinyAPIKey string `env:"DESTINY_API_KEY"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
}

// Config encapsulates every knob the watcher and CLI need.
type Config struct {
	Watch      Watch      `toml:"watch"`
	Extraction Extraction `toml:"extraction"`
	Vision     Vision     `toml:"vision"`
	Report     Report     `toml:"report"`
	Logging    Logging    `toml:"logging"`

	Credentials Credentials `toml:"-"`
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/echo/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file, then
// reads the environment credentials. A missing file is fine: defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	if err := envparse.Parse(&cfg.Credentials); err != nil {
		return nil, "", false, fmt.Errorf("parse env: %w", err)
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	if c.Watch.ScreenshotDir != "" {
		expanded, err := expandPath(c.Watch.ScreenshotDir)
		if err != nil {
			return err
		}
		c.Watch.ScreenshotDir = expanded
	}
	if c.Report.SoundPath != "" {
		expanded, err := expandPath(c.Report.SoundPath)
		if err != nil {
			return err
		}
		c.Report.SoundPath = expanded
	}
	c.Extraction.Engine = strings.ToLower(strings.TrimSpace(c.Extraction.Engine))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Report.Host = strings.TrimSpace(c.Report.Host)
	return nil
}

// ExpandPath expands a leading tilde and makes the path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

package config

import (
	"fmt"
	"strings"

	"echo/internal/extraction"
	"echo/internal/logging"
)

// Validate checks every setting that can be checked without touching the
// network or the filesystem. Credential presence is checked separately by
// RequireCredentials, because which credentials are needed depends on the
// command being run.
func (c *Config) Validate() error {
	if _, err := extraction.ParseEngine(c.Extraction.Engine); err != nil {
		return fmt.Errorf("extraction.engine: %w", err)
	}
	if c.Extraction.JPEGQuality < 1 || c.Extraction.JPEGQuality > 100 {
		return fmt.Errorf("extraction.jpeg_quality: must be between 1 and 100, got %d", c.Extraction.JPEGQuality)
	}
	if c.Extraction.MaxWidth < 0 {
		return fmt.Errorf("extraction.max_width: must not be negative, got %d", c.Extraction.MaxWidth)
	}
	if c.Watch.SettleSeconds < 0 {
		return fmt.Errorf("watch.settle_seconds: must not be negative, got %d", c.Watch.SettleSeconds)
	}
	if c.Vision.TimeoutSeconds < 0 {
		return fmt.Errorf("vision.timeout_seconds: must not be negative, got %d", c.Vision.TimeoutSeconds)
	}
	if c.Report.Host == "" {
		return fmt.Errorf("report.host: must not be empty")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// Engine returns the parsed extraction engine. Validate must have accepted
// the config first.
func (c *Config) Engine() extraction.Engine {
	engine, err := extraction.ParseEngine(c.Extraction.Engine)
	if err != nil {
		return extraction.EngineOCR
	}
	return engine
}

// NeedsVisionCredential reports whether the current engine/fallback
// combination will ever call the remote vision model.
func (c *Config) NeedsVisionCredential() bool {
	return c.Engine() == extraction.EngineVision || c.Extraction.Fallback
}

// RequirePlatformCredential fails when the platform API key is absent from
// the environment. Commands that never run extraction only need this much.
func (c *Config) RequirePlatformCredential() error {
	if strings.TrimSpace(c.Credentials.DestinyAPIKey) == "" {
		return fmt.Errorf("%s is required to be set as an environment variable", DestinyAPIKeyEnv)
	}
	return nil
}

// RequireCredentials fails when a credential the current configuration
// depends on is absent from the environment.
func (c *Config) RequireCredentials() error {
	if err := c.RequirePlatformCredential(); err != nil {
		return err
	}
	if c.NeedsVisionCredential() && strings.TrimSpace(c.Credentials.OpenAIAPIKey) == "" {
		return fmt.Errorf("%s is required to be set as an environment variable", OpenAIAPIKeyEnv)
	}
	return nil
}

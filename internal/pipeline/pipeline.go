package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"echo/internal/bungie"
	"echo/internal/extraction"
	"echo/internal/identity"
	"echo/internal/logging"
)

// Resolver resolves a parsed identifier to its canonical account. A nil
// member with a nil error means "no account found".
type Resolver interface {
	ResolveMember(ctx context.Context, id identity.BungieID) (*bungie.Member, error)
}

// Launcher hands a resolved member off to the report page.
type Launcher interface {
	Launch(ctx context.Context, member bungie.Member) error
}

// Normalizer converts a screenshot into the temporary JPEG the strategies
// consume. The controller deletes the produced file on every exit path.
type Normalizer func(path string) (string, error)

// Config holds the controller's per-run policy.
type Config struct {
	Engine   extraction.Engine
	Fallback bool
}

// Controller wires a detected screenshot to extraction, parsing, account
// resolution, and the report launch. Failures terminate processing of the
// one screenshot only; the watch loop keeps running.
type Controller struct {
	cfg        Config
	strategies map[extraction.Engine]extraction.Strategy
	resolver   Resolver
	launcher   Launcher
	normalize  Normalizer
	logger     *slog.Logger
}

// NewController validates collaborators and builds a controller.
func NewController(cfg Config, strategies map[extraction.Engine]extraction.Strategy, resolver Resolver, launcher Launcher, normalize Normalizer, logger *slog.Logger) (*Controller, error) {
	if resolver == nil {
		return nil, errors.New("pipeline requires a resolver")
	}
	if launcher == nil {
		return nil, errors.New("pipeline requires a launcher")
	}
	if _, ok := strategies[cfg.Engine]; !ok {
		return nil, fmt.Errorf("no strategy configured for engine %q", cfg.Engine)
	}
	if cfg.Fallback {
		if _, ok := strategies[cfg.Engine.Other()]; !ok {
			return nil, fmt.Errorf("fallback enabled but no strategy configured for engine %q", cfg.Engine.Other())
		}
	}
	return &Controller{
		cfg:        cfg,
		strategies: strategies,
		resolver:   resolver,
		launcher:   launcher,
		normalize:  normalize,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// HandleScreenshot runs one screenshot through the full pipeline. The
// fallback engine runs whenever the primary attempt produced no account,
// whatever the cause: extraction failure, an unparseable identifier, or an
// account-not-found result. Only one fallback attempt is ever made.
func (c *Controller) HandleScreenshot(ctx context.Context, path string) {
	workPath := path
	if c.normalize != nil {
		converted, err := c.normalize(path)
		if err != nil {
			c.logger.Error("failed to normalize screenshot",
				slog.String("path", path), slog.Any("error", err))
			return
		}
		workPath = converted
		defer func() {
			if err := os.Remove(converted); err != nil && !errors.Is(err, fs.ErrNotExist) {
				c.logger.Warn("failed to delete temporary image",
					slog.String("path", converted), slog.Any("error", err))
			} else {
				c.logger.Debug("temporary image deleted", slog.String("path", converted))
			}
		}()
	}

	member := c.attempt(ctx, workPath, c.cfg.Engine)
	if member == nil && c.cfg.Fallback {
		secondary := c.cfg.Engine.Other()
		c.logger.Info("primary engine produced no account, falling back",
			slog.String("primary", c.cfg.Engine.String()),
			slog.String("fallback", secondary.String()))
		member = c.attempt(ctx, workPath, secondary)
	}
	if member == nil {
		return
	}

	if err := c.launcher.Launch(ctx, *member); err != nil {
		c.logger.Error("failed to open report", slog.Any("error", err))
	}
}

// attempt runs one engine end to end. A nil result means no canonical
// account was produced.
func (c *Controller) attempt(ctx context.Context, imagePath string, engine extraction.Engine) *bungie.Member {
	strategy, ok := c.strategies[engine]
	if !ok {
		c.logger.Error("no strategy configured", slog.String("engine", engine.String()))
		return nil
	}

	result, err := strategy.Extract(ctx, imagePath)
	if err != nil {
		c.logger.Error("error extracting bungie id from screenshot",
			slog.String("engine", strategy.Name()), slog.Any("error", err))
		return nil
	}
	c.logger.Debug("extracted raw id",
		slog.String("engine", strategy.Name()),
		slog.String("raw", result.IDString),
		slog.Float64("confidence", result.Confidence))

	id := identity.Parse(result.IDString)
	if !id.IsValid() {
		c.logger.Warn("could not parse bungie id, ignoring",
			slog.String("raw", result.IDString), slog.String("engine", strategy.Name()))
		return nil
	}

	member, err := c.resolver.ResolveMember(ctx, id)
	if err != nil {
		c.logger.Error("error retrieving member from platform api",
			slog.String("id", id.String()), slog.Any("error", err))
		return nil
	}
	if member == nil {
		c.logger.Warn("no account found; the id was probably read incorrectly from the screenshot",
			slog.String("id", id.String()), slog.String("engine", strategy.Name()))
		return nil
	}
	return member
}

// Package container provides dependency injection for the ledger-audit application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/ledger-audit/internal/config"
	"fjacquet/ledger-audit/internal/engine"
	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/metrics"
	"fjacquet/ledger-audit/internal/report"
	"fjacquet/ledger-audit/internal/rules"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	rules     *rules.Ruleset
	metrics   *metrics.Metrics
	engine    *engine.Engine
	generator *report.Generator
}

// NewContainer creates and wires all application dependencies.
// The logger is built from cfg.Log.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger, used by
// tests and by callers that already own a logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	rs, err := rules.Load(cfg.Sources.Rules, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	// A non-default excerpt length in the application config overrides the rules file.
	if cfg.Audit.ExcerptLength > 0 && cfg.Audit.ExcerptLength != rules.DefaultExcerptLength {
		rs.ExcerptLength = cfg.Audit.ExcerptLength
	}

	m := metrics.New()
	delimiter := cfg.DelimiterRune()

	eng := engine.New(engine.Sources{
		Transactions:   cfg.Sources.Transactions,
		Correspondence: cfg.Sources.Correspondence,
		Policy:         cfg.Sources.Policy,
	}, rs, engine.Options{
		Parallel:  cfg.Audit.Parallel,
		Delimiter: delimiter,
		Logger:    logger,
		Metrics:   m,
	})

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldDelimiter, string(delimiter)),
		logging.F("parallel", cfg.Audit.Parallel),
		logging.F("excerpt_length", rs.ExcerptLength))

	return &Container{
		logger:    logger,
		config:    cfg,
		rules:     rs,
		metrics:   m,
		engine:    eng,
		generator: report.NewGenerator(logger, delimiter),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRules returns the normalized ruleset the engine evaluates.
func (c *Container) GetRules() *rules.Ruleset {
	return c.rules
}

// GetMetrics returns the metrics registry shared by the engine.
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetEngine returns the audit engine.
func (c *Container) GetEngine() *engine.Engine {
	return c.engine
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}

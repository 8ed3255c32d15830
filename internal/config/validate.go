package config

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Validate checks the settings every command depends on, plus the provider
// settings of the selected classifier type.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of debug, release, test (got %q)", c.Server.Mode)
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}

	if err := c.validateLog(); err != nil {
		return err
	}

	if len(c.Classifier.Labels) == 0 {
		return errors.New("classifier.labels must define at least one label")
	}
	if c.Classifier.MaxConcurrency < 0 {
		return errors.New("classifier.max_concurrency must not be negative")
	}
	switch c.Classifier.Type {
	case "linear":
	case "llm":
		if c.Classifier.LLM.APIKey == "" {
			return errors.New("classifier.llm.api_key (or OPENAI_API_KEY) is required when classifier.type is 'llm'")
		}
		if c.Classifier.LLM.Model == "" {
			return errors.New("classifier.llm.model is required when classifier.type is 'llm'")
		}
	case "gemini":
		if c.Classifier.Gemini.APIKey == "" {
			return errors.New("classifier.gemini.api_key (or GEMINI_API_KEY) is required when classifier.type is 'gemini'")
		}
		if c.Classifier.Gemini.Model == "" {
			return errors.New("classifier.gemini.model is required when classifier.type is 'gemini'")
		}
	default:
		return fmt.Errorf("classifier.type must be one of linear, llm, gemini (got %q)", c.Classifier.Type)
	}

	if c.Replay.Rate < 0 {
		return errors.New("replay.rate must not be negative")
	}
	return nil
}

// ValidateReplay checks only what the replay driver reads. Classifier and
// server settings are not used by it.
func (c *Config) ValidateReplay() error {
	if err := c.validateLog(); err != nil {
		return err
	}
	if c.Replay.Rate < 0 {
		return errors.New("replay.rate must not be negative")
	}
	return nil
}

func (c *Config) validateLog() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'text' or 'json' (got %q)", c.Log.Format)
	}
	return nil
}

// ValidateWorker checks the settings only the async worker and enqueuer need.
func (c *Config) ValidateWorker() error {
	if c.Redis.Address == "" {
		return errors.New("redis.address is required")
	}
	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	if len(c.Worker.Queues) == 0 {
		return errors.New("worker.queues must define at least one queue")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
		}
	}
	return nil
}

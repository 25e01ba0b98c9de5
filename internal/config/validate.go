package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRemote() error {
	if c.Remote.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/easel/config.toml"
		}
		return fmt.Errorf("remote.api_key is required. Set EASEL_API_KEY env var or edit %s (create with 'easel config init')", defaultPath)
	}
	if c.Remote.ImageModel == "" {
		return errors.New("remote.image_model must be set")
	}
	if c.Remote.VideoModel == "" {
		return errors.New("remote.video_model must be set")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.RefreshInterval < 0 {
		return errors.New("workflow.refresh_interval must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

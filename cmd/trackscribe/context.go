package main

import (
	"fmt"
	"strings"
	"sync"

	"trackscribe/internal/catalog"
	"trackscribe/internal/config"
)

// commandContext lazily loads configuration for subcommands so that commands
// which do not need it (config init, completion) can run without a config file.
type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var override string
		if c.configFlag != nil {
			override = strings.TrimSpace(*c.configFlag)
		}
		cfg, path, exists, err := config.Load(override)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = fmt.Errorf("prepare directories: %w", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

// configSource reports where the active configuration came from. The boolean
// is false when the path holds only built-in defaults.
func (c *commandContext) configSource() (string, bool) {
	return c.configPath, c.configExists
}

// withStore opens the catalog for the duration of fn and closes it afterwards.
func (c *commandContext) withStore(fn func(cfg *config.Config, store *catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pior/serverquery"
)

// Runtime settings of the shell, after defaults, file and flags are applied.
type config struct {
	Addr           string
	Username       string
	Password       string
	ServerID       int
	Attempts       int
	Delay          time.Duration
	CommandTimeout time.Duration
	Verbose        bool
}

func defaultConfig() config {
	return config{
		Addr:           serverquery.DefaultAddr,
		Username:       serverquery.DefaultUsername,
		ServerID:       1,
		Attempts:       serverquery.DefaultRetryAttempts,
		Delay:          serverquery.DefaultRetryDelay,
		CommandTimeout: serverquery.DefaultCommandTimeout,
	}
}

// config.toml key mapping.
type fileConfig struct {
	Addr           string `toml:"addr"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	ServerID       int    `toml:"server_id"`
	RetryAttempts  int    `toml:"retry_attempts"`
	RetryDelay     string `toml:"retry_delay"`
	CommandTimeout string `toml:"command_timeout"`
	Verbose        bool   `toml:"verbose"`
}

// loadConfig overlays the keys defined in the TOML file at path onto cfg.
func loadConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("username") {
		cfg.Username = strings.TrimSpace(raw.Username)
	}
	if meta.IsDefined("password") {
		cfg.Password = raw.Password
	}
	if meta.IsDefined("server_id") {
		cfg.ServerID = raw.ServerID
	}
	if meta.IsDefined("retry_attempts") {
		cfg.Attempts = raw.RetryAttempts
	}
	if meta.IsDefined("retry_delay") {
		if cfg.Delay, err = time.ParseDuration(raw.RetryDelay); err != nil {
			return config{}, fmt.Errorf("load config: retry_delay: %w", err)
		}
	}
	if meta.IsDefined("command_timeout") {
		if cfg.CommandTimeout, err = time.ParseDuration(raw.CommandTimeout); err != nil {
			return config{}, fmt.Errorf("load config: command_timeout: %w", err)
		}
	}
	if meta.IsDefined("verbose") {
		cfg.Verbose = raw.Verbose
	}

	return cfg, nil
}

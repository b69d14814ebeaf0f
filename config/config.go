package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultDatabaseURL keeps the whole store in process memory.
const DefaultDatabaseURL = "sqlite::memory:"

// Config holds the pipeline configuration
type Config struct {
	DatabaseURL string
	ConfigFile  string
	Producers   int
	Consumers   int
	Seed        int // Random Add commands queued before reading input
	Debug       bool
	Verbose     bool
}

// Default returns a config with a single producer and consumer over the in-memory store
func Default() Config {
	return Config{
		DatabaseURL: DefaultDatabaseURL,
		Producers:   1,
		Consumers:   1,
	}
}

// LoadConfig reads and parses the configuration file.
// Each line has the form "key: value"; keys are database, producers,
// consumers, seed, debug and verbose.
func LoadConfig(cfg *Config, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue // Skip empty lines and comments
		}

		// Split on first colon
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid config line format (expected 'key: value'): %s", line)
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return fmt.Errorf("empty key in config line: %s", line)
		}

		if err := cfg.set(key, value); err != nil {
			return fmt.Errorf("invalid config line %q: %w", line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return cfg.Validate()
}

func (cfg *Config) set(key, value string) error {
	var err error
	switch key {
	case "database":
		cfg.DatabaseURL = value
	case "producers":
		cfg.Producers, err = strconv.Atoi(value)
	case "consumers":
		cfg.Consumers, err = strconv.Atoi(value)
	case "seed":
		cfg.Seed, err = strconv.Atoi(value)
	case "debug":
		cfg.Debug, err = strconv.ParseBool(value)
	case "verbose":
		cfg.Verbose, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("unknown key %s", key)
	}
	return err
}

// Validate checks the worker counts and the database URL
func (cfg *Config) Validate() error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL must not be empty")
	}
	if cfg.Producers < 1 {
		return fmt.Errorf("at least one producer is required, got %d", cfg.Producers)
	}
	if cfg.Consumers < 1 {
		return fmt.Errorf("at least one consumer is required, got %d", cfg.Consumers)
	}
	if cfg.Seed < 0 {
		return fmt.Errorf("seed count must not be negative, got %d", cfg.Seed)
	}
	return nil
}

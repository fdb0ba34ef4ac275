package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	utilsnet "k8s.io/utils/net"

	"github.com/Jedsam/ComputerNetworksProject/internal/core"
)

// Compiled-in addresses. These are not runtime configurable.
const (
	ProxyListenPort = 8888
	OriginHost      = "localhost"
	OriginPort      = 8080
)

// Origin is the only address the proxy ever forwards to.
var Origin = core.Address{Host: OriginHost, Port: OriginPort}

// Config holds the ambient configuration shared by both services.
type Config struct {
	// Core
	Debug bool

	// Server
	// HealthServerPort is empty when the health server is disabled.
	HealthServerPort string

	// Shutdown
	// ShutdownGracePeriod bounds how long in-flight connections are drained
	// after the first SIGINT/SIGTERM. Zero waits for them indefinitely.
	ShutdownGracePeriod time.Duration
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Debug:               getEnvBool("DEBUG", false),
		HealthServerPort:    getEnv("HEALTH_SERVER_PORT", ""),
		ShutdownGracePeriod: 10 * time.Second,
	}

	if v := getEnv("SHUTDOWN_GRACE_PERIOD", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_GRACE_PERIOD: %w", err)
		}
		cfg.ShutdownGracePeriod = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate ensures configuration is coherent
func (c *Config) validate() error {
	if c.HealthServerPort != "" {
		if _, err := ParsePort(c.HealthServerPort); err != nil {
			return fmt.Errorf("invalid HEALTH_SERVER_PORT: %w", err)
		}
	}
	if c.ShutdownGracePeriod < 0 {
		return fmt.Errorf("SHUTDOWN_GRACE_PERIOD must not be negative: %s", c.ShutdownGracePeriod)
	}
	return nil
}

// HealthEnabled reports whether the health server should run.
func (c *Config) HealthEnabled() bool {
	return c.HealthServerPort != ""
}

// ParsePort parses a TCP port in the range 1-65535.
func ParsePort(s string) (int, error) {
	return utilsnet.ParsePort(s, false)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

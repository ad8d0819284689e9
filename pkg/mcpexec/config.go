package mcpexec

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ServerConfig declares how to launch one MCP server over stdio. Values are
// immutable after load.
type ServerConfig struct {
	Command  string            `json:"command"`
	Args     []string          `json:"args,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
}

// Config is the root server configuration, keyed by server name.
type Config struct {
	McpServers map[string]ServerConfig `json:"mcpServers"`
}

// LoadConfig reads and validates a JSON config file. All failures are
// reported as *ConfigurationError.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		var cerr *ConfigurationError
		if errors.As(err, &cerr) {
			cerr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// ParseConfig decodes and validates config JSON.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := cfg.validate(); err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.McpServers) == 0 {
		return errors.New("at least one MCP server must be configured")
	}
	for name, sc := range c.McpServers {
		if strings.TrimSpace(sc.Command) == "" {
			return fmt.Errorf("server %q: command cannot be empty", name)
		}
	}
	return nil
}

// Server returns the configuration for a named server.
func (c *Config) Server(name string) (ServerConfig, bool) {
	sc, ok := c.McpServers[name]
	return sc, ok
}

// ServerNames returns all configured server names, sorted.
func (c *Config) ServerNames() []string {
	names := make([]string, 0, len(c.McpServers))
	for name := range c.McpServers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnabledServerNames returns the names of servers not marked disabled, sorted.
func (c *Config) EnabledServerNames() []string {
	names := make([]string, 0, len(c.McpServers))
	for name, sc := range c.McpServers {
		if !sc.Disabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

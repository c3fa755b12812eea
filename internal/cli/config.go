package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	CookieFile string
	ConfigFile string
	Output     string
	Verbose    bool
}

// fileConfig is the on-disk YAML config
type fileConfig struct {
	Server     string `yaml:"server"`
	CookieFile string `yaml:"cookie_file"`
	Output     string `yaml:"output"`
	Verbose    *bool  `yaml:"verbose"`
}

const (
	envServer     = "CIRCLE_SERVER"
	envCookieFile = "CIRCLE_COOKIE_FILE"
	envConfig     = "CIRCLE_CONFIG"
)

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault(envServer, "http://localhost:8080"),
		CookieFile: getEnvOrDefault(envCookieFile, defaultPath("cookies.json")),
		ConfigFile: getEnvOrDefault(envConfig, defaultPath("config.yaml")),
		Output:     "text",
		Verbose:    false,
	}
}

// ApplyFile fills in values from the config file. A value only applies when
// its flag was not given and its environment variable is unset. A missing
// file is fine.
func (c *Config) ApplyFile(cmd *cobra.Command) error {
	data, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid config file %s: %w", c.ConfigFile, err)
	}

	unset := func(flag, env string) bool {
		if cmd.Flags().Changed(flag) {
			return false
		}
		return env == "" || os.Getenv(env) == ""
	}

	if fc.Server != "" && unset("server", envServer) {
		c.ServerURL = fc.Server
	}
	if fc.CookieFile != "" && unset("cookie-file", envCookieFile) {
		c.CookieFile = fc.CookieFile
	}
	if fc.Output != "" && unset("output", "") {
		c.Output = fc.Output
	}
	if fc.Verbose != nil && unset("verbose", "") {
		c.Verbose = *fc.Verbose
	}
	return nil
}

// Validate checks values that cobra cannot
func (c *Config) Validate() error {
	switch c.Output {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be text or json", c.Output)
	}
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".circle", name)
	}
	return filepath.Join(home, ".circle", name)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

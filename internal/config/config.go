package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/floatkit/internal/errors"
)

const (
	// ConfigFileName is the name of the project file.
	ConfigFileName = "floatkit.yaml"

	// DefaultPort is the default dev server port.
	DefaultPort = 7070

	// DefaultHost is the default dev server host.
	DefaultHost = "localhost"

	// DefaultScenarios is the default scenario directory.
	DefaultScenarios = "scenarios"

	// DefaultMetricsPath is where the dev server exposes metrics.
	DefaultMetricsPath = "/metrics"
)

// Config represents floatkit.yaml.
type Config struct {
	// Name is the project name.
	Name string `yaml:"name,omitempty"`

	// Scenarios is the directory holding scenario files.
	Scenarios string `yaml:"scenarios,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty"`

	// Dev contains dev server configuration.
	Dev DevConfig `yaml:"dev,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains dev server settings.
type DevConfig struct {
	// Host is the host to bind to.
	Host string `yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `yaml:"port,omitempty"`

	// Metrics exposes Prometheus metrics.
	Metrics bool `yaml:"metrics,omitempty"`

	// MetricsPath is the metrics endpoint path.
	MetricsPath string `yaml:"metricsPath,omitempty"`

	// AllowedOrigins restricts live session upgrades. Empty allows same
	// origin only.
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Scenarios: DefaultScenarios,
		LogLevel:  "info",
		Dev: DevConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			Metrics:     true,
			MetricsPath: DefaultMetricsPath,
		},
	}
}

// Load reads floatkit.yaml from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("F101").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without a project file")
		}
		return nil, errors.New("F101").Wrap(err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, yamlError(path, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("F102").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("F101").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Scenarios == "" {
		c.Scenarios = DefaultScenarios
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.MetricsPath == "" {
		c.Dev.MetricsPath = DefaultMetricsPath
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("F105").
			WithDetail("Port must be between 0 and 65535")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New("F105").
			WithDetailf("Unknown log level %q", c.LogLevel).
			WithSuggestion("Use debug, info, warn or error")
	}
	if !strings.HasPrefix(c.Dev.MetricsPath, "/") {
		return errors.New("F105").
			WithDetailf("Metrics path %q must start with /", c.Dev.MetricsPath)
	}
	return nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// DevAddress returns the listen address of the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the base URL of the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// ScenariosPath returns the absolute scenario directory.
func (c *Config) ScenariosPath() string {
	if filepath.IsAbs(c.Scenarios) {
		return c.Scenarios
	}
	return filepath.Join(c.Dir(), c.Scenarios)
}

// Exists checks if a project file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing floatkit.yaml, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("F101").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the project file found from the working directory
// upwards, or returns defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		cfg := New()
		cfg.configPath = filepath.Join(wd, ConfigFileName)
		return cfg, nil
	}
	return Load(root)
}

// yamlError converts a yaml.v3 error into an F102 error, keeping the line
// number when the decoder reported one.
func yamlError(path string, err error) *errors.Error {
	fe := errors.New("F102").Wrap(err)
	msg := err.Error()
	if typeErr, ok := err.(*yaml.TypeError); ok && len(typeErr.Errors) > 0 {
		msg = typeErr.Errors[0]
	}
	if line, ok := lineOf(msg); ok {
		fe.WithLocation(path, line, 0)
	}
	return fe
}

// lineOf extracts N from yaml messages of the form "yaml: line N: ...".
func lineOf(msg string) (int, bool) {
	msg = strings.TrimPrefix(msg, "yaml: ")
	rest, ok := strings.CutPrefix(msg, "line ")
	if !ok {
		return 0, false
	}
	num, _, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	return n, err == nil
}

// ScenarioFiles returns the *.yaml and *.yml files in the scenario
// directory, sorted. A missing directory yields no files.
func (c *Config) ScenarioFiles() ([]string, error) {
	dir := c.ScenariosPath()
	entries, err := os.ReadDir(dir)
	if stderrors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("F101").Wrap(err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ScenarioName is the scenario's file name without its extension.
func ScenarioName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

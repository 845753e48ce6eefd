// Package config provides configuration loading for tradeways. It supports
// loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rhartert/tradeways/condition"
	"github.com/rhartert/tradeways/network"
	"github.com/rhartert/tradeways/sim"
	"gopkg.in/yaml.v3"
)

// Config contains all tradeways settings.
type Config struct {
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
	Network    NetworkConfig    `json:"network" yaml:"network"`
	Routing    RoutingConfig    `json:"routing" yaml:"routing"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Output     OutputConfig     `json:"output" yaml:"output"`
	Server     ServerConfig     `json:"server" yaml:"server"`
}

// LoggingConfig configures the operational logger.
type LoggingConfig struct {
	// Level sets the log verbosity: "error", "warn", "info" (default),
	// "debug" or "trace". "trace" logs every simulation step.
	Level string `json:"level" yaml:"level"`

	// Format is either "text" (default) or "json".
	Format string `json:"format" yaml:"format"`
}

// NetworkConfig tells where the network is loaded from.
type NetworkConfig struct {
	// Source is "text", "json" or "neo4j". If empty, it is guessed from the
	// extension of Path.
	Source string `json:"source" yaml:"source"`

	// Path is the network file for the text and json sources.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Metric is "planar" or "geographic" (lon/lat positions, distances in
	// meters). If empty, GeoJSON networks are geographic and the others
	// planar.
	Metric string `json:"metric,omitempty" yaml:"metric,omitempty"`

	Neo4j Neo4jConfig `json:"neo4j" yaml:"neo4j"`
}

// Neo4jConfig configures the Neo4j network source.
type Neo4jConfig struct {
	URI      string `json:"uri" yaml:"uri"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"-" yaml:"password"` // supports ${VAR}
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
}

// RoutingConfig configures route generation and route choice.
type RoutingConfig struct {
	MaximumRoutes                 int     `json:"maximum_routes" yaml:"maximum_routes"`
	MaximumDifferenceFromShortest float64 `json:"maximum_difference_from_shortest" yaml:"maximum_difference_from_shortest"`

	// PenaltyFactor multiplies the cost of an edge for each accepted route
	// using it. Zero selects a factor based on the cost ratio.
	PenaltyFactor float64 `json:"penalty_factor,omitempty" yaml:"penalty_factor,omitempty"`

	// ChoiceAlpha tunes how strongly cheap routes are preferred when a
	// route is picked at random. Zero picks uniformly.
	ChoiceAlpha float64 `json:"choice_alpha" yaml:"choice_alpha"`

	// Seed of the random route choice.
	Seed int64 `json:"seed" yaml:"seed"`
}

// SimulationConfig configures the traversal simulator.
type SimulationConfig struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`

	// StartDate of the journey, formatted as 2006-01-02.
	StartDate string `json:"start_date" yaml:"start_date"`

	BreakSimulationAfter int     `json:"break_simulation_after" yaml:"break_simulation_after"`
	DayStart             float64 `json:"day_start" yaml:"day_start"`
	DayEnd               float64 `json:"day_end" yaml:"day_end"`

	// Steps are tried in order; the first one whose condition matches the
	// leg is applied.
	Steps       []StepConfig   `json:"steps" yaml:"steps"`
	PrepareDay  []ModuleConfig `json:"prepare_day" yaml:"prepare_day"`
	DefineState []ModuleConfig `json:"define_state" yaml:"define_state"`
}

// StepConfig configures one step policy.
type StepConfig struct {
	// Name identifies the step in logs. Defaults to the policy name.
	Name      string              `json:"name,omitempty" yaml:"name,omitempty"`
	Policy    string              `json:"policy" yaml:"policy"`
	Condition condition.Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
	Args      yaml.Node           `json:"-" yaml:"args,omitempty"`
}

// ModuleConfig configures one hook.
type ModuleConfig struct {
	Name string    `json:"name" yaml:"name"`
	Args yaml.Node `json:"-" yaml:"args,omitempty"`
}

// OutputConfig tells where results are written. Empty paths disable the
// corresponding writer.
type OutputConfig struct {
	JSON   string `json:"json,omitempty" yaml:"json,omitempty"`
	SQLite string `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
}

// Default returns a Config with sensible defaults. Its steps walk on roads
// and sail on rivers and lakes.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Routing: RoutingConfig{
			MaximumRoutes:                 5,
			MaximumDifferenceFromShortest: 1.5,
			ChoiceAlpha:                   1,
			Seed:                          1,
		},
		Simulation: SimulationConfig{
			BreakSimulationAfter: sim.DefaultBreakSimulationAfter,
			DayStart:             sim.DefaultDayStart,
			DayEnd:               sim.DefaultDayEnd,
			Steps: []StepConfig{
				{Name: "roads", Policy: "speed", Condition: condition.Condition{"types": {"road"}}},
				{Name: "rivers", Policy: "river", Condition: condition.Condition{"types": {"river"}}},
				{Name: "water", Policy: "fixed", Condition: condition.Condition{"not_types": {"road"}}},
			},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load returns the configuration of the given file, or the defaults if path
// is empty, with environment variable overrides applied.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = fileConfig
	}
	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Settings
// missing from the file keep their default value.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML document.
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	config.Network.Neo4j.Password = expandEnvVars(config.Network.Neo4j.Password)
	return config, nil
}

// Validate checks that the configuration is valid. Step policies and hooks
// are checked against the given registries.
func (c *Config) Validate(reg *Registries) error {
	validLevels := map[string]bool{"": true, "error": true, "warn": true, "info": true, "debug": true, "trace": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: error, warn, info, debug, trace)", c.Logging.Level)
	}
	if f := c.Logging.Format; f != "" && f != "text" && f != "json" {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", f)
	}

	switch c.Network.Source {
	case "", "text", "json", "neo4j":
	default:
		return fmt.Errorf("invalid network source: %s (valid: text, json, neo4j)", c.Network.Source)
	}
	switch c.Network.Metric {
	case "", "planar", "geographic":
	default:
		return fmt.Errorf("invalid network metric: %s (valid: planar, geographic)", c.Network.Metric)
	}

	r := c.Routing
	if r.MaximumRoutes < 0 {
		return fmt.Errorf("maximum_routes must be non-negative, got %d", r.MaximumRoutes)
	}
	if r.ChoiceAlpha < 0 {
		return fmt.Errorf("choice_alpha must be non-negative, got %f", r.ChoiceAlpha)
	}

	s := c.Simulation
	if s.BreakSimulationAfter < 0 {
		return fmt.Errorf("break_simulation_after must be non-negative, got %d", s.BreakSimulationAfter)
	}
	if s.DayStart < 0 || s.DayEnd > 24 || s.DayEnd <= s.DayStart {
		return fmt.Errorf("invalid day window: day_start %g, day_end %g", s.DayStart, s.DayEnd)
	}
	if _, err := c.StartDate(); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step policy is required")
	}

	if _, err := reg.Dispatcher(s.Steps); err != nil {
		return err
	}
	if _, err := reg.PrepareDayHooks(s.PrepareDay); err != nil {
		return err
	}
	if _, err := reg.DefineStateHooks(s.DefineState); err != nil {
		return err
	}
	return nil
}

// StartDate returns the parsed simulation start date, the zero time if
// none is set.
func (c *Config) StartDate() (time.Time, error) {
	if c.Simulation.StartDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, c.Simulation.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date %q: %w", c.Simulation.StartDate, err)
	}
	return t, nil
}

// NetworkSource returns the network source, guessed from the file
// extension if not set explicitly.
func (c *Config) NetworkSource() string {
	if c.Network.Source != "" {
		return c.Network.Source
	}
	switch {
	case c.Network.Neo4j.URI != "" && c.Network.Path == "":
		return "neo4j"
	case strings.HasSuffix(c.Network.Path, ".json"):
		return "json"
	default:
		return "text"
	}
}

// NetworkMetric returns the metric set in the configuration and false if the
// network source decides.
func (c *Config) NetworkMetric() (network.Metric, bool) {
	switch c.Network.Metric {
	case "planar":
		return network.Planar, true
	case "geographic":
		return network.Geographic, true
	default:
		return network.Planar, false
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TRADEWAYS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("TRADEWAYS_NETWORK"); v != "" {
		config.Network.Path = v
	}
	if v := os.Getenv("TRADEWAYS_NEO4J_URI"); v != "" {
		config.Network.Neo4j.URI = v
	}
	if v := os.Getenv("TRADEWAYS_NEO4J_USER"); v != "" {
		config.Network.Neo4j.User = v
	}
	if v := os.Getenv("TRADEWAYS_NEO4J_PASSWORD"); v != "" {
		config.Network.Neo4j.Password = v
	}
	if v := os.Getenv("TRADEWAYS_MAXIMUM_ROUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Routing.MaximumRoutes = n
		}
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}

// Package config loads and validates the skimmer configuration from YAML.
// Configuration is declarative key/value only; there is no code execution
// involved in loading it.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AwardCodes lists every award the engine knows how to track. Goals and
// targets must come from this set.
var AwardCodes = []string{"C", "T", "S", "WAS", "WAS-C", "WAS-T", "WAS-S", "P", "K3Y", "BRAG"}

// TargetCodes lists the awards that make sense as counterparty targets.
var TargetCodes = []string{"C", "T", "S"}

// Off-frequency and high-WPM policy actions.
const (
	ActionSuppress = "suppress"
	ActionWarn     = "warn"
	ActionDisplay  = "display"
)

// Config is the complete skimmer configuration.
type Config struct {
	Callsign   string   `yaml:"callsign"`
	AdiFile    string   `yaml:"adi_file"`
	RosterFile string   `yaml:"roster_file"`
	Goals      []string `yaml:"goals"`
	Targets    []string `yaml:"targets"`
	Bands      []int    `yaml:"bands"`
	K3YYear    int      `yaml:"k3y_year"`
	Friends    []string `yaml:"friends"`
	Exclusions []string `yaml:"exclusions"`

	Spotters     []SpotterConfig    `yaml:"spotters"`
	Feed         FeedConfig         `yaml:"feed"`
	Notification NotificationConfig `yaml:"notification"`
	OffFrequency OffFrequencyConfig `yaml:"off_frequency"`
	HighWPM      HighWPMConfig      `yaml:"high_wpm"`
	Sked         SkedConfig         `yaml:"sked"`
	Archive      ArchiveConfig      `yaml:"archive"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// SpotterConfig names a reverse-beacon spotter considered "nearby" together
// with its distance from the operator.
type SpotterConfig struct {
	Call  string `yaml:"call"`
	Miles int    `yaml:"miles"`
}

// FeedConfig contains the RBN feed endpoint settings.
type FeedConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// NotificationConfig controls the audible alert and its cooldown.
type NotificationConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Condition    []string `yaml:"condition"` // any of: goals, targets, friends
	DelaySeconds int      `yaml:"renotification_delay_seconds"`
}

// OffFrequencyConfig controls handling of spots away from the calling frequencies.
type OffFrequencyConfig struct {
	Action       string  `yaml:"action"` // suppress, warn or display
	ToleranceKHz float64 `yaml:"tolerance_khz"`
}

// HighWPMConfig controls handling of spots above the speed threshold.
type HighWPMConfig struct {
	Action    string `yaml:"action"` // suppress, warn or display
	Threshold int    `yaml:"threshold"`
}

// SkedConfig controls the sked-page status poller.
type SkedConfig struct {
	Enabled     bool   `yaml:"enabled"`
	URL         string `yaml:"url"`
	PollSeconds int    `yaml:"poll_seconds"`
}

// ArchiveConfig controls the SQLite archive of displayed spots.
type ArchiveConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Path         string `yaml:"path"`
	PerBandLimit int    `yaml:"per_band_limit"`
}

// LoggingConfig contains file-logging settings; console logging is always on.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Dir           string `yaml:"dir"`
	RetentionDays int    `yaml:"retention_days"`
}

// Load loads configuration from a YAML file, applies defaults and validates.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults normalizes callsign lists and fills unset fields. Exported so
// tests can build configs without a file on disk.
func (c *Config) ApplyDefaults() {
	c.Callsign = strings.ToUpper(strings.TrimSpace(c.Callsign))
	for i, f := range c.Friends {
		c.Friends[i] = strings.ToUpper(strings.TrimSpace(f))
	}
	for i, e := range c.Exclusions {
		c.Exclusions[i] = strings.ToUpper(strings.TrimSpace(e))
	}
	for i, s := range c.Spotters {
		c.Spotters[i].Call = strings.ToUpper(strings.TrimSpace(s.Call))
	}
	if len(c.Goals) == 1 && strings.EqualFold(c.Goals[0], "ALL") {
		c.Goals = append([]string(nil), AwardCodes...)
	}
	if len(c.Targets) == 1 && strings.EqualFold(c.Targets[0], "ALL") {
		c.Targets = append([]string(nil), TargetCodes...)
	}
	for i, g := range c.Goals {
		c.Goals[i] = strings.ToUpper(strings.TrimSpace(g))
	}
	for i, t := range c.Targets {
		c.Targets[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	if c.Feed.Host == "" {
		c.Feed.Host = "rbn.telegraphy.de"
	}
	if c.Feed.Port == 0 {
		c.Feed.Port = 7000
	}
	if len(c.Bands) == 0 {
		c.Bands = []int{160, 80, 60, 40, 30, 20, 17, 15, 12, 10, 6}
	}
	if c.Notification.DelaySeconds <= 0 {
		c.Notification.DelaySeconds = 30
	}
	if len(c.Notification.Condition) == 0 {
		c.Notification.Condition = []string{"goals", "targets"}
	}
	if c.OffFrequency.Action == "" {
		c.OffFrequency.Action = ActionWarn
	}
	if c.OffFrequency.ToleranceKHz <= 0 {
		c.OffFrequency.ToleranceKHz = 10
	}
	if c.HighWPM.Action == "" {
		c.HighWPM.Action = ActionDisplay
	}
	if c.HighWPM.Threshold <= 0 {
		c.HighWPM.Threshold = 20
	}
	if c.Sked.URL == "" {
		c.Sked.URL = "https://sked.skccgroup.com/get-status.php"
	}
	if c.Sked.PollSeconds <= 0 {
		c.Sked.PollSeconds = 60
	}
	if c.Archive.PerBandLimit <= 0 {
		c.Archive.PerBandLimit = 1000
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = 7
	}
}

var knownBands = map[int]bool{
	160: true, 80: true, 60: true, 40: true, 30: true,
	20: true, 17: true, 15: true, 12: true, 10: true, 6: true,
}

// Validate reports the first configuration error found. Errors here are fatal
// for the process: a skimmer with an unknown award code or band list cannot
// compute anything meaningful.
func (c *Config) Validate() error {
	if c.Callsign == "" {
		return fmt.Errorf("callsign is required")
	}
	if c.AdiFile == "" {
		return fmt.Errorf("adi_file is required")
	}
	for _, g := range c.Goals {
		if !contains(AwardCodes, g) {
			return fmt.Errorf("unknown goal award code %q", g)
		}
	}
	for _, t := range c.Targets {
		if !contains(TargetCodes, t) {
			return fmt.Errorf("unknown target award code %q", t)
		}
	}
	for _, b := range c.Bands {
		if !knownBands[b] {
			return fmt.Errorf("unknown band %dm", b)
		}
	}
	for _, cond := range c.Notification.Condition {
		switch cond {
		case "goals", "targets", "friends":
		default:
			return fmt.Errorf("unknown notification condition %q", cond)
		}
	}
	if err := validAction("off_frequency", c.OffFrequency.Action); err != nil {
		return err
	}
	if err := validAction("high_wpm", c.HighWPM.Action); err != nil {
		return err
	}
	return nil
}

func validAction(section, action string) error {
	switch action {
	case ActionSuppress, ActionWarn, ActionDisplay:
		return nil
	}
	return fmt.Errorf("%s: unknown action %q", section, action)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// GoalSet returns the configured goals as a set for quick membership tests.
func (c *Config) GoalSet() map[string]bool {
	set := make(map[string]bool, len(c.Goals))
	for _, g := range c.Goals {
		set[g] = true
	}
	return set
}

// TargetSet returns the configured targets as a set.
func (c *Config) TargetSet() map[string]bool {
	set := make(map[string]bool, len(c.Targets))
	for _, t := range c.Targets {
		set[t] = true
	}
	return set
}

// Print displays the effective configuration.
func (c *Config) Print() {
	fmt.Printf("Callsign: %s\n", c.Callsign)
	fmt.Printf("Log: %s\n", c.AdiFile)
	fmt.Printf("Feed: %s:%d\n", c.Feed.Host, c.Feed.Port)
	fmt.Printf("Goals: %s\n", strings.Join(c.Goals, ","))
	fmt.Printf("Targets: %s\n", strings.Join(c.Targets, ","))
	if len(c.Friends) > 0 {
		fmt.Printf("Friends: %s\n", strings.Join(c.Friends, ","))
	}
	if c.Sked.Enabled {
		fmt.Printf("Sked poll: every %ds\n", c.Sked.PollSeconds)
	}
	if c.Archive.Enabled {
		fmt.Printf("Archive: %s (limit %d/band)\n", c.Archive.Path, c.Archive.PerBandLimit)
	}
}

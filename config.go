package srs

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlConfig models a scheduler config file. Step durations use Go duration
// strings ("1m", "10m"); an absent list keeps the defaults, an explicitly
// empty list disables the ladder.
//
//	desired_retention: 0.9
//	maximum_interval: 36500
//	learning_steps: ["1m", "10m"]
//	relearning_steps: ["10m"]
//	disable_fuzzing: false
//	parameters: [0.212, 1.2931, ...]   # optional, exactly 21 values
type yamlConfig struct {
	Parameters       []float64 `yaml:"parameters"`
	DesiredRetention float64   `yaml:"desired_retention"`
	LearningSteps    []string  `yaml:"learning_steps"`
	RelearningSteps  []string  `yaml:"relearning_steps"`
	MaximumInterval  int       `yaml:"maximum_interval"`
	DisableFuzzing   bool      `yaml:"disable_fuzzing"`
}

// ParseConfig decodes a YAML scheduler config. The result still goes through
// NewScheduler, so zero-valued fields pick up the usual defaults there.
func ParseConfig(data []byte) (SchedulerConfig, error) {
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return SchedulerConfig{}, fmt.Errorf("srs: parse config: %w", err)
	}

	var cfg SchedulerConfig
	if yc.Parameters != nil {
		if len(yc.Parameters) != 21 {
			return SchedulerConfig{}, fmt.Errorf("%w: config has %d parameters, want 21",
				ErrInvalidParameters, len(yc.Parameters))
		}
		copy(cfg.Parameters[:], yc.Parameters)
	}
	cfg.DesiredRetention = yc.DesiredRetention
	cfg.MaximumInterval = yc.MaximumInterval
	cfg.DisableFuzzing = yc.DisableFuzzing

	var err error
	if cfg.LearningSteps, err = parseSteps(yc.LearningSteps, "learning_steps"); err != nil {
		return SchedulerConfig{}, err
	}
	if cfg.RelearningSteps, err = parseSteps(yc.RelearningSteps, "relearning_steps"); err != nil {
		return SchedulerConfig{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML scheduler config file.
func LoadConfig(path string) (SchedulerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SchedulerConfig{}, fmt.Errorf("srs: read config: %w", err)
	}
	return ParseConfig(data)
}

func parseSteps(raw []string, field string) ([]time.Duration, error) {
	if raw == nil {
		return nil, nil
	}
	steps := make([]time.Duration, len(raw))
	for i, s := range raw {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("srs: %s[%d]: %w", field, i, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("srs: %s[%d]: negative duration %s", field, i, s)
		}
		steps[i] = d
	}
	return steps, nil
}

// Package config loads the scenario file consumed by the arena command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"
)

// TargetAll selects every cell of the arena in a Scenario.
const TargetAll = "all"

// Config is the top level of the scenario file.
type Config struct {
	// Scenarios are run in order by "arena run".
	Scenarios []Scenario `yaml:"scenarios"`
	Pool      PoolConfig `yaml:"pool"`
}

// PoolConfig configures the parallel map demo.
type PoolConfig struct {
	// Workers bounds concurrent calls. Zero means one per CPU.
	Workers int `yaml:"workers"`
	// Size is the length of the input sequence 0..Size-1.
	Size int `yaml:"size"`
}

// Scenario describes one arena and the workers contending on it.
type Scenario struct {
	Name       string        `yaml:"name"`
	Initial    []float64     `yaml:"initial"`
	Workers    int           `yaml:"workers"`
	Iterations int           `yaml:"iterations"`
	Delay      time.Duration `yaml:"delay"`
	// Target is a cell index or "all".
	Target string  `yaml:"target"`
	Amount float64 `yaml:"amount"`
	// Guard names the lock implementation: mutex, rwmutex, ticket, spin, semaphore, fair or none.
	Guard string `yaml:"guard"`
}

// DefaultConfig reproduces the shared value and shared array demos.
var DefaultConfig = Config{
	Scenarios: []Scenario{
		{
			Name:       "value",
			Initial:    []float64{0},
			Workers:    2,
			Iterations: 100,
			Delay:      10 * time.Millisecond,
			Target:     "0",
			Amount:     1,
			Guard:      "mutex",
		},
		{
			Name:       "array",
			Initial:    []float64{0, 100, 200},
			Workers:    2,
			Iterations: 100,
			Delay:      10 * time.Millisecond,
			Target:     TargetAll,
			Amount:     1,
			Guard:      "mutex",
		},
	},
	Pool: PoolConfig{Size: 10},
}

// Load reads the scenario file at filename. A leading "~" is expanded to the
// home directory. A missing file yields DefaultConfig.
func Load(filename string) (*Config, error) {
	c := DefaultConfig
	c.Scenarios = append([]Scenario(nil), DefaultConfig.Scenarios...)
	path, err := homedir.Expand(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot expand config path: %w", err)
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	seen := make(map[string]bool, len(c.Scenarios))
	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		if err = s.Validate(); err != nil {
			return nil, err
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate scenario %q", s.Name)
		}
		seen[s.Name] = true
	}
	return &c, nil
}

// TargetIndex parses Target. all is true when every cell is selected.
func (s *Scenario) TargetIndex() (index int, all bool, err error) {
	if s.Target == "" || s.Target == TargetAll {
		return 0, true, nil
	}
	index, err = strconv.Atoi(s.Target)
	if err != nil {
		return 0, false, fmt.Errorf("scenario %q: invalid target %q", s.Name, s.Target)
	}
	return index, false, nil
}

// Validate reports the first structural problem of the scenario.
func (s *Scenario) Validate() error {
	if len(s.Initial) == 0 {
		return fmt.Errorf("scenario %q: no initial values", s.Name)
	}
	if s.Workers <= 0 {
		return fmt.Errorf("scenario %q: workers must be positive", s.Name)
	}
	if s.Iterations < 0 {
		return fmt.Errorf("scenario %q: iterations must not be negative", s.Name)
	}
	if s.Delay < 0 {
		return fmt.Errorf("scenario %q: delay must not be negative", s.Name)
	}
	index, all, err := s.TargetIndex()
	if err != nil {
		return err
	}
	if !all && (index < 0 || index >= len(s.Initial)) {
		return fmt.Errorf("scenario %q: target %d out of range [0, %d)", s.Name, index, len(s.Initial))
	}
	return nil
}

// Expected returns the values the arena must hold after every worker of the
// scenario has joined.
func (s *Scenario) Expected() []float64 {
	out := append([]float64(nil), s.Initial...)
	total := float64(s.Workers*s.Iterations) * s.Amount
	index, all, err := s.TargetIndex()
	if err != nil {
		return out
	}
	for i := range out {
		if all || i == index {
			out[i] += total
		}
	}
	return out
}

// Package automation runs scripted batches of grabber scenarios from a
// YAML file and stores each result.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/experiment"
	"github.com/san-kum/gravwell/internal/sim"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Scenario is a named sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset, then parameter overrides.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Input    string             `yaml:"input"`
	Duration float64            `yaml:"duration"`
	Seed     int64              `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// Saver stores a finished run and returns its id.
type Saver interface {
	Save(preset string, cfg *config.Config, result *sim.Result) (string, error)
}

// StepResult pairs a run with the id it was saved under, if any.
type StepResult struct {
	Step   ScenarioStep
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config builds the configuration a step runs with.
func (s ScenarioStep) Config() (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = "default"
	}
	base := config.GetPreset(preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset: %s", preset)
	}
	cfg, err := base.With(s.Params)
	if err != nil {
		return nil, err
	}
	if s.Input != "" {
		cfg.Input.Mode = s.Input
	}
	if s.Duration > 0 {
		cfg.Sim.Duration = s.Duration
	}
	if s.Seed != 0 {
		cfg.Sim.Seed = s.Seed
	}
	return cfg, nil
}

// RunScenario executes the steps in order. Steps with SaveAs set are handed
// to saver, which may be nil when nothing should be kept. Results of the
// steps that finished are returned alongside any error.
func RunScenario(ctx context.Context, scenario *Scenario, saver Saver, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("scenario step", zap.String("scenario", scenario.Name), zap.Int("step", i+1), zap.String("preset", step.Preset))

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, experiment.WithLogger(log))
		if err := exp.Setup(exp.Registry().DefaultMetrics(experiment.SettleDistance)); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.SaveAs != "" && saver != nil {
			if sr.RunID, err = saver.Save(step.SaveAs, cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type rawJob struct {
	Env   map[string]string `yaml:"env"`
	Steps []rawStep         `yaml:"steps"`
}

type rawWorkflow struct {
	Jobs map[string]rawJob `yaml:"jobs"`
}

// ParseWorkflow parses a workflow YAML document into jobs and their
// ordered steps, seeding each job's Env from its job-level `env:` block
// (read before any step iteration), matching the richer reader's job-level
// env support.
func ParseWorkflow(data []byte) (*Workflow, error) {
	var raw rawWorkflow
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("manifest: parse workflow: %w", err)
	}

	wf := &Workflow{Jobs: make(map[string]Job, len(raw.Jobs))}
	for name, rj := range raw.Jobs {
		steps := make([]Step, 0, len(rj.Steps))
		for _, rs := range rj.Steps {
			steps = append(steps, convertStep(rs))
		}
		wf.Jobs[name] = Job{Env: rj.Env, Steps: steps}
	}
	return wf, nil
}

package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brindlewood/actcore/core/schema"
)

type rawSchema struct {
	Type string   `yaml:"type"`
	Enum []string `yaml:"enum"`
}

type rawInput struct {
	Default  string     `yaml:"default"`
	Required bool       `yaml:"required"`
	Schema   *rawSchema `yaml:"schema"`
}

type rawOutput struct {
	Value string `yaml:"value"`
}

type rawStep struct {
	ID               string            `yaml:"id"`
	Name             string            `yaml:"name"`
	Shell            string            `yaml:"shell"`
	Run              string            `yaml:"run"`
	Uses             string            `yaml:"uses"`
	If               string            `yaml:"if"`
	With             map[string]string `yaml:"with"`
	Env              map[string]string `yaml:"env"`
	WorkingDirectory string            `yaml:"working-directory"`
}

type rawRuns struct {
	Using  string    `yaml:"using"`
	Main   string    `yaml:"main"`
	Pre    string    `yaml:"pre"`
	Post   string    `yaml:"post"`
	PreIf  string    `yaml:"pre-if"`
	PostIf string    `yaml:"post-if"`
	Steps  []rawStep `yaml:"steps"`
}

type rawAction struct {
	Inputs  map[string]rawInput  `yaml:"inputs"`
	Outputs map[string]rawOutput `yaml:"outputs"`
	Runs    rawRuns               `yaml:"runs"`
}

// ParseAction parses an action.yml/action.yaml document into an
// ActionDescriptor. Composite steps capture id/uses/with/if in addition to
// run/shell/env/name/working-directory, following the richer of the two
// manifest-reading contracts the original tool carried.
func ParseAction(data []byte) (*ActionDescriptor, error) {
	var raw rawAction
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("manifest: parse action.yml: %w", err)
	}

	desc := &ActionDescriptor{
		Inputs:  make(map[string]InputSpec, len(raw.Inputs)),
		Outputs: make(map[string]string, len(raw.Outputs)),
	}
	for name, in := range raw.Inputs {
		spec := InputSpec{
			Default:  strings.TrimSpace(in.Default),
			Required: in.Required,
		}
		if in.Schema != nil {
			spec.Schema = convertSchema(in.Schema)
		}
		desc.Inputs[name] = spec
	}
	for name, out := range raw.Outputs {
		desc.Outputs[name] = strings.TrimSpace(out.Value)
	}

	using := strings.TrimSpace(raw.Runs.Using)
	switch {
	case strings.HasPrefix(using, "node"):
		version, err := strconv.Atoi(strings.TrimPrefix(using, "node"))
		if err != nil {
			return nil, fmt.Errorf("manifest: unsupported runner %q", using)
		}
		desc.Kind = NodeRunner
		desc.Node = &NodeAction{
			MainPath:    strings.TrimSpace(raw.Runs.Main),
			PrePath:     strings.TrimSpace(raw.Runs.Pre),
			PostPath:    strings.TrimSpace(raw.Runs.Post),
			PreIf:       strings.TrimSpace(raw.Runs.PreIf),
			PostIf:      strings.TrimSpace(raw.Runs.PostIf),
			NodeVersion: version,
		}
	case using == "composite":
		desc.Kind = CompositeRunner
		steps := make([]Step, 0, len(raw.Runs.Steps))
		for _, rs := range raw.Runs.Steps {
			steps = append(steps, convertStep(rs))
		}
		desc.Composite = &CompositeAction{Steps: steps}
	default:
		return nil, fmt.Errorf("manifest: unsupported runner %q", using)
	}

	return desc, nil
}

func convertSchema(rs *rawSchema) *schema.ParamSchema {
	switch strings.TrimSpace(rs.Type) {
	case "number":
		return &schema.ParamSchema{Kind: schema.NumberKind}
	case "boolean":
		return &schema.ParamSchema{Kind: schema.BooleanKind}
	case "enum":
		return &schema.ParamSchema{Kind: schema.EnumKind, Enum: rs.Enum}
	default:
		return &schema.ParamSchema{Kind: schema.StringKind}
	}
}

func convertStep(rs rawStep) Step {
	with := make(map[string]string, len(rs.With))
	for k, v := range rs.With {
		with[k] = strings.TrimSpace(v)
	}
	env := make(map[string]string, len(rs.Env))
	for k, v := range rs.Env {
		env[k] = strings.TrimSpace(v)
	}
	return Step{
		ID:               strings.TrimSpace(rs.ID),
		Name:             strings.TrimSpace(rs.Name),
		Shell:            strings.TrimSpace(rs.Shell),
		Run:              rs.Run,
		Uses:             strings.TrimSpace(rs.Uses),
		If:               strings.TrimSpace(rs.If),
		With:             with,
		Env:              env,
		WorkingDirectory: strings.TrimSpace(rs.WorkingDirectory),
	}
}

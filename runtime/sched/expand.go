package sched

import (
	"fmt"

	"github.com/brindlewood/actcore/core/schema"
	"github.com/brindlewood/actcore/core/value"
	"github.com/brindlewood/actcore/runtime/expr"
	"github.com/brindlewood/actcore/runtime/manifest"
	"github.com/brindlewood/actcore/runtime/registry"
)

// Expand resolves every pending Use instruction in schedule against reg
// (already populated by Prepare), replacing each with its concrete
// expansion: a Push/NodeAction*/Pop triad for a Node action, or a
// recursively built-and-expanded instruction run for a Composite action.
func Expand(schedule *Schedule, reg *registry.Registry, tree *value.Tree, fns expr.Functions) (*Schedule, error) {
	var out []Instruction
	for _, instr := range schedule.Instructions {
		use, ok := instr.(Use)
		if !ok {
			out = append(out, instr)
			continue
		}
		expanded, err := expandUse(use, reg, tree, fns)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return &Schedule{Instructions: out}, nil
}

// inputValidator checks "with:" values against an input's schema hint; its
// compiled-schema cache is shared by every expanded step.
var inputValidator = schema.NewValidator()

func expandUse(use Use, reg *registry.Registry, parentTree *value.Tree, fns expr.Functions) ([]Instruction, error) {
	ownerName, ref, err := parseUses(use.Uses)
	if err != nil {
		return nil, err
	}
	key := registry.Key(ownerName, ref)
	desc, ok := reg.Get(key)
	if !ok {
		return nil, fmt.Errorf("sched: %q was not prepared before expand", key)
	}

	childTree := parentTree.Clone()
	inputs := make(map[string]value.Value, len(desc.Inputs))
	for name, spec := range desc.Inputs {
		inputs[name] = value.NewString(spec.Default)
	}
	for k, v := range use.With {
		if spec, ok := desc.Inputs[k]; ok && spec.Schema != nil {
			if err := inputValidator.ValidateInput(spec.Schema, v); err != nil {
				return nil, fmt.Errorf("sched: %q input %q: %w", use.Uses, k, err)
			}
		}
		inputs[k] = value.NewString(v)
	}
	childTree.InsertPrefix([]string{"inputs"}, inputs)
	// use.Env is raw text possibly containing interpolations; it is
	// resolved by the executor immediately before the run, not here.

	out := []Instruction{Push{Name: use.Name, ID: use.ID}}

	switch desc.Kind {
	case manifest.NodeRunner:
		if desc.Node.PrePath != "" {
			out = append(out, NodeAction{ID: use.ID + "-pre", Name: use.Name, ScriptPath: desc.Node.PrePath, Condition: desc.Node.PreIf, ActionPath: desc.ActionPath, Tree: childTree})
		}
		out = append(out, NodeAction{ID: use.ID, Name: use.Name, ScriptPath: desc.Node.MainPath, Condition: use.Condition, Env: use.Env, ActionPath: desc.ActionPath, Tree: childTree})
		if desc.Node.PostPath != "" {
			out = append(out, NodeAction{ID: use.ID + "-post", Name: use.Name, ScriptPath: desc.Node.PostPath, Condition: desc.Node.PostIf, ActionPath: desc.ActionPath, Tree: childTree})
		}
		if len(desc.Outputs) > 0 {
			out = append(out, Outputs{StepID: use.ID, Outputs: desc.Outputs})
		}

	case manifest.CompositeRunner:
		nested, errs := Build(desc.Composite.Steps, childTree, fns)
		if len(errs) > 0 {
			return nil, errs[0]
		}
		expanded, err := Expand(nested, reg, childTree, fns)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded.Instructions...)
	}

	out = append(out, Pop{})
	return out, nil
}

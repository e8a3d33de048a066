package sched

import (
	"github.com/brindlewood/actcore/core/value"
	"github.com/brindlewood/actcore/runtime/expr"
	"github.com/brindlewood/actcore/runtime/manifest"
)

// Build converts a step list into a flat instruction program. "uses:"
// steps become either an elided no-op (checkout), a StaticSetup pair
// (rust-toolchain), or a pending Use instruction resolved later by
// Prepare/Expand. tree is the scope in force for this step list (the
// caller seeds inputs.*/env.* before calling Build for a nested composite
// action); it is captured on each instruction rather than evaluated here,
// since a step's "if:" and env may reference outputs that earlier steps
// in the same schedule have not produced yet at build time.
func Build(steps []manifest.Step, tree *value.Tree, fns expr.Functions) (*Schedule, []error) {
	var instrs []Instruction
	var errs []error
	scope := tree.Clone()

	for _, step := range steps {
		switch {
		case step.Uses != "" && shouldSkipUse(step.Uses):
			continue
		case step.Uses != "" && isRustToolchain(step.Uses):
			instrs = append(instrs, buildRustToolchainSetup(step.ID, step.Name, step.If, step.With)...)
		case step.Uses != "":
			instrs = append(instrs,
				Push{Name: step.Name, ID: step.ID},
				Use{
					ID:               step.ID,
					Name:             step.Name,
					Uses:             step.Uses,
					With:             step.With,
					Env:              step.Env,
					Condition:        step.If,
					WorkingDirectory: step.WorkingDirectory,
				},
				Pop{},
			)
		default:
			instrs = append(instrs,
				Push{Name: step.Name, ID: step.ID},
				Run{
					ID:               step.ID,
					Name:             step.Name,
					Shell:            step.Shell,
					Script:           step.Run,
					WorkingDirectory: step.WorkingDirectory,
					Env:              step.Env,
					Condition:        step.If,
					Tree:             scope,
				},
				Pop{},
			)
		}
	}

	return &Schedule{Instructions: instrs}, errs
}

// ShouldSkip evaluates condition (a step's raw "if:" text) against tree
// using the skip-when-false convention: an empty condition never skips, a
// truthy result never skips, everything else does.
func ShouldSkip(condition string, tree *value.Tree, fns expr.Functions) (bool, error) {
	if condition == "" {
		return false, nil
	}
	ok, err := expr.Test(condition, tree, fns)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// ResolveEnv evaluates each raw env entry against tree, interpolating any
// "${{ }}" expressions, and returns both the resolved map and a clone of
// tree extended with env.<KEY> for each entry so that a step's own
// condition or script can see its own env.
func ResolveEnv(raw map[string]string, tree *value.Tree, fns expr.Functions) (map[string]string, *value.Tree, error) {
	resolved := make(map[string]string, len(raw))
	out := tree.Clone()
	for k, v := range raw {
		val, err := evalText(v, out, fns)
		if err != nil {
			return nil, nil, err
		}
		resolved[k] = val
		out.Insert([]string{"env", k}, value.NewString(val))
	}
	return resolved, out, nil
}

// Package runexec interprets a flat sched.Schedule: it spawns the child
// process behind each Run/NodeAction/StaticSetup instruction, evaluates
// each step's "if:" against the live, continuously-updated value tree
// immediately before running it, and absorbs the GITHUB_ENV/GITHUB_PATH/
// GITHUB_OUTPUT file contract back into that tree for steps scheduled
// after it.
package runexec

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/brindlewood/actcore/core/redact"
	"github.com/brindlewood/actcore/core/value"
	"github.com/brindlewood/actcore/runtime/expr"
	"github.com/brindlewood/actcore/runtime/sched"
)

// Executor runs one schedule to completion against one FileEnv.
type Executor struct {
	FileEnv  *sched.FileEnv
	BaseEnv  map[string]string
	NodePath string
	Stdout   *redact.Scrubber
	Stderr   *redact.Scrubber
	Logger   *slog.Logger
}

// New builds an Executor. stdout/stderr must already be registered with
// any secrets worth scrubbing; New does not touch their registration.
func New(fileEnv *sched.FileEnv, baseEnv map[string]string, stdout, stderr *redact.Scrubber, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		FileEnv:  fileEnv,
		BaseEnv:  baseEnv,
		NodePath: "node",
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   logger,
	}
}

// Exec runs schedule against tree (the seeded job/workflow context),
// mutating a clone of it in place as steps publish outputs and env/path
// additions, in program order.
func (ex *Executor) Exec(ctx context.Context, schedule *sched.Schedule, tree *value.Tree, fns expr.Functions) error {
	if err := ex.prepareFiles(); err != nil {
		return fmt.Errorf("runexec: preparing file contract: %w", err)
	}
	defer ex.purgeTemp()
	defer ex.Stdout.Flush()
	defer ex.Stderr.Flush()

	live := tree.Clone()
	var pathExtra []string

	for _, instr := range schedule.Instructions {
		// Cancellation is honoured between steps only: a running child
		// process is never killed mid-flight, so this check (not a
		// cancellable exec.CommandContext) is where "should interrupt" is
		// observed.
		if err := ctx.Err(); err != nil {
			return err
		}
		switch v := instr.(type) {
		case sched.Push, sched.Pop:
			// Display grouping only; the executor has no nested scope of
			// its own beyond the Tree each instruction already carries.
		case sched.StaticSetup:
			if err := ex.runStaticSetup(ctx, v, live, fns); err != nil {
				return err
			}
		case sched.Run:
			if err := ex.runRun(ctx, v, live, fns, &pathExtra); err != nil {
				return err
			}
		case sched.NodeAction:
			if err := ex.runNodeAction(ctx, v, live, fns, &pathExtra); err != nil {
				return err
			}
		case sched.Outputs:
			if err := ex.publishOutputs(v, live, fns); err != nil {
				return err
			}
		}
	}
	return nil
}

func scopeFor(live *value.Tree, local *value.Tree) *value.Tree {
	scope := live.Clone()
	if local != nil {
		scope.Extend(local)
	}
	return scope
}

func (ex *Executor) runRun(ctx context.Context, r sched.Run, live *value.Tree, fns expr.Functions, pathExtra *[]string) error {
	base := scopeFor(live, r.Tree)
	resolvedEnv, scope, err := sched.ResolveEnv(r.Env, base, fns)
	if err != nil {
		return fmt.Errorf("runexec: step %q env: %w", r.ID, err)
	}

	skip, err := sched.ShouldSkip(r.Condition, scope, fns)
	if err != nil {
		return fmt.Errorf("runexec: step %q if: %w", r.ID, err)
	}
	if skip {
		ex.Logger.Debug("skip", "step", r.ID, "if", r.Condition)
		return nil
	}

	if err := ex.truncateRunFiles(); err != nil {
		return err
	}

	env := ex.composeEnv(resolvedEnv, *pathExtra)
	if r.ActionPath != "" {
		env["GITHUB_ACTION_PATH"] = r.ActionPath
	}
	cmd, err := ex.buildCommand(r.Shell, r.Script, r.Args, env, r.WorkingDirectory)
	if err != nil {
		return fmt.Errorf("runexec: step %q: %w", r.ID, err)
	}
	if ex.Logger.Enabled(ctx, slog.LevelDebug) {
		ex.Logger.Debug("exec", "step", r.ID, "cmd", debugCommand(r.Shell, r.Script, r.Args))
	}
	if err := ex.spawnAndWait(cmd, r.ID); err != nil {
		return err
	}

	return ex.absorbFileContracts(r.ID, live, pathExtra)
}

func (ex *Executor) runNodeAction(ctx context.Context, n sched.NodeAction, live *value.Tree, fns expr.Functions, pathExtra *[]string) error {
	base := scopeFor(live, n.Tree)
	resolvedEnv, scope, err := sched.ResolveEnv(n.Env, base, fns)
	if err != nil {
		return fmt.Errorf("runexec: node action %q env: %w", n.ID, err)
	}

	skip, err := sched.ShouldSkip(n.Condition, scope, fns)
	if err != nil {
		return fmt.Errorf("runexec: node action %q if: %w", n.ID, err)
	}
	if skip {
		ex.Logger.Debug("skip", "step", n.ID, "if", n.Condition)
		return nil
	}

	if err := ex.truncateRunFiles(); err != nil {
		return err
	}

	env := ex.composeEnv(resolvedEnv, *pathExtra)
	for k, v := range inputsEnv(n.Tree) {
		env[k] = v
	}
	if n.ActionPath != "" {
		env["GITHUB_ACTION_PATH"] = n.ActionPath
	}

	nodePath := ex.NodePath
	if nodePath == "" {
		nodePath = "node"
	}
	cmd, err := ex.buildCommand("", "", []string{nodePath, n.ScriptPath}, env, "")
	if err != nil {
		return fmt.Errorf("runexec: node action %q: %w", n.ID, err)
	}
	if err := ex.spawnAndWait(cmd, n.ID); err != nil {
		return err
	}

	return ex.absorbFileContracts(n.ID, live, pathExtra)
}

func (ex *Executor) runStaticSetup(ctx context.Context, s sched.StaticSetup, live *value.Tree, fns expr.Functions) error {
	skip, err := sched.ShouldSkip(s.Condition, live, fns)
	if err != nil {
		return fmt.Errorf("runexec: setup %q if: %w", s.ID, err)
	}
	if skip {
		ex.Logger.Debug("skip", "step", s.ID, "if", s.Condition)
		return nil
	}

	env := ex.composeEnv(nil, nil)
	cmd, err := ex.buildCommand("", "", append([]string{s.Command}, s.Args...), env, "")
	if err != nil {
		return fmt.Errorf("runexec: setup %q: %w", s.ID, err)
	}
	return ex.spawnAndWait(cmd, s.ID)
}

// absorbFileContracts reads back the env/path/output files a just-finished
// run may have written, merging them into live so later steps observe
// them. The files are left as they are; truncateRunFiles empties them
// before the next run.
func (ex *Executor) absorbFileContracts(stepID string, live *value.Tree, pathExtra *[]string) error {
	outData, err := os.ReadFile(ex.FileEnv.OutputFile)
	if err != nil {
		return err
	}
	outputs, err := parseDotEnvFile(outData)
	if err != nil {
		return fmt.Errorf("runexec: step %q output file: %w", stepID, err)
	}
	for name, val := range outputs {
		live.Insert([]string{"steps", stepID, "outputs", name}, value.NewString(val))
	}

	envData, err := os.ReadFile(ex.FileEnv.EnvFile)
	if err != nil {
		return err
	}
	envAdds, err := parseDotEnvFile(envData)
	if err != nil {
		return fmt.Errorf("runexec: step %q env file: %w", stepID, err)
	}
	for k, v := range envAdds {
		live.Insert([]string{"env", k}, value.NewString(v))
		ex.BaseEnv[k] = v
	}

	pathData, err := os.ReadFile(ex.FileEnv.PathFile)
	if err != nil {
		return err
	}
	if added := parsePathFile(pathData); len(added) > 0 {
		*pathExtra = append(added, *pathExtra...)
	}

	return nil
}

// publishOutputs evaluates a node action's declared output expressions
// (already seeded into live by absorbFileContracts under
// steps.<id>.outputs.* from the raw file capture) and republishes them
// under the same path, so a declared expression like
// "${{ steps.x.outputs.y }}" can rename or transform the raw capture.
func (ex *Executor) publishOutputs(o sched.Outputs, live *value.Tree, fns expr.Functions) error {
	for name, exprText := range o.Outputs {
		v, err := expr.Eval(exprText, live, fns)
		if err != nil {
			return fmt.Errorf("runexec: output %q of step %q: %w", name, o.StepID, err)
		}
		live.Insert([]string{"steps", o.StepID, "outputs", name}, v)
	}
	return nil
}

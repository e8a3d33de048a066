package runexec

import (
	"fmt"
	"os/exec"
	"sort"

	"github.com/brindlewood/actcore/core/value"
	"github.com/brindlewood/actcore/runtime/sched"
	"github.com/brindlewood/actcore/runtime/shellesc"
)

func (ex *Executor) composeEnv(extra map[string]string, pathPrefix []string) map[string]string {
	env := make(map[string]string, len(ex.BaseEnv)+len(extra)+1)
	for k, v := range ex.BaseEnv {
		env[k] = v
	}
	for k, v := range extra {
		env[k] = v
	}
	if len(pathPrefix) > 0 {
		env["PATH"] = joinPath(pathPrefix, env["PATH"])
	}
	return env
}

func joinPath(prefix []string, existing string) string {
	parts := append([]string{}, prefix...)
	if existing != "" {
		parts = append(parts, existing)
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ":"
		}
		out += p
	}
	return out
}

func envSlice(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

// inputsEnv converts a tree's inputs.* mapping to INPUT_<NAME> env
// entries, the contract a node action reads its "with:" values from.
func inputsEnv(tree *value.Tree) map[string]string {
	out := map[string]string{}
	v, ok := tree.Get([]string{"inputs"})
	if !ok {
		return out
	}
	m, ok := v.(*value.Mapping)
	if !ok {
		return out
	}
	for _, k := range m.Keys() {
		val, _ := m.Get(k)
		out[sched.InputEnvKey(k)] = sched.ExposedString(val)
	}
	return out
}

// debugCommand renders a human-readable approximation of the command
// about to run, quoted for its target shell, for debug logging only —
// the actual exec.Cmd is built from an argv, not this string.
func debugCommand(shellName, script string, args []string) string {
	esc := shellesc.ForShell(shellName)
	if shellName != "" || script != "" {
		return esc.Escape(script)
	}
	if len(args) == 0 {
		return ""
	}
	line := args[0]
	for _, a := range args[1:] {
		line += " " + esc.Escape(a)
	}
	return line
}

// buildCommand assembles the child process. It deliberately does not tie
// the command to a cancellable context: cancellation is honoured between
// schedule steps (see Exec's loop), never by killing a running child.
func (ex *Executor) buildCommand(shell, script string, args []string, env map[string]string, workdir string) (*exec.Cmd, error) {
	var cmd *exec.Cmd
	switch {
	case shell != "" || script != "":
		interpreter, shellArgs := shellCommand(shell, script)
		cmd = exec.Command(interpreter, shellArgs...)
	case len(args) > 0:
		cmd = exec.Command(args[0], args[1:]...)
	default:
		return nil, fmt.Errorf("runexec: run has neither a script nor a command")
	}
	cmd.Env = envSlice(env)
	if workdir != "" {
		cmd.Dir = workdir
	}
	cmd.Stdout = ex.Stdout
	cmd.Stderr = ex.Stderr
	return cmd, nil
}

func (ex *Executor) spawnAndWait(cmd *exec.Cmd, id string) error {
	if ex.Logger != nil {
		ex.Logger.Debug("run", "step", id, "command", cmd.Path)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("runexec: step %q: %w", id, err)
	}
	return nil
}

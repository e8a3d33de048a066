// Package session is the top-level orchestrator: it owns the action
// registry, the run executor, the shell selector, and the remediations
// list, and drives the build -> prepare -> expand -> execute pipeline for
// a job's step list.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/brindlewood/actcore/core/redact"
	"github.com/brindlewood/actcore/core/value"
	"github.com/brindlewood/actcore/runtime/expr"
	"github.com/brindlewood/actcore/runtime/loader"
	"github.com/brindlewood/actcore/runtime/manifest"
	"github.com/brindlewood/actcore/runtime/registry"
	"github.com/brindlewood/actcore/runtime/runexec"
	"github.com/brindlewood/actcore/runtime/sched"
)

// Session binds every runtime package together for one invocation: one
// action registry, one run executor, one shell default, one color scheme,
// and a running remediations list steps can append to on failure.
type Session struct {
	Registry   *registry.Registry
	FileEnv    *sched.FileEnv
	Executor   *runexec.Executor
	ActionsDir string
	Shell      string
	Colors     ColorScheme
	Functions  expr.Functions

	mu           sync.Mutex
	remediations []Remediation
}

// New builds a Session. fetcher/reader are the external Git collaborator
// (see loader.ObjectReader's doc comment); baseEnv should already include
// the fixed file-env keys (sched.BaseEnv) before any step runs.
func New(fetcher registry.Fetcher, reader loader.ObjectReader, fileEnv *sched.FileEnv, actionsDir string, baseEnv map[string]string, stdout, stderr *redact.Scrubber, logger *slog.Logger, shell string, colors ColorScheme) *Session {
	return &Session{
		Registry:   registry.New(fetcher, reader),
		FileEnv:    fileEnv,
		Executor:   runexec.New(fileEnv, baseEnv, stdout, stderr, logger),
		ActionsDir: actionsDir,
		Shell:      shell,
		Colors:     colors,
		Functions:  expr.DefaultFunctions(),
	}
}

// RunSteps builds, prepares, expands, and executes steps against tree, in
// that order — the scheduler's complete program is built before any
// instruction runs.
func (s *Session) RunSteps(ctx context.Context, steps []manifest.Step, tree *value.Tree) error {
	schedule, errs := sched.Build(steps, tree, s.Functions)
	if len(errs) > 0 {
		return fmt.Errorf("session: build: %w", errs[0])
	}
	if err := sched.Prepare(ctx, schedule, s.Registry, s.ActionsDir); err != nil {
		return fmt.Errorf("session: prepare: %w", err)
	}
	expanded, err := sched.Expand(schedule, s.Registry, tree, s.Functions)
	if err != nil {
		return fmt.Errorf("session: expand: %w", err)
	}
	if s.Shell != "" {
		for i, instr := range expanded.Instructions {
			if r, ok := instr.(sched.Run); ok && r.Shell == "" && r.Script != "" {
				r.Shell = s.Shell
				expanded.Instructions[i] = r
			}
		}
	}
	return s.Executor.Exec(ctx, expanded, tree, s.Functions)
}

// RunJob seeds tree with the job's own env before running its steps; the
// seeded clone is not observed by sibling jobs.
func (s *Session) RunJob(ctx context.Context, job manifest.Job, tree *value.Tree) error {
	jobTree := tree.Clone()
	for k, v := range job.Env {
		jobTree.Insert([]string{"env", k}, value.NewString(v))
	}
	return s.RunSteps(ctx, job.Steps, jobTree)
}

// RunWorkflow runs the named job out of wf.
func (s *Session) RunWorkflow(ctx context.Context, wf *manifest.Workflow, jobName string, tree *value.Tree) error {
	job, ok := wf.Jobs[jobName]
	if !ok {
		return fmt.Errorf("session: workflow has no job %q", jobName)
	}
	return s.RunJob(ctx, job, tree)
}

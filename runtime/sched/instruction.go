// Package sched implements the stack-based scheduler: it expands steps,
// composite actions, and "uses" references into a flat ordered program of
// concrete runs (main/pre/post), with conditional skipping, output
// capture, and per-run environment preparation.
package sched

import "github.com/brindlewood/actcore/core/value"

// Instruction is the tagged union of schedule program instructions.
type Instruction interface {
	isInstruction()
}

// Push begins a logical display group for a step or expanded action.
type Push struct {
	Name string
	ID   string
}

func (Push) isInstruction() {}

// Pop ends the most recently pushed display group.
type Pop struct{}

func (Pop) isInstruction() {}

// Run is a concrete shell/command invocation built from a workflow or
// composite step.
type Run struct {
	ID               string
	Name             string
	Shell            string // empty with a Script => bash; empty without one => raw command (first field of Args)
	Script           string // shell script body, run through Shell whenever non-empty
	Args             []string
	WorkingDirectory string
	Env              map[string]string // raw (unevaluated) step-level env
	// Condition holds the step's raw "if:" text, or "" when unconditional.
	// It is resolved by the executor immediately before the run, against
	// the live tree, so it can see outputs published by earlier steps.
	Condition  string
	ActionPath string
	// Tree is the scope captured at build/expand time (inputs.*/env.* for
	// an expanded action, or the job tree otherwise). The executor merges
	// this onto its live accumulated tree before resolving Env/Condition.
	Tree *value.Tree
}

func (Run) isInstruction() {}

// NodeAction invokes an external node interpreter on a materialised
// script (an action's main/pre/post).
type NodeAction struct {
	ID         string
	Name       string
	ScriptPath string
	Condition  string
	Env        map[string]string // raw (unevaluated) step-level env
	ActionPath string
	Tree       *value.Tree
}

func (NodeAction) isInstruction() {}

// Use is a pending "uses:" reference resolved into the registry during
// the prepare phase and replaced with its expansion during the expand
// phase.
type Use struct {
	ID               string
	Name             string
	Uses             string // "owner/name@ref"
	With             map[string]string
	Env              map[string]string
	Condition        string
	WorkingDirectory string
}

func (Use) isInstruction() {}

// StaticSetup is a built-in helper command (e.g. the rust-toolchain
// special case) that does not go through the action loader/registry.
type StaticSetup struct {
	ID        string
	Name      string
	Command   string
	Args      []string
	Condition string
}

func (StaticSetup) isInstruction() {}

// Outputs parses a completed node action's output file and publishes its
// declared output expressions into the parent tree.
type Outputs struct {
	StepID  string
	Outputs map[string]string // name -> expression string
}

func (Outputs) isInstruction() {}

// Schedule is the flat linear program interpreted by the run executor.
type Schedule struct {
	Instructions []Instruction
}

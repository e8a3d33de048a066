// Package manifest parses workflow/action YAML manifests into the step
// and action-descriptor model consumed by the loader and scheduler.
package manifest

import "github.com/brindlewood/actcore/core/schema"

// Step is one unit of execution, whether an action-manifest composite step
// or a workflow-job step.
type Step struct {
	ID               string
	Name             string
	Shell            string
	Run              string
	Uses             string
	If               string
	With             map[string]string
	Env              map[string]string
	WorkingDirectory string
}

// RunnerKind distinguishes the two action.yml `runs.using` shapes this
// reader supports.
type RunnerKind int

const (
	NodeRunner RunnerKind = iota
	CompositeRunner
)

// InputSpec is one `inputs.<name>` entry.
type InputSpec struct {
	Default  string
	Required bool
	// Schema is an additive hint (not part of the hosted contract) used
	// to validate non-string "with:" values before scheduling.
	Schema *schema.ParamSchema
}

// NodeAction is a materialised JavaScript action runnable by an external
// node interpreter of the declared major version.
type NodeAction struct {
	MainPath    string
	PrePath     string
	PostPath    string
	PreIf       string
	PostIf      string
	NodeVersion int
}

// CompositeAction is a sequence of inner steps expanded recursively by the
// scheduler.
type CompositeAction struct {
	Steps []Step
}

// ActionDescriptor is the tagged union produced by parsing an action.yml:
// exactly one of Node or Composite is set, matching RunnerKind.
type ActionDescriptor struct {
	Kind       RunnerKind
	Node       *NodeAction
	Composite  *CompositeAction
	Inputs     map[string]InputSpec
	Outputs    map[string]string // name -> expression string
	ActionPath string
	RepoDir    string
}

// Job is one workflow job: its job-level env (seeded before any step runs)
// and its ordered steps.
type Job struct {
	Env   map[string]string
	Steps []Step
}

// Workflow is a parsed workflow manifest.
type Workflow struct {
	Jobs map[string]Job
}

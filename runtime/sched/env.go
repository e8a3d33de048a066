package sched

import (
	"path/filepath"
	"strings"
)

// FileEnv is the set of hosted-runner env-file paths shared by every run
// in a batch, all rooted under a single state directory.
type FileEnv struct {
	StateDir   string
	EnvFile    string // GITHUB_ENV
	PathFile   string // GITHUB_PATH
	OutputFile string // GITHUB_OUTPUT
	ToolsPath  string // RUNNER_TOOL_CACHE
	TempPath   string // RUNNER_TEMP
	ActionPath string // GITHUB_ACTION_PATH; empty when not running inside an action
}

// NewFileEnv lays out the fixed file-valued env keys under stateDir.
// actionPath is the current action's directory, or "" when the run is not
// inside an action.
func NewFileEnv(stateDir, actionPath string) *FileEnv {
	return &FileEnv{
		StateDir:   stateDir,
		EnvFile:    filepath.Join(stateDir, "github_env"),
		PathFile:   filepath.Join(stateDir, "github_path"),
		OutputFile: filepath.Join(stateDir, "github_output"),
		ToolsPath:  filepath.Join(stateDir, "tool_cache"),
		TempPath:   filepath.Join(stateDir, "temp"),
		ActionPath: actionPath,
	}
}

// AsEnvVars returns the fixed file-valued env keys as OS env entries.
// GITHUB_ACTION_PATH is included only when ActionPath is set.
func (f *FileEnv) AsEnvVars() map[string]string {
	out := map[string]string{
		"GITHUB_ENV":        f.EnvFile,
		"GITHUB_PATH":       f.PathFile,
		"GITHUB_OUTPUT":     f.OutputFile,
		"RUNNER_TOOL_CACHE": f.ToolsPath,
		"RUNNER_TEMP":       f.TempPath,
	}
	if f.ActionPath != "" {
		out["GITHUB_ACTION_PATH"] = f.ActionPath
	}
	return out
}

// InputEnvKey converts an action input name to its INPUT_<UPPER> env key,
// matching the hosted contract's hyphen-to-underscore, uppercase rule.
func InputEnvKey(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// BaseEnv builds the env entries every run in a session shares: the
// runner-identity fields seeded once at session start, plus the shared
// file-env keys.
func BaseEnv(fileEnv *FileEnv, runnerOS, githubServer, githubToken string) map[string]string {
	env := fileEnv.AsEnvVars()
	env["RUNNER_OS"] = runnerOS
	env["GITHUB_SERVER_URL"] = githubServer
	if githubToken != "" {
		env["GITHUB_TOKEN"] = githubToken
	}
	return env
}

package runexec_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindlewood/actcore/core/redact"
	"github.com/brindlewood/actcore/core/value"
	"github.com/brindlewood/actcore/runtime/expr"
	"github.com/brindlewood/actcore/runtime/manifest"
	"github.com/brindlewood/actcore/runtime/runexec"
	"github.com/brindlewood/actcore/runtime/sched"
)

func newExecutor(t *testing.T) (*runexec.Executor, string) {
	t.Helper()
	stateDir := t.TempDir()
	fileEnv := sched.NewFileEnv(stateDir, "")
	stdout := redact.NewScrubber(&bytes.Buffer{})
	stderr := redact.NewScrubber(&bytes.Buffer{})
	base := sched.BaseEnv(fileEnv, "Linux", "https://github.example", "")
	base["PATH"] = os.Getenv("PATH")
	return runexec.New(fileEnv, base, stdout, stderr, nil), stateDir
}

func TestSkippedRunDoesNotExecute(t *testing.T) {
	ex, stateDir := newExecutor(t)
	marker := filepath.Join(stateDir, "marker")

	steps := []manifest.Step{
		{ID: "one", Name: "one", If: "matrix.go", Shell: "bash", Run: "touch " + marker},
	}
	tree := value.NewTree()
	tree.Insert(value.ParsePath("matrix.go"), value.Bool(false))

	s, errs := sched.Build(steps, tree, expr.DefaultFunctions())
	require.Empty(t, errs)

	require.NoError(t, ex.Exec(context.Background(), s, tree, expr.DefaultFunctions()))
	_, err := os.Stat(marker)
	require.True(t, os.IsNotExist(err), "a skipped run must not spawn its process")
}

func TestSecondStepConditionSeesFirstStepsOutput(t *testing.T) {
	ex, stateDir := newExecutor(t)
	marker := filepath.Join(stateDir, "marker")

	steps := []manifest.Step{
		{ID: "one", Name: "one", Shell: "bash", Run: "echo v=go >> $GITHUB_OUTPUT"},
		{ID: "two", Name: "two", Shell: "bash", Run: "touch " + marker, If: "steps.one.outputs.v == 'go'"},
	}
	tree := value.NewTree()

	s, errs := sched.Build(steps, tree, expr.DefaultFunctions())
	require.Empty(t, errs)

	require.NoError(t, ex.Exec(context.Background(), s, tree, expr.DefaultFunctions()))
	_, err := os.Stat(marker)
	require.NoError(t, err, "step two's if: should see step one's GITHUB_OUTPUT contribution and run")
}

func TestThirdStepSkippedWhenOutputDoesNotMatch(t *testing.T) {
	ex, stateDir := newExecutor(t)
	marker := filepath.Join(stateDir, "marker")

	steps := []manifest.Step{
		{ID: "one", Name: "one", Shell: "bash", Run: "echo v=rust >> $GITHUB_OUTPUT"},
		{ID: "two", Name: "two", Shell: "bash", Run: "touch " + marker, If: "steps.one.outputs.v == 'go'"},
	}
	tree := value.NewTree()

	s, errs := sched.Build(steps, tree, expr.DefaultFunctions())
	require.Empty(t, errs)

	require.NoError(t, ex.Exec(context.Background(), s, tree, expr.DefaultFunctions()))
	_, err := os.Stat(marker)
	require.True(t, os.IsNotExist(err))
}

func TestEnvFileAdditionPropagatesToLaterStep(t *testing.T) {
	ex, stateDir := newExecutor(t)
	out := filepath.Join(stateDir, "out.txt")

	steps := []manifest.Step{
		{ID: "one", Name: "one", Shell: "bash", Run: "echo GREETING=hello >> $GITHUB_ENV"},
		{ID: "two", Name: "two", Shell: "bash", Run: "echo -n $GREETING > " + out},
	}
	tree := value.NewTree()

	s, errs := sched.Build(steps, tree, expr.DefaultFunctions())
	require.Empty(t, errs)

	require.NoError(t, ex.Exec(context.Background(), s, tree, expr.DefaultFunctions()))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestNonZeroExitIsFatal(t *testing.T) {
	ex, _ := newExecutor(t)
	steps := []manifest.Step{
		{ID: "one", Name: "one", Shell: "bash", Run: "exit 3"},
	}
	tree := value.NewTree()
	s, errs := sched.Build(steps, tree, expr.DefaultFunctions())
	require.Empty(t, errs)

	err := ex.Exec(context.Background(), s, tree, expr.DefaultFunctions())
	require.Error(t, err)
}

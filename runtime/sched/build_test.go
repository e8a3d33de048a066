package sched_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindlewood/actcore/core/value"
	"github.com/brindlewood/actcore/runtime/expr"
	"github.com/brindlewood/actcore/runtime/manifest"
	"github.com/brindlewood/actcore/runtime/sched"
)

func TestBuildCapturesRawConditionForDeferredEvaluation(t *testing.T) {
	steps := []manifest.Step{
		{ID: "one", Name: "one", If: "matrix.go", Run: "echo hi"},
	}
	s, errs := sched.Build(steps, value.NewTree(), expr.DefaultFunctions())
	require.Empty(t, errs)

	var run *sched.Run
	for _, instr := range s.Instructions {
		if r, ok := instr.(sched.Run); ok {
			run = &r
		}
	}
	require.NotNil(t, run)
	require.Equal(t, "matrix.go", run.Condition, "Build must not resolve if: eagerly, since later steps may depend on outputs this step hasn't produced yet")
}

func TestShouldSkipWhenConditionFalse(t *testing.T) {
	tree := value.NewTree()
	tree.Insert(value.ParsePath("matrix.go"), value.Bool(false))
	skip, err := sched.ShouldSkip("matrix.go", tree, expr.DefaultFunctions())
	require.NoError(t, err)
	require.True(t, skip)
}

func TestShouldSkipWhenConditionTrue(t *testing.T) {
	tree := value.NewTree()
	tree.Insert(value.ParsePath("matrix.go"), value.Bool(true))
	skip, err := sched.ShouldSkip("matrix.go", tree, expr.DefaultFunctions())
	require.NoError(t, err)
	require.False(t, skip)
}

func TestShouldSkipEmptyConditionNeverSkips(t *testing.T) {
	skip, err := sched.ShouldSkip("", value.NewTree(), expr.DefaultFunctions())
	require.NoError(t, err)
	require.False(t, skip)
}

func TestResolveEnvInterpolatesAndExtendsTree(t *testing.T) {
	tree := value.NewTree()
	tree.Insert(value.ParsePath("matrix.go"), value.NewString("1.22"))
	resolved, out, err := sched.ResolveEnv(map[string]string{"GOVERSION": "${{ matrix.go }}"}, tree, expr.DefaultFunctions())
	require.NoError(t, err)
	require.Equal(t, "1.22", resolved["GOVERSION"])
	v, ok := out.Get(value.ParsePath("env.GOVERSION"))
	require.True(t, ok)
	require.Equal(t, "1.22", v.(value.String).Redacted.ToExposed())
}

func TestBuildElidesCheckout(t *testing.T) {
	steps := []manifest.Step{{ID: "co", Name: "checkout", Uses: "actions/checkout@v4"}}
	s, errs := sched.Build(steps, value.NewTree(), expr.DefaultFunctions())
	require.Empty(t, errs)
	require.Empty(t, s.Instructions)
}

func TestBuildRustToolchainEmitsStaticSetup(t *testing.T) {
	steps := []manifest.Step{{
		ID: "rt", Name: "toolchain", Uses: "actions-rs/rust-toolchain@v1",
		With: map[string]string{"toolchain": "1.75", "components": "rustfmt"},
	}}
	s, errs := sched.Build(steps, value.NewTree(), expr.DefaultFunctions())
	require.Empty(t, errs)

	var setups []sched.StaticSetup
	for _, instr := range s.Instructions {
		if ss, ok := instr.(sched.StaticSetup); ok {
			setups = append(setups, ss)
		}
	}
	require.Len(t, setups, 2)
	require.Equal(t, []string{"toolchain", "install", "1.75", "-c", "rustfmt", "--profile", "minimal", "--no-self-update"}, setups[0].Args)
	require.Equal(t, []string{"default", "1.75"}, setups[1].Args)
}

func TestBuildBalancesPushPop(t *testing.T) {
	steps := []manifest.Step{
		{ID: "a", Name: "a", Run: "echo a"},
		{ID: "b", Name: "b", Uses: "actions/setup-node@v1"},
	}
	s, errs := sched.Build(steps, value.NewTree(), expr.DefaultFunctions())
	require.Empty(t, errs)

	depth := 0
	for _, instr := range s.Instructions {
		switch instr.(type) {
		case sched.Push:
			depth++
		case sched.Pop:
			depth--
			require.GreaterOrEqual(t, depth, 0)
		}
	}
	require.Equal(t, 0, depth)
}

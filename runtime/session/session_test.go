package session_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindlewood/actcore/core/redact"
	"github.com/brindlewood/actcore/core/value"
	"github.com/brindlewood/actcore/runtime/loader"
	"github.com/brindlewood/actcore/runtime/manifest"
	"github.com/brindlewood/actcore/runtime/sched"
	"github.com/brindlewood/actcore/runtime/session"
)

type fakeFetcher struct{ refs map[string]map[string]string }

func (f *fakeFetcher) Refs(ownerName string) (map[string]string, error) { return f.refs[ownerName], nil }

type fakeReader struct{ blobs map[string][]byte }

func (r *fakeReader) Tree(id string) ([]loader.Entry, error) {
	return []loader.Entry{
		{Name: "action.yml", ID: "blob", Kind: loader.BlobEntry},
		{Name: "index.js", ID: "main", Kind: loader.BlobEntry},
	}, nil
}
func (r *fakeReader) Blob(id string) ([]byte, error) { return r.blobs[id], nil }

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	stateDir := t.TempDir()
	fileEnv := sched.NewFileEnv(stateDir, "")
	baseEnv := sched.BaseEnv(fileEnv, "Linux", "https://github.example", "")
	baseEnv["PATH"] = os.Getenv("PATH")
	stdout := redact.NewScrubber(&bytes.Buffer{})
	stderr := redact.NewScrubber(&bytes.Buffer{})
	fetcher := &fakeFetcher{refs: map[string]map[string]string{
		"actions/setup-go": {"v5": "obj1"},
	}}
	reader := &fakeReader{blobs: map[string][]byte{
		"blob": []byte("runs:\n  using: node20\n  main: index.js\n"),
		"main": []byte("// no-op\n"),
	}}
	return session.New(fetcher, reader, fileEnv, t.TempDir(), baseEnv, stdout, stderr, nil, "bash", session.ColorScheme{})
}

func TestRunWorkflowExecutesNamedJob(t *testing.T) {
	s := newTestSession(t)
	marker := filepath.Join(t.TempDir(), "marker")

	wf := &manifest.Workflow{Jobs: map[string]manifest.Job{
		"build": {
			Env: map[string]string{"GREETING": "hi"},
			Steps: []manifest.Step{
				{ID: "one", Name: "one", Shell: "bash", Run: "touch " + marker},
			},
		},
	}}

	require.NoError(t, s.RunWorkflow(context.Background(), wf, "build", value.NewTree()))
	_, err := os.Stat(marker)
	require.NoError(t, err)
}

func TestRunWorkflowUnknownJobErrors(t *testing.T) {
	s := newTestSession(t)
	wf := &manifest.Workflow{Jobs: map[string]manifest.Job{"build": {}}}
	err := s.RunWorkflow(context.Background(), wf, "missing", value.NewTree())
	require.Error(t, err)
}

func TestRunStepsExpandsUsesThroughRegistry(t *testing.T) {
	s := newTestSession(t)
	steps := []manifest.Step{{ID: "setup", Name: "setup", Uses: "actions/setup-go@v5"}}
	require.NoError(t, s.RunSteps(context.Background(), steps, value.NewTree()))
}

func TestRemediationsPrintAndApply(t *testing.T) {
	s := newTestSession(t)
	marker := filepath.Join(t.TempDir(), "fixed")
	s.AddRemediation(session.Remediation{Message: "stale lockfile", Command: []string{"touch", marker}})

	var buf bytes.Buffer
	require.NoError(t, s.PrintRemediations(&buf))
	require.Contains(t, buf.String(), "stale lockfile")

	require.NoError(t, s.ApplyRemediations(context.Background()))
	_, err := os.Stat(marker)
	require.NoError(t, err)
}

func TestColorSchemeDisabledIsPassthrough(t *testing.T) {
	c := session.ColorScheme{}
	require.Equal(t, "ok", c.Success("ok"))
}

package runexec

import (
	"os"
	"path/filepath"
)

// prepareFiles creates the session's env/output/path files (empty) and its
// tool-cache/temp directories, ahead of the first run.
func (ex *Executor) prepareFiles() error {
	fe := ex.FileEnv
	for _, f := range []string{fe.EnvFile, fe.PathFile, fe.OutputFile} {
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(f, nil, 0o644); err != nil {
			return err
		}
	}
	for _, d := range []string{fe.ToolsPath, fe.TempPath} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// truncateRunFiles empties env/output/path files before a run so its
// contribution can be read back in isolation once it exits.
func (ex *Executor) truncateRunFiles() error {
	fe := ex.FileEnv
	for _, f := range []string{fe.EnvFile, fe.PathFile, fe.OutputFile} {
		if err := os.WriteFile(f, nil, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// purgeTemp removes everything under the temp directory while leaving the
// tool cache intact, mirroring the hosted runner's per-job cleanup.
func (ex *Executor) purgeTemp() error {
	entries, err := os.ReadDir(ex.FileEnv.TempPath)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(ex.FileEnv.TempPath, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

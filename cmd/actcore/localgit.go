package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brindlewood/actcore/runtime/loader"
)

// localObjectReader satisfies loader.ObjectReader over a plain directory
// tree already checked out on disk — object ids are filesystem paths.
// This is the CLI's own choice of "external collaborator" (spec.md §6);
// the core never imports it.
type localObjectReader struct{}

func (localObjectReader) Tree(id string) ([]loader.Entry, error) {
	dirEntries, err := os.ReadDir(id)
	if err != nil {
		return nil, err
	}
	entries := make([]loader.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			return nil, err
		}
		kind := loader.BlobEntry
		switch {
		case de.IsDir():
			kind = loader.TreeEntry
		case info.Mode()&os.ModeSymlink != 0:
			kind = loader.OtherEntry
		}
		entries = append(entries, loader.Entry{
			Name: de.Name(),
			Mode: uint32(info.Mode().Perm()),
			ID:   filepath.Join(id, de.Name()),
			Kind: kind,
		})
	}
	return entries, nil
}

func (localObjectReader) Blob(id string) ([]byte, error) {
	return os.ReadFile(id)
}

// localFetcher resolves owner/name refs against a cache directory laid
// out as <cacheDir>/<owner>/<name>/<ref>, each a checked-out action tree.
type localFetcher struct {
	cacheDir string
}

func (f *localFetcher) Refs(ownerName string) (map[string]string, error) {
	dir := filepath.Join(f.cacheDir, ownerName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("localFetcher: %q has no cached refs: %w", ownerName, err)
	}
	refs := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			refs[e.Name()] = filepath.Join(dir, e.Name())
		}
	}
	return refs, nil
}

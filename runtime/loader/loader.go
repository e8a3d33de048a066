package loader

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/brindlewood/actcore/runtime/manifest"
)

// ErrNoAction is returned by Load when no action.yml/action.yaml was
// encountered while walking the tree.
var ErrNoAction = errors.New("loader: no action manifest found")

type blobRecord struct {
	relPath string
	id      string
	mode    uint32
}

// Load peels rootID (already resolved to a tree object) and walks it
// breadth-first, recognising action.yml/action.yaml at the repository
// root, then materialises the result into workDir. version names the
// node-script output files for cache-busting across action versions.
func Load(reader ObjectReader, rootID string, workDir string, version string) (*manifest.ActionDescriptor, error) {
	var blobs []blobRecord
	var dirs []string
	var manifestData []byte

	type queued struct {
		id   string
		rel  string
	}
	queue := []queued{{id: rootID, rel: ""}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		entries, err := reader.Tree(cur.id)
		if err != nil {
			return nil, fmt.Errorf("loader: read tree %q: %w", cur.id, err)
		}
		for _, e := range entries {
			relPath := e.Name
			if cur.rel != "" {
				relPath = path.Join(cur.rel, e.Name)
			}
			switch e.Kind {
			case BlobEntry:
				blobs = append(blobs, blobRecord{relPath: relPath, id: e.ID, mode: e.Mode})
				if manifest.IsActionManifestPath(relPath) {
					data, err := reader.Blob(e.ID)
					if err != nil {
						return nil, fmt.Errorf("loader: read manifest blob: %w", err)
					}
					manifestData = data
				}
			case TreeEntry:
				dirs = append(dirs, relPath)
				queue = append(queue, queued{id: e.ID, rel: relPath})
			default:
				return nil, fmt.Errorf("loader: unsupported entry kind at %q (symlinks, submodules, and commits are not supported)", relPath)
			}
		}
	}

	if manifestData == nil {
		return nil, ErrNoAction
	}

	desc, err := manifest.ParseAction(manifestData)
	if err != nil {
		return nil, err
	}
	desc.ActionPath = workDir

	blobByPath := make(map[string]blobRecord, len(blobs))
	for _, b := range blobs {
		blobByPath[b.relPath] = b
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("loader: create work dir: %w", err)
	}

	switch desc.Kind {
	case manifest.NodeRunner:
		if err := materialiseNode(reader, desc, blobByPath, workDir, version); err != nil {
			return nil, err
		}
	case manifest.CompositeRunner:
		if err := materialiseComposite(reader, dirs, blobs, workDir); err != nil {
			return nil, err
		}
	}

	return desc, nil
}

func materialiseNode(reader ObjectReader, desc *manifest.ActionDescriptor, blobByPath map[string]blobRecord, workDir, version string) error {
	main := desc.Node.MainPath
	rec, ok := blobByPath[main]
	if !ok {
		return fmt.Errorf("loader: main script %q not found in tree", main)
	}
	data, err := reader.Blob(rec.id)
	if err != nil {
		return fmt.Errorf("loader: read main script: %w", err)
	}
	mainOut := filepath.Join(workDir, fmt.Sprintf("main-%d-%s.js", desc.Node.NodeVersion, version))
	if err := writeFile(mainOut, data, rec.mode); err != nil {
		return err
	}
	desc.Node.MainPath = mainOut

	if desc.Node.PostPath != "" {
		rec, ok := blobByPath[desc.Node.PostPath]
		if !ok {
			return fmt.Errorf("loader: post script %q not found in tree", desc.Node.PostPath)
		}
		data, err := reader.Blob(rec.id)
		if err != nil {
			return fmt.Errorf("loader: read post script: %w", err)
		}
		postOut := filepath.Join(workDir, fmt.Sprintf("post-%d-%s.js", desc.Node.NodeVersion, version))
		if err := writeFile(postOut, data, rec.mode); err != nil {
			return err
		}
		desc.Node.PostPath = postOut
	}
	return nil
}

func materialiseComposite(reader ObjectReader, dirs []string, blobs []blobRecord, workDir string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(workDir, filepath.FromSlash(d)), 0o755); err != nil {
			return fmt.Errorf("loader: create dir %q: %w", d, err)
		}
	}
	for _, b := range blobs {
		data, err := reader.Blob(b.id)
		if err != nil {
			return fmt.Errorf("loader: read blob %q: %w", b.relPath, err)
		}
		out := filepath.Join(workDir, filepath.FromSlash(b.relPath))
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("loader: create parent dir for %q: %w", b.relPath, err)
		}
		if err := writeFile(out, data, b.mode); err != nil {
			return err
		}
	}
	return nil
}

// writeFile writes data to path and preserves mode bits on POSIX systems;
// the mode is ignored on non-POSIX systems (e.g. Windows), where os.Chmod
// only honors the read-only bit.
func writeFile(out string, data []byte, mode uint32) error {
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("loader: write %q: %w", out, err)
	}
	if runtime.GOOS != "windows" && mode != 0 {
		if err := os.Chmod(out, os.FileMode(mode&0o777)); err != nil {
			return fmt.Errorf("loader: chmod %q: %w", out, err)
		}
	}
	return nil
}

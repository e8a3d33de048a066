// Package registry maps owner/name@ref to a prepared action descriptor,
// fetching and loading missing entries during the scheduler's prepare
// phase and serving as a read-only cache thereafter.
package registry

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/brindlewood/actcore/runtime/loader"
	"github.com/brindlewood/actcore/runtime/manifest"
)

// maxConcurrentFetch bounds prepare-phase parallelism; this is I/O
// parallelism during preparation only, never concurrent step execution.
const maxConcurrentFetch = 4

// Fetcher is the external Git collaborator: given an owner/name, it
// yields the (ref -> object id) pairs currently known for that
// repository. The registry never depends on a concrete Git client.
type Fetcher interface {
	Refs(ownerName string) (map[string]string, error)
}

// Request is one owner/name@ref the scheduler needs prepared, along with
// the work directory it should be materialised into.
type Request struct {
	OwnerName string
	Ref       string
	WorkDir   string
}

// Registry is the per-session action cache.
type Registry struct {
	mu      sync.RWMutex
	cache   map[string]*manifest.ActionDescriptor
	fetcher Fetcher
	reader  loader.ObjectReader
}

// New returns an empty registry backed by fetcher (ref resolution) and
// reader (object reading for materialisation).
func New(fetcher Fetcher, reader loader.ObjectReader) *Registry {
	return &Registry{
		cache:   make(map[string]*manifest.ActionDescriptor),
		fetcher: fetcher,
		reader:  reader,
	}
}

// Key formats the registry cache key for an owner/name@ref reference.
func Key(ownerName, ref string) string {
	return ownerName + "@" + ref
}

// Contains reports whether key is already cached.
func (r *Registry) Contains(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cache[key]
	return ok
}

// Get returns the cached descriptor for key, if any.
func (r *Registry) Get(key string) (*manifest.ActionDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.cache[key]
	return d, ok
}

func (r *Registry) insert(key string, desc *manifest.ActionDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = desc
}

// Resolve loads ownerName@ref if not already cached, fetching refs via the
// Fetcher and materialising via the loader into workDir.
func (r *Registry) Resolve(ownerName, ref, workDir string) (*manifest.ActionDescriptor, error) {
	key := Key(ownerName, ref)
	if d, ok := r.Get(key); ok {
		return d, nil
	}

	refs, err := r.fetcher.Refs(ownerName)
	if err != nil {
		return nil, fmt.Errorf("registry: fetch refs for %q: %w", ownerName, err)
	}
	objID, err := pickRef(ref, refs)
	if err != nil {
		return nil, fmt.Errorf("registry: resolve %q: %w", key, err)
	}

	desc, err := loader.Load(r.reader, objID, workDir, ref)
	if err != nil {
		return nil, fmt.Errorf("registry: load %q: %w", key, err)
	}
	desc.RepoDir = workDir
	r.insert(key, desc)
	return desc, nil
}

// PrepareAll resolves every request not already cached, fetching and
// loading distinct actions concurrently (bounded) — I/O parallelism
// during preparation, not concurrent step execution.
func (r *Registry) PrepareAll(ctx context.Context, requests []Request) error {
	seen := make(map[string]bool)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetch)

	for _, req := range requests {
		key := Key(req.OwnerName, req.Ref)
		if seen[key] || r.Contains(key) {
			continue
		}
		seen[key] = true
		req := req
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			_, err := r.Resolve(req.OwnerName, req.Ref, req.WorkDir)
			return err
		})
	}
	return g.Wait()
}

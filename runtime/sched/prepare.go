package sched

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/brindlewood/actcore/runtime/registry"
)

// parseUses splits "owner/name@ref" into its owner/name and ref parts.
func parseUses(uses string) (ownerName, ref string, err error) {
	i := strings.LastIndex(uses, "@")
	if i < 0 {
		return "", "", fmt.Errorf("sched: %q is missing an @ref", uses)
	}
	return uses[:i], uses[i+1:], nil
}

// Prepare walks schedule collecting every pending Use instruction not yet
// cached in the registry, then fetches and loads them, bounded and
// concurrent, before any step executes.
func Prepare(ctx context.Context, schedule *Schedule, reg *registry.Registry, actionsDir string) error {
	var requests []registry.Request
	seen := make(map[string]bool)

	for _, instr := range schedule.Instructions {
		use, ok := instr.(Use)
		if !ok {
			continue
		}
		ownerName, ref, err := parseUses(use.Uses)
		if err != nil {
			return err
		}
		key := registry.Key(ownerName, ref)
		if seen[key] || reg.Contains(key) {
			continue
		}
		seen[key] = true
		requests = append(requests, registry.Request{
			OwnerName: ownerName,
			Ref:       ref,
			WorkDir:   filepath.Join(actionsDir, sanitizeDirName(key)),
		})
	}

	return reg.PrepareAll(ctx, requests)
}

func sanitizeDirName(key string) string {
	r := strings.NewReplacer("/", "-", "@", "-", ":", "-")
	return r.Replace(key)
}

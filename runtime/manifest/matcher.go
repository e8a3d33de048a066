package manifest

import "github.com/bmatcuk/doublestar/v4"

// ActionFilePattern matches action.yml or action.yaml at an action's
// repository root. Shared with the loader so blob recognition during the
// Git-tree walk and manifest recognition here use one matcher.
const ActionFilePattern = "action.{yml,yaml}"

// IsActionManifestPath reports whether relPath is the action manifest at
// the repository root.
func IsActionManifestPath(relPath string) bool {
	ok, _ := doublestar.Match(ActionFilePattern, relPath)
	return ok
}

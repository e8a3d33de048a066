package registry

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// pickRef resolves ref against the candidate (ref -> object id) map. An
// exact match wins outright. Otherwise, if ref looks like a semver
// major/minor prefix (e.g. "v1"), the candidate with the highest matching
// semver tag is selected, so "v1" resolves to the newest "v1.x.y" tag.
func pickRef(ref string, candidates map[string]string) (string, error) {
	if id, ok := candidates[ref]; ok {
		return id, nil
	}

	if !semver.IsValid(canonicalize(ref)) {
		return "", fmt.Errorf("ref %q not found", ref)
	}

	var best string
	var bestID string
	for candidate, id := range candidates {
		cv := canonicalize(candidate)
		if !semver.IsValid(cv) {
			continue
		}
		if !sharesPrefix(ref, cv) {
			continue
		}
		if best == "" || semver.Compare(cv, best) > 0 {
			best = cv
			bestID = id
		}
	}
	if bestID == "" {
		return "", fmt.Errorf("ref %q not found", ref)
	}
	return bestID, nil
}

func canonicalize(ref string) string {
	if len(ref) > 0 && ref[0] != 'v' {
		return "v" + ref
	}
	return ref
}

// sharesPrefix reports whether candidate (a full semver tag) matches the
// major[.minor] prefix requested by ref (e.g. ref "v1" matches "v1.4.2";
// ref "v1.2" matches "v1.2.9" but not "v1.3.0").
func sharesPrefix(ref, candidate string) bool {
	want := canonicalize(ref)
	switch {
	case semver.Major(want) == want:
		return semver.Major(candidate) == want
	case semver.MajorMinor(want) == want:
		return semver.MajorMinor(candidate) == want
	default:
		return candidate == want
	}
}

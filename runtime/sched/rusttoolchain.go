package sched

import "strings"

// shortUsesName returns the final path segment of a "uses:" target,
// stripped of its @ref, e.g. "actions/rust-toolchain@v1" -> "rust-toolchain".
func shortUsesName(uses string) string {
	base := uses
	if i := strings.LastIndex(base, "@"); i >= 0 {
		base = base[:i]
	}
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	return base
}

// shouldSkipUse reports whether uses is elided entirely rather than
// loaded through the registry. "checkout" is a no-op in this local runner:
// the working tree is already checked out.
func shouldSkipUse(uses string) bool {
	return shortUsesName(uses) == "checkout"
}

// isRustToolchain reports whether uses is the special-cased toolchain
// installer, handled via StaticSetup rather than the action loader.
func isRustToolchain(uses string) bool {
	return shortUsesName(uses) == "rust-toolchain"
}

// buildRustToolchainSetup emits the StaticSetup instructions for a
// rust-toolchain use: install the requested toolchain (honouring optional
// components/targets), then set it as the default.
func buildRustToolchainSetup(id, name, condition string, with map[string]string) []Instruction {
	toolchain := with["toolchain"]
	args := []string{"toolchain", "install", toolchain}
	if components := with["components"]; components != "" {
		args = append(args, "-c", components)
	}
	if targets := with["targets"]; targets != "" {
		args = append(args, "-t", targets)
	}
	args = append(args, "--profile", "minimal", "--no-self-update")

	return []Instruction{
		Push{Name: name, ID: id},
		StaticSetup{ID: id, Name: name, Command: "rustup", Args: args, Condition: condition},
		StaticSetup{ID: id, Name: name, Command: "rustup", Args: []string{"default", toolchain}, Condition: condition},
		Pop{},
	}
}

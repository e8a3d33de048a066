package runexec

// shellCommand resolves a declared shell name to its interpreter and
// argv, following each shell's conventional non-interactive invocation.
// An empty name defaults to bash with the customary -e -o pipefail.
func shellCommand(shell, script string) (string, []string) {
	switch shell {
	case "", "bash":
		return "bash", []string{"--noprofile", "--norc", "-e", "-o", "pipefail", "-c", script}
	case "sh":
		return "sh", []string{"-e", "-c", script}
	case "pwsh", "powershell":
		return shell, []string{"-NoLogo", "-NoProfile", "-NonInteractive", "-Command", script}
	case "cmd":
		return "cmd", []string{"/D", "/E:ON", "/V:OFF", "/S", "/C", script}
	default:
		return shell, []string{"-c", script}
	}
}

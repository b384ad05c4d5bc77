package system

import (
	"os"
	"runtime"
)

// NestGuardVar marks a shell spawned by snekctl so nested activation is
// refused instead of stacking PATH entries. Every spawner sets it; `snekctl
// shell` checks it.
const NestGuardVar = "SNEKCTL_SHELL"

// DefaultShell returns the platform-appropriate interactive shell and
// arguments. Used by `snekctl shell`, the dashboard terminal pane, and the
// web terminal so all three agree.
func DefaultShell() (string, []string) {
	if runtime.GOOS == "windows" {
		sh := os.Getenv("COMSPEC")
		if sh == "" {
			sh = "powershell.exe"
		}
		return sh, []string{}
	}
	// Respect $SHELL, default to /bin/bash then /bin/sh
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh, []string{"-l"}
	}
	if _, err := os.Stat("/bin/bash"); err == nil {
		return "/bin/bash", []string{"-l"}
	}
	return "/bin/sh", []string{"-l"}
}

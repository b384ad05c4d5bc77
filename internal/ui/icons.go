package ui

import "os"

// nfEnabled returns true when Nerd Font icons should be rendered.
// Opt-in via environment variable NERDFONT=1 to avoid tofu on systems
// without Nerd Font installed.
// Default to enabled; allow disabling via NERDFONT=0
func nfEnabled() bool {
	return os.Getenv("NERDFONT") != "0"
}

func nf(icon, fallback string) string {
	if nfEnabled() {
		return icon
	}
	return fallback
}

// High-level icons used across the dash
func IconShell() string     { return nf("", "") } // fa-terminal
func IconToolchain() string { return nf("", "") } // fa-wrench
func IconOps() string       { return nf("", "") } // fa-bolt

// Dev shell state icons
func IconLocked() string { return nf("", "ok") }    // fa-lock
func IconStale() string  { return nf("", "stale") } // fa-unlock-alt
func IconCheck() string  { return nf("", "+") }     // fa-check
func IconCross() string  { return nf("", "x") }     // fa-close
func IconSnake() string  { return nf("󰻛", "~") }     // md-snake

// Status bar icons
func IconClock() string   { return nf("", "") }
func IconVersion() string { return nf("", "") }
func IconEval() string    { return nf("", "nix") } // nf-linux-nixos
func IconGit() string     { return nf("", "git") } // nf-dev-git
func IconBranch() string  { return nf("", "br") }  // nf-oct-git_branch
func IconCommit() string  { return nf("", "sha") } // nf-oct-git_commit
func IconDirty() string   { return nf("", "*") }   // fa-exclamation-circle

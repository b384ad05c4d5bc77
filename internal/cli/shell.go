package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"snekctl/internal/system"
)

var shellSync bool

func init() {
	shellCmd.Flags().BoolVar(&shellSync, "sync", false, "resolve and write the lock first when it is missing or stale")
	rootCmd.AddCommand(shellCmd)
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell inside the dev environment",
	Long:  "Spawns $SHELL with the assembled search path and projected variables applied. Exit the shell to leave the environment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv(system.NestGuardVar) != "" {
			return fmt.Errorf("already inside a snekctl shell; exit it first")
		}
		p, err := loadProject()
		if err != nil {
			return err
		}
		l, err := p.lock()
		if err != nil {
			if !shellSync {
				return err
			}
			l, err = resolveAndLock(cmd.Context(), p)
			if err != nil {
				return err
			}
		}
		env, err := p.assemble(l)
		if err != nil {
			return err
		}

		sh, shArgs := system.DefaultShell()
		system.Logger.Info("entering dev shell", "shell", sh, "tools", len(p.Descriptor.Tools))

		c := exec.CommandContext(cmd.Context(), sh, shArgs...)
		c.Env = append(env.Environ(os.Environ()), system.NestGuardVar+"=1")
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			if _, ok := err.(*exec.ExitError); ok {
				// The user's shell exiting non-zero is not our failure.
				return nil
			}
			return err
		}
		system.Logger.Info("left dev shell")
		return nil
	},
}

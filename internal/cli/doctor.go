package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snekctl/internal/doctor"
)

var doctorJSON bool

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output JSON report")
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify the dev shell holds on this machine",
	Long:  "Checks the descriptor, the evaluator, tool resolution, lock stability, projected paths, search path uniqueness, version probes, and the standard-library binding.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := doctor.Run(cmd.Context(), doctor.Options{})
		if err != nil {
			return err
		}

		if doctorJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
		} else {
			for _, r := range rep.Results {
				switch r.Status {
				case doctor.StatusOK:
					fmt.Printf("OK   %-10s %s\n", r.Check, r.Detail)
				case doctor.StatusWarn:
					fmt.Printf("WARN %-10s %s\n", r.Check, r.Detail)
				case doctor.StatusSkip:
					fmt.Printf("SKIP %-10s %s\n", r.Check, r.Detail)
				default:
					fmt.Printf("ERR  %-10s %s\n", r.Check, r.Detail)
				}
			}
			fmt.Printf("\nSummary: %d check(s), %d error(s), %d warning(s)\n", len(rep.Results), rep.Errors, rep.Warnings)
		}

		if rep.Errors > 0 {
			// non-zero when any error
			return fmt.Errorf("doctor failed: %d error(s)", rep.Errors)
		}
		return nil
	},
}

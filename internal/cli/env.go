package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envJSON bool

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolVar(&envJSON, "json", false, "output the environment as JSON")
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the dev shell environment as shell exports",
	Long:  "Renders the assembled environment for `eval \"$(snekctl env)\"` or direnv. The output depends only on the descriptor and the lock.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		l, err := p.lock()
		if err != nil {
			return err
		}
		env, err := p.assemble(l)
		if err != nil {
			return err
		}

		if envJSON {
			out := struct {
				Path []string          `json:"path"`
				Vars map[string]string `json:"vars"`
			}{Path: env.ToolPathList(), Vars: map[string]string{}}
			for _, v := range env.Vars {
				out.Vars[v.Name] = v.Value
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		fmt.Print(env.Script())
		return nil
	},
}

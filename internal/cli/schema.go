package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"snekctl/internal/descriptor"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for devshell.json",
	Long:  "Writes the descriptor schema to stdout for editor validation, e.g. via `\"$schema\"` or a yaml-language-server mapping.",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := descriptor.MarshalSchema(descriptor.Schema())
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

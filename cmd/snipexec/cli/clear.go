package cli

import (
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every scratch artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return a.runner.Clear(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

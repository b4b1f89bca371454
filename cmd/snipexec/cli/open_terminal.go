package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var openTerminalLang string

var openTerminalCmd = &cobra.Command{
	Use:   "open-terminal",
	Short: "Run the current artifact of a language in a new terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if !a.runner.Select(openTerminalLang) {
			return errors.Newf("unknown language: '%s'", openTerminalLang)
		}
		command, err := a.runner.OpenTerminal(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), command)
		return nil
	},
}

func init() {
	openTerminalCmd.Flags().StringVar(&openTerminalLang, "lang", "python", "language tag of the artifact")
	rootCmd.AddCommand(openTerminalCmd)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var buildSelection selectionSource

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run a fenced selection (flag, file, or stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		buildSelection.Stdin = cmd.InOrStdin()
		sel, err := buildSelection.Selection()
		if err != nil {
			return err
		}
		// Files and pipes usually end with a newline after the closing fence.
		sel = strings.TrimRight(sel, "\r\n")

		ctx := cmd.Context()
		res, err := a.runner.Build(ctx, sel)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Command)

		a.finish(ctx)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildSelection.Inline, "selection", "", "selection text")
	buildCmd.Flags().StringVarP(&buildSelection.File, "file", "f", "", "file holding the selection")
	rootCmd.AddCommand(buildCmd)
}

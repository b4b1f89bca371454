package cli

import (
	"github.com/spf13/cobra"

	"github.com/yutopp/snipexec/pkg/decoration"
)

var iterateCmd = &cobra.Command{
	Use:   "iterate",
	Short: "List the runnable code blocks of every document",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return a.binder(decoration.NewWriterSink(cmd.OutOrStdout())).Iterate(cmd.Context())
	},
}

var reiterateCmd = &cobra.Command{
	Use:   "reiterate",
	Short: "Drop all run controls and decorate every document again (same as iterate in a fresh process)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return a.binder(decoration.NewWriterSink(cmd.OutOrStdout())).Reiterate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(iterateCmd)
	rootCmd.AddCommand(reiterateCmd)
}

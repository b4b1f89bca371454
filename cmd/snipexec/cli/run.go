package cli

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/yutopp/snipexec/pkg/decoration"
)

var runCmd = &cobra.Command{
	Use:   "run <document> <index>",
	Short: "Press the run control of a code block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Wrapf(err, "invalid block index: %s", args[1])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		b := a.binder(decoration.NewWriterSink(cmd.ErrOrStderr()))
		if err := b.Click(ctx, args[0], index); err != nil {
			return err
		}

		a.finish(ctx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yutopp/snipexec/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the settings of the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(config.Path(vaultPath))
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "terminal\t%s\n", s.Terminal)
		fmt.Fprintf(w, "timeout\t%s (%s)\n", s.Timeout, s.CleanupDelay())
		fmt.Fprintf(w, "loadTime\t%s (%s)\n", s.LoadTime, s.LoadDelay())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one option (terminal, timeout, loadTime)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path(vaultPath)

		s, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := s.Set(args[0], args[1]); err != nil {
			return err
		}
		return config.Save(path, s)
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

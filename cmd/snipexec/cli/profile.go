package cli

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/yutopp/snipexec/pkg/domain"
	"github.com/yutopp/snipexec/pkg/registry"
)

var profileOutput string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Dump the language profile table",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.LoadRegistry(profilePath)
		if err != nil {
			return err
		}
		profile := &domain.Profile{
			Languages: reg.Profiles(),
		}

		if profileOutput == "" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(profile)
		}

		if _, err := os.Stat(profileOutput); err == nil {
			return errors.Newf("refusing to overwrite %s", profileOutput)
		}
		return registry.NewProfileFromFile(profileOutput).Save(profile)
	},
}

func init() {
	profileCmd.Flags().StringVarP(&profileOutput, "output", "o", "", "write the table to this file (.json, .yaml)")
	rootCmd.AddCommand(profileCmd)
}

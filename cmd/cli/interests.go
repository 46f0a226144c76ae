package main

import (
	"github.com/defeedco/foryou/pkg/syncbridge"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(interestsCmd)
	rootCmd.AddCommand(decayCmd)
}

var interestsCmd = &cobra.Command{
	Use:   "interests",
	Short: "Print the stored interest map and read count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		return writeSnapshot(cmd, a)
	},
}

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Apply one decay step to the stored interests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		a.engine.DecayInterests(cmd.Context())

		return writeSnapshot(cmd, a)
	},
}

func writeSnapshot(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	return writeJSON(cmd.OutOrStdout(), syncbridge.Snapshot{
		Interests: a.engine.Interests(ctx),
		ReadCount: a.engine.ReadCount(ctx),
	})
}

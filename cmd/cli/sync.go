package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var errSyncDisabled = errors.New("sync is disabled, set SYNC_ENABLED=true and SYNC_BASE_URL")

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize interests with the remote persistence service",
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the local interests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if a.bridge == nil {
			return errSyncDisabled
		}

		if err := a.bridge.Push(cmd.Context()); err != nil {
			return err
		}

		a.logger.Info().Msg("Interests pushed")
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download remote interests and merge them, keeping local values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if a.bridge == nil {
			return errSyncDisabled
		}

		added, err := a.bridge.Pull(cmd.Context())
		if err != nil {
			return err
		}

		return writeJSON(cmd.OutOrStdout(), map[string]int{"added": added})
	},
}

package main

import (
	"fmt"

	"github.com/defeedco/foryou/pkg/personalization"
	"github.com/spf13/cobra"
)

var scheduleColdStart bool

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().BoolVar(&scheduleColdStart, "cold-start", true, "Decay once and pull remote interests before scheduling")
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run interest decay on INTERESTS_DECAY_SCHEDULE until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := a.config.InterestsConfig
		scheduler, err := personalization.NewDecayScheduler(a.logger, a.engine, cfg.DecaySchedule, cfg.DecayTimezone)
		if err != nil {
			return fmt.Errorf("create decay scheduler: %w", err)
		}

		if scheduleColdStart {
			a.engine.ColdStart(ctx)
		}

		scheduler.Start()
		<-ctx.Done()

		a.logger.Info().Msg("Shutting down...")
		scheduler.Stop()

		return nil
	},
}

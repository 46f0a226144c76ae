package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/defeedco/foryou/pkg/lib"
	"github.com/spf13/cobra"
)

var (
	sortScoreField string
	sortDateFields []string
	sortCheck      bool
)

func init() {
	rootCmd.AddCommand(sortCmd)
	sortCmd.Flags().StringVar(&sortScoreField, "score-field", "score", "Numeric field to sort by, descending")
	sortCmd.Flags().StringSliceVar(&sortDateFields, "date-field", []string{"publishedAt"}, "Date fields used to break score ties, first present wins")
	sortCmd.Flags().BoolVar(&sortCheck, "check", false, "Only report whether the input needs sorting")
}

var sortCmd = &cobra.Command{
	Use:   "sort [file]",
	Short: "Sort a JSON array of records by score, then recency",
	Long: `Sort arbitrary JSON records by a score field, breaking ties by the most
recent of the given date fields. Numeric dates up to 1e10 are seconds, larger
values milliseconds; strings are parsed as calendar dates.

Examples:
  foryou sort --score-field score --date-field updatedAt,createdAt items.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSort,
}

func runSort(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	var items []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return fmt.Errorf("parse records: %w", err)
	}

	score := lib.FieldScore(sortScoreField)

	if sortCheck {
		return writeJSON(cmd.OutOrStdout(), map[string]bool{
			"needsSorting": lib.NeedsSorting(items, score),
		})
	}

	_, logger, err := loadLogger()
	if err != nil {
		return err
	}

	dates := make([]lib.TimeFunc[map[string]any], 0, len(sortDateFields))
	for _, field := range sortDateFields {
		dates = append(dates, lib.FieldTime(field))
	}

	return writeJSON(cmd.OutOrStdout(), lib.SortByScoreThenRecency(logger, items, score, dates...))
}

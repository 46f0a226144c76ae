package main

import (
	"encoding/json"
	"fmt"

	"github.com/defeedco/foryou/pkg/ranking"
	"github.com/spf13/cobra"
)

var (
	rankWeight    float64
	rankThreshold float64
)

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().Float64Var(&rankWeight, "weight", 0, "Personalization weight in [0, 1] (default from RANKING_PERSONALIZATION_WEIGHT)")
	rankCmd.Flags().Float64Var(&rankThreshold, "threshold", 0, "Must-know threshold (default from RANKING_MUST_KNOW_THRESHOLD)")
}

var rankCmd = &cobra.Command{
	Use:   "rank [file]",
	Short: "Rank a JSON array of articles against the stored interests",
	Long: `Rank a JSON array of articles read from a file or stdin.

Examples:
  # Rank articles from a file
  foryou rank articles.json

  # Rank from stdin with personalization turned down
  cat articles.json | foryou rank --weight 0.3 -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	var articles []ranking.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return fmt.Errorf("parse articles: %w", err)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var opts []ranking.RankOption
	if cmd.Flags().Changed("weight") {
		opts = append(opts, ranking.WithPersonalizationWeight(rankWeight))
	}
	if cmd.Flags().Changed("threshold") {
		opts = append(opts, ranking.WithMustKnowThreshold(rankThreshold))
	}

	return writeJSON(cmd.OutOrStdout(), a.engine.Rank(cmd.Context(), articles, opts...))
}

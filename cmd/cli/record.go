package main

import (
	"github.com/defeedco/foryou/pkg/engagement"
	"github.com/spf13/cobra"
)

var (
	recordKind   string
	recordTags   []string
	recordActive float64
	recordScroll float64
)

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVar(&recordKind, "kind", "", "Engagement kind: view, engaged, exit, source_click, share, interaction (required)")
	recordCmd.Flags().StringSliceVar(&recordTags, "tags", nil, "Article tags, comma separated")
	recordCmd.Flags().Float64Var(&recordActive, "active", 0, "Active reading seconds (exit events)")
	recordCmd.Flags().Float64Var(&recordScroll, "scroll", 0, "Maximum scroll depth percent (exit events)")
	_ = recordCmd.MarkFlagRequired("kind")
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record an engagement event for an article",
	Long: `Classify an engagement event and apply it to the article's tags.

Examples:
  # A share
  foryou record --kind share --tags ai,space

  # A reader leaving after 45 seconds at 80% scroll depth
  foryou record --kind exit --tags ai --active 45 --scroll 80`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

type recordResult struct {
	Kind      engagement.Kind `json:"kind"`
	Weight    float64         `json:"weight"`
	ReadCount int64           `json:"readCount"`
}

func runRecord(cmd *cobra.Command, _ []string) error {
	kind, err := engagement.ParseKind(recordKind)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	weight := a.engine.RecordEngagement(ctx, recordTags, engagement.Event{
		Kind:          kind,
		ActiveSeconds: recordActive,
		ScrollPercent: recordScroll,
	})

	return writeJSON(cmd.OutOrStdout(), recordResult{
		Kind:      kind,
		Weight:    weight,
		ReadCount: a.engine.ReadCount(ctx),
	})
}

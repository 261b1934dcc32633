package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/profile-scout/internal/match"
	"github.com/sells-group/profile-scout/internal/model"
	"github.com/sells-group/profile-scout/internal/store"
)

var (
	analyzeRecordID string
	analyzeAll      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Re-run keyword matching over stored records",
	Long: `Matches the current active keyword taxonomy against already
acquired profile text, replacing each record's stored matches. Useful
after importing new keywords; no network requests are made.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		keywords, err := st.ListKeywords(ctx, true)
		if err != nil {
			return eris.Wrap(err, "list keywords")
		}
		if len(keywords) == 0 {
			return eris.New("no active keywords; import some first")
		}

		var records []model.AcquisitionRecord
		switch {
		case analyzeRecordID != "":
			rec, err := st.GetRecord(ctx, analyzeRecordID)
			if err != nil {
				return eris.Wrap(err, "get record")
			}
			records = []model.AcquisitionRecord{*rec}
		case analyzeAll:
			records, err = st.ListRecords(ctx, store.RecordFilter{Status: model.RecordCompleted})
			if err != nil {
				return eris.Wrap(err, "list records")
			}
		default:
			return eris.New("either --record or --all is required")
		}

		runner := newRunner(st)
		totalMatches := 0
		for i := range records {
			matches, err := runner.MatchRecord(ctx, &records[i], keywords)
			if err != nil {
				return err
			}
			totalMatches += len(matches)
		}

		zap.L().Info("analyze complete",
			zap.Int("records", len(records)),
			zap.Int("matches", totalMatches),
		)

		if analyzeRecordID != "" {
			matches, err := st.ListMatches(ctx, analyzeRecordID)
			if err != nil {
				return eris.Wrap(err, "list matches")
			}
			results := make([]match.Result, 0, len(matches))
			for _, m := range matches {
				results = append(results, match.Result{
					KeywordID:  m.KeywordID,
					Word:       m.Word,
					Category:   m.Category,
					Count:      m.Count,
					Confidence: m.Confidence,
					Context:    m.Context,
				})
			}
			if err := printJSON(match.Summarize(results)); err != nil {
				return err
			}
			return printJSON(matches)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRecordID, "record", "", "analyze one acquisition record")
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "analyze every completed record")
	rootCmd.AddCommand(analyzeCmd)
}

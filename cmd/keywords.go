package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/profile-scout/internal/roster"
)

var (
	keywordsImportCSV string
	keywordsListAll   bool
	keywordsSetID     string
	keywordsSetActive bool
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage the keyword taxonomy",
}

var keywordsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import keywords from CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		f, err := os.Open(keywordsImportCSV)
		if err != nil {
			return eris.Wrap(err, "open csv")
		}
		defer f.Close()

		keywords, err := roster.ParseKeywords(f)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		count, err := st.UpsertKeywords(ctx, keywords)
		if err != nil {
			return eris.Wrap(err, "upsert keywords")
		}

		zap.L().Info("keyword import complete",
			zap.Int("upserted", count),
			zap.String("csv", keywordsImportCSV),
		)
		return nil
	},
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List keywords",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		keywords, err := st.ListKeywords(ctx, !keywordsListAll)
		if err != nil {
			return eris.Wrap(err, "list keywords")
		}
		return printJSON(keywords)
	},
}

var keywordsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Activate or deactivate a keyword",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SetKeywordActive(ctx, keywordsSetID, keywordsSetActive); err != nil {
			return eris.Wrap(err, "set keyword")
		}

		zap.L().Info("keyword updated",
			zap.String("id", keywordsSetID),
			zap.Bool("active", keywordsSetActive),
		)
		return nil
	},
}

func init() {
	keywordsImportCmd.Flags().StringVar(&keywordsImportCSV, "csv", "", "path to CSV file (required)")
	_ = keywordsImportCmd.MarkFlagRequired("csv")

	keywordsListCmd.Flags().BoolVar(&keywordsListAll, "all", false, "include inactive keywords")

	keywordsSetCmd.Flags().StringVar(&keywordsSetID, "id", "", "keyword id (required)")
	keywordsSetCmd.Flags().BoolVar(&keywordsSetActive, "active", true, "active state")
	_ = keywordsSetCmd.MarkFlagRequired("id")

	keywordsCmd.AddCommand(keywordsImportCmd, keywordsListCmd, keywordsSetCmd)
	rootCmd.AddCommand(keywordsCmd)
}

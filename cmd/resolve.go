package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/profile-scout/internal/store"
)

var (
	resolveName    string
	resolveOrg     string
	resolveMissing bool
	resolveApply   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Find candidate LinkedIn profile URLs",
	Long: `Queries Google Custom Search for candidate profile URLs.

With --name, resolves one individual and prints ranked candidates.
With --missing, resolves every stored individual lacking a profile URL;
--apply writes the top candidate back to the store.

Without API credentials (SCOUT_SEARCH_API_KEY, SCOUT_SEARCH_ENGINE_ID)
resolution returns a deterministic mock candidate built from the name.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		resolver := newResolver()

		if resolveName != "" {
			candidates, err := resolver.Resolve(ctx, resolveName, resolveOrg)
			if err != nil {
				return eris.Wrap(err, "resolve")
			}
			return printJSON(candidates)
		}

		if !resolveMissing {
			return eris.New("either --name or --missing is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		people, err := st.ListIndividuals(ctx, store.IndividualFilter{MissingProfileURL: true})
		if err != nil {
			return eris.Wrap(err, "list individuals")
		}

		resolved := 0
		for _, ind := range people {
			candidates, err := resolver.Resolve(ctx, ind.Name, ind.Organization)
			if err != nil {
				zap.L().Warn("resolve failed",
					zap.String("name", ind.Name), zap.Error(err))
				continue
			}
			if len(candidates) == 0 {
				continue
			}

			top := candidates[0]
			zap.L().Info("resolved",
				zap.String("name", ind.Name),
				zap.String("url", top.URL),
				zap.Float64("relevance", top.RelevanceScore),
				zap.Bool("verified", top.Verified),
				zap.Bool("mock", top.Mock),
			)
			if resolveApply {
				if err := st.SetProfileURL(ctx, ind.ID, top.URL); err != nil {
					return eris.Wrapf(err, "set profile url for %s", ind.Name)
				}
			}
			resolved++
		}

		stats := resolver.Stats()
		zap.L().Info("resolve complete",
			zap.Int("resolved", resolved),
			zap.Int("total", len(people)),
			zap.Int("quota_remaining", stats.Remaining),
		)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveName, "name", "", "resolve a single name")
	resolveCmd.Flags().StringVar(&resolveOrg, "org", "", "organization qualifier for --name")
	resolveCmd.Flags().BoolVar(&resolveMissing, "missing", false, "resolve all individuals without a profile URL")
	resolveCmd.Flags().BoolVar(&resolveApply, "apply", false, "store the top candidate URL")
	rootCmd.AddCommand(resolveCmd)
}

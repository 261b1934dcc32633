package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/profile-scout/internal/model"
	"github.com/sells-group/profile-scout/internal/store"
)

var (
	scrapeID        string
	scrapeOrg       string
	scrapeAll       bool
	scrapeReprocess bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Acquire profiles and match keywords",
	Long: `Runs the full pipeline for the selected individuals: discover a
profile URL when one is missing, fetch the public profile page, extract
structured text, and match the active keyword taxonomy against it.

With --id, processes one individual. With --org or --all, processes a
batch under a tracked job. --reprocess also re-runs individuals that
already have a completed acquisition record.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		runner := newRunner(st)

		var (
			individuals []model.Individual
			jobType     model.JobType
		)
		switch {
		case scrapeID != "":
			ind, err := st.GetIndividual(ctx, scrapeID)
			if err != nil {
				return eris.Wrap(err, "get individual")
			}
			individuals = []model.Individual{*ind}
			jobType = model.JobSingle

		case scrapeOrg != "":
			individuals, err = st.ListIndividuals(ctx, store.IndividualFilter{Organization: scrapeOrg})
			if err != nil {
				return eris.Wrap(err, "list individuals")
			}
			jobType = model.JobCompany

		case scrapeAll:
			individuals, err = st.ListIndividuals(ctx, store.IndividualFilter{})
			if err != nil {
				return eris.Wrap(err, "list individuals")
			}
			jobType = model.JobBatch

		default:
			return eris.New("one of --id, --org, or --all is required")
		}

		if scrapeReprocess {
			if err := resetCompleted(ctx, st, individuals); err != nil {
				return err
			}
		} else {
			individuals, err = withoutCompleted(ctx, st, individuals)
			if err != nil {
				return err
			}
		}
		if len(individuals) == 0 {
			zap.L().Info("nothing to scrape")
			return nil
		}

		job, err := runner.Run(ctx, individuals, jobType)
		if err != nil {
			return eris.Wrap(err, "run job")
		}
		return printJSON(job)
	},
}

// resetCompleted moves each individual's latest completed record back to
// pending so the re-acquisition supersedes it.
func resetCompleted(ctx context.Context, st store.Store, individuals []model.Individual) error {
	for _, ind := range individuals {
		records, err := st.ListRecords(ctx, store.RecordFilter{
			IndividualID: ind.ID,
			Status:       model.RecordCompleted,
			Limit:        1,
		})
		if err != nil {
			return eris.Wrapf(err, "list records for %s", ind.Name)
		}
		if len(records) > 0 {
			if err := st.MarkRecordPending(ctx, records[0].ID); err != nil {
				return eris.Wrapf(err, "reset record for %s", ind.Name)
			}
		}
	}
	return nil
}

// withoutCompleted drops individuals that already have a completed
// acquisition record.
func withoutCompleted(ctx context.Context, st store.Store, individuals []model.Individual) ([]model.Individual, error) {
	var out []model.Individual
	for _, ind := range individuals {
		records, err := st.ListRecords(ctx, store.RecordFilter{
			IndividualID: ind.ID,
			Status:       model.RecordCompleted,
			Limit:        1,
		})
		if err != nil {
			return nil, eris.Wrapf(err, "list records for %s", ind.Name)
		}
		if len(records) == 0 {
			out = append(out, ind)
		}
	}
	return out, nil
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeID, "id", "", "individual id")
	scrapeCmd.Flags().StringVar(&scrapeOrg, "org", "", "every individual in an organization")
	scrapeCmd.Flags().BoolVar(&scrapeAll, "all", false, "every stored individual")
	scrapeCmd.Flags().BoolVar(&scrapeReprocess, "reprocess", false, "include individuals with completed records")
	rootCmd.AddCommand(scrapeCmd)
}

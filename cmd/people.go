package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/profile-scout/internal/roster"
	"github.com/sells-group/profile-scout/internal/store"
)

var (
	peopleAddName   string
	peopleAddOrg    string
	peopleAddURL    string
	peopleImportCSV string
	peopleListOrg   string
	peopleListNoURL bool
	peopleListLimit int
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Manage the individuals under research",
}

var peopleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add one individual",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		ind, err := st.CreateIndividual(ctx, peopleAddName, peopleAddOrg, peopleAddURL)
		if err != nil {
			return eris.Wrap(err, "add individual")
		}

		zap.L().Info("individual added",
			zap.String("id", ind.ID),
			zap.String("name", ind.Name),
		)
		return printJSON(ind)
	},
}

var peopleImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import individuals from CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		f, err := os.Open(peopleImportCSV)
		if err != nil {
			return eris.Wrap(err, "open csv")
		}
		defer f.Close()

		people, err := roster.ParsePeople(f)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		created := 0
		for _, p := range people {
			if _, err := st.CreateIndividual(ctx, p.Name, p.Organization, p.ProfileURL); err != nil {
				return eris.Wrapf(err, "import %q", p.Name)
			}
			created++
		}

		zap.L().Info("people import complete",
			zap.Int("created", created),
			zap.String("csv", peopleImportCSV),
		)
		return nil
	},
}

var peopleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List individuals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		people, err := st.ListIndividuals(ctx, store.IndividualFilter{
			Organization:      peopleListOrg,
			MissingProfileURL: peopleListNoURL,
			Limit:             peopleListLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list individuals")
		}
		return printJSON(people)
	},
}

func init() {
	peopleAddCmd.Flags().StringVar(&peopleAddName, "name", "", "full name (required)")
	peopleAddCmd.Flags().StringVar(&peopleAddOrg, "org", "", "organization")
	peopleAddCmd.Flags().StringVar(&peopleAddURL, "url", "", "known LinkedIn profile URL")
	_ = peopleAddCmd.MarkFlagRequired("name")

	peopleImportCmd.Flags().StringVar(&peopleImportCSV, "csv", "", "path to CSV file (required)")
	_ = peopleImportCmd.MarkFlagRequired("csv")

	peopleListCmd.Flags().StringVar(&peopleListOrg, "org", "", "filter by organization")
	peopleListCmd.Flags().BoolVar(&peopleListNoURL, "missing-url", false, "only individuals without a profile URL")
	peopleListCmd.Flags().IntVar(&peopleListLimit, "limit", 0, "maximum rows")

	peopleCmd.AddCommand(peopleAddCmd, peopleImportCmd, peopleListCmd)
	rootCmd.AddCommand(peopleCmd)
}

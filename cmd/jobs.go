package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	jobsShowID    string
	jobsListLimit int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect batch jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		jobs, err := st.ListJobs(ctx, jobsListLimit)
		if err != nil {
			return eris.Wrap(err, "list jobs")
		}
		return printJSON(jobs)
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		job, err := st.GetJob(ctx, jobsShowID)
		if err != nil {
			return eris.Wrap(err, "get job")
		}
		return printJSON(job)
	},
}

func init() {
	jobsShowCmd.Flags().StringVar(&jobsShowID, "id", "", "job id (required)")
	_ = jobsShowCmd.MarkFlagRequired("id")

	jobsListCmd.Flags().IntVar(&jobsListLimit, "limit", 20, "maximum rows")

	jobsCmd.AddCommand(jobsListCmd, jobsShowCmd)
	rootCmd.AddCommand(jobsCmd)
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/calebhart/enrichflow/internal/cli"
	"github.com/calebhart/enrichflow/internal/enrich"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect enrichment jobs and past runs",
	}

	cmd.AddCommand(jobsListCmd())
	cmd.AddCommand(jobsHistoryCmd())

	return cmd
}

func jobsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs on the remote service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, _ := cmd.Flags().GetInt("page")
			pageSize, _ := cmd.Flags().GetInt("page-size")

			client := enrich.NewClient(relayURLFromConfig())
			jobs, total, err := client.ListJobs(cmd.Context(), page, pageSize)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Remote jobs (%d total)", total)))
			for _, job := range jobs {
				fmt.Println(cli.RenderJob(job))
			}
			return nil
		},
	}

	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("page-size", 25, "Jobs per page")
	return cmd
}

func jobsHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List locally recorded runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No runs recorded yet"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Run history"))
			for _, run := range runs {
				fmt.Printf("%-14s %-36s %-10s valid %d/%d  %4d credits  %s\n",
					run.JobID, run.Name, run.Status,
					run.ValidRecords, run.TotalRecords,
					run.CreditsUsed,
					run.CreatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum runs to show (0 for all)")
	return cmd
}

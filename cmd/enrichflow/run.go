package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calebhart/enrichflow/internal/cli"
	"github.com/calebhart/enrichflow/internal/common"
	"github.com/calebhart/enrichflow/internal/credits"
	"github.com/calebhart/enrichflow/internal/enrich"
	"github.com/calebhart/enrichflow/internal/export"
	"github.com/calebhart/enrichflow/internal/mapping"
	"github.com/calebhart/enrichflow/internal/model"
	"github.com/calebhart/enrichflow/internal/validate"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Submit a CSV for enrichment and download the results",
		Long: `Parse a CSV file, map its columns to enrichment input fields, submit the
valid rows as an enrichment job, poll until it finishes, and write the
enriched records to disk.

Column mapping is auto-detected from header names and can be overridden
with --map "CSV Column=FIELD_NAME" and --disable "CSV Column".`,
		RunE: runRun,
	}

	cmd.Flags().StringP("file", "f", "", "CSV file to enrich (required)")
	cmd.Flags().StringP("name", "n", "", "Job name (default: Enrichment_<timestamp>)")
	cmd.Flags().String("operator", "any", "Match operator: any (OR) or all (AND)")
	cmd.Flags().StringArray("map", nil, "Override a column mapping, e.g. --map \"Work Email=BUSINESS_EMAIL\"")
	cmd.Flags().StringArray("disable", nil, "Exclude a mapped column from matching")
	cmd.Flags().String("package", "", "Output field package for credit estimation (basic, standard, professional, premium, complete)")
	cmd.Flags().StringSlice("fields", nil, "Output field ids for credit estimation (overrides --package)")
	cmd.Flags().StringP("output", "o", "", "Output path, .csv or .xlsx (default: <file>.enriched.csv)")
	cmd.Flags().Bool("mock", false, "Run against the in-process mock service")
	cmd.Flags().Bool("dry-run", false, "Validate and estimate without submitting")
	_ = cmd.MarkFlagRequired("file")

	_ = viper.BindPFlag("run.operator", cmd.Flags().Lookup("operator"))
	_ = viper.BindPFlag("run.package", cmd.Flags().Lookup("package"))
	_ = viper.BindPFlag("run.mock", cmd.Flags().Lookup("mock"))

	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	name, _ := cmd.Flags().GetString("name")
	overrides, _ := cmd.Flags().GetStringArray("map")
	disabled, _ := cmd.Flags().GetStringArray("disable")
	fieldIDs, _ := cmd.Flags().GetStringSlice("fields")
	output, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	operator, err := model.ParseMatchOperator(viper.GetString("run.operator"))
	if err != nil {
		return err
	}
	if name == "" {
		name = defaultJobName()
	}
	if output == "" {
		output = file + ".enriched.csv"
	}

	table, sourceHash, err := loadTable(file)
	if err != nil {
		return err
	}

	mappings := mapping.NewMappings(table, mapping.DefaultSampleLimit)
	if err := applyMappingOverrides(mappings, overrides, disabled); err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Enriching %s (%d rows)", file, table.RowCount())))
	fmt.Println(cli.RenderMappings(mappings))

	partition := validate.Validate(table, mappings, operator)
	fmt.Println(cli.RenderPartition(partition))

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(cmd.Context()); err != nil {
		return err
	}

	if len(fieldIDs) == 0 {
		if pkg := viper.GetString("run.package"); pkg != "" {
			ids, ok := mapping.PackageFields(pkg)
			if !ok {
				return fmt.Errorf("unknown output package %q", pkg)
			}
			fieldIDs = ids
		}
	}

	balance, err := store.GetCredits(cmd.Context())
	if err != nil {
		return err
	}

	var estimate model.CreditEstimate
	if len(fieldIDs) > 0 {
		estimate = credits.Estimate(balance, len(partition.ValidRows), fieldIDs)
		fmt.Println(cli.RenderEstimate(estimate))
		if !estimate.CanAfford {
			return fmt.Errorf("insufficient credits: short %d", estimate.Shortfall)
		}
	}

	if dryRun {
		fmt.Println(cli.FormatSuccess("Dry run complete, nothing submitted"))
		return nil
	}

	api := newAPI(viper.GetBool("run.mock"))
	orchestrator := enrich.NewOrchestrator(api, newPoller(api))

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Enriching contacts...[reset]"),
	)

	started := time.Now()
	var lastJob *model.EnrichmentJob
	results, err := orchestrator.Run(cmd.Context(), name, table, mappings, operator,
		func(p enrich.Progress) {
			_ = bar.Set(p.Percent)
			if p.Job != nil {
				lastJob = p.Job
			}
		})
	_ = bar.Finish()
	fmt.Println()

	if err != nil {
		run := runRecord(name, sourceHash, partition, estimate.Total, time.Since(started), lastJob, true)
		if run.JobID != "" {
			if _, saveErr := store.SaveRun(cmd.Context(), run); saveErr != nil {
				common.LogError(saveErr, "failed to record run", common.Fields{"job_id": run.JobID})
			}
		}
		return common.NewUserError("enrichment did not complete", err)
	}
	run := runRecord(name, sourceHash, partition, estimate.Total, time.Since(started), lastJob, false)

	if err := export.Write(results, output); err != nil {
		return common.NewUserError(fmt.Sprintf("failed to write %s", output), err)
	}

	if estimate.Total > 0 {
		if err := store.SetCredits(cmd.Context(), credits.Consume(balance, estimate.Total)); err != nil {
			common.LogError(err, "failed to debit credits", common.Fields{"amount": estimate.Total})
		}
	}
	if _, err := store.SaveRun(cmd.Context(), run); err != nil {
		common.LogError(err, "failed to record run", common.Fields{"job_id": run.JobID})
	}
	common.LogInfo("run recorded", common.Fields{
		"job_id":  run.JobID,
		"records": run.ValidRecords,
		"credits": run.CreditsUsed,
	})

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d enriched records to %s", results.RowCount(), output)))
	if level, message := credits.Warning(credits.Consume(balance, estimate.Total)); level != "" {
		fmt.Println(cli.FormatWarning(message))
	}
	return nil
}

// runRecord builds the history row for a finished enrichment run. Credits are
// only debited on success, so a failed run records zero spend.
func runRecord(name, sourceHash string, partition *model.ValidationPartition, creditsUsed int, duration time.Duration, job *model.EnrichmentJob, failed bool) model.Run {
	run := model.Run{
		Name:             name,
		SourceHash:       sourceHash,
		TotalRecords:     partition.Total,
		ValidRecords:     len(partition.ValidRows),
		DuplicateRecords: len(partition.DuplicateRows),
		InvalidRecords:   len(partition.InvalidRows),
		CreditsUsed:      creditsUsed,
		Duration:         duration,
	}
	if job != nil {
		run.JobID = job.ID
		run.Status = string(job.Status)
	}
	if failed {
		run.CreditsUsed = 0
		if run.JobID != "" && run.Status == "" {
			run.Status = string(model.JobFailed)
		}
	}
	return run
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebhart/enrichflow/internal/cli"
	"github.com/calebhart/enrichflow/internal/mapping"
	"github.com/calebhart/enrichflow/internal/model"
	"github.com/calebhart/enrichflow/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse a CSV and preview mapping and validation without submitting",
		RunE:  runValidate,
	}

	cmd.Flags().StringP("file", "f", "", "CSV file to inspect (required)")
	cmd.Flags().StringArray("map", nil, "Override a column mapping, e.g. --map \"Work Email=BUSINESS_EMAIL\"")
	cmd.Flags().StringArray("disable", nil, "Exclude a mapped column from matching")
	cmd.Flags().Bool("show-invalid", false, "List each excluded row with its reason")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	overrides, _ := cmd.Flags().GetStringArray("map")
	disabled, _ := cmd.Flags().GetStringArray("disable")
	showInvalid, _ := cmd.Flags().GetBool("show-invalid")

	table, _, err := loadTable(file)
	if err != nil {
		return err
	}

	mappings := mapping.NewMappings(table, mapping.DefaultSampleLimit)
	if err := applyMappingOverrides(mappings, overrides, disabled); err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s: %d columns, %d rows", file, len(table.Columns), table.RowCount())))
	fmt.Println(cli.RenderMappings(mappings))

	partition := validate.Validate(table, mappings, model.MatchAny)
	fmt.Println(cli.RenderPartition(partition))

	if showInvalid {
		for _, invalid := range partition.InvalidRows {
			fmt.Println(cli.FormatError(fmt.Sprintf("row %d: %s", invalid.Row+1, invalid.Reason)))
		}
		for i, row := range partition.DuplicateRows {
			fmt.Println(cli.FormatWarning(fmt.Sprintf("row %d: duplicate of key %q", row+1, partition.DuplicateKeys[i])))
		}
	}

	if len(mapping.Active(mappings)) == 0 {
		return fmt.Errorf("no columns could be mapped; use --map to assign fields")
	}
	return nil
}

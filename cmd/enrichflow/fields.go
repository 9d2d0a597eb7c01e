package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebhart/enrichflow/internal/cli"
	"github.com/calebhart/enrichflow/internal/mapping"
	"github.com/calebhart/enrichflow/internal/model"
)

func fieldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List enrichment input and output fields",
	}

	cmd.AddCommand(fieldsInputsCmd())
	cmd.AddCommand(fieldsOutputsCmd())

	return cmd
}

func fieldsInputsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inputs",
		Short: "List the canonical input fields CSV columns can map to",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cli.FormatTitle("Input fields"))
			for _, f := range model.InputFields {
				fmt.Printf("  %-22s %-22s %s\n",
					string(f),
					mapping.DisplayName(f),
					cli.SubtleStyle.Render(string(mapping.FieldCategory(f))))
			}
		},
	}
}

func fieldsOutputsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "List the enrichment output fields and their credit costs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pkg, _ := cmd.Flags().GetString("package")

			fields := mapping.OutputFields
			if pkg != "" {
				ids, ok := mapping.PackageFields(pkg)
				if !ok {
					return fmt.Errorf("unknown output package %q", pkg)
				}
				selected := make([]mapping.OutputField, 0, len(ids))
				for _, id := range ids {
					if f, ok := mapping.OutputFieldByID(id); ok {
						selected = append(selected, f)
					}
				}
				fields = selected
				fmt.Println(cli.FormatTitle(fmt.Sprintf("Output fields in package %q", pkg)))
			} else {
				fmt.Println(cli.FormatTitle("Output fields"))
			}

			var category mapping.OutputCategory
			for _, f := range fields {
				if f.Category != category {
					category = f.Category
					fmt.Println(cli.BoldStyle.Render(string(category)))
				}
				cost := fmt.Sprintf("%d credit(s)", f.Cost)
				if f.Cost == 0 {
					cost = cli.SubtleStyle.Render("free")
				}
				fmt.Printf("  %-28s %-32s %s\n", f.ID, f.Name, cost)
			}
			return nil
		},
	}

	cmd.Flags().String("package", "", "Only show fields in one package (basic, standard, professional, premium, complete)")
	return cmd
}

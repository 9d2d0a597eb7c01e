package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/calebhart/enrichflow/internal/cli"
	"github.com/calebhart/enrichflow/internal/credits"
	"github.com/calebhart/enrichflow/internal/mapping"
	"github.com/calebhart/enrichflow/internal/storage"
)

func creditsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Manage the local credit ledger",
	}

	cmd.AddCommand(creditsShowCmd())
	cmd.AddCommand(creditsEstimateCmd())
	cmd.AddCommand(creditsGrantCmd())

	return cmd
}

func withCreditStore(cmd *cobra.Command, fn func(*storage.SQLiteStorage) error) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(cmd.Context()); err != nil {
		return err
	}
	return fn(store)
}

func creditsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current credit balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCreditStore(cmd, func(store *storage.SQLiteStorage) error {
				balance, err := store.GetCredits(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Println(cli.FormatTitle("Credit balance"))
				fmt.Printf("  Balance:         %s\n", cli.BoldStyle.Render(strconv.Itoa(balance.Balance)))
				fmt.Printf("  Used today:      %d\n", balance.UsedToday)
				fmt.Printf("  Used this month: %d\n", balance.UsedThisMonth)
				fmt.Printf("  Plan limit:      %d\n", balance.PlanLimit)
				fmt.Printf("  Renews:          %s\n", balance.RenewalDate)

				if _, message := credits.Warning(balance); message != "" {
					fmt.Println(cli.FormatWarning(message))
				}
				return nil
			})
		},
	}
}

func creditsEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Price an enrichment run before submitting it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, _ := cmd.Flags().GetInt("records")
			fieldIDs, _ := cmd.Flags().GetStringSlice("fields")
			pkg, _ := cmd.Flags().GetString("package")

			if records <= 0 {
				return fmt.Errorf("--records must be positive")
			}
			if len(fieldIDs) == 0 {
				if pkg == "" {
					return fmt.Errorf("provide --fields or --package")
				}
				ids, ok := mapping.PackageFields(pkg)
				if !ok {
					return fmt.Errorf("unknown output package %q", pkg)
				}
				fieldIDs = ids
			}

			return withCreditStore(cmd, func(store *storage.SQLiteStorage) error {
				balance, err := store.GetCredits(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Print(cli.RenderEstimate(credits.Estimate(balance, records, fieldIDs)))
				return nil
			})
		},
	}

	cmd.Flags().Int("records", 0, "Number of records to price (required)")
	cmd.Flags().StringSlice("fields", nil, "Output field ids")
	cmd.Flags().String("package", "", "Output field package")
	_ = cmd.MarkFlagRequired("records")
	return cmd
}

func creditsGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <amount>",
		Short: "Add credits to the local ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[0])
			if err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive integer")
			}

			return withCreditStore(cmd, func(store *storage.SQLiteStorage) error {
				balance, err := store.GetCredits(cmd.Context())
				if err != nil {
					return err
				}
				balance.Balance += amount
				if err := store.SetCredits(cmd.Context(), balance); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Balance is now %d credits", balance.Balance)))
				return nil
			})
		},
	}
}

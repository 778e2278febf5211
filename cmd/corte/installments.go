package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lunario/corte/internal/cli"
	"github.com/lunario/corte/internal/ledger"
	"github.com/lunario/corte/internal/model"
	"github.com/spf13/cobra"
)

func installmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "installments",
		Aliases: []string{"msi"},
		Short:   "Manage installment purchases (MSI)",
		Long: `Track purchases paid over a fixed number of months. Each monthly
payment is recorded against the plan until it is settled.`,
	}

	cmd.AddCommand(addInstallmentCmd())
	cmd.AddCommand(listInstallmentsCmd())
	cmd.AddCommand(payInstallmentCmd())
	cmd.AddCommand(deleteInstallmentCmd())

	return cmd
}

func addInstallmentCmd() *cobra.Command {
	var (
		amountStr   string
		months      int
		description string
		dateStr     string
	)

	cmd := &cobra.Command{
		Use:   "add <card>",
		Short: "Record an installment purchase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			total, err := parseMoney(amountStr, "amount")
			if err != nil {
				return err
			}
			if months < 1 {
				return fmt.Errorf("--months must be at least 1, got %d", months)
			}
			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			card, err := resolveCard(ctx, store, args[0])
			if err != nil {
				return err
			}

			tx := model.NewInstallmentPurchase(date, description, total, months)
			updated, err := ledger.AddTransaction(*card, tx)
			if err != nil {
				return err
			}
			if err := store.SaveCard(ctx, &updated); err != nil {
				return fmt.Errorf("failed to save card: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Recorded %s over %d months (%s/month) on %q",
				money(total), months, money(tx.MonthlyPayment), card.Alias)))
			return nil
		},
	}

	cmd.Flags().StringVar(&amountStr, "amount", "", "total purchase amount (required)")
	cmd.Flags().IntVar(&months, "months", 0, "number of monthly payments (required)")
	cmd.Flags().StringVar(&description, "description", "", "what the purchase was for")
	cmd.Flags().StringVar(&dateStr, "date", "", "purchase date, YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("months")

	return cmd
}

func listInstallmentsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list <card>",
		Short: "List installment plans and their progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			card, err := resolveCard(ctx, store, args[0])
			if err != nil {
				return err
			}

			progress := ledger.Progress(*card)
			if len(progress) == 0 {
				fmt.Println(cli.InfoStyle.Render("No installment purchases on this card."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Description"),
				cli.HeaderStyle.Render("Total"),
				cli.HeaderStyle.Render("Monthly"),
				cli.HeaderStyle.Render("Progress"),
				cli.HeaderStyle.Render("Remaining"),
				cli.HeaderStyle.Render("ID"))

			for _, p := range progress {
				if p.Settled && !all {
					continue
				}
				status := fmt.Sprintf("%d/%d", p.Installment.PaidMonths, p.Installment.Months)
				if p.Settled {
					status = cli.SuccessStyle.Render(status + " ✓")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					p.Installment.Description,
					money(p.Installment.TotalAmount),
					money(p.Installment.MonthlyPayment),
					status,
					money(p.Remaining),
					cli.SubtleStyle.Render(p.Installment.ID))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include settled plans")
	return cmd
}

func payInstallmentCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "pay <card> <installment-id>",
		Short: "Record one monthly payment on an installment plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			card, err := resolveCard(ctx, store, args[0])
			if err != nil {
				return err
			}

			updated, payment, err := ledger.PayInstallment(*card, args[1], date)
			if err != nil {
				return err
			}
			if err := store.SaveCard(ctx, &updated); err != nil {
				return fmt.Errorf("failed to save card: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Paid %s: %s", money(payment.Amount), payment.Description)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "payment date, YYYY-MM-DD (default: today)")
	return cmd
}

func deleteInstallmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card> <installment-id>",
		Short: "Delete an installment plan and all its payments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			card, err := resolveCard(ctx, store, args[0])
			if err != nil {
				return err
			}

			updated, err := ledger.DeleteInstallment(*card, args[1])
			if err != nil {
				return err
			}
			if err := store.SaveCard(ctx, &updated); err != nil {
				return fmt.Errorf("failed to save card: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Installment plan deleted."))
			return nil
		},
	}
}

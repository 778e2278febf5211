package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lunario/corte/internal/budget"
	"github.com/lunario/corte/internal/cli"
	"github.com/lunario/corte/internal/model"
	"github.com/lunario/corte/internal/service"
	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Track a monthly spending budget",
		Long: `Set a monthly budget and record out-of-pocket expenses against it.
The status view shows what is left and how much can be spent per day.`,
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(budgetStatusCmd())
	cmd.AddCommand(resetBudgetCmd())
	cmd.AddCommand(addBudgetExpenseCmd())
	cmd.AddCommand(deleteBudgetExpenseCmd())

	return cmd
}

// loadBudget fetches the configured budget, mapping "no row" to ErrNoBudget
// so every subcommand reports it the same way.
func loadBudget(ctx context.Context, store service.Storage) (model.Budget, error) {
	b, err := store.GetBudget(ctx)
	if err != nil {
		return model.Budget{}, fmt.Errorf("failed to load budget: %w", err)
	}
	if b == nil {
		return model.Budget{}, budget.ErrNoBudget
	}
	return *b, nil
}

func setBudgetCmd() *cobra.Command {
	var (
		amountStr string
		rollover  string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set or replace the monthly budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			amount, err := parseMoney(amountStr, "amount")
			if err != nil {
				return err
			}
			option := model.RolloverOption(rollover)
			if option != model.RolloverNextDay && option != model.RolloverDistribute {
				return fmt.Errorf("invalid --rollover %q: must be nextDay or distribute", rollover)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			today := model.Today()
			b := model.Budget{
				TotalAmount:    amount,
				RolloverOption: option,
				StartDate:      model.NewDate(today.Year(), today.Month(), 1),
			}
			// Carry over this month's expenses when replacing an existing budget.
			if existing, err := store.GetBudget(ctx); err != nil {
				return fmt.Errorf("failed to load budget: %w", err)
			} else if existing != nil {
				b.Expenses = existing.Expenses
			}

			if err := store.SaveBudget(ctx, &b); err != nil {
				return fmt.Errorf("failed to save budget: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Monthly budget set to %s (%s rollover)", money(amount), option)))
			return nil
		},
	}

	cmd.Flags().StringVar(&amountStr, "amount", "", "monthly budget amount (required)")
	cmd.Flags().StringVar(&rollover, "rollover", string(model.RolloverDistribute), "rollover option (nextDay, distribute)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func budgetStatusCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the budget for this month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			today, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := loadBudget(ctx, store)
			if err != nil {
				return err
			}

			if budget.NeedsReset(b, today) {
				fmt.Println(cli.WarningStyle.Render(
					"Budget started in a previous month. Run 'corte budget reset' to start this month fresh."))
			}

			summary, err := budget.Summarize(b, today)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Budget for %s", today.Format("January 2006"))))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "  Monthly budget\t%s\n", money(summary.TotalAmount))
			fmt.Fprintf(w, "  Spent this month\t%s\n", money(summary.SpentThisMonth))
			fmt.Fprintf(w, "  Spent today\t%s\n", money(summary.SpentToday))
			remaining := money(summary.Remaining)
			if summary.Remaining.IsNegative() {
				remaining = cli.ErrorStyle.Render(remaining)
			}
			fmt.Fprintf(w, "  Remaining\t%s\n", remaining)
			fmt.Fprintf(w, "  Daily recommendation\t%s (%d days left)\n",
				cli.AmountStyle.Render(money(summary.DailyRecommendation)), summary.DaysLeft)
			w.Flush()

			expenses := budget.ExpensesThisMonth(b, today)
			if len(expenses) == 0 {
				return nil
			}

			fmt.Println()
			fmt.Println(cli.HeaderStyle.Render("This month's expenses"))
			w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			for _, exp := range expenses {
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
					exp.Date.Format(model.DateLayout),
					exp.Description,
					money(exp.Amount),
					cli.SubtleStyle.Render(exp.ID))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "reference date, YYYY-MM-DD (default: today)")
	return cmd
}

func resetBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restart the budget for the current month",
		Long:  `Clear the tracked expenses and restart the budget on the first of this month.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := loadBudget(ctx, store)
			if err != nil {
				return err
			}

			reset := budget.Reset(b, model.Today())
			if err := store.SaveBudget(ctx, &reset); err != nil {
				return fmt.Errorf("failed to save budget: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Budget reset for the current month."))
			return nil
		},
	}
}

func addBudgetExpenseCmd() *cobra.Command {
	var (
		amountStr   string
		description string
		dateStr     string
	)

	cmd := &cobra.Command{
		Use:   "spend",
		Short: "Record an expense against the budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			amount, err := parseMoney(amountStr, "amount")
			if err != nil {
				return err
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

			b, err := loadBudget(ctx, store)
			if err != nil {
				return err
			}

			updated, err := budget.AddExpense(b, model.NewBudgetExpense(date, description, amount))
			if err != nil {
				return err
			}
			if err := store.SaveBudget(ctx, &updated); err != nil {
				return fmt.Errorf("failed to save budget: %w", err)
			}

			summary, err := budget.Summarize(updated, model.Today())
			if err != nil {
				return err
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Recorded %s. %s left this month.", money(amount), money(summary.Remaining))))
			return nil
		},
	}

	cmd.Flags().StringVar(&amountStr, "amount", "", "expense amount (required)")
	cmd.Flags().StringVar(&description, "description", "", "what the expense was for")
	cmd.Flags().StringVar(&dateStr, "date", "", "expense date, YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func deleteBudgetExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unspend <expense-id>",
		Short: "Delete a budget expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			b, err := loadBudget(ctx, store)
			if err != nil {
				return err
			}

			updated, err := budget.DeleteExpense(b, args[0])
			if err != nil {
				return err
			}
			if err := store.SaveBudget(ctx, &updated); err != nil {
				return fmt.Errorf("failed to save budget: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Budget expense deleted."))
			return nil
		},
	}
}

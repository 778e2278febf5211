package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/lunario/corte/internal/cli"
	"github.com/lunario/corte/internal/common"
	"github.com/lunario/corte/internal/ledger"
	"github.com/lunario/corte/internal/model"
	"github.com/spf13/cobra"
)

func statementCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "statement [card]",
		Short: "Show statement details for one card or all cards",
		Long: `Show the statement view of each card: balance, available credit,
the amount to pay before the due date to avoid interest, the open
cycle's estimated payment, and the upcoming cutoff and due dates.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			var cards []model.Card
			if len(args) == 1 {
				card, err := resolveCard(ctx, store, args[0])
				if err != nil {
					return err
				}
				cards = []model.Card{*card}
			} else {
				if cards, err = store.ListCards(ctx); err != nil {
					return fmt.Errorf("failed to list cards: %w", err)
				}
			}

			if len(cards) == 0 {
				fmt.Println(cli.InfoStyle.Render("No cards yet. Use 'corte cards add' to create one."))
				return nil
			}

			for i, card := range cards {
				details, err := ledger.ComputeDetails(card, today)
				if err != nil {
					// Keep going so one bad card does not hide the rest.
					common.LogError(err, "skipping card", common.Fields{"card": card.Alias})
					continue
				}
				if i > 0 {
					fmt.Println()
				}
				printStatement(card, details)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "reference date, YYYY-MM-DD (default: today)")
	return cmd
}

func printStatement(card model.Card, details model.StatementDetails) {
	title := card.Alias
	if card.Bank != "" {
		title = fmt.Sprintf("%s (%s •••• %s)", card.Alias, card.Bank, card.Last4)
	}
	fmt.Println(cli.TitleStyle.Render(title))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "  Current balance\t%s\n", cli.AmountStyle.Render(money(details.CurrentBalance)))
	fmt.Fprintf(w, "  Available credit\t%s\n", money(details.AvailableCredit))
	fmt.Fprintf(w, "  Pay to avoid interest\t%s\n", cli.WarningStyle.Render(money(details.PayToAvoidInterest)))
	fmt.Fprintf(w, "  Next estimated payment\t%s\n", money(details.NextEstimatedPayment))
	if card.HasCashback {
		fmt.Fprintf(w, "  Accumulated cashback\t%s\n", cli.SuccessStyle.Render(money(details.AccumulatedCashback)))
	}
	fmt.Fprintf(w, "  Next cutoff\t%s\n", details.NextCutoffDate.Format(model.DateLayout))
	fmt.Fprintf(w, "  Payment due\t%s\n", details.PaymentDueDate.Format(model.DateLayout))

	slog.Debug("computed statement",
		"card", card.ID,
		"balance", details.CurrentBalance.String(),
		"payToAvoidInterest", details.PayToAvoidInterest.String())
}

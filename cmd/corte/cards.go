package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/lunario/corte/internal/cli"
	"github.com/lunario/corte/internal/ledger"
	"github.com/lunario/corte/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage credit cards",
		Long:  `List, add, edit, and delete the tracked credit cards.`,
	}

	cmd.AddCommand(listCardsCmd())
	cmd.AddCommand(addCardCmd())
	cmd.AddCommand(editCardCmd())
	cmd.AddCommand(deleteCardCmd())

	return cmd
}

func listCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cards with balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cards, err := store.ListCards(ctx)
			if err != nil {
				return fmt.Errorf("failed to list cards: %w", err)
			}

			if len(cards) == 0 {
				fmt.Println(cli.InfoStyle.Render("No cards yet. Use 'corte cards add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Alias"),
				cli.HeaderStyle.Render("Bank"),
				cli.HeaderStyle.Render("Card"),
				cli.HeaderStyle.Render("Balance"),
				cli.HeaderStyle.Render("Available"),
				cli.HeaderStyle.Render("Limit"))

			totalDebt := decimal.Zero
			totalAvailable := decimal.Zero
			totalLimit := decimal.Zero
			today := model.Today()

			for _, card := range cards {
				details, err := ledger.ComputeDetails(card, today)
				if err != nil {
					// One broken card must not hide the rest.
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						card.Alias, card.Bank, "•••• "+card.Last4,
						cli.ErrorStyle.Render(err.Error()))
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					card.Alias,
					card.Bank,
					"•••• "+card.Last4,
					money(details.CurrentBalance),
					money(details.AvailableCredit),
					money(card.Limit))

				totalDebt = totalDebt.Add(details.CurrentBalance)
				totalAvailable = totalAvailable.Add(details.AvailableCredit)
				totalLimit = totalLimit.Add(card.Limit)
			}

			fmt.Fprintf(w, "%s\t\t\t%s\t%s\t%s\n",
				cli.SubtleStyle.Render("Total"),
				money(totalDebt), money(totalAvailable), money(totalLimit))

			return nil
		},
	}
}

func addCardCmd() *cobra.Command {
	var (
		alias      string
		bank       string
		last4      string
		limitStr   string
		cutoffDay  int
		paymentDay int
		cashback   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new card",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			limit, err := parseMoney(limitStr, "limit")
			if err != nil {
				return err
			}

			card := model.Card{
				ID:         uuid.NewString(),
				Alias:      alias,
				Bank:       bank,
				Last4:      last4,
				Limit:      limit,
				CutoffDay:  cutoffDay,
				PaymentDay: paymentDay,
			}
			if cashback != "" {
				pct, err := decimal.NewFromString(cashback)
				if err != nil {
					return fmt.Errorf("invalid --cashback value %q: %w", cashback, err)
				}
				card.HasCashback = true
				card.CashbackPercentage = pct
			}

			if err := ledger.ValidateCard(&card); err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveCard(ctx, &card); err != nil {
				return fmt.Errorf("failed to save card: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Added card %q (%s)", card.Alias, card.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "display name for the card (required)")
	cmd.Flags().StringVar(&bank, "bank", "", "issuing bank")
	cmd.Flags().StringVar(&last4, "last4", "", "last four digits")
	cmd.Flags().StringVar(&limitStr, "limit", "", "credit limit (required)")
	cmd.Flags().IntVar(&cutoffDay, "cutoff-day", 0, "statement cutoff day of month, 1-31 (required)")
	cmd.Flags().IntVar(&paymentDay, "payment-day", 0, "payment due day of month, 1-31 (required)")
	cmd.Flags().StringVar(&cashback, "cashback", "", "cashback percentage, e.g. 1.5")
	_ = cmd.MarkFlagRequired("alias")
	_ = cmd.MarkFlagRequired("limit")
	_ = cmd.MarkFlagRequired("cutoff-day")
	_ = cmd.MarkFlagRequired("payment-day")

	return cmd
}

func editCardCmd() *cobra.Command {
	var (
		alias      string
		bank       string
		last4      string
		limitStr   string
		cutoffDay  int
		paymentDay int
		cashback   string
	)

	cmd := &cobra.Command{
		Use:   "edit <card>",
		Short: "Edit a card's settings",
		Long:  `Update card fields. The transaction ledger is left untouched.`,
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

			if cmd.Flags().Changed("alias") {
				card.Alias = alias
			}
			if cmd.Flags().Changed("bank") {
				card.Bank = bank
			}
			if cmd.Flags().Changed("last4") {
				card.Last4 = last4
			}
			if cmd.Flags().Changed("limit") {
				if card.Limit, err = parseMoney(limitStr, "limit"); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("cutoff-day") {
				card.CutoffDay = cutoffDay
			}
			if cmd.Flags().Changed("payment-day") {
				card.PaymentDay = paymentDay
			}
			if cmd.Flags().Changed("cashback") {
				if cashback == "" || cashback == "0" {
					card.HasCashback = false
					card.CashbackPercentage = decimal.Zero
				} else {
					pct, err := decimal.NewFromString(cashback)
					if err != nil {
						return fmt.Errorf("invalid --cashback value %q: %w", cashback, err)
					}
					card.HasCashback = true
					card.CashbackPercentage = pct
				}
			}

			if err := ledger.ValidateCard(card); err != nil {
				return err
			}
			if err := store.SaveCard(ctx, card); err != nil {
				return fmt.Errorf("failed to save card: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Updated card %q", card.Alias)))
			return nil
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "display name for the card")
	cmd.Flags().StringVar(&bank, "bank", "", "issuing bank")
	cmd.Flags().StringVar(&last4, "last4", "", "last four digits")
	cmd.Flags().StringVar(&limitStr, "limit", "", "credit limit")
	cmd.Flags().IntVar(&cutoffDay, "cutoff-day", 0, "statement cutoff day of month, 1-31")
	cmd.Flags().IntVar(&paymentDay, "payment-day", 0, "payment due day of month, 1-31")
	cmd.Flags().StringVar(&cashback, "cashback", "", "cashback percentage; empty or 0 disables")

	return cmd
}

func deleteCardCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <card>",
		Short: "Delete a card and its whole ledger",
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

			if !force {
				fmt.Printf("Delete card %q and its %d transactions? [y/N] ", card.Alias, len(card.Transactions))
				var answer string
				_, _ = fmt.Scanln(&answer)
				if !strings.EqualFold(answer, "y") {
					fmt.Println(cli.InfoStyle.Render("Aborted."))
					return nil
				}
			}

			if err := store.DeleteCard(ctx, card.ID); err != nil {
				return fmt.Errorf("failed to delete card: %w", err)
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted card %q", card.Alias)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

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

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage card transactions",
		Long:  `Record expenses and payments on a card's ledger, and list or delete them.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		txType      string
		amountStr   string
		description string
		dateStr     string
	)

	cmd := &cobra.Command{
		Use:   "add <card>",
		Short: "Record an expense or payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseMoney(amountStr, "amount")
			if err != nil {
				return err
			}
			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}

			var tx model.Transaction
			switch txType {
			case "expense":
				tx = model.NewExpense(date, description, amount)
			case "payment":
				tx = model.NewPayment(date, description, amount)
			default:
				return fmt.Errorf("invalid --type %q: must be expense or payment", txType)
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

			updated, err := ledger.AddTransaction(*card, tx)
			if err != nil {
				return err
			}
			if err := store.SaveCard(ctx, &updated); err != nil {
				return fmt.Errorf("failed to save card: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Recorded %s of %s on %q", txType, money(amount), card.Alias)))
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "expense", "transaction type (expense, payment)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&description, "description", "", "what the transaction was for")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date, YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listTxCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list <card>",
		Short: "List a card's transactions, newest first",
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

			if len(card.Transactions) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions on this card."))
				return nil
			}

			// Ledger is stored in insertion order; show newest first.
			txs := make([]model.Transaction, len(card.Transactions))
			copy(txs, card.Transactions)
			for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
				txs[i], txs[j] = txs[j], txs[i]
			}
			if limit > 0 && len(txs) > limit {
				txs = txs[:limit]
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Description"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("ID"))

			for _, tx := range txs {
				amount := tx.Amount
				if tx.Type == model.TypeInstallmentPurchase {
					amount = tx.TotalAmount
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					tx.Date.Format(model.DateLayout),
					tx.Type,
					tx.Description,
					money(amount),
					cli.SubtleStyle.Render(tx.ID))
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most N transactions (0 = all)")
	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card> <transaction-id>",
		Short: "Delete a transaction",
		Long: `Delete a transaction from a card's ledger. Deleting an installment
payment rolls back the parent plan's progress; deleting an installment
purchase removes the plan and every payment made against it.`,
		Args: cobra.ExactArgs(2),
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

			updated, err := ledger.DeleteTransaction(*card, args[1])
			if err != nil {
				return err
			}
			if err := store.SaveCard(ctx, &updated); err != nil {
				return fmt.Errorf("failed to save card: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Transaction deleted."))
			return nil
		},
	}
}

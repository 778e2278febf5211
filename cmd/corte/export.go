package main

import (
	"fmt"
	"os"

	"github.com/lunario/corte/internal/bundle"
	"github.com/lunario/corte/internal/cli"
	"github.com/lunario/corte/internal/ledger"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data as a JSON backup",
		Long:  `Write every card, the budget and the active theme as one JSON bundle.`,
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
			budget, err := store.GetBudget(ctx)
			if err != nil {
				return fmt.Errorf("failed to load budget: %w", err)
			}
			theme := activeTheme(ctx, store, bundle.FallbackTheme)

			data, err := bundle.Export(cards, budget, theme)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Exported %d cards to %s", len(cards), output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data from a JSON backup",
		Long: `Import a backup produced by 'corte export'. Bare card arrays written
by old versions are accepted too. The import replaces everything: current
cards, budget and theme are overwritten in a single transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}

			b, err := bundle.Decode(data)
			if err != nil {
				return err
			}
			// Reject the whole file on the first bad card so a typo can
			// never wipe good data.
			for i := range b.Cards {
				if err := ledger.ValidateCard(&b.Cards[i]); err != nil {
					return fmt.Errorf("card %d (%s): %w", i, b.Cards[i].Alias, err)
				}
			}

			if !force {
				fmt.Printf("Replace ALL existing data with %d cards from %s? [y/N] ", len(b.Cards), args[0])
				var answer string
				_, _ = fmt.Scanln(&answer)
				if answer != "y" && answer != "Y" {
					fmt.Println(cli.InfoStyle.Render("Aborted."))
					return nil
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ReplaceAll(ctx, b.Cards, b.Budget, b.Theme); err != nil {
				return fmt.Errorf("failed to import backup: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"Imported %d cards (bundle version %d).", len(b.Cards), b.Version)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

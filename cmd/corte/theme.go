package main

import (
	"fmt"

	"github.com/lunario/corte/internal/bundle"
	"github.com/lunario/corte/internal/cli"
	"github.com/lunario/corte/internal/service"
	"github.com/spf13/cobra"
)

func themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Show or set the UI theme",
		Long:  `The theme travels with exports so a restored backup looks the same.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 {
				fmt.Println(activeTheme(ctx, store, bundle.FallbackTheme))
				return nil
			}

			theme := args[0]
			if theme != "light" && theme != "dark" {
				return fmt.Errorf("invalid theme %q: must be light or dark", theme)
			}
			if err := store.SetSetting(ctx, service.SettingTheme, theme); err != nil {
				return fmt.Errorf("failed to save theme: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Theme set to %s.", theme)))
			return nil
		},
	}

	return cmd
}

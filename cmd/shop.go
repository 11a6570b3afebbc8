// ABOUTME: shop command for the shopfront CLI
// ABOUTME: Starts the interactive terminal storefront

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/markalston/shopfront/internal/cart"
	"github.com/markalston/shopfront/internal/logger"
	"github.com/markalston/shopfront/internal/tui"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Open the interactive storefront",
	Long: `Open the interactive storefront.

The stored session is restored on start; without one the sign-in form is
shown. Logs go to debug.log in the store directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShop(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(shopCmd)
}

func runShop(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.InitFile(cfg.StorePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logger.Close()

	a, err := newApp(ctx, log)
	if err != nil {
		return err
	}
	defer a.Close()

	a.theme.Load(ctx)

	return tui.Run(tui.Deps{
		Auth:    a.auth,
		Catalog: a.catalog,
		Theme:   a.theme,
		Cart:    cart.New(),
	})
}

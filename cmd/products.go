// ABOUTME: products command for the shopfront CLI
// ABOUTME: Lists a catalog page, or every page, with search and category filters

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/state"
)

var (
	productsPage     int
	productsAll      bool
	productsSearch   string
	productsCategory string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List catalog products",
	Long: `List catalog products.

By default the first page is shown. --all keeps loading pages until the
server returns a short page.

Exit codes:
  0 - Products listed
  1 - The catalog request failed
  2 - Error (configuration, invalid input)`,
	PreRun: initCLILogging,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProducts(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.Flags().IntVar(&productsPage, "page", 1, "Page to fetch")
	productsCmd.Flags().BoolVar(&productsAll, "all", false, "Fetch every page")
	productsCmd.Flags().StringVar(&productsSearch, "search", "", "Only show products whose title contains this text")
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "Only show products in this category")
}

// productsOutput is the JSON shape of the products command
type productsOutput struct {
	Page       int              `json:"page"`
	HasMore    bool             `json:"hasMore"`
	Categories []string         `json:"categories"`
	Products   []client.Product `json:"products"`
}

// runProducts fetches products and returns exit code
func runProducts(ctx context.Context, w io.Writer) int {
	if productsPage < 1 {
		fmt.Fprintf(w, "Error: --page must be at least 1, got %d\n", productsPage)
		return exitSetup
	}
	if productsAll && productsPage != 1 {
		fmt.Fprintln(w, "Error: --all and --page cannot be combined")
		return exitSetup
	}

	a, err := newApp(ctx, nil)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitSetup
	}
	defer a.Close()

	a.auth.InitializeSession(ctx)

	st := fetchCatalog(ctx, a.catalog)
	if st.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", st.Error)
		return exitRejected
	}

	fetched := st
	if productsCategory != "" {
		a.catalog.SetSelectedCategory(productsCategory)
	}
	if productsSearch != "" {
		a.catalog.SetSearchQuery(productsSearch)
	}
	st = a.catalog.State()
	// Filters rewind the pagination cursor; report where fetching stopped
	st.Page, st.HasMore = fetched.Page, fetched.HasMore

	if IsJSONOutput() {
		fmt.Fprintln(w, formatProductsJSON(st))
	} else {
		fmt.Fprint(w, formatProductsHuman(st))
	}
	return exitOK
}

// fetchCatalog loads the requested page, or every page when --all is set
func fetchCatalog(ctx context.Context, c *state.Catalog) state.CatalogState {
	if productsPage > 1 {
		return c.FetchNextPage(ctx, productsPage)
	}

	st := c.FetchFirstPage(ctx)
	if !productsAll {
		return st
	}
	for st.Error == "" && st.HasMore {
		if ctx.Err() != nil {
			break
		}
		var issued bool
		st, issued = c.LoadMore(ctx)
		if !issued {
			break
		}
	}
	return st
}

// formatProductsHuman renders the filtered products as a table
func formatProductsHuman(st state.CatalogState) string {
	products := st.EffectiveProducts()

	var sb strings.Builder
	if len(products) == 0 {
		sb.WriteString("No products match.\n")
	} else {
		tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE\tFLAGS")
		for _, p := range products {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Category, formatProductPrice(p), productFlags(p))
		}
		tw.Flush()
	}

	more := ""
	if st.HasMore {
		more = ", more available"
	}
	fmt.Fprintf(&sb, "\n%d of %d products, page %d%s\n", len(products), len(st.Items), st.Page, more)
	if len(st.Categories) > 0 {
		fmt.Fprintf(&sb, "Categories: %s\n", strings.Join(st.Categories, ", "))
	}
	return sb.String()
}

// formatProductsJSON formats the filtered products as JSON
func formatProductsJSON(st state.CatalogState) string {
	products := st.EffectiveProducts()
	if products == nil {
		products = []client.Product{}
	}
	categories := st.Categories
	if categories == nil {
		categories = []string{}
	}
	data, _ := json.MarshalIndent(productsOutput{
		Page:       st.Page,
		HasMore:    st.HasMore,
		Categories: categories,
		Products:   products,
	}, "", "  ")
	return string(data)
}

// formatProductPrice shows the discounted price next to the list price
func formatProductPrice(p client.Product) string {
	if p.DiscountPercent() > 0 {
		return fmt.Sprintf("$%.2f (was $%.2f)", p.DiscountedPrice(), p.Price)
	}
	return fmt.Sprintf("$%.2f", p.Price)
}

func productFlags(p client.Product) string {
	var flags []string
	if p.IsPopular() {
		flags = append(flags, "popular")
	}
	if p.IsOnSale() {
		flags = append(flags, "sale")
	}
	if d := p.DiscountPercent(); d > 0 {
		flags = append(flags, fmt.Sprintf("-%.0f%%", d))
	}
	return strings.Join(flags, ",")
}

// ABOUTME: Root command for the shopfront CLI
// ABOUTME: Handles global flags, configuration and shared wiring

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/config"
	"github.com/markalston/shopfront/internal/kvstore"
	"github.com/markalston/shopfront/internal/logger"
	"github.com/markalston/shopfront/internal/state"
	"github.com/markalston/shopfront/internal/theme"
)

var (
	apiURL     string
	authURL    string
	jsonOutput bool
	ephemeral  bool
)

// darkBackground reports the terminal background when no theme is stored
var darkBackground = lipgloss.HasDarkBackground

// Exit codes
const (
	exitOK       = 0
	exitRejected = 1
	exitSetup    = 2
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "shopfront",
	Short: "Terminal client for the shopfront catalog",
	Long: `shopfront signs in to the shop, browses the product catalog and keeps
your session between runs.

Run "shopfront shop" for the interactive interface.

Environment Variables:
  SHOPFRONT_API_URL          Catalog API URL (default: http://localhost:8080)
  SHOPFRONT_AUTH_URL         Auth API URL (default: https://reqres.in/api)
  SHOPFRONT_HTTP_TIMEOUT     Request timeout (default: 30s)
  SHOPFRONT_RATE_LIMIT       Requests per second, 0 = unlimited (default: 0)
  SHOPFRONT_PAGE_CACHE_TTL   How long fetched pages are reused (default: 30s)
  SHOPFRONT_STORE            Session store: file, sqlite, redis, memory (default: file)
  SHOPFRONT_STORE_PATH       Directory for file and sqlite stores
  SHOPFRONT_REDIS_URL        Redis URL when SHOPFRONT_STORE=redis
  SHOPFRONT_DEDUPE_PRODUCTS  Drop products whose id is already listed (default: false)
  LOG_LEVEL                  debug, info, warn, error (default: info)
  LOG_FORMAT                 text, json (default: text)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Catalog API URL (overrides SHOPFRONT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&authURL, "auth-url", "", "Auth API URL (overrides SHOPFRONT_AUTH_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the session in memory only for this run")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the environment and applies the URL flags on top
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.OverrideURLs(apiURL, authURL)
	if ephemeral {
		cfg.Store = config.StoreMemory
	}
	return cfg, nil
}

// app bundles everything a command needs
type app struct {
	cfg     *config.Config
	client  *client.Client
	kv      kvstore.Store
	auth    *state.Auth
	catalog *state.Catalog
	theme   *theme.Manager
	logger  *slog.Logger
}

// newApp loads configuration and wires the client, store and managers
func newApp(ctx context.Context, log *slog.Logger) (*app, error) {
	if log == nil {
		log = slog.Default()
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	kv, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store, err)
	}

	c := client.New(cfg.APIURL,
		client.WithAuthURL(cfg.AuthURL),
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithRateLimit(cfg.RateLimit),
		client.WithPageCacheTTL(cfg.PageCacheTTL),
	)

	log.Debug("Configuration loaded",
		"api_url", cfg.APIURL,
		"auth_url", cfg.AuthURL,
		"store", cfg.Store,
		"store_path", cfg.StorePath)

	return &app{
		cfg:    cfg,
		client: c,
		kv:     kv,
		auth:   state.NewAuth(c, kv, log),
		catalog: state.NewCatalog(c,
			state.WithDedupeByID(cfg.DedupeProducts),
			state.WithCatalogLogger(log)),
		theme:  theme.New(kv, theme.WithLogger(log), theme.WithBackgroundDetector(darkBackground)),
		logger: log,
	}, nil
}

// Close releases the store and the page cache
func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("Failed to close store", "error", err)
	}
	a.client.Close()
}

// initCLILogging sends structured logs to stderr so stdout stays parseable
func initCLILogging(cmd *cobra.Command, args []string) {
	logger.Init(os.Stderr)
}

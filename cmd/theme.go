// ABOUTME: theme command for the shopfront CLI
// ABOUTME: Shows, toggles or sets the stored light/dark preference

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/shopfront/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:    "theme",
	Short:  "Show the colour theme",
	PreRun: initCLILogging,
	Run: func(cmd *cobra.Command, args []string) {
		runThemeCommand(func(ctx context.Context, m *theme.Manager) (theme.Mode, error) {
			return m.Mode(), nil
		})
	},
}

var themeToggleCmd = &cobra.Command{
	Use:    "toggle",
	Short:  "Switch between light and dark",
	PreRun: initCLILogging,
	Run: func(cmd *cobra.Command, args []string) {
		runThemeCommand(func(ctx context.Context, m *theme.Manager) (theme.Mode, error) {
			return m.Toggle(ctx), nil
		})
	},
}

var themeSetCmd = &cobra.Command{
	Use:    "set <light|dark>",
	Short:  "Set the theme",
	Args:   cobra.ExactArgs(1),
	PreRun: initCLILogging,
	Run: func(cmd *cobra.Command, args []string) {
		runThemeCommand(func(ctx context.Context, m *theme.Manager) (theme.Mode, error) {
			mode, err := theme.ParseMode(args[0])
			if err != nil {
				return "", err
			}
			return m.Set(ctx, mode), nil
		})
	},
}

func init() {
	themeCmd.AddCommand(themeToggleCmd, themeSetCmd)
	rootCmd.AddCommand(themeCmd)
}

func runThemeCommand(action func(context.Context, *theme.Manager) (theme.Mode, error)) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exitCode := runTheme(ctx, os.Stdout, action)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// runTheme loads the stored theme, applies action and returns exit code
func runTheme(ctx context.Context, w io.Writer, action func(context.Context, *theme.Manager) (theme.Mode, error)) int {
	a, err := newApp(ctx, nil)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitSetup
	}
	defer a.Close()

	a.theme.Load(ctx)
	mode, err := action(ctx, a.theme)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitSetup
	}

	if IsJSONOutput() {
		data, _ := json.Marshal(map[string]string{"theme": string(mode)})
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Theme: %s\n", mode)
	}
	return exitOK
}

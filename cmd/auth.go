// ABOUTME: login, register, logout and session commands
// ABOUTME: Drive the auth manager and persist the session between runs

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

	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/state"
)

var (
	email    string
	password string
)

var loginCmd = &cobra.Command{
	Use:    "login",
	Short:  "Sign in and remember the session",
	Long:   `Sign in with email and password. The token is stored and reused by later commands.`,
	PreRun: initCLILogging,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAuthenticate(ctx, os.Stdout, state.OpLogin)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var registerCmd = &cobra.Command{
	Use:    "register",
	Short:  "Create an account and sign in",
	PreRun: initCLILogging,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAuthenticate(ctx, os.Stdout, state.OpRegister)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:    "logout",
	Short:  "Forget the stored session",
	PreRun: initCLILogging,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var sessionCmd = &cobra.Command{
	Use:    "session",
	Short:  "Show the stored session",
	Long:   `Show whether a session is stored. Exits 1 when signed out, which makes it usable in scripts.`,
	PreRun: initCLILogging,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSession(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&email, "email", "", "Account email")
		c.Flags().StringVar(&password, "password", "", "Account password (default: $SHOPFRONT_PASSWORD)")
		c.MarkFlagRequired("email")
	}
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, sessionCmd)
}

// sessionOutput is the JSON shape of login, register and session output
type sessionOutput struct {
	LoggedIn bool   `json:"logged_in"`
	UserID   string `json:"user_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// runAuthenticate signs in or registers and returns exit code
func runAuthenticate(ctx context.Context, w io.Writer, op state.AuthOp) int {
	pw := password
	if pw == "" {
		pw = os.Getenv("SHOPFRONT_PASSWORD")
	}
	if email == "" || pw == "" {
		fmt.Fprintln(w, "Error: --email and --password (or SHOPFRONT_PASSWORD) are required")
		return exitSetup
	}

	a, err := newApp(ctx, nil)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitSetup
	}
	defer a.Close()

	creds := client.Credentials{Email: email, Password: pw}
	var st state.AuthState
	if op == state.OpRegister {
		st = a.auth.Register(ctx, creds)
	} else {
		st = a.auth.Login(ctx, creds)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(st))
	} else {
		fmt.Fprintln(w, formatAuthHuman(st, op))
	}

	if st.Phase == state.Rejected {
		return exitRejected
	}
	return exitOK
}

// runLogout clears the stored session; it always succeeds once wired
func runLogout(ctx context.Context, w io.Writer) int {
	a, err := newApp(ctx, nil)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitSetup
	}
	defer a.Close()

	st := a.auth.Logout(ctx)
	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(st))
	} else {
		fmt.Fprintln(w, "Logged out")
	}
	return exitOK
}

// runSession prints the stored session and returns 1 when signed out
func runSession(ctx context.Context, w io.Writer) int {
	a, err := newApp(ctx, nil)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitSetup
	}
	defer a.Close()

	a.auth.InitializeSession(ctx)
	st := a.auth.State()

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(st))
	} else {
		fmt.Fprintln(w, formatSessionHuman(st))
	}

	if !st.Authenticated() {
		return exitRejected
	}
	return exitOK
}

// formatAuthHuman formats a login or registration outcome
func formatAuthHuman(st state.AuthState, op state.AuthOp) string {
	if st.Phase == state.Rejected {
		return "Error: " + st.Error
	}
	verb := "Logged in"
	if op == state.OpRegister {
		verb = "Registered and logged in"
	}
	if st.UserID != "" {
		return fmt.Sprintf("%s as user %s", verb, st.UserID)
	}
	return verb
}

// formatSessionHuman formats the stored session
func formatSessionHuman(st state.AuthState) string {
	if !st.Authenticated() {
		return "Not logged in"
	}
	userID := st.UserID
	if userID == "" {
		userID = "unknown"
	}
	return fmt.Sprintf("Logged in\nUser ID: %s\nToken:   %s", userID, maskToken(st.Token))
}

// formatSessionJSON formats an auth snapshot as JSON; the token is never printed
func formatSessionJSON(st state.AuthState) string {
	data, _ := json.MarshalIndent(sessionOutput{
		LoggedIn: st.Authenticated(),
		UserID:   st.UserID,
		Error:    st.Error,
	}, "", "  ")
	return string(data)
}

// maskToken keeps the first and last four characters of long tokens
func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// Package cli provides the wppmanager command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matheus3301/wppmanager/internal/authstore"
	"github.com/matheus3301/wppmanager/internal/backend"
	"github.com/matheus3301/wppmanager/internal/config"
	"github.com/matheus3301/wppmanager/internal/logging"
	"github.com/matheus3301/wppmanager/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	// Global flags
	profileFlag string
	jsonOut     bool

	// Set up by PersistentPreRunE for every command.
	profile string
	cfg     *config.Config
	store   authstore.Store
	api     *backend.Client
	log     = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "wppmanager",
	Short: "Manage WhatsApp gateway instances and read their conversations",
	Long: `wppmanager talks to the wppmanager backend: it manages gateway instances,
sub-users and subscriptions, and browses conversations read-only.

Run without a subcommand to open the dashboard.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := setup(); err != nil {
			return err
		}
		if needsLogin(cmd) {
			_, err := requireLogin()
			return err
		}
		return nil
	},
	RunE: runTUI,
}

func setup() error {
	profile = session.Resolve(profileFlag)
	if err := session.ValidateName(profile); err != nil {
		return err
	}
	if err := session.EnsureDir(profile); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	var err error
	cfg, err = config.Resolve(session.ConfigPath(), session.DotEnvPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err = logging.NewFileOnly(session.ClientLogPath(profile), profile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	store, err = authstore.Open(session.AuthDBPath(profile))
	if err != nil {
		return fmt.Errorf("open credentials: %w", err)
	}

	api = backend.New(cfg.BackendURL,
		backend.WithToken(authstore.TokenSource(store)),
		backend.WithLogger(log),
		backend.WithTimeout(cfg.RequestTimeout.Duration),
	)
	return nil
}

const annotationAuth = "auth"

// needsLogin reports whether cmd or one of its parents requires credentials.
func needsLogin(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationAuth] == "none" {
			return false
		}
	}
	return true
}

// Execute runs the root command and tears down what setup opened.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if errors.Is(err, backend.ErrUnauthorized) && store != nil {
		// The backend rejected the stored token.
		_ = store.Clear()
		err = fmt.Errorf("%w: run 'wppmanager login' again", err)
	}
	if store != nil {
		if closeErr := store.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: close credentials: %v\n", closeErr)
		}
	}
	_ = log.Sync()
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "profile name (overrides config default)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(instancesCmd)
	rootCmd.AddCommand(chatsCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(subUsersCmd)
	rootCmd.AddCommand(subscriptionCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(billingCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(tuiCmd)
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/matheus3301/wppmanager/internal/authstore"
	"github.com/matheus3301/wppmanager/internal/backend"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	authEmail    string
	authName     string
	authPassword string
)

var loginCmd = &cobra.Command{
	Annotations: map[string]string{annotationAuth: "none"},
	Use:   "login",
	Short: "Sign in and store the access token",
	Example: `  wppmanager login --email me@example.com
  WPPMANAGER_PASSWORD=... wppmanager login --email me@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := credentialsInput(false)
		if err != nil {
			return err
		}
		resp, err := api.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		return saveSession(resp)
	},
}

var registerCmd = &cobra.Command{
	Annotations: map[string]string{annotationAuth: "none"},
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := credentialsInput(true)
		if err != nil {
			return err
		}
		resp, err := api.Register(cmd.Context(), email, authName, password)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		return saveSession(resp)
	},
}

var logoutCmd = &cobra.Command{
	Annotations: map[string]string{annotationAuth: "none"},
	Use:   "logout",
	Short: "Forget the stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account and its subscription",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := requireLogin()
		if err != nil {
			return err
		}
		sub, err := api.MySubscription(cmd.Context())
		if err != nil {
			if errors.Is(err, backend.ErrUnauthorized) {
				return err
			}
			log.Warn("subscription lookup failed", zap.Error(err))
			sub = nil
		}

		if jsonOut {
			return outputJSON(struct {
				User         backend.User          `json:"user"`
				Subscription *backend.Subscription `json:"subscription"`
			}{creds.User, sub})
		}

		u := creds.User
		fmt.Fprintf(stdout, "Profile: %s\n", profile)
		fmt.Fprintf(stdout, "Name:    %s\n", orDash(u.Name))
		fmt.Fprintf(stdout, "Email:   %s\n", orDash(u.Email))
		fmt.Fprintf(stdout, "Role:    %s\n", orDash(u.Role))
		if u.IsSubUser() {
			fmt.Fprintln(stdout, "Account: sub-user")
		}
		if sub != nil {
			fmt.Fprintf(stdout, "Plan:    %s (%s, premium=%v)\n", sub.Tier, sub.Status, sub.IsPremium)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email")
		c.Flags().StringVar(&authPassword, "password", "", "account password (prompted when omitted)")
	}
	registerCmd.Flags().StringVar(&authName, "name", "", "display name")
}

// credentialsInput collects email and password from flags, the
// WPPMANAGER_PASSWORD variable, or an interactive prompt.
func credentialsInput(confirm bool) (string, string, error) {
	email := strings.TrimSpace(authEmail)
	if email == "" {
		line, err := promptLine("Email: ")
		if err != nil {
			return "", "", err
		}
		email = line
	}
	if email == "" {
		return "", "", errors.New("email is required")
	}

	password := authPassword
	if password == "" {
		password = os.Getenv("WPPMANAGER_PASSWORD")
	}
	if password == "" {
		var err error
		if password, err = promptPassword("Password: "); err != nil {
			return "", "", err
		}
		if confirm {
			again, err := promptPassword("Confirm password: ")
			if err != nil {
				return "", "", err
			}
			if again != password {
				return "", "", errors.New("passwords do not match")
			}
		}
	}
	if password == "" {
		return "", "", errors.New("password is required")
	}
	return email, password, nil
}

func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(label)
	}
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func saveSession(resp *backend.AuthResponse) error {
	creds := &authstore.Credentials{Token: resp.AccessToken, User: resp.User}
	if err := authstore.SaveCredentials(store, creds); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}
	log.Info("signed in")
	fmt.Fprintf(stdout, "Signed in as %s.\n", orDash(resp.User.Email))
	return nil
}

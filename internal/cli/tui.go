package cli

import (
	"errors"

	"github.com/matheus3301/wppmanager/internal/backend"
	"github.com/matheus3301/wppmanager/internal/bus"
	"github.com/matheus3301/wppmanager/internal/tui"
	"github.com/matheus3301/wppmanager/internal/tui/client"
	"github.com/matheus3301/wppmanager/internal/tui/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the dashboard",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	creds, err := requireLogin()
	if err != nil {
		return err
	}

	account := ui.AccountData{
		Profile: profile,
		Name:    creds.User.Name,
		Email:   creds.User.Email,
		Backend: cfg.BackendURL,
	}
	sub, err := api.MySubscription(cmd.Context())
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		return err
	case err != nil:
		log.Warn("subscription lookup failed", zap.Error(err))
	default:
		account.Tier = string(sub.Tier)
	}

	app := tui.NewApp(tui.Options{
		Account:  account,
		Client:   client.New(api),
		Bus:      bus.New(),
		Logger:   log.Named("tui"),
		OnLogout: store.Clear,
	})
	log.Info("dashboard started")
	return app.Run()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/wppmanager/internal/backend"
	"github.com/matheus3301/wppmanager/internal/session"
	"github.com/matheus3301/wppmanager/internal/tui/ui"
	"github.com/spf13/cobra"
)

var (
	connectWait    time.Duration
	deleteConfirm  bool
	promptSet      string
	promptFromFile string
)

var instancesCmd = &cobra.Command{
	Use:     "instances",
	Aliases: []string{"instance", "i"},
	Short:   "Manage gateway instances",
	RunE:    runInstancesList,
}

var instancesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List instances with their connection state",
	RunE:  runInstancesList,
}

var instancesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an instance and show its pairing code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := instanceArg(args)
		if err != nil {
			return err
		}
		resp, err := api.CreateInstance(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("create instance: %w", err)
		}
		if jsonOut {
			return outputJSON(resp)
		}
		fmt.Fprintf(stdout, "Instance %s created.\n", name)
		if resp.QRCode != nil {
			if err := printPairing(resp.QRCode); err != nil {
				return err
			}
			return waitConnected(cmd.Context(), name)
		}
		return nil
	},
}

var instancesConnectCmd = &cobra.Command{
	Use:   "connect <name>",
	Short: "Show a fresh pairing QR for an instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := instanceArg(args)
		if err != nil {
			return err
		}
		qr, err := api.ConnectInstance(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("connect instance: %w", err)
		}
		if jsonOut {
			return outputJSON(qr)
		}
		if err := printPairing(qr); err != nil {
			return err
		}
		return waitConnected(cmd.Context(), name)
	},
}

var instancesStateCmd = &cobra.Command{
	Use:   "state <name>...",
	Short: "Show the connection state of instances",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		states := api.PollStates(cmd.Context(), args)
		if jsonOut {
			return outputJSON(states)
		}
		rows := make([][]string, 0, len(args))
		for _, name := range args {
			rows = append(rows, []string{name, string(states[name])})
		}
		return table([]string{"NAME", "STATE"}, rows)
	},
}

var instancesWebhookCmd = &cobra.Command{
	Use:   "webhook <name>",
	Short: "Point the instance webhook at the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := instanceArg(args)
		if err != nil {
			return err
		}
		if err := api.ConfigureWebhook(cmd.Context(), name); err != nil {
			return fmt.Errorf("configure webhook: %w", err)
		}
		fmt.Fprintf(stdout, "Webhook configured for %s.\n", name)
		return nil
	},
}

var instancesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := instanceArg(args)
		if err != nil {
			return err
		}
		if !deleteConfirm {
			return fmt.Errorf("refusing to delete %s without --yes", name)
		}
		if err := api.DeleteInstance(cmd.Context(), name); err != nil {
			return fmt.Errorf("delete instance: %w", err)
		}
		fmt.Fprintf(stdout, "Instance %s deleted.\n", name)
		return nil
	},
}

var instancesPromptCmd = &cobra.Command{
	Use:   "prompt <name>",
	Short: "Show or replace the bot prompt of an instance",
	Example: `  wppmanager instances prompt sales
  wppmanager instances prompt sales --set "You are a helpful assistant."
  wppmanager instances prompt sales --file prompt.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := instanceArg(args)
		if err != nil {
			return err
		}

		text := promptSet
		if promptFromFile != "" {
			b, err := os.ReadFile(promptFromFile)
			if err != nil {
				return err
			}
			text = string(b)
		}
		if text != "" {
			if err := api.UpdatePrompt(cmd.Context(), name, text); err != nil {
				return fmt.Errorf("update prompt: %w", err)
			}
			fmt.Fprintf(stdout, "Prompt updated for %s.\n", name)
			return nil
		}

		prompt, err := api.Prompt(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("get prompt: %w", err)
		}
		if jsonOut {
			return outputJSON(map[string]string{"prompt": prompt})
		}
		fmt.Fprintln(stdout, prompt)
		return nil
	},
}

var instancesExamplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List ready-made bot prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		prompts, err := api.ExamplePrompts(cmd.Context())
		if err != nil {
			return fmt.Errorf("example prompts: %w", err)
		}
		if jsonOut {
			return outputJSON(prompts)
		}
		for _, p := range prompts {
			fmt.Fprintf(stdout, "# %s (%s)\n%s\n\n", p.Name, p.ID, p.Prompt)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{instancesCreateCmd, instancesConnectCmd} {
		c.Flags().DurationVar(&connectWait, "wait", 0, "wait up to this long for the instance to connect")
	}
	instancesDeleteCmd.Flags().BoolVarP(&deleteConfirm, "yes", "y", false, "confirm deletion")
	instancesPromptCmd.Flags().StringVar(&promptSet, "set", "", "replace the prompt with this text")
	instancesPromptCmd.Flags().StringVar(&promptFromFile, "file", "", "replace the prompt with the file contents")

	instancesCmd.AddCommand(instancesListCmd)
	instancesCmd.AddCommand(instancesCreateCmd)
	instancesCmd.AddCommand(instancesConnectCmd)
	instancesCmd.AddCommand(instancesStateCmd)
	instancesCmd.AddCommand(instancesWebhookCmd)
	instancesCmd.AddCommand(instancesDeleteCmd)
	instancesCmd.AddCommand(instancesPromptCmd)
	instancesCmd.AddCommand(instancesExamplesCmd)
}

func runInstancesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	instances, err := api.Instances(ctx)
	if err != nil {
		return fmt.Errorf("list instances: %w", err)
	}

	names := make([]string, len(instances))
	for i, inst := range instances {
		names[i] = inst.Name
	}
	states := api.PollStates(ctx, names)

	if jsonOut {
		type row struct {
			backend.Instance
			State backend.ConnectionState `json:"state"`
		}
		out := make([]row, len(instances))
		for i, inst := range instances {
			out[i] = row{inst, states[inst.Name]}
		}
		return outputJSON(out)
	}
	if len(instances) == 0 {
		fmt.Fprintln(stdout, "No instances. Create one with 'wppmanager instances create <name>'.")
		return nil
	}
	rows := make([][]string, 0, len(instances))
	for _, inst := range instances {
		rows = append(rows, []string{inst.Name, orDash(inst.Number), string(states[inst.Name]), orDash(inst.CreatedAt)})
	}
	return table([]string{"NAME", "NUMBER", "STATE", "CREATED"}, rows)
}

func instanceArg(args []string) (string, error) {
	if err := session.ValidateInstanceName(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

func printPairing(qr *backend.QRCode) error {
	switch {
	case qr.Code != "":
		art, err := ui.RenderQR(qr.Code, "  ")
		if err != nil {
			return fmt.Errorf("render QR: %w", err)
		}
		fmt.Fprintln(stdout, "Scan with WhatsApp > Linked devices:")
		fmt.Fprintln(stdout, art)
	case qr.Base64 != "":
		fmt.Fprintln(stdout, "The gateway returned only an image; use --json to get the base64 PNG.")
	default:
		fmt.Fprintln(stdout, "No pairing code returned; the instance may already be connected.")
	}
	if qr.PairingCode != "" {
		fmt.Fprintf(stdout, "Pairing code: %s\n", qr.PairingCode)
	}
	return nil
}

// waitConnected polls the instance state until it is open or --wait elapses.
func waitConnected(ctx context.Context, name string) error {
	if connectWait <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, connectWait)
	defer cancel()

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("instance %s did not connect within %s", name, connectWait)
			}
			return ctx.Err()
		case <-ticker.C:
			if api.PollStates(ctx, []string{name})[name] == backend.StateOpen {
				fmt.Fprintf(stdout, "Instance %s connected.\n", name)
				return nil
			}
		}
	}
}

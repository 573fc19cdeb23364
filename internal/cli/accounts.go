package cli

import (
	"fmt"
	"time"

	"github.com/matheus3301/wppmanager/internal/backend"
	"github.com/spf13/cobra"
)

var (
	subUserEmail    string
	subUserName     string
	subUserPassword string
	adminExpires    string
)

var subUsersCmd = &cobra.Command{
	Use:     "subusers",
	Aliases: []string{"sub-users"},
	Short:   "Manage delegated sub-user accounts",
	RunE:    runSubUsersList,
}

var subUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sub-users",
	RunE:  runSubUsersList,
}

var subUsersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a sub-user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if subUserEmail == "" || subUserPassword == "" {
			return fmt.Errorf("--email and --password are required")
		}
		su, err := api.CreateSubUser(cmd.Context(), backend.CreateSubUserRequest{
			Email:    subUserEmail,
			Name:     subUserName,
			Password: subUserPassword,
		})
		if err != nil {
			return fmt.Errorf("create sub-user: %w", err)
		}
		if jsonOut {
			return outputJSON(su)
		}
		fmt.Fprintf(stdout, "Sub-user %s created (%s).\n", su.Email, su.ID)
		return nil
	},
}

var subUsersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a sub-user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeleteSubUser(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete sub-user: %w", err)
		}
		fmt.Fprintf(stdout, "Sub-user %s deleted.\n", args[0])
		return nil
	},
}

var subUsersInstancesCmd = &cobra.Command{
	Use:   "instances",
	Short: "List the instances that can be granted to sub-users",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := api.ParentInstances(cmd.Context())
		if err != nil {
			return fmt.Errorf("list instances: %w", err)
		}
		if jsonOut {
			return outputJSON(list)
		}
		rows := make([][]string, 0, len(list))
		for _, in := range list {
			rows = append(rows, []string{in.ID, in.Name})
		}
		return table([]string{"ID", "NAME"}, rows)
	},
}

var subUsersPermissionsCmd = &cobra.Command{
	Use:   "permissions <id> [instance-id...]",
	Short: "Show a sub-user's instance grants, or replace them",
	Example: `  wppmanager subusers permissions 42
  wppmanager subusers permissions 42 inst-1 inst-2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id := args[0]
		if len(args) > 1 {
			if err := api.SetPermissions(ctx, id, args[1:]); err != nil {
				return fmt.Errorf("set permissions: %w", err)
			}
			fmt.Fprintf(stdout, "Granted %d instance(s) to %s.\n", len(args)-1, id)
			return nil
		}

		perms, err := api.Permissions(ctx, id)
		if err != nil {
			return fmt.Errorf("get permissions: %w", err)
		}
		if jsonOut {
			return outputJSON(perms)
		}
		rows := make([][]string, 0, len(perms))
		for _, p := range perms {
			name := "-"
			if p.InstanceName != nil {
				name = *p.InstanceName
			}
			rows = append(rows, []string{p.InstanceID, name})
		}
		return table([]string{"INSTANCE ID", "NAME"}, rows)
	},
}

var subscriptionCmd = &cobra.Command{
	Use:   "subscription",
	Short: "Show the current plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := api.MySubscription(cmd.Context())
		if err != nil {
			return fmt.Errorf("get subscription: %w", err)
		}
		if jsonOut {
			return outputJSON(sub)
		}
		printSubscription(sub)
		return nil
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administer users and subscriptions",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users with their subscriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := api.AdminUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		if jsonOut {
			return outputJSON(users)
		}
		rows := make([][]string, 0, len(users))
		for _, u := range users {
			tier, status, expires := "-", "-", "-"
			if u.Subscription != nil {
				tier, status = string(u.Subscription.Tier), string(u.Subscription.Status)
				if u.Subscription.ExpiresAt != nil {
					expires = *u.Subscription.ExpiresAt
				}
			}
			rows = append(rows, []string{u.ID, orDash(u.Email), orDash(u.Role), tier, status, expires})
		}
		return table([]string{"ID", "EMAIL", "ROLE", "TIER", "STATUS", "EXPIRES"}, rows)
	},
}

var adminSetTierCmd = &cobra.Command{
	Use:   "set-tier <user-id> <free|pro|enterprise>",
	Short: "Set a user's subscription tier",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, ok := backend.ParseTier(args[1])
		if !ok {
			return fmt.Errorf("unknown tier %q", args[1])
		}
		var expires *time.Time
		if adminExpires != "" {
			t, err := time.Parse("2006-01-02", adminExpires)
			if err != nil {
				return fmt.Errorf("--expires: %w", err)
			}
			expires = &t
		}
		if err := api.SetSubscription(cmd.Context(), args[0], tier, expires); err != nil {
			return fmt.Errorf("set subscription: %w", err)
		}
		fmt.Fprintf(stdout, "User %s is now on %s.\n", args[0], tier)
		return nil
	},
}

var adminCancelCmd = &cobra.Command{
	Use:   "cancel <user-id>",
	Short: "Cancel a user's subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.CancelSubscription(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("cancel subscription: %w", err)
		}
		fmt.Fprintf(stdout, "Subscription of %s cancelled.\n", args[0])
		return nil
	},
}

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Paid plan checkout",
}

var billingPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the paid plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := api.Plan(cmd.Context())
		if err != nil {
			return fmt.Errorf("get plan: %w", err)
		}
		if jsonOut {
			return outputJSON(plan)
		}
		fmt.Fprintf(stdout, "Plan:  %s\n", plan.PlanID)
		fmt.Fprintf(stdout, "Price: %s %s / %s\n", plan.Price, plan.Currency, plan.Interval)
		return nil
	},
}

var billingActivateCmd = &cobra.Command{
	Use:   "activate <subscription-id>",
	Short: "Activate an approved PayPal subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.ActivateSubscription(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("activate subscription: %w", err)
		}
		fmt.Fprintln(stdout, "Subscription activated.")
		return nil
	},
}

func init() {
	subUsersCreateCmd.Flags().StringVar(&subUserEmail, "email", "", "sub-user email")
	subUsersCreateCmd.Flags().StringVar(&subUserName, "name", "", "sub-user display name")
	subUsersCreateCmd.Flags().StringVar(&subUserPassword, "password", "", "initial password")
	subUsersCmd.AddCommand(subUsersListCmd, subUsersCreateCmd, subUsersDeleteCmd, subUsersInstancesCmd, subUsersPermissionsCmd)

	adminSetTierCmd.Flags().StringVar(&adminExpires, "expires", "", "expiry date (YYYY-MM-DD)")
	adminCmd.AddCommand(adminUsersCmd, adminSetTierCmd, adminCancelCmd)

	billingCmd.AddCommand(billingPlanCmd, billingActivateCmd)
}

func runSubUsersList(cmd *cobra.Command, args []string) error {
	list, err := api.SubUsers(cmd.Context())
	if err != nil {
		return fmt.Errorf("list sub-users: %w", err)
	}
	if jsonOut {
		return outputJSON(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(stdout, "No sub-users.")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, su := range list {
		rows = append(rows, []string{su.ID, su.Email, orDash(su.Name), fmt.Sprintf("%d", su.PermissionCount), orDash(su.CreatedAt)})
	}
	return table([]string{"ID", "EMAIL", "NAME", "INSTANCES", "CREATED"}, rows)
}

func printSubscription(sub *backend.Subscription) {
	fmt.Fprintf(stdout, "Tier:    %s\n", orDash(string(sub.Tier)))
	fmt.Fprintf(stdout, "Status:  %s\n", orDash(string(sub.Status)))
	fmt.Fprintf(stdout, "Premium: %v\n", sub.IsPremium)
	if sub.ExpiresAt != nil {
		fmt.Fprintf(stdout, "Expires: %s\n", *sub.ExpiresAt)
	}
}

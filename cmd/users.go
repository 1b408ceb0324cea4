package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teemow/jobagent/internal/domain"
	"github.com/teemow/jobagent/internal/store"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts and plans",
	}
	cmd.AddCommand(newUsersAddCmd())
	cmd.AddCommand(newUsersPlanCmd())
	return cmd
}

func newUsersAddCmd() *cobra.Command {
	var plan string

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			user, err := st.CreateUser(cmd.Context(), args[0], domain.Plan(plan))
			if err != nil {
				return err
			}

			fmt.Printf("User %d created (%s, %s plan, up to %d applications)\n",
				user.ID, user.Email, user.Plan, cfg.MaxApplications(user.Plan))
			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", string(domain.PlanFree), "subscription plan: free, pro or agency")
	return cmd
}

func newUsersPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <id> <free|pro|agency>",
		Short: "Change a user's subscription plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID %q", args[0])
			}

			plan := domain.Plan(args[1])
			if !plan.Valid() {
				return fmt.Errorf("invalid plan %q", args[1])
			}

			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			if err := st.UpdateUserPlan(cmd.Context(), id, plan); err != nil {
				return err
			}

			fmt.Printf("User %d is now on the %s plan (up to %d applications)\n",
				id, plan, cfg.MaxApplications(plan))
			return nil
		},
	}
}

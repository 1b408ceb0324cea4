package cmd

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/jobagent/internal/domain"
	"github.com/teemow/jobagent/internal/store"
	"github.com/teemow/jobagent/internal/workflow"
)

func newApplicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Inspect and advance job applications",
		Long: `List applications and move them through the approval workflow:

  draft -> review_required -> user_approved -> ready_to_submit -> submitted

Each step advances exactly one status. After submission the employer's
response can be tracked with the status subcommand (rejected, interview,
offer).`,
	}

	cmd.AddCommand(newApplicationsListCmd())
	cmd.AddCommand(newApplicationsShowCmd())
	cmd.AddCommand(newApplicationsAdvanceCmd("review", "Mark a draft application as awaiting review",
		func(wf *workflow.Service) advanceFunc { return wf.MarkForReview }))
	cmd.AddCommand(newApplicationsAdvanceCmd("approve", "Approve an application awaiting review",
		func(wf *workflow.Service) advanceFunc { return wf.Approve }))
	cmd.AddCommand(newApplicationsAdvanceCmd("ready", "Mark an approved application ready to submit",
		func(wf *workflow.Service) advanceFunc { return wf.MarkReadyToSubmit }))
	cmd.AddCommand(newApplicationsAdvanceCmd("submit", "Mark a ready application as submitted",
		func(wf *workflow.Service) advanceFunc { return wf.MarkSubmitted }))
	cmd.AddCommand(newApplicationsStatusCmd())
	cmd.AddCommand(newApplicationsNotesCmd())
	return cmd
}

type advanceFunc func(ctx context.Context, id int64) (*domain.Application, error)

func parseAppID(args []string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid application ID %q", args[0])
	}
	return id, nil
}

func openWorkflow() (*store.Store, *workflow.Service, error) {
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, workflow.New(st, cfg.MaxApplications, logger), nil
}

func newApplicationsListCmd() *cobra.Command {
	var (
		userID int64
		status string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			apps, err := st.ListApplications(cmd.Context(), userID, domain.Status(status))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tJOB\tSTATUS\tFIT\tCREATED")
			for _, a := range apps {
				fit := "-"
				if a.FitScore != nil {
					fit = fmt.Sprintf("%.1f", *a.FitScore)
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
					a.ID, a.JobID, a.Status, fit, a.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func newApplicationsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one application with its job and documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAppID(args)
			if err != nil {
				return err
			}

			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			app, err := st.GetApplication(ctx, id)
			if err != nil {
				return err
			}
			job, err := st.GetJob(ctx, app.JobID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Application %d (%s)\n", app.ID, app.Status)
			fmt.Fprintf(out, "  Job:      %s at %s (%s)\n", job.Role, job.Company, job.Location)
			if app.FitScore != nil {
				fmt.Fprintf(out, "  Fit:      %.1f\n", *app.FitScore)
			}
			if app.ApprovedAt != nil {
				fmt.Fprintf(out, "  Approved: %s\n", app.ApprovedAt.Format("2006-01-02 15:04"))
			}
			if app.SubmittedAt != nil {
				fmt.Fprintf(out, "  Submitted: %s\n", app.SubmittedAt.Format("2006-01-02 15:04"))
			}
			if app.UserNotes != "" {
				fmt.Fprintf(out, "  Notes:    %s\n", app.UserNotes)
			}

			doc, err := st.GetDocumentForApplication(ctx, id)
			if err == nil {
				fmt.Fprintf(out, "\nCover letter (EN):\n%s\n", doc.CoverLetterEN)
				fmt.Fprintf(out, "\nCover letter (DE):\n%s\n", doc.CoverLetterDE)
				if doc.CVNotes != "" {
					fmt.Fprintf(out, "\nCV notes:\n%s\n", doc.CVNotes)
				}
			}
			return nil
		},
	}
}

func newApplicationsAdvanceCmd(use, short string, pick func(*workflow.Service) advanceFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAppID(args)
			if err != nil {
				return err
			}

			st, wf, err := openWorkflow()
			if err != nil {
				return err
			}
			defer st.Close()

			app, err := pick(wf)(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Application %d is now %s\n", app.ID, app.Status)
			return nil
		},
	}
}

func newApplicationsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <rejected|interview|offer>",
		Short: "Record the employer's response, whatever stage the application is in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAppID(args)
			if err != nil {
				return err
			}

			st, wf, err := openWorkflow()
			if err != nil {
				return err
			}
			defer st.Close()

			app, err := wf.UpdateStatus(cmd.Context(), id, domain.Status(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("Application %d is now %s\n", app.ID, app.Status)
			return nil
		},
	}
}

func newApplicationsNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes <id> <text>",
		Short: "Set the notes on an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAppID(args)
			if err != nil {
				return err
			}

			st, wf, err := openWorkflow()
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := wf.AddNotes(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Printf("Notes saved on application %d\n", id)
			return nil
		},
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/jobagent/internal/agent"
	"github.com/teemow/jobagent/internal/classify"
	"github.com/teemow/jobagent/internal/gmail"
	"github.com/teemow/jobagent/internal/google"
	"github.com/teemow/jobagent/internal/store"
	"github.com/teemow/jobagent/internal/triage"
)

func newRunCmd() *cobra.Command {
	var (
		query  string
		max    int64
		dryRun bool
		userID int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, classify and file job-search mail",
		Long: `Fetch messages matching the Gmail query, classify each one, move it to
its category label, mark it read and dispatch follow-up tasks to the agent
team. With --dry-run the classification and routing happen as usual but
nothing is moved, marked or persisted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if query == "" {
				query = cfg.Query
			}
			if max == 0 {
				max = cfg.MaxMessages
			}
			applyLabelOverrides()

			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			auth := google.NewAuth(cfg.GoogleClientID, cfg.GoogleClientSecret)
			client, err := gmail.NewClient(ctx, auth)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client: %w", err)
			}

			classifier := classify.New(cfg.AnthropicAPIKey, cfg.AnthropicModel, logger)
			executor := triage.NewExecutor(cfg.Team, logger)

			p := agent.NewProcessor(client, classifier, executor, st, cfg, logger)
			p.DryRun = dryRun
			p.UserID = userID

			summary, err := p.Run(ctx, query, max)
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d, skipped %d, errored %d\n",
				summary.Processed, summary.Skipped, summary.Errored)
			for category, count := range summary.ByCategory {
				fmt.Printf("  %-12s %d\n", category, count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Gmail search query (default from config)")
	cmd.Flags().Int64Var(&max, "max", 0, "maximum number of messages to process (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify and route without moving, marking or persisting anything")
	cmd.Flags().Int64Var(&userID, "user", 1, "user ID the processed mail belongs to")
	cmd.Flags().StringVar(&labelAcceptance, "label-acceptance", "", "label for acceptance mail (default from config)")
	cmd.Flags().StringVar(&labelRejection, "label-rejection", "", "label for rejection mail (default from config)")
	cmd.Flags().StringVar(&labelJobAlert, "label-job-alert", "", "label for job alert mail (default from config)")
	cmd.Flags().StringVar(&labelInterview, "label-interview", "", "label for interview mail (default from config)")
	cmd.Flags().StringVar(&labelOther, "label-other", "", "label for unrecognized mail (default from config)")
	return cmd
}

var labelAcceptance, labelRejection, labelJobAlert, labelInterview, labelOther string

// applyLabelOverrides copies non-empty label flags over the configured
// label names before a run.
func applyLabelOverrides() {
	if labelAcceptance != "" {
		cfg.Labels.Acceptance = labelAcceptance
	}
	if labelRejection != "" {
		cfg.Labels.Rejection = labelRejection
	}
	if labelJobAlert != "" {
		cfg.Labels.JobAlert = labelJobAlert
	}
	if labelInterview != "" {
		cfg.Labels.Interview = labelInterview
	}
	if labelOther != "" {
		cfg.Labels.Other = labelOther
	}
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/jobagent/internal/agent"
	"github.com/teemow/jobagent/internal/docs"
	"github.com/teemow/jobagent/internal/store"
	"github.com/teemow/jobagent/internal/workflow"
)

func newPrepareCmd() *cobra.Command {
	var (
		userID int64
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Turn stored job alerts into draft applications",
		Long: `Go through job alert emails collected by earlier runs and create a draft
application for each: a job record, a fit score against the user's profile,
generated cover letters and form answers. Every draft ends up in
review_required; nothing is submitted without an explicit approval.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			wf := workflow.New(st, cfg.MaxApplications, logger)
			gen := docs.NewGenerator(st, logger)

			summary, err := agent.NewPreparer(st, wf, gen, logger).Prepare(ctx, userID, limit)
			if err != nil {
				if errors.Is(err, workflow.ErrQuotaExceeded) {
					fmt.Printf("Prepared %d application(s) before hitting the plan quota: %v\n",
						summary.Created, err)
					return err
				}
				return err
			}

			fmt.Printf("Prepared %d application(s), %d failed\n", summary.Created, summary.Failed)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user ID to prepare applications for")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of job alerts to process")
	return cmd
}

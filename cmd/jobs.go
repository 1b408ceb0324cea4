package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/jobagent/internal/domain"
	"github.com/teemow/jobagent/internal/store"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage job postings",
	}
	cmd.AddCommand(newJobsAddCmd())
	cmd.AddCommand(newJobsListCmd())
	return cmd
}

func newJobsAddCmd() *cobra.Command {
	var (
		company      string
		role         string
		description  string
		requirements string
		location     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a job posting by hand",
		RunE: func(cmd *cobra.Command, args []string) error {
			if company == "" || role == "" {
				return fmt.Errorf("--company and --role are required")
			}

			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			job, err := st.CreateJob(cmd.Context(), domain.Job{
				Source:       domain.JobSourceManual,
				Company:      company,
				Role:         role,
				Description:  description,
				Requirements: requirements,
				Location:     location,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Job %d created: %s at %s\n", job.ID, job.Role, job.Company)
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().StringVar(&role, "role", "", "role title")
	cmd.Flags().StringVar(&description, "description", "", "job description")
	cmd.Flags().StringVar(&requirements, "requirements", "", "required skills, freeform")
	cmd.Flags().StringVar(&location, "location", "", "job location")
	return cmd
}

func newJobsListCmd() *cobra.Command {
	var (
		limit    int
		company  string
		role     string
		location string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job postings, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			var jobs []domain.Job
			if company != "" || role != "" || location != "" {
				jobs, err = st.SearchJobs(cmd.Context(), company, role, location)
			} else {
				jobs, err = st.ListJobs(cmd.Context(), limit, 0)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tROLE\tCOMPANY\tLOCATION\tSOURCE")
			for _, j := range jobs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", j.ID, j.Role, j.Company, j.Location, j.Source)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of jobs to list")
	cmd.Flags().StringVar(&company, "company", "", "filter by company substring")
	cmd.Flags().StringVar(&role, "role", "", "filter by role substring")
	cmd.Flags().StringVar(&location, "location", "", "filter by location substring")
	return cmd
}

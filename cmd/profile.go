package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/jobagent/internal/domain"
	"github.com/teemow/jobagent/internal/store"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the CV profile used for fit scoring and documents",
	}
	cmd.AddCommand(newProfileSetCmd())
	cmd.AddCommand(newProfileShowCmd())
	return cmd
}

func newProfileSetCmd() *cobra.Command {
	var (
		userID     int64
		fullName   string
		skills     []string
		experience int
		location   string
		cvFile     string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update a user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			var cvText string
			if cvFile != "" {
				data, err := os.ReadFile(cvFile)
				if err != nil {
					return fmt.Errorf("failed to read CV file: %w", err)
				}
				cvText = string(data)
			}

			profile, err := st.UpsertProfile(cmd.Context(), domain.Profile{
				UserID:          userID,
				FullName:        fullName,
				Skills:          skills,
				ExperienceYears: experience,
				Location:        location,
				CVText:          cvText,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Profile saved for user %d (%d skill(s))\n", profile.UserID, len(profile.Skills))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user ID")
	cmd.Flags().StringVar(&fullName, "name", "", "full name")
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "comma-separated skills")
	cmd.Flags().IntVar(&experience, "experience", 0, "years of experience")
	cmd.Flags().StringVar(&location, "location", "", "current location")
	cmd.Flags().StringVar(&cvFile, "cv", "", "path to a plain-text CV file")
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer st.Close()

			profile, err := st.GetProfile(cmd.Context(), userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:       %s\n", profile.FullName)
			fmt.Fprintf(out, "Skills:     %s\n", strings.Join(profile.Skills, ", "))
			fmt.Fprintf(out, "Experience: %d year(s)\n", profile.ExperienceYears)
			fmt.Fprintf(out, "Location:   %s\n", profile.Location)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user ID")
	return cmd
}

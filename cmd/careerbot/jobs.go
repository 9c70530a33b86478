package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerbot/internal/jobs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [query]",
	Short: "Search job listings",
	Long:  "Searches the configured job board. Without a query the stored resume picks the search terms.",
	RunE:  runJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")
	out, err := withSpinner(cmd.Context(), "Searching jobs", func(ctx context.Context) (string, error) {
		res, err := a.analyst.Jobs(ctx, a.user, query)
		if err != nil {
			return "", err
		}
		header := fmt.Sprintf("Jobs for %q (%d)", res.Query, len(res.Listings))
		if res.Source == "resume_based" {
			header = fmt.Sprintf("Jobs matching your resume (%d)", len(res.Listings))
		}
		return header + "\n\n" + strings.Join(jobs.FormatAll(res.Listings), "\n\n"), nil
	})
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerbot/internal/prompts"
)

var (
	jdPath      string
	jdText      string
	companyInfo string
	targetRole  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the stored resume",
}

var analyzeMatchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score the resume against a job description",
	Args:  cobra.NoArgs,
	RunE: analyzeWithJD("Scoring match", func(ctx context.Context, a *app, jd string) (string, error) {
		return a.analyst.MatchPercentage(ctx, a.user, jd)
	}),
}

var analyzeGapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "List the top skills missing for a job description",
	Args:  cobra.NoArgs,
	RunE: analyzeWithJD("Finding skill gaps", func(ctx context.Context, a *app, jd string) (string, error) {
		return a.analyst.SkillGaps(ctx, a.user, jd)
	}),
}

var analyzeHeatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Score each resume section against a job description",
	Args:  cobra.NoArgs,
	RunE: analyzeWithJD("Building heatmap", func(ctx context.Context, a *app, jd string) (string, error) {
		return a.analyst.Heatmap(ctx, a.user, jd)
	}),
}

var analyzeRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Suggest alternative roles that fit the resume",
	Args:  cobra.NoArgs,
	RunE: analyze("Finding roles", func(ctx context.Context, a *app) (string, error) {
		return a.analyst.AlternativeRoles(ctx, a.user)
	}),
}

var analyzeImproveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Suggest resume changes for a target role",
	Args:  cobra.NoArgs,
	RunE: analyze("Reviewing resume", func(ctx context.Context, a *app) (string, error) {
		return a.analyst.ImproveForRole(ctx, a.user, targetRole)
	}),
}

var analyzeReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "General resume feedback",
	Args:  cobra.NoArgs,
	RunE: analyze("Reviewing resume", func(ctx context.Context, a *app) (string, error) {
		return a.analyst.ReviewResume(ctx, a.user)
	}),
}

var analyzeInterviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Generate company-specific interview questions",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(companyInfo) == "" {
			return errors.New("--company is required")
		}
		return nil
	},
	RunE: analyze("Preparing questions", func(ctx context.Context, a *app) (string, error) {
		return a.analyst.CompanyInterview(ctx, a.user, companyInfo, targetRole)
	}),
}

var analyzeStarCmd = &cobra.Command{
	Use:   "star <story>",
	Short: "Turn an experience into a STAR interview answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		story := strings.Join(args, " ")
		return analyze("Writing STAR answer", func(ctx context.Context, a *app) (string, error) {
			return a.analyst.StarStory(ctx, story), nil
		})(cmd, args)
	},
}

func init() {
	for _, c := range []*cobra.Command{analyzeMatchCmd, analyzeGapsCmd, analyzeHeatmapCmd} {
		c.Flags().StringVar(&jdPath, "jd", "", "path to a job description file (- for stdin)")
		c.Flags().StringVar(&jdText, "jd-text", "", "job description text")
	}
	analyzeImproveCmd.Flags().StringVar(&targetRole, "role", prompts.DefaultRole, "target role")
	analyzeInterviewCmd.Flags().StringVar(&companyInfo, "company", "", "company name or description")
	analyzeInterviewCmd.Flags().StringVar(&targetRole, "role", prompts.DefaultRole, "target role")

	analyzeCmd.AddCommand(
		analyzeMatchCmd,
		analyzeGapsCmd,
		analyzeHeatmapCmd,
		analyzeRolesCmd,
		analyzeImproveCmd,
		analyzeReviewCmd,
		analyzeInterviewCmd,
		analyzeStarCmd,
	)
	rootCmd.AddCommand(analyzeCmd)
}

// analyze wraps a resume analysis as a command body that prints its result.
func analyze(label string, run func(ctx context.Context, a *app) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := withSpinner(cmd.Context(), label, func(ctx context.Context) (string, error) {
			return run(ctx, a)
		})
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
}

// analyzeWithJD is analyze for commands that need a job description.
func analyzeWithJD(label string, run func(ctx context.Context, a *app, jd string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		jd, err := readJobDescription()
		if err != nil {
			return err
		}
		return analyze(label, func(ctx context.Context, a *app) (string, error) {
			return run(ctx, a, jd)
		})(cmd, args)
	}
}

func readJobDescription() (string, error) {
	jd := jdText
	switch {
	case jdPath == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		jd = string(data)
	case jdPath != "":
		data, err := os.ReadFile(jdPath)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		jd = string(data)
	}
	if strings.TrimSpace(jd) == "" {
		return "", errors.New("a job description is required (--jd <file> or --jd-text <text>)")
	}
	return jd, nil
}

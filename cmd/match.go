package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/phoenix-cv/internal/profile"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a profile against a job description",
	Long: "match prints the heuristic compatibility report as JSON.\n" +
		"With --ai the configured AI provider also analyzes the fit and extracts keywords.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApplication()
		defer a.close()

		return runMatch(cmd, a)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("profile", "p", "profile.yaml", "candidate profile file")
	matchCmd.Flags().StringP("job", "f", "", "job description file (txt, pdf or docx)")
	matchCmd.Flags().StringP("job-text", "t", "", "job description text")
	matchCmd.Flags().Bool("ai", false, "add the AI analysis and keywords to the report")
}

func runMatch(cmd *cobra.Command, a *application) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	profilePath, _ := cmd.Flags().GetString("profile")
	jobFile, _ := cmd.Flags().GetString("job")
	jobText, _ := cmd.Flags().GetString("job-text")
	withAI, _ := cmd.Flags().GetBool("ai")

	p, err := profile.Load(profilePath)
	if err != nil {
		return err
	}

	job, err := readJob(jobFile, jobText)
	if err != nil {
		return err
	}

	engine, err := newEngine(a.config.Scoring, a.logger)
	if err != nil {
		return err
	}

	assistant := newAssistant(ctx, a.config, a.logger)
	if withAI && assistant == nil {
		a.logger.Warn("AI is disabled in the config, reporting the heuristic score only")
	}

	reviews := newReviewService(engine, assistant, a.config.AI, a.logger)

	result, err := reviews.Review(ctx, p, job, withAI)
	if err != nil {
		return fmt.Errorf("reviewing profile: %w", err)
	}

	a.logger.Info("match computed",
		zap.String("profile", profilePath),
		zap.Int("compatibility_score", result.Match.Score),
	)

	return printJSON(cmd.OutOrStdout(), result)
}

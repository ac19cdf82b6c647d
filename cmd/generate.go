package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/phoenix-cv/internal/ai"
	"github.com/spigell/phoenix-cv/internal/profile"
)

const (
	kindCV           = "cv"
	kindSummary      = "summary"
	kindAchievements = "achievements"
	kindKeywords     = "keywords"
	kindATS          = "ats"
)

var errAIDisabled = errors.New("AI is disabled: enable ai.enabled or use --demo")

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft CV content with the AI provider",
	Long: "generate drafts a full CV, a professional summary, achievements for one experience\n" +
		"or the keywords of a job description. The ats kind rewrites the summary around the job\n" +
		"keywords and checks the result. Failed generations fall back to canned texts.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApplication()
		defer a.close()

		return runGenerate(cmd, a)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("kind", "k", kindCV, "what to generate: cv, summary, achievements, keywords or ats")
	generateCmd.Flags().StringP("profile", "p", "profile.yaml", "candidate profile file")
	generateCmd.Flags().String("target", "", "target position (default is the profile's target position)")
	generateCmd.Flags().IntP("experience", "e", 0, "experience index for achievements, most recent first")
	generateCmd.Flags().StringP("job", "f", "", "job description file for keywords and ats (txt, pdf or docx)")
	generateCmd.Flags().StringP("job-text", "t", "", "job description text for keywords and ats")
}

func runGenerate(cmd *cobra.Command, a *application) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kind, _ := cmd.Flags().GetString("kind")

	assistant := newAssistant(ctx, a.config, a.logger)
	if assistant == nil {
		return errAIDisabled
	}

	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == kindATS {
		return runOptimize(ctx, cmd, a, assistant)
	}

	result, err := generate(ctx, cmd, assistant, kind)
	if err != nil {
		return err
	}

	if result.Fallback {
		a.logger.Warn("generation failed, printing fallback content", zap.String("kind", kind), zap.Error(result.Err))
	}

	return printJSON(cmd.OutOrStdout(), result)
}

func generate(ctx context.Context, cmd *cobra.Command, assistant *ai.Assistant, kind string) (*ai.Result, error) {
	if kind == kindKeywords {
		jobFile, _ := cmd.Flags().GetString("job")
		jobText, _ := cmd.Flags().GetString("job-text")

		job, err := readJob(jobFile, jobText)
		if err != nil {
			return nil, err
		}
		return assistant.ExtractKeywords(ctx, job), nil
	}

	profilePath, _ := cmd.Flags().GetString("profile")
	p, err := profile.Load(profilePath)
	if err != nil {
		return nil, err
	}

	target, _ := cmd.Flags().GetString("target")
	if strings.TrimSpace(target) == "" {
		target = p.TargetPosition
	}

	switch kind {
	case kindCV:
		return assistant.GenerateCV(ctx, p, target), nil
	case kindSummary:
		return assistant.EnhanceSummary(ctx, p, target), nil
	case kindAchievements:
		index, _ := cmd.Flags().GetInt("experience")
		if index < 0 || index >= len(p.Experiences) {
			return nil, fmt.Errorf("experience %d does not exist, the profile has %d", index, len(p.Experiences))
		}
		exp := p.Experiences[index]
		return assistant.SuggestAchievements(ctx, exp.Description, exp.Position), nil
	default:
		return nil, fmt.Errorf("unknown kind %q: use cv, summary, achievements, keywords or ats", kind)
	}
}

// runOptimize rewrites the profile summary around the job keywords and prints
// the optimized profile with its ATS check.
func runOptimize(ctx context.Context, cmd *cobra.Command, a *application, assistant *ai.Assistant) error {
	profilePath, _ := cmd.Flags().GetString("profile")
	jobFile, _ := cmd.Flags().GetString("job")
	jobText, _ := cmd.Flags().GetString("job-text")

	p, err := profile.Load(profilePath)
	if err != nil {
		return err
	}

	job, err := readJob(jobFile, jobText)
	if err != nil {
		return err
	}

	out := assistant.OptimizeForATS(ctx, p, job)
	if err := out.Err(); err != nil {
		a.logger.Warn("ats optimization degraded, printing fallback content", zap.Error(err))
	}

	return printJSON(cmd.OutOrStdout(), out)
}

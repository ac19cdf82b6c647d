package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/phoenix-cv/internal/coach"
	"github.com/spigell/phoenix-cv/internal/profile"
)

// coachOutput is the coaching report, with the career trajectory when a target
// role is known.
type coachOutput struct {
	*coach.Report
	Trajectory *coach.Trajectory `json:"trajectory,omitempty"`
}

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Check profile completeness, quality and ATS readiness",
	Long: "coach prints the profile coaching report as JSON. When a target role is given\n" +
		"(or set in the profile) a career trajectory toward it is included.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApplication()
		defer a.close()

		return runCoach(cmd, a, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(coachCmd)

	coachCmd.Flags().StringP("profile", "p", "profile.yaml", "candidate profile file")
	coachCmd.Flags().String("target", "", "target role for the career trajectory (default is the profile's target position)")
}

func runCoach(cmd *cobra.Command, a *application, now time.Time) error {
	profilePath, _ := cmd.Flags().GetString("profile")
	target, _ := cmd.Flags().GetString("target")

	p, err := profile.Load(profilePath)
	if err != nil {
		return err
	}

	out := coachOutput{Report: coach.Coach(p)}
	if strings.TrimSpace(target) != "" || strings.TrimSpace(p.TargetPosition) != "" {
		out.Trajectory = coach.PlanTrajectory(p, target, now)
	}

	fields := []zap.Field{
		zap.String("profile", profilePath),
		zap.Int("quality_score", out.QualityScore),
		zap.String("grade", out.Grade),
	}
	if out.Trajectory != nil {
		fields = append(fields, zap.Int("success_probability", out.Trajectory.SuccessProbability))
	}
	a.logger.Info("profile coached", fields...)

	return printJSON(cmd.OutOrStdout(), out)
}

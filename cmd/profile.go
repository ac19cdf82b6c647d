package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/phoenix-cv/internal/profile"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Create or check a candidate profile file",
}

var profileInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Fill a new profile interactively",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApplication()
		defer a.close()

		output, _ := cmd.Flags().GetString("output")

		p, err := collectProfile(promptAsker{})
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				a.logger.Info("exiting", zap.String("reason", "interrupted"))
				return nil
			}
			return err
		}

		if err := profile.Write(output, p); err != nil {
			return err
		}

		a.logger.Info("profile saved",
			zap.String("path", output),
			zap.Int("experiences", len(p.Experiences)),
			zap.Int("skills", len(p.Skills)),
		)
		return nil
	},
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a profile file against the profile schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApplication()
		defer a.close()

		path, _ := cmd.Flags().GetString("profile")

		p, err := profile.Load(path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d experience(s), %d skill(s), %d education entrie(s)\n",
			path, len(p.Experiences), len(p.Skills), len(p.Education))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileInitCmd, profileValidateCmd)

	profileInitCmd.Flags().StringP("output", "o", "profile.yaml", "where to write the profile (yaml, json or toml)")
	profileValidateCmd.Flags().StringP("profile", "p", "profile.yaml", "candidate profile file")
}

// asker is the interactive surface profile init needs.
type asker interface {
	Ask(label string, validate func(string) error) (string, error)
	Confirm(label string) (bool, error)
}

type promptAsker struct{}

func (promptAsker) Ask(label string, validate func(string) error) (string, error) {
	p := promptui.Prompt{Label: label}
	if validate != nil {
		p.Validate = validate
	}
	answer, err := p.Run()
	return strings.TrimSpace(answer), err
}

func (promptAsker) Confirm(label string) (bool, error) {
	s := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}
	_, answer, err := s.Run()
	return answer == PromptYes, err
}

func collectProfile(in asker) (*profile.CandidateProfile, error) {
	p := &profile.CandidateProfile{}

	fields := []struct {
		label    string
		dst      *string
		validate func(string) error
	}{
		{"First name", &p.PersonalInfo.FirstName, nil},
		{"Last name", &p.PersonalInfo.LastName, nil},
		{"Email", &p.PersonalInfo.Email, validEmail},
		{"Phone", &p.PersonalInfo.Phone, nil},
		{"Location", &p.PersonalInfo.Location, nil},
		{"Target position", &p.TargetPosition, nil},
		{"Professional summary", &p.ProfessionalSummary, nil},
	}
	for _, f := range fields {
		answer, err := in.Ask(f.label, f.validate)
		if err != nil {
			return nil, err
		}
		*f.dst = answer
	}

	for {
		more, err := in.Confirm("Add an experience?")
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		exp, err := collectExperience(in)
		if err != nil {
			return nil, err
		}
		p.Experiences = append(p.Experiences, exp)
	}

	skills, err := in.Ask("Skills (comma separated)", nil)
	if err != nil {
		return nil, err
	}
	for _, name := range strings.Split(skills, ",") {
		if name = strings.TrimSpace(name); name != "" {
			p.Skills = append(p.Skills, profile.Skill{Name: name})
		}
	}

	for {
		more, err := in.Confirm("Add a degree?")
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		edu, err := collectEducation(in)
		if err != nil {
			return nil, err
		}
		p.Education = append(p.Education, edu)
	}

	return p, nil
}

func collectExperience(in asker) (profile.Experience, error) {
	var exp profile.Experience

	steps := []struct {
		label    string
		dst      *string
		validate func(string) error
	}{
		{"Position", &exp.Position, required},
		{"Company", &exp.Company, nil},
		{"Start date (YYYY-MM)", &exp.StartDate, optionalDate},
		{"End date (YYYY-MM, empty for present)", &exp.EndDate, optionalEndDate},
		{"Description", &exp.Description, nil},
	}
	for _, s := range steps {
		answer, err := in.Ask(s.label, s.validate)
		if err != nil {
			return exp, err
		}
		*s.dst = answer
	}

	for {
		achievement, err := in.Ask("Achievement (empty to finish)", nil)
		if err != nil {
			return exp, err
		}
		if achievement == "" {
			break
		}
		exp.Achievements = append(exp.Achievements, achievement)
	}

	return exp, nil
}

func collectEducation(in asker) (profile.Education, error) {
	var edu profile.Education

	steps := []struct {
		label    string
		dst      *string
		validate func(string) error
	}{
		{"Degree", &edu.Degree, required},
		{"Institution", &edu.Institution, nil},
		{"Year", &edu.Year, nil},
	}
	for _, s := range steps {
		answer, err := in.Ask(s.label, s.validate)
		if err != nil {
			return edu, err
		}
		*s.dst = answer
	}

	return edu, nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if at := strings.Index(s, "@"); at < 1 || !strings.Contains(s[at:], ".") {
		return errors.New("not an email address")
	}
	return nil
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := profile.ParseDate(s)
	return err
}

func optionalEndDate(s string) error {
	if profile.IsPresent(s) {
		return nil
	}
	_, err := profile.ParseDate(s)
	return err
}

// Package tui holds the interactive prompts used by the CLI when stdin is a
// terminal.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// Prompt represents a simple interactive prompt configuration
type Prompt struct {
	Message     string
	Default     string
	Placeholder string
	Validate    func(string) error
}

// PromptForString displays an interactive prompt and returns the user's input
func PromptForString(p Prompt) (string, error) {
	value := p.Default

	input := huh.NewInput().
		Title(p.Message).
		Placeholder(p.Placeholder).
		Value(&value)
	if p.Validate != nil {
		input = input.Validate(p.Validate)
	}

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return value, nil
}

// Requirement is a requirement offered for rating.
type Requirement struct {
	ID   string
	Name string
}

// RatingAnswers are the stars chosen in PromptForRating. Requirements the
// user skipped are absent from Requirements.
type RatingAnswers struct {
	Overall      int
	Requirements map[string]int
}

// PromptForRating asks for an overall five-star rating and one per
// requirement.
func PromptForRating(overallDefault int, reqs []Requirement) (RatingAnswers, error) {
	answers := RatingAnswers{Overall: overallDefault, Requirements: map[string]int{}}
	perReq := make([]int, len(reqs))

	fields := []huh.Field{
		huh.NewSelect[int]().
			Title("Overall rating").
			Options(StarOptions(false)...).
			Value(&answers.Overall),
	}
	for i, r := range reqs {
		fields = append(fields, huh.NewSelect[int]().
			Title(fmt.Sprintf("Requirement: %s", r.Name)).
			Options(StarOptions(true)...).
			Value(&perReq[i]))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return RatingAnswers{}, fmt.Errorf("prompt failed: %w", err)
	}
	for i, r := range reqs {
		if perReq[i] > 0 {
			answers.Requirements[r.ID] = perReq[i]
		}
	}
	return answers, nil
}

// StarOptions lists the five-star choices, highest first. With skip set a
// zero-valued "skip" option comes last.
func StarOptions(skip bool) []huh.Option[int] {
	var opts []huh.Option[int]
	for stars := 5; stars >= 1; stars-- {
		opts = append(opts, huh.NewOption(Stars(stars), stars))
	}
	if skip {
		opts = append(opts, huh.NewOption("skip", 0))
	}
	return opts
}

// Stars renders n filled stars followed by the empty remainder of five.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}

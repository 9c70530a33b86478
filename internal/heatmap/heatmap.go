// Package heatmap turns the model's "Section | Score | Explanation" table into
// scored, bucketed sections and renders them for chat.
package heatmap

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/amishk599/careerbot/internal/model"
	"github.com/amishk599/careerbot/internal/prompts"
)

const (
	// Header opens every rendered heatmap.
	Header = "📊 **Resume Heatmap vs Job Description**\n\n"
	// FailureNotice is returned when no table row could be parsed.
	FailureNotice = "⚠️ Could not generate heatmap."

	strongThreshold  = 75
	partialThreshold = 40
	barSegments      = 10
)

var scorePattern = regexp.MustCompile(`\d{1,3}`)

// Querier sends a prompt to the language model.
type Querier interface {
	Query(ctx context.Context, prompt string) string
}

// Build asks the model to score resume sections against jobDescription and
// renders the result. A missing resume returns the upload notice without a
// model call.
func Build(ctx context.Context, q Querier, resume, jobDescription string) string {
	prompt, ok := prompts.Heatmap(resume, jobDescription)
	if !ok {
		return prompts.UploadResumeNotice
	}
	return Render(Parse(q.Query(ctx, prompt)))
}

// Parse extracts sections from raw table text. Outer pipes of markdown rows are
// ignored; header rows, divider rows and rows with fewer than 3 fields are skipped.
func Parse(raw string) []model.HeatmapSection {
	var sections []model.HeatmapSection
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		fields := strings.Split(strings.Trim(strings.TrimSpace(line), "|"), "|")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) < 3 {
			continue
		}

		name := fields[0]
		if isHeaderToken(name) {
			continue
		}

		score := parseScore(fields[1])
		sections = append(sections, model.HeatmapSection{
			Section:     name,
			Score:       score,
			Explanation: fields[2],
			Verdict:     VerdictFor(score),
		})
	}
	return sections
}

// Render formats sections under Header, or returns FailureNotice when empty.
func Render(sections []model.HeatmapSection) string {
	if len(sections) == 0 {
		return FailureNotice
	}
	rows := make([]string, 0, len(sections))
	for _, s := range sections {
		rows = append(rows, fmt.Sprintf("%s **%s**\n%s  **%d%% — %s match**\n_%s_\n",
			icon(s.Verdict), strings.ToUpper(s.Section), Bar(s.Score), s.Score, s.Verdict, s.Explanation))
	}
	return Header + strings.Join(rows, "\n")
}

// VerdictFor buckets a score: 75 and above is strong, 40 and above partial.
func VerdictFor(score int) model.Verdict {
	switch {
	case score >= strongThreshold:
		return model.VerdictStrong
	case score >= partialThreshold:
		return model.VerdictPartial
	default:
		return model.VerdictWeak
	}
}

// Bar draws one filled segment per full 10 points.
func Bar(score int) string {
	filled := clamp(score) / 10
	return strings.Repeat("●", filled) + strings.Repeat("○", barSegments-filled)
}

// isHeaderToken matches the table header and markdown divider cells.
func isHeaderToken(field string) bool {
	switch strings.ToLower(field) {
	case "section", "score", "---":
		return true
	}
	return strings.Contains(field, "-") && strings.Trim(field, "-: ") == ""
}

func parseScore(field string) int {
	m := scorePattern.FindString(field)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return clamp(n)
}

func clamp(score int) int {
	return max(0, min(score, 100))
}

func icon(v model.Verdict) string {
	switch v {
	case model.VerdictStrong:
		return "🟢"
	case model.VerdictPartial:
		return "🟡"
	default:
		return "🔴"
	}
}

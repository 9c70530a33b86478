// Package prompts builds the instruction text sent to the language model for
// every analytical task. Functions here never touch the network.
package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const (
	// UploadResumeNotice is returned instead of a model call when a
	// resume-dependent operation runs without a resume.
	UploadResumeNotice = "📄 Please upload your resume first."

	// UploadResumeChatNotice is the chat variant of UploadResumeNotice.
	UploadResumeChatNotice = "📄 Please upload your resume first using the upload button on the left."

	// DefaultRole is the target role for resume feedback requested in chat.
	DefaultRole = "Backend Engineer"

	resumeExcerptChars = 1000
)

type data struct {
	Resume         string
	JobDescription string
	Role           string
	Story          string
	Company        string
	Topic          string
	Question       string
}

// RoleImprovement asks for concrete resume improvements toward role.
func RoleImprovement(resume, role string) (string, bool) {
	if !hasText(resume) {
		return "", false
	}
	return render("role_improvement.tmpl", data{Resume: resume, Role: role}), true
}

// SkillGaps asks for the top 3 missing skills against a job description.
func SkillGaps(resume, jobDescription string) (string, bool) {
	if !hasText(resume) {
		return "", false
	}
	return render("skill_gaps.tmpl", data{Resume: resume, JobDescription: jobDescription}), true
}

// MatchPercentage asks for an ATS-style match score with strengths and gaps.
func MatchPercentage(resume, jobDescription string) (string, bool) {
	if !hasText(resume) {
		return "", false
	}
	return render("match_percentage.tmpl", data{Resume: resume, JobDescription: jobDescription}), true
}

// ReverseMatch asks for three alternative roles the candidate may not be
// searching for.
func ReverseMatch(resume string) (string, bool) {
	if !hasText(resume) {
		return "", false
	}
	return render("reverse_match.tmpl", data{Resume: resume}), true
}

// Heatmap asks for a pipe-delimited "Section | Score | Explanation" table.
func Heatmap(resume, jobDescription string) (string, bool) {
	if !hasText(resume) {
		return "", false
	}
	return render("heatmap.tmpl", data{Resume: resume, JobDescription: jobDescription}), true
}

// ResumeInterviewQuestions asks for interview questions drawn from the resume.
func ResumeInterviewQuestions(resume string) (string, bool) {
	if !hasText(resume) {
		return "", false
	}
	return render("resume_interview_questions.tmpl", data{Resume: excerpt(resume)}), true
}

// ResumeQuestion answers a free-form question grounded in the resume.
func ResumeQuestion(resume, question string) (string, bool) {
	if !hasText(resume) {
		return "", false
	}
	return render("resume_question.tmpl", data{Resume: excerpt(resume), Question: question}), true
}

// ResumeReview asks for general improvement suggestions right after upload.
func ResumeReview(resume string) (string, bool) {
	if !hasText(resume) {
		return "", false
	}
	return render("resume_review.tmpl", data{Resume: resume}), true
}

// StarStory turns a raw experience into a STAR-structured answer.
func StarStory(story string) string {
	return render("star_story.tmpl", data{Story: story})
}

// CompanyInterview asks for company-specific questions. The resume is optional.
func CompanyInterview(company, role, resume string) string {
	if strings.TrimSpace(role) == "" {
		role = DefaultRole
	}
	return render("company_interview.tmpl", data{Company: company, Role: role, Resume: resume})
}

// InterviewQuestions asks for five questions on topic.
func InterviewQuestions(topic string) string {
	return render("interview_questions.tmpl", data{Topic: topic})
}

func render(name string, d data) string {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, d); err != nil {
		panic(fmt.Sprintf("render %s: %v", name, err))
	}
	return b.String()
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= resumeExcerptChars {
		return s
	}
	return string(r[:resumeExcerptChars])
}

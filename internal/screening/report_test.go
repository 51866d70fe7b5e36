package screening

import (
	"strings"
	"testing"
	"time"
)

func sampleReportInput() ReportInput {
	return ReportInput{
		Requirement: JobRequirement{
			Position: "Senior Go Developer",
			MustHave: []string{"5+ years of Go"},
		},
		Dimensions: testDimensions(),
		Profiles: []CandidateProfile{
			{ID: "c1", SourceFile: "alice.pdf", BasicInfo: BasicInfo{Name: "Alice", CurrentRole: "Backend Engineer", ExperienceYears: 6}},
			{ID: "c2", SourceFile: "bob.txt", BasicInfo: BasicInfo{Name: "Bob"}},
			{ID: "c3", SourceFile: "carol.txt", BasicInfo: BasicInfo{Name: "Carol"}},
		},
		Evaluations: []CandidateEvaluation{
			{
				CandidateID:   "c1",
				CandidateName: "Alice",
				OverallScore:  8.2,
				Ranking:       1,
				DimensionScores: []DimensionScore{
					{DimensionName: "skill match", Score: 8.5, Status: StatusPass, Comments: "strong Go background"},
				},
				Strengths:      []string{"deep Go experience"},
				Recommendation: "proceed to interview",
			},
			{
				CandidateID:   "c3",
				CandidateName: "Carol",
				OverallScore:  5.5,
				Ranking:       2,
				DimensionScores: []DimensionScore{
					{DimensionName: "skill match", Score: 5.5, Status: StatusWarning},
				},
			},
			{
				CandidateID:    "c2",
				CandidateName:  "Bob",
				OverallScore:   0,
				Ranking:        3,
				Recommendation: "evaluation failed: model unavailable",
				Weaknesses:     []string{"an error occurred during evaluation"},
			},
		},
		GeneratedAt: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderReportIsDeterministic(t *testing.T) {
	in := sampleReportInput()
	first := RenderReport(in)
	second := RenderReport(in)

	if first.Markdown != second.Markdown {
		t.Error("expected identical output for identical input")
	}
}

func TestRenderReportStructure(t *testing.T) {
	report := RenderReport(sampleReportInput())
	md := report.Markdown

	for _, want := range []string{
		"# Resume Screening Report: Senior Go Developer",
		"## Hiring Requirement",
		"## Ranking",
		"| 1 | Alice | 8.2 | recommended |",
		"| 2 | Carol | 5.5 | consider |",
		"| 3 | Bob | 0.0 | not recommended |",
		"## 1. Alice (8.2/10)",
		"strong Go background",
		"## Summary",
		"**Recommended for interview (1)**",
		"**Worth considering (1)**",
		"**Not recommended (1)**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report is missing %q", want)
		}
	}
}

func TestRenderReportIncludesFailedCandidates(t *testing.T) {
	report := RenderReport(sampleReportInput())

	if !strings.Contains(report.Markdown, "evaluation failed: model unavailable") {
		t.Error("failed candidates must stay visible in the report")
	}
	if !strings.Contains(report.Markdown, "## 3. Bob (0.0/10)") {
		t.Error("expected a section for the failed candidate")
	}
}

func TestRenderReportEscapesTableCells(t *testing.T) {
	in := sampleReportInput()
	in.Evaluations[0].DimensionScores[0].Comments = "line one\nline two | with pipe"

	report := RenderReport(in)
	if strings.Contains(report.Markdown, "line one\nline two") {
		t.Error("newlines must not survive inside table cells")
	}
	if !strings.Contains(report.Markdown, `line one line two \| with pipe`) {
		t.Error("pipes inside cells must be escaped")
	}
}

func TestRenderReportDefaultsGeneratedAt(t *testing.T) {
	in := sampleReportInput()
	in.GeneratedAt = time.Time{}

	report := RenderReport(in)
	if report.GeneratedAt.IsZero() {
		t.Error("expected a generation timestamp to be assigned")
	}
}

package screening

import (
	"fmt"
	"strings"
	"time"
)

const (
	recommendThreshold = 7.0
	considerThreshold  = 5.0
)

// Report is the rendered outcome of one screening run.
type Report struct {
	Markdown    string
	GeneratedAt time.Time
}

// ReportInput collects everything the renderer needs. Evaluations are
// expected to be ranked already.
type ReportInput struct {
	Requirement JobRequirement
	Dimensions  ScoringDimensions
	Profiles    []CandidateProfile
	Evaluations []CandidateEvaluation
	GeneratedAt time.Time
}

// RenderReport produces the Markdown screening report. The output is fully
// deterministic for a given input: candidates appear in ranking order and
// every table has a fixed column layout.
func RenderReport(in ReportInput) Report {
	generatedAt := in.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	profilesByID := make(map[string]CandidateProfile, len(in.Profiles))
	for _, profile := range in.Profiles {
		profilesByID[profile.ID] = profile
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# Resume Screening Report: %s\n\n", in.Requirement.Position)
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Candidates evaluated: %d\n\n", len(in.Evaluations))

	writeRequirementSection(&b, in.Requirement)
	writeRankingTable(&b, in.Evaluations)

	for _, eval := range in.Evaluations {
		writeCandidateSection(&b, eval, profilesByID[eval.CandidateID], in.Dimensions)
	}

	writeSummarySection(&b, in.Evaluations)

	return Report{Markdown: b.String(), GeneratedAt: generatedAt}
}

func writeRequirementSection(b *strings.Builder, req JobRequirement) {
	b.WriteString("## Hiring Requirement\n\n")
	fmt.Fprintf(b, "- Position: %s\n", req.Position)
	if req.Industry != "" {
		fmt.Fprintf(b, "- Industry: %s\n", req.Industry)
	}
	if req.MinYearsExperience > 0 {
		fmt.Fprintf(b, "- Minimum experience: %d years\n", req.MinYearsExperience)
	}
	writeRequirementList(b, "Must have", req.MustHave)
	writeRequirementList(b, "Nice to have", req.NiceToHave)
	writeRequirementList(b, "Deal breakers", req.DealBreaker)
	b.WriteString("\n")
}

func writeRequirementList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s:\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

func writeRankingTable(b *strings.Builder, evals []CandidateEvaluation) {
	b.WriteString("## Ranking\n\n")
	b.WriteString("| Rank | Candidate | Overall Score | Verdict |\n")
	b.WriteString("|------|-----------|---------------|----------|\n")
	for _, eval := range evals {
		fmt.Fprintf(b, "| %d | %s | %.1f | %s |\n",
			eval.Ranking,
			orDash(eval.CandidateName),
			eval.OverallScore,
			verdictLabel(eval.OverallScore),
		)
	}
	b.WriteString("\n")
}

func writeCandidateSection(b *strings.Builder, eval CandidateEvaluation, profile CandidateProfile, dims ScoringDimensions) {
	fmt.Fprintf(b, "## %d. %s (%.1f/10)\n\n", eval.Ranking, orDash(eval.CandidateName), eval.OverallScore)

	if profile.SourceFile != "" {
		fmt.Fprintf(b, "Source: %s\n\n", profile.SourceFile)
	}

	writeBasicInfoTable(b, profile.BasicInfo)
	writeDimensionTable(b, eval.DimensionScores, dims)

	if len(eval.Strengths) > 0 {
		b.WriteString("**Strengths**\n\n")
		for _, s := range eval.Strengths {
			fmt.Fprintf(b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	if len(eval.Weaknesses) > 0 {
		b.WriteString("**Weaknesses**\n\n")
		for _, w := range eval.Weaknesses {
			fmt.Fprintf(b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
	if eval.Recommendation != "" {
		fmt.Fprintf(b, "**Recommendation**: %s\n\n", eval.Recommendation)
	}
}

func writeBasicInfoTable(b *strings.Builder, info BasicInfo) {
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(b, "| Name | %s |\n", orDash(info.Name))
	fmt.Fprintf(b, "| Current role | %s |\n", orDash(info.CurrentRole))
	fmt.Fprintf(b, "| Current company | %s |\n", orDash(info.CurrentCompany))
	fmt.Fprintf(b, "| Years of experience | %d |\n", info.ExperienceYears)
	fmt.Fprintf(b, "| Location | %s |\n", orDash(info.Location))
	b.WriteString("\n")
}

func writeDimensionTable(b *strings.Builder, scores []DimensionScore, dims ScoringDimensions) {
	if len(scores) == 0 {
		b.WriteString("No dimension scores available.\n\n")
		return
	}

	b.WriteString("| Dimension | Weight | Score | Status | Comments |\n")
	b.WriteString("|-----------|--------|-------|--------|----------|\n")
	for _, score := range scores {
		weight := "-"
		if dim, ok := dims.Find(score.DimensionName); ok {
			weight = fmt.Sprintf("%.0f%%", dim.Weight*100)
		}
		fmt.Fprintf(b, "| %s | %s | %.1f | %s | %s |\n",
			score.DimensionName,
			weight,
			score.Score,
			score.Status.Symbol(),
			orDash(sanitizeCell(score.Comments)),
		)
	}
	b.WriteString("\n")
}

func writeSummarySection(b *strings.Builder, evals []CandidateEvaluation) {
	var recommended, consider, notRecommended []CandidateEvaluation
	for _, eval := range evals {
		switch {
		case eval.OverallScore >= recommendThreshold:
			recommended = append(recommended, eval)
		case eval.OverallScore >= considerThreshold:
			consider = append(consider, eval)
		default:
			notRecommended = append(notRecommended, eval)
		}
	}

	b.WriteString("## Summary\n\n")
	writeSummaryBucket(b, "Recommended for interview", recommended)
	writeSummaryBucket(b, "Worth considering", consider)
	writeSummaryBucket(b, "Not recommended", notRecommended)
}

func writeSummaryBucket(b *strings.Builder, label string, evals []CandidateEvaluation) {
	fmt.Fprintf(b, "**%s (%d)**\n\n", label, len(evals))
	if len(evals) == 0 {
		b.WriteString("- none\n\n")
		return
	}
	for _, eval := range evals {
		fmt.Fprintf(b, "- %s (%.1f)\n", orDash(eval.CandidateName), eval.OverallScore)
	}
	b.WriteString("\n")
}

func verdictLabel(score float64) string {
	switch {
	case score >= recommendThreshold:
		return "recommended"
	case score >= considerThreshold:
		return "consider"
	default:
		return "not recommended"
	}
}

// sanitizeCell keeps multi-line model text from breaking the table layout.
func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

package screening

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/requirement.md
var requirementTemplate string

//go:embed prompts/dimensions.md
var dimensionsTemplate string

//go:embed prompts/structure.md
var structureTemplate string

//go:embed prompts/evaluation.md
var evaluationTemplate string

const requirementSystemPrompt = `You are an experienced technical recruiter. You read job descriptions and extract precise, structured hiring requirements. You answer with JSON only, no commentary.`

const dimensionsSystemPrompt = `You are an HR scoring system designer. Given a hiring requirement you produce a weighted set of scoring dimensions that is comprehensive, reasonable and operational. Weights always sum to 1.0. You answer with JSON only, no commentary.`

const structureSystemPrompt = `You are a resume parsing assistant. You convert raw resume text into structured candidate data, copying facts verbatim and never inventing information that is not in the text. You answer with JSON only, no commentary.`

const evaluationSystemPrompt = `You are a professional HR scoring expert. You score candidates objectively against the given requirement and dimensions on a 0-10 scale, deducting strictly for unmet mandatory requirements and severely for triggered exclusion criteria. You answer with JSON only, no commentary.`

func buildRequirementPrompt(jdText string) string {
	return strings.ReplaceAll(requirementTemplate, "{{JD_TEXT}}", jdText)
}

func buildDimensionsPrompt(req JobRequirement) string {
	prompt := dimensionsTemplate
	prompt = strings.ReplaceAll(prompt, "{{POSITION}}", req.Position)
	prompt = strings.ReplaceAll(prompt, "{{INDUSTRY}}", orUnspecified(req.Industry))

	minYears := "unspecified"
	if req.MinYearsExperience > 0 {
		minYears = fmt.Sprintf("%d", req.MinYearsExperience)
	}
	prompt = strings.ReplaceAll(prompt, "{{MIN_YEARS}}", minYears)

	prompt = strings.ReplaceAll(prompt, "{{MUST_HAVE}}", bulletList(req.MustHave))
	prompt = strings.ReplaceAll(prompt, "{{NICE_TO_HAVE}}", bulletList(req.NiceToHave))
	prompt = strings.ReplaceAll(prompt, "{{DEAL_BREAKER}}", bulletList(req.DealBreaker))
	return prompt
}

func buildStructurePrompt(fileName, content string) string {
	prompt := strings.ReplaceAll(structureTemplate, "{{FILE_NAME}}", fileName)
	return strings.ReplaceAll(prompt, "{{CONTENT}}", content)
}

func buildEvaluationPrompt(profile CandidateProfile, req JobRequirement, dims ScoringDimensions) string {
	prompt := evaluationTemplate
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_INFO}}", formatCandidate(profile))
	prompt = strings.ReplaceAll(prompt, "{{REQUIREMENTS_INFO}}", formatRequirement(req))
	prompt = strings.ReplaceAll(prompt, "{{DIMENSIONS_INFO}}", formatDimensions(dims))
	return prompt
}

func formatCandidate(profile CandidateProfile) string {
	var parts []string

	info := profile.BasicInfo
	parts = append(parts, "Name: "+orUnspecified(info.Name))
	parts = append(parts, "Current role: "+orUnspecified(info.CurrentRole))
	parts = append(parts, "Current company: "+orUnspecified(info.CurrentCompany))
	parts = append(parts, fmt.Sprintf("Years of experience: %d", info.ExperienceYears))
	parts = append(parts, "Location: "+orUnspecified(info.Location))

	if len(profile.Education) > 0 {
		edu := profile.Education[0]
		parts = append(parts, fmt.Sprintf("Education: %s %s, %s", edu.Degree, edu.Major, edu.School))
	}

	if len(profile.WorkExperience) > 0 {
		parts = append(parts, "", "Work experience:")
		for _, exp := range profile.WorkExperience {
			parts = append(parts, fmt.Sprintf("- %s at %s (%s - %s)", exp.Position, exp.Company, exp.StartDate, exp.EndDate))
			if exp.Description != "" {
				parts = append(parts, "  "+exp.Description)
			}
		}
	}

	if len(profile.Skills) > 0 {
		parts = append(parts, "", "Skills:")
		for _, skill := range profile.Skills {
			line := "- " + skill.Name
			if skill.Level != "" {
				line += fmt.Sprintf(" (%s, %d years)", skill.Level, skill.YearsExperience)
			}
			parts = append(parts, line)
		}
	}

	if len(profile.Certifications) > 0 {
		parts = append(parts, "", "Certifications: "+strings.Join(profile.Certifications, ", "))
	}
	if len(profile.Projects) > 0 {
		parts = append(parts, "Projects: "+strings.Join(profile.Projects, ", "))
	}

	return strings.Join(parts, "\n")
}

func formatRequirement(req JobRequirement) string {
	parts := []string{"Position: " + req.Position}

	if len(req.MustHave) > 0 {
		parts = append(parts, "Mandatory requirements:", bulletList(req.MustHave))
	}
	if len(req.NiceToHave) > 0 {
		parts = append(parts, "Bonus requirements:", bulletList(req.NiceToHave))
	}
	if len(req.DealBreaker) > 0 {
		parts = append(parts, "Exclusion criteria:", bulletList(req.DealBreaker))
	}

	return strings.Join(parts, "\n")
}

func formatDimensions(dims ScoringDimensions) string {
	var parts []string
	for _, dim := range dims.Dimensions {
		parts = append(parts, fmt.Sprintf("Dimension: %s (weight %.0f%%)", dim.Name, dim.Weight*100))
		parts = append(parts, "Fields: "+strings.Join(dim.Fields, ", "))
		if dim.Description != "" {
			parts = append(parts, "Description: "+dim.Description)
		}
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- none"
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unspecified"
	}
	return s
}

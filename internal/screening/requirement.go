package screening

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hrpilot/resume-screener/internal/ai"
	"github.com/hrpilot/resume-screener/internal/llmjson"
)

// RequirementExtractor turns free-form job description text into a
// JobRequirement.
type RequirementExtractor struct {
	gen    ai.Generator
	logger *zap.Logger
}

func NewRequirementExtractor(gen ai.Generator, logger *zap.Logger) *RequirementExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequirementExtractor{gen: gen, logger: logger}
}

// Extract asks the completion service for a structured requirement. When the
// response carries no recoverable JSON, a keyword heuristic over the raw
// description is used instead so the run can proceed with something grounded
// in the actual text.
func (e *RequirementExtractor) Extract(ctx context.Context, jdText string) (JobRequirement, error) {
	jdText = strings.TrimSpace(jdText)
	if jdText == "" {
		return JobRequirement{}, validationErrorf("job description text is empty")
	}

	resp, err := e.gen.GenerateContent(ctx, requirementSystemPrompt, buildRequirementPrompt(jdText))
	if err != nil {
		return JobRequirement{}, fmt.Errorf("extract requirement: %w", err)
	}

	var req JobRequirement
	if err := llmjson.ParseInto(resp, &req); err != nil {
		e.logger.Warn("requirement response had no usable JSON, falling back to keyword extraction",
			zap.Error(err),
		)
		req = heuristicRequirement(jdText)
	}

	if strings.TrimSpace(req.Position) == "" {
		req.Position = "Unknown position"
	}

	return req, nil
}

var yearsPattern = regexp.MustCompile(`(\d+)\s*\+?\s*years?`)

// technologies recognized by the fallback extraction. Matching is done on
// lower-cased text.
var knownTechnologies = []string{
	"go", "golang", "python", "java", "javascript", "typescript", "rust",
	"kubernetes", "docker", "terraform", "aws", "gcp", "azure",
	"postgresql", "mysql", "redis", "kafka", "grpc", "sql",
	"react", "node.js", "spring", "django",
	"microservices", "distributed systems", "machine learning",
}

// heuristicRequirement derives a requirement directly from the description
// when the model yields nothing parseable. It is intentionally crude; the
// goal is a usable requirement, not a perfect one.
func heuristicRequirement(jdText string) JobRequirement {
	lower := strings.ToLower(jdText)

	req := JobRequirement{Position: firstLine(jdText)}

	for _, tech := range knownTechnologies {
		if strings.Contains(lower, tech) {
			req.MustHave = append(req.MustHave, tech+" experience")
		}
	}

	if match := yearsPattern.FindStringSubmatch(lower); match != nil {
		if years, err := strconv.Atoi(match[1]); err == nil {
			req.MinYearsExperience = years
			req.MustHave = append(req.MustHave, fmt.Sprintf("%d+ years of experience", years))
		}
	}

	if strings.Contains(lower, "lead") || strings.Contains(lower, "management") {
		req.NiceToHave = append(req.NiceToHave, "team leadership experience")
	}
	if strings.Contains(lower, "open source") {
		req.NiceToHave = append(req.NiceToHave, "open source contributions")
	}

	if len(req.MustHave) == 0 {
		req.MustHave = []string{"relevant work experience", "solid technical foundation"}
	}
	if len(req.NiceToHave) == 0 {
		req.NiceToHave = []string{"strong learning ability", "team player"}
	}
	if len(req.DealBreaker) == 0 {
		req.DealBreaker = []string{"severely insufficient experience"}
	}

	return req
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "Unknown position"
}

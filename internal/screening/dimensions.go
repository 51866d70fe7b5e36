package screening

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrpilot/resume-screener/internal/ai"
	"github.com/hrpilot/resume-screener/internal/llmjson"
)

// DimensionGenerator produces the weighted scoring dimension set for a
// confirmed requirement.
type DimensionGenerator struct {
	gen    ai.Generator
	logger *zap.Logger
}

func NewDimensionGenerator(gen ai.Generator, logger *zap.Logger) *DimensionGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DimensionGenerator{gen: gen, logger: logger}
}

// Generate asks the completion service for a dimension set tailored to the
// requirement. Unparseable responses fall back to DefaultDimensions; either
// way the returned weights sum to 1.0.
func (g *DimensionGenerator) Generate(ctx context.Context, req JobRequirement) (ScoringDimensions, error) {
	resp, err := g.gen.GenerateContent(ctx, dimensionsSystemPrompt, buildDimensionsPrompt(req))
	if err != nil {
		return ScoringDimensions{}, fmt.Errorf("generate dimensions: %w", err)
	}

	var dims ScoringDimensions
	if err := llmjson.ParseInto(resp, &dims); err != nil || len(dims.Dimensions) == 0 {
		g.logger.Warn("dimension response had no usable JSON, using the default dimension set",
			zap.Error(err),
		)
		dims = DefaultDimensions()
	}

	if err := dims.Normalize(); err != nil {
		g.logger.Warn("generated dimension weights could not be normalized, using the default dimension set",
			zap.Error(err),
		)
		dims = DefaultDimensions()
	}

	return dims, nil
}

// DefaultDimensions is the built-in dimension set used when generation
// yields nothing usable. Weights sum to 1.0.
func DefaultDimensions() ScoringDimensions {
	return ScoringDimensions{Dimensions: []ScoringDimension{
		{
			Name:        "basic info",
			Weight:      0.1,
			Fields:      []string{"education", "years of experience", "location"},
			Description: "Education background and overall experience fit",
		},
		{
			Name:        "skill match",
			Weight:      0.4,
			Fields:      []string{"mandatory skills", "bonus skills", "skill depth"},
			Description: "Coverage of the mandatory and bonus skill requirements",
		},
		{
			Name:        "experience match",
			Weight:      0.3,
			Fields:      []string{"role relevance", "industry relevance", "achievements"},
			Description: "Relevance and quality of the candidate's work history",
		},
		{
			Name:        "soft skills",
			Weight:      0.2,
			Fields:      []string{"communication", "ownership", "teamwork"},
			Description: "Signals of communication, ownership and collaboration",
		},
	}}
}

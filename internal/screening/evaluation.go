package screening

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrpilot/resume-screener/internal/ai"
	"github.com/hrpilot/resume-screener/internal/fanout"
	"github.com/hrpilot/resume-screener/internal/llmjson"
)

// Evaluator scores a batch of candidate profiles against a requirement and
// dimension set, with a bounded number of model calls in flight.
type Evaluator struct {
	gen    ai.Generator
	exec   *fanout.Executor[CandidateProfile, CandidateEvaluation]
	logger *zap.Logger
}

func NewEvaluator(gen ai.Generator, maxConcurrency int, logger *zap.Logger) (*Evaluator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	exec, err := fanout.New[CandidateProfile, CandidateEvaluation](maxConcurrency)
	if err != nil {
		return nil, err
	}

	return &Evaluator{gen: gen, exec: exec, logger: logger}, nil
}

// Evaluate scores every profile and returns the evaluations ranked by overall
// score. A candidate whose model call fails stays in the output as a failed
// evaluation at the bottom of the ranking. onItem, when non-nil, receives
// per-item progress.
func (e *Evaluator) Evaluate(ctx context.Context, profiles []CandidateProfile, req JobRequirement, dims ScoringDimensions, onItem func(completed, total int)) ([]CandidateEvaluation, error) {
	if len(profiles) == 0 {
		return nil, validationErrorf("no candidate profiles to evaluate")
	}

	work := func(ctx context.Context, profile CandidateProfile) (CandidateEvaluation, error) {
		return e.evaluateOne(ctx, profile, req, dims)
	}

	results, err := e.exec.Run(ctx, profiles, work, onItem)
	if err != nil {
		return nil, fmt.Errorf("evaluate candidates: %w", err)
	}

	evals := make([]CandidateEvaluation, 0, len(profiles))
	for i, res := range results {
		if res.Err != nil {
			e.logger.Warn("candidate evaluation failed",
				zap.String("candidate_id", profiles[i].ID),
				zap.String("candidate_name", profiles[i].BasicInfo.Name),
				zap.Error(res.Err),
			)
			evals = append(evals, FailedEvaluation(profiles[i], res.Err))
			continue
		}
		evals = append(evals, res.Value)
	}

	Rank(evals)
	return evals, nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, profile CandidateProfile, req JobRequirement, dims ScoringDimensions) (CandidateEvaluation, error) {
	resp, err := e.gen.GenerateContent(ctx, evaluationSystemPrompt, buildEvaluationPrompt(profile, req, dims))
	if err != nil {
		return CandidateEvaluation{}, err
	}

	raw, err := llmjson.Parse(resp)
	if err != nil {
		e.logger.Warn("evaluation response had no usable JSON, scoring from defaults",
			zap.String("candidate_id", profile.ID),
			zap.Error(err),
		)
		raw = map[string]any{
			"overall_score":  0,
			"recommendation": "the evaluation response could not be parsed",
			"weaknesses":     []any{"unparseable evaluation response"},
		}
	}

	return BuildEvaluation(profile, raw, dims, e.logger), nil
}

package screening

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hrpilot/resume-screener/internal/llmjson"
)

const (
	minScore = 0.0
	maxScore = 10.0

	passThreshold    = 7.0
	warningThreshold = 4.0
)

// rawEvaluation mirrors the JSON shape the evaluation prompt asks for.
type rawEvaluation struct {
	DimensionScores []rawDimensionScore `mapstructure:"dimension_scores"`
	OverallScore    float64             `mapstructure:"overall_score"`
	Recommendation  string              `mapstructure:"recommendation"`
	Strengths       []string            `mapstructure:"strengths"`
	Weaknesses      []string            `mapstructure:"weaknesses"`
}

type rawDimensionScore struct {
	DimensionName string            `mapstructure:"dimension_name"`
	Score         float64           `mapstructure:"score"`
	Status        string            `mapstructure:"status"`
	Details       map[string]string `mapstructure:"details"`
	Comments      string            `mapstructure:"comments"`
}

func clampScore(v float64) float64 {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}

// statusForScore derives the tri-state verdict from a numeric score.
func statusForScore(score float64) EvaluationStatus {
	switch {
	case score >= passThreshold:
		return StatusPass
	case score >= warningThreshold:
		return StatusWarning
	default:
		return StatusFail
	}
}

// resolveStatus is the single status policy: an explicit, recognizable
// status token from the model takes precedence over the score-derived
// default. Unknown tokens fall back to the numeric rule.
func resolveStatus(token string, score float64) EvaluationStatus {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "pass", "✓", "ok":
		return StatusPass
	case "warning", "warn", "⚠", "⚠️":
		return StatusWarning
	case "fail", "❌", "✗":
		return StatusFail
	default:
		return statusForScore(score)
	}
}

// BuildEvaluation turns the parsed model output for one candidate into a
// CandidateEvaluation. Scores are clamped to [0,10]. When the model supplies
// a nonzero overall score it is used directly; otherwise the overall score
// is the weighted mean over dimension scores whose names match a configured
// dimension. Scores for unknown dimension names are kept in the evaluation
// but contribute nothing to the overall score.
func BuildEvaluation(profile CandidateProfile, raw map[string]any, dims ScoringDimensions, logger *zap.Logger) CandidateEvaluation {
	if logger == nil {
		logger = zap.NewNop()
	}

	var parsed rawEvaluation
	if err := llmjson.Decode(raw, &parsed); err != nil {
		logger.Warn("evaluation response did not match the expected shape",
			zap.String("candidate_id", profile.ID),
			zap.Error(err),
		)
	}

	scores := make([]DimensionScore, 0, len(parsed.DimensionScores))
	for _, rawScore := range parsed.DimensionScores {
		score := clampScore(rawScore.Score)
		scores = append(scores, DimensionScore{
			DimensionName: rawScore.DimensionName,
			Score:         score,
			Status:        resolveStatus(rawScore.Status, score),
			Details:       rawScore.Details,
			Comments:      rawScore.Comments,
		})
	}

	overall := clampScore(parsed.OverallScore)
	if parsed.OverallScore == 0 {
		overall = weightedMean(scores, dims, profile.ID, logger)
	}

	return CandidateEvaluation{
		CandidateID:     profile.ID,
		CandidateName:   profile.BasicInfo.Name,
		DimensionScores: scores,
		OverallScore:    overall,
		Recommendation:  parsed.Recommendation,
		Strengths:       parsed.Strengths,
		Weaknesses:      parsed.Weaknesses,
	}
}

// FailedEvaluation records a candidate whose evaluation call failed outright.
// The candidate stays in the final output, scored at the bottom, so the
// failure is visible in the ranking instead of silently dropped.
func FailedEvaluation(profile CandidateProfile, err error) CandidateEvaluation {
	return CandidateEvaluation{
		CandidateID:     profile.ID,
		CandidateName:   profile.BasicInfo.Name,
		DimensionScores: []DimensionScore{},
		OverallScore:    0,
		Recommendation:  fmt.Sprintf("evaluation failed: %v", err),
		Weaknesses:      []string{"an error occurred during evaluation"},
	}
}

func weightedMean(scores []DimensionScore, dims ScoringDimensions, candidateID string, logger *zap.Logger) float64 {
	var numerator, denominator float64
	for _, score := range scores {
		dim, ok := dims.Find(score.DimensionName)
		if !ok {
			logger.Warn("dimension score does not match any configured dimension",
				zap.String("candidate_id", candidateID),
				zap.String("dimension_name", score.DimensionName),
			)
			continue
		}
		numerator += score.Score * dim.Weight
		denominator += dim.Weight
	}

	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Rank orders evaluations by overall score descending and assigns rankings
// 1..N. The sort is stable: among equal scores, the candidate earlier in the
// input order ranks higher.
func Rank(evals []CandidateEvaluation) {
	sort.SliceStable(evals, func(i, j int) bool {
		return evals[i].OverallScore > evals[j].OverallScore
	})

	for i := range evals {
		evals[i].Ranking = i + 1
	}
}

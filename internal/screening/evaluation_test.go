package screening

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestEvaluateRanksCandidates(t *testing.T) {
	gen := &stubGenerator{respond: func(_ int, prompt string) (string, error) {
		score := "6.0"
		if strings.Contains(prompt, "Alice") {
			score = "8.5"
		}
		return "```json\n" + `{
			"dimension_scores": [{"dimension_name": "skill match", "score": ` + score + `, "status": "pass"}],
			"overall_score": ` + score + `,
			"recommendation": "reviewed"
		}` + "\n```", nil
	}}

	evaluator, err := NewEvaluator(gen, 2, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	profiles := []CandidateProfile{
		{ID: "c1", BasicInfo: BasicInfo{Name: "Bob"}},
		{ID: "c2", BasicInfo: BasicInfo{Name: "Alice"}},
	}

	evals, err := evaluator.Evaluate(context.Background(), profiles, JobRequirement{Position: "Go Developer"}, testDimensions(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(evals) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(evals))
	}
	if evals[0].CandidateName != "Alice" || evals[0].Ranking != 1 {
		t.Errorf("expected Alice ranked first, got %+v", evals[0])
	}
	if evals[1].CandidateName != "Bob" || evals[1].Ranking != 2 {
		t.Errorf("expected Bob ranked second, got %+v", evals[1])
	}
	if evals[0].OverallScore != 8.5 {
		t.Errorf("expected Alice scored 8.5, got %v", evals[0].OverallScore)
	}
}

func TestEvaluateKeepsFailedCandidateAtBottom(t *testing.T) {
	gen := &stubGenerator{respond: func(_ int, prompt string) (string, error) {
		if strings.Contains(prompt, "Bob") {
			return "", errors.New("model unavailable")
		}
		return `{"overall_score": 8.5, "recommendation": "strong"}`, nil
	}}

	evaluator, err := NewEvaluator(gen, 2, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	profiles := []CandidateProfile{
		{ID: "c1", BasicInfo: BasicInfo{Name: "Bob"}},
		{ID: "c2", BasicInfo: BasicInfo{Name: "Alice"}},
	}

	evals, err := evaluator.Evaluate(context.Background(), profiles, JobRequirement{}, testDimensions(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if evals[0].CandidateName != "Alice" || evals[0].OverallScore != 8.5 {
		t.Errorf("expected Alice ranked first with 8.5, got %+v", evals[0])
	}
	failed := evals[1]
	if failed.CandidateName != "Bob" || failed.OverallScore != 0 {
		t.Errorf("expected Bob at the bottom with score 0, got %+v", failed)
	}
	if !strings.Contains(failed.Recommendation, "evaluation failed") {
		t.Errorf("expected failure noted in recommendation, got %q", failed.Recommendation)
	}
	if failed.Ranking != 2 {
		t.Errorf("expected ranking 2, got %d", failed.Ranking)
	}
}

func TestEvaluateUnparseableResponseScoresZero(t *testing.T) {
	gen := &stubGenerator{respond: func(_ int, _ string) (string, error) {
		return "the candidate seems fine to me", nil
	}}

	evaluator, err := NewEvaluator(gen, 1, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	evals, err := evaluator.Evaluate(context.Background(), []CandidateProfile{
		{ID: "c1", BasicInfo: BasicInfo{Name: "Alice"}},
	}, JobRequirement{}, testDimensions(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if evals[0].OverallScore != 0 {
		t.Errorf("expected score 0 for an unparseable response, got %v", evals[0].OverallScore)
	}
	if evals[0].Recommendation == "" {
		t.Error("expected a recommendation explaining the parse failure")
	}
}

func TestEvaluateRejectsEmptyBatch(t *testing.T) {
	evaluator, err := NewEvaluator(&stubGenerator{}, 1, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	_, err = evaluator.Evaluate(context.Background(), nil, JobRequirement{}, testDimensions(), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEvaluateReportsProgress(t *testing.T) {
	gen := &stubGenerator{respond: func(_ int, _ string) (string, error) {
		return `{"overall_score": 7.0}`, nil
	}}

	evaluator, err := NewEvaluator(gen, 2, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	var (
		mu        sync.Mutex
		calls     int
		lastTotal int
	)
	onItem := func(completed, total int) {
		mu.Lock()
		calls++
		lastTotal = total
		mu.Unlock()
	}

	profiles := []CandidateProfile{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}
	if _, err := evaluator.Evaluate(context.Background(), profiles, JobRequirement{}, testDimensions(), onItem); err != nil {
		t.Fatal(err)
	}

	if calls != len(profiles) {
		t.Errorf("expected %d progress calls, got %d", len(profiles), calls)
	}
	if lastTotal != len(profiles) {
		t.Errorf("expected total %d, got %d", len(profiles), lastTotal)
	}
}

package screening

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hrpilot/resume-screener/internal/ai"
	"github.com/hrpilot/resume-screener/internal/extract"
	"github.com/hrpilot/resume-screener/internal/fanout"
	"github.com/hrpilot/resume-screener/internal/llmjson"
)

// Structurer converts extracted resume documents into candidate profiles,
// fanning the model calls out with a bounded number in flight.
type Structurer struct {
	gen    ai.Generator
	exec   *fanout.Executor[extract.Document, CandidateProfile]
	logger *zap.Logger
}

func NewStructurer(gen ai.Generator, maxConcurrency int, logger *zap.Logger) (*Structurer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	exec, err := fanout.New[extract.Document, CandidateProfile](maxConcurrency)
	if err != nil {
		return nil, err
	}

	return &Structurer{gen: gen, exec: exec, logger: logger}, nil
}

// Structure turns every document into a CandidateProfile. A document whose
// model call or parse fails still yields a minimal profile built from the
// file metadata, so the candidate is not silently dropped. Zero documents is
// a stage-fatal validation error. onItem, when non-nil, receives per-item
// progress.
func (s *Structurer) Structure(ctx context.Context, docs []extract.Document, onItem func(completed, total int)) ([]CandidateProfile, error) {
	if len(docs) == 0 {
		return nil, validationErrorf("no resume documents to structure")
	}

	results, err := s.exec.Run(ctx, docs, s.structureOne, onItem)
	if err != nil {
		return nil, fmt.Errorf("structure resumes: %w", err)
	}

	profiles := make([]CandidateProfile, 0, len(docs))
	for i, res := range results {
		if res.Err != nil {
			s.logger.Warn("resume structuring failed, keeping a minimal profile",
				zap.String("file", docs[i].Name),
				zap.Error(res.Err),
			)
			profiles = append(profiles, fallbackProfile(docs[i]))
			continue
		}
		profiles = append(profiles, res.Value)
	}

	return profiles, nil
}

func (s *Structurer) structureOne(ctx context.Context, doc extract.Document) (CandidateProfile, error) {
	resp, err := s.gen.GenerateContent(ctx, structureSystemPrompt, buildStructurePrompt(doc.Name, doc.Text))
	if err != nil {
		return CandidateProfile{}, err
	}

	var profile CandidateProfile
	if err := llmjson.ParseInto(resp, &profile); err != nil {
		return CandidateProfile{}, err
	}

	profile.ID = doc.ID
	profile.SourceFile = doc.Name
	if strings.TrimSpace(profile.BasicInfo.Name) == "" {
		profile.BasicInfo.Name = nameFromFile(doc.Name)
	}

	return profile, nil
}

// fallbackProfile is what a candidate looks like when structuring failed:
// identity from the file, everything else empty.
func fallbackProfile(doc extract.Document) CandidateProfile {
	return CandidateProfile{
		ID:         doc.ID,
		SourceFile: doc.Name,
		BasicInfo:  BasicInfo{Name: nameFromFile(doc.Name)},
	}
}

func nameFromFile(fileName string) string {
	name := fileName
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "Unknown"
	}
	return name
}

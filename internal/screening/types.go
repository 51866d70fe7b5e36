// Package screening holds the domain model and the LLM-backed stage nodes of
// the resume screening pipeline: requirement extraction, scoring dimension
// generation, resume structuring, candidate evaluation and report rendering.
package screening

import (
	"math"
)

// weightTolerance is how far dimension weights may drift from summing to 1.0
// before they are renormalized.
const weightTolerance = 0.01

// JobRequirement is the confirmed hiring requirement for one screening run.
// It is immutable once the requirement stage completes.
type JobRequirement struct {
	Position           string   `json:"position" mapstructure:"position"`
	MustHave           []string `json:"must_have" mapstructure:"must_have"`
	NiceToHave         []string `json:"nice_to_have" mapstructure:"nice_to_have"`
	DealBreaker        []string `json:"deal_breaker" mapstructure:"deal_breaker"`
	MinYearsExperience int      `json:"min_years_experience,omitempty" mapstructure:"min_years_experience"`
	Industry           string   `json:"industry,omitempty" mapstructure:"industry"`
}

// ScoringDimension is one named, weighted category of candidate assessment.
type ScoringDimension struct {
	Name        string   `json:"name" mapstructure:"name"`
	Weight      float64  `json:"weight" mapstructure:"weight"`
	Fields      []string `json:"fields" mapstructure:"fields"`
	Description string   `json:"description,omitempty" mapstructure:"description"`
}

// ScoringDimensions is the full dimension set generated for a requirement.
type ScoringDimensions struct {
	Dimensions []ScoringDimension `json:"dimensions" mapstructure:"dimensions"`
}

// Normalize rescales the weights so they sum to 1.0 when the observed sum is
// outside tolerance, preserving their relative ratio. A zero weight sum
// cannot be rescaled and is reported as an error.
func (d *ScoringDimensions) Normalize() error {
	var sum float64
	for _, dim := range d.Dimensions {
		sum += dim.Weight
	}

	if sum == 0 {
		return validationErrorf("dimension weights sum to zero")
	}

	if math.Abs(sum-1.0) <= weightTolerance {
		return nil
	}

	for i := range d.Dimensions {
		d.Dimensions[i].Weight /= sum
	}
	return nil
}

// Find returns the dimension with the given name, or false when the name is
// not part of the configured set.
func (d *ScoringDimensions) Find(name string) (ScoringDimension, bool) {
	for _, dim := range d.Dimensions {
		if dim.Name == name {
			return dim, true
		}
	}
	return ScoringDimension{}, false
}

// BasicInfo is the identifying slice of a candidate profile.
type BasicInfo struct {
	Name            string `json:"name" mapstructure:"name"`
	Email           string `json:"email,omitempty" mapstructure:"email"`
	Phone           string `json:"phone,omitempty" mapstructure:"phone"`
	Location        string `json:"location,omitempty" mapstructure:"location"`
	ExperienceYears int    `json:"experience_years,omitempty" mapstructure:"experience_years"`
	CurrentRole     string `json:"current_role,omitempty" mapstructure:"current_role"`
	CurrentCompany  string `json:"current_company,omitempty" mapstructure:"current_company"`
}

// Education is one entry of a candidate's education history.
type Education struct {
	Degree         string  `json:"degree" mapstructure:"degree"`
	Major          string  `json:"major" mapstructure:"major"`
	School         string  `json:"school" mapstructure:"school"`
	GraduationYear int     `json:"graduation_year,omitempty" mapstructure:"graduation_year"`
	GPA            float64 `json:"gpa,omitempty" mapstructure:"gpa"`
}

// WorkExperience is one entry of a candidate's work history.
type WorkExperience struct {
	Company      string   `json:"company" mapstructure:"company"`
	Position     string   `json:"position" mapstructure:"position"`
	StartDate    string   `json:"start_date,omitempty" mapstructure:"start_date"`
	EndDate      string   `json:"end_date,omitempty" mapstructure:"end_date"`
	Description  string   `json:"description,omitempty" mapstructure:"description"`
	Achievements []string `json:"achievements,omitempty" mapstructure:"achievements"`
}

// Skill is one named skill with optional proficiency metadata.
type Skill struct {
	Name            string `json:"name" mapstructure:"name"`
	Level           string `json:"level,omitempty" mapstructure:"level"`
	YearsExperience int    `json:"years_experience,omitempty" mapstructure:"years_experience"`
	Description     string `json:"description,omitempty" mapstructure:"description"`
}

// CandidateProfile is one structured resume. Profiles are read-only after
// the structuring stage creates them.
type CandidateProfile struct {
	ID             string           `json:"id" mapstructure:"id"`
	SourceFile     string           `json:"source_file,omitempty" mapstructure:"source_file"`
	BasicInfo      BasicInfo        `json:"basic_info" mapstructure:"basic_info"`
	Education      []Education      `json:"education,omitempty" mapstructure:"education"`
	WorkExperience []WorkExperience `json:"work_experience,omitempty" mapstructure:"work_experience"`
	Skills         []Skill          `json:"skills,omitempty" mapstructure:"skills"`
	Certifications []string         `json:"certifications,omitempty" mapstructure:"certifications"`
	Languages      []string         `json:"languages,omitempty" mapstructure:"languages"`
	Projects       []string         `json:"projects,omitempty" mapstructure:"projects"`
	GithubURL      string           `json:"github_url,omitempty" mapstructure:"github_url"`
	LinkedinURL    string           `json:"linkedin_url,omitempty" mapstructure:"linkedin_url"`
}

// EvaluationStatus is the tri-state verdict attached to a dimension score.
type EvaluationStatus string

const (
	StatusPass    EvaluationStatus = "pass"
	StatusWarning EvaluationStatus = "warning"
	StatusFail    EvaluationStatus = "fail"
)

// Symbol returns the marker used for the status in rendered reports.
func (s EvaluationStatus) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarning:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

// DimensionScore is a candidate's score on one dimension.
type DimensionScore struct {
	DimensionName string            `json:"dimension_name" mapstructure:"dimension_name"`
	Score         float64           `json:"score" mapstructure:"score"`
	Status        EvaluationStatus  `json:"status" mapstructure:"status"`
	Details       map[string]string `json:"details,omitempty" mapstructure:"details"`
	Comments      string            `json:"comments,omitempty" mapstructure:"comments"`
}

// CandidateEvaluation is the evaluation outcome for one candidate in one
// run. Ranking is assigned exactly once, by Rank, after the whole batch has
// been collected.
type CandidateEvaluation struct {
	CandidateID     string           `json:"candidate_id"`
	CandidateName   string           `json:"candidate_name"`
	DimensionScores []DimensionScore `json:"dimension_scores"`
	OverallScore    float64          `json:"overall_score"`
	Recommendation  string           `json:"recommendation"`
	Strengths       []string         `json:"strengths,omitempty"`
	Weaknesses      []string         `json:"weaknesses,omitempty"`
	Ranking         int              `json:"ranking,omitempty"`
}

package ai

import "context"

// Generator is the completion service used by every pipeline stage. Latency
// and failure modes of the backing service are opaque to callers.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moodlist/internal/services"
)

const responderSystemPrompt = "You are a helpful and kind assistant. Respond to the user query based on the conversation history."

// Responder sampling values that are not caller-tunable.
const (
	responderTopK              = 5
	responderRepetitionPenalty = 1.02
)

// SamplingOptions are the caller-tunable parameters for one reply. Expected
// ranges are temperature [0.01,5.0], top_p [0.01,1.0], max_tokens [32,128];
// values are passed through unvalidated and the endpoint may reject or clamp
// out-of-range ones.
type SamplingOptions struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Responder produces one assistant reply per call, conditioned on the memory
// context and the current user turn.
type Responder struct {
	generator services.Generator
}

func NewResponder(generator services.Generator) *Responder {
	return &Responder{generator: generator}
}

// Generate builds the conversation prompt and issues one generation call.
// Generation stops at the first newline, so a reply is always a single line.
func (r *Responder) Generate(ctx context.Context, text, memoryContext string, opts SamplingOptions) (string, error) {
	prompt := fmt.Sprintf("%s\n\n%sUser: %s\nAssistant:", responderSystemPrompt, memoryContext, sanitize(text))

	params := &services.GenerationParams{
		MaxNewTokens:      opts.MaxTokens,
		Temperature:       opts.Temperature,
		TopP:              opts.TopP,
		TopK:              responderTopK,
		RepetitionPenalty: responderRepetitionPenalty,
		Stop:              []string{"\n"},
	}

	reply, err := r.generator.Generate(ctx, prompt, params)
	if err != nil {
		return "", fmt.Errorf("reply generation failed: %w", err)
	}

	return strings.TrimSpace(reply), nil
}

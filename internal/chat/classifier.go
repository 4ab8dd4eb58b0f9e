// package chat holds the generation-backed conversational pieces: the mood
// classifier and the reply synthesizer.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moodlist/internal/services"
)

// UnknownMood is the sentinel label returned when classifier output cannot
// be parsed. It flows into playlist naming and search like any other label.
const UnknownMood = "Unknown"

const moodPromptFormat = "You are an AI assistant, you detect the user emotion based on their input and respond in a single word that is the emotion you have detected. The following sentence is the user input: '%s'"

// Classifier derives a single-word mood label from raw user input with one
// non-streamed generation call.
type Classifier struct {
	generator services.Generator
}

func NewClassifier(generator services.Generator) *Classifier {
	return &Classifier{generator: generator}
}

// Detect classifies the input and always returns a non-empty label. Malformed
// model output degrades to [UnknownMood]; only transport or auth failure of
// the generation call returns an error.
func (c *Classifier) Detect(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(moodPromptFormat, sanitize(text))

	raw, err := c.generator.Generate(ctx, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("mood detection failed: %w", err)
	}

	return parseMood(raw), nil
}

// parseMood splits the generated text on ':' and takes the first
// whitespace-delimited token after the first delimiter. Anything else
// degrades to the sentinel.
func parseMood(raw string) string {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return UnknownMood
	}

	fields := strings.Fields(parts[1])
	if len(fields) == 0 {
		return UnknownMood
	}

	return fields[0]
}

// sanitize strips control characters from user text before it is embedded in
// an instruction prompt. Newlines become spaces so the input cannot inject
// extra prompt lines.
func sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, text)
}

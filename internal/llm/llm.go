package llm

import "context"

// TextGenerator is an interface for a client that can interact with a
// large language model.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

package ports

import "context"

// TextGenerator turns a prompt into generated prose.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

package generation

import "context"

// TextProvider returns the first text candidate for a prompt.
// Any shape deviation in the upstream response must be reported as an error.
type TextProvider interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type ImageProvider interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type VideoProvider interface {
	GenerateVideo(ctx context.Context, prompt string) (string, error)
}

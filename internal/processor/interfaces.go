package processor

import "context"

// Oracle is the external text-generation capability. Implementations vary
// by provider; the pipeline only assumes that the returned text is
// expected, not guaranteed, to parse as JSON. payload is marshaled to JSON
// and sent as the user message.
type Oracle interface {
	Generate(ctx context.Context, payload any, systemPrompt string, temperature float64) (string, error)
}

// TextExtractor converts an uploaded document into plain text. The
// pipeline consumes its output through CleanText; the implementation lives
// outside the core.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

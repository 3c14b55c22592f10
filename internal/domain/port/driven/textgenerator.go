package driven

import (
	"context"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
)

// TextGenerator defines the driven port for the language model.
type TextGenerator interface {
	// Generate submits prompt as a single request and returns the first
	// candidate's text verbatim.
	Generate(ctx context.Context, prompt model.Prompt) (string, error)
}

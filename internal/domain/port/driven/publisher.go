package driven

import (
	"context"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
)

// Publisher defines the driven port for the social-posting service. Every
// successful call creates one visible post; there is no idempotency key.
type Publisher interface {
	Publish(ctx context.Context, text string) (model.PostResult, error)
}

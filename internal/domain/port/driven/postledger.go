package driven

import (
	"context"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
)

// PostLedger defines the driven port for remembering published posts so the
// same batch is not posted twice.
type PostLedger interface {
	// HasPosted reports whether a post was already recorded for batchKey.
	HasPosted(ctx context.Context, batchKey string) (bool, error)

	// Record stores a published post.
	Record(ctx context.Context, rec model.PostRecord) error
}

package driven

import (
	"context"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
)

// Approver gates publishing on an operator decision. A nil Approver means the
// pipeline runs unattended and publishes every successful draft.
type Approver interface {
	// Approve presents the batch and draft and returns true only on an
	// explicit affirmative answer.
	Approve(ctx context.Context, batch model.CommitBatch, draft model.PostDraft) (bool, error)
}

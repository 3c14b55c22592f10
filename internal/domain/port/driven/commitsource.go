package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
)

// CommitSource defines the driven port for reading a user's commits from the
// source-control host.
type CommitSource interface {
	// FetchCommits returns the commits authored by username at or after since,
	// newest first. An empty slice is a normal result.
	FetchCommits(ctx context.Context, username string, since time.Time) ([]model.Commit, error)

	// Authenticate verifies the configured credentials and returns the login
	// they belong to.
	Authenticate(ctx context.Context) (string, error)
}

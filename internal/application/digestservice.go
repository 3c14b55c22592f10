// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
	"github.com/ericfisherdev/commitcast/internal/domain/port/driven"
)

// DigestService runs the fetch, summarize, publish pipeline for one user.
// Each run is strictly sequential and keeps no state between runs.
type DigestService struct {
	source     driven.CommitSource
	summarizer *Summarizer
	publisher  driven.Publisher
	ledger     driven.PostLedger
	approver   driven.Approver
	username   string
	now        func() time.Time
}

// NewDigestService creates a new DigestService. ledger may be nil to disable
// the already-posted guard. approver may be nil for unattended runs, in which
// case every successful draft is published.
func NewDigestService(
	source driven.CommitSource,
	summarizer *Summarizer,
	publisher driven.Publisher,
	ledger driven.PostLedger,
	approver driven.Approver,
	username string,
) *DigestService {
	return &DigestService{
		source:     source,
		summarizer: summarizer,
		publisher:  publisher,
		ledger:     ledger,
		approver:   approver,
		username:   username,
		now:        time.Now,
	}
}

// SetClock replaces the time source used to compute the start of today.
func (s *DigestService) SetClock(now func() time.Time) {
	s.now = now
}

// FetchToday returns today's commits for the configured user. A fetch failure
// other than bad credentials is logged and reported as an empty batch.
func (s *DigestService) FetchToday(ctx context.Context) (model.CommitBatch, error) {
	return s.fetchToday(ctx, slog.Default())
}

func (s *DigestService) fetchToday(ctx context.Context, log *slog.Logger) (model.CommitBatch, error) {
	since := model.StartOfDay(s.now())

	commits, err := s.source.FetchCommits(ctx, s.username, since)
	if err != nil {
		if errors.Is(err, driven.ErrAuthentication) || ctx.Err() != nil {
			return model.CommitBatch{Since: since}, fmt.Errorf("fetch commits: %w", err)
		}
		log.Error("commit fetch failed, treating as no commits", "error", err)
		commits = nil
	}

	return model.NewCommitBatch(commits, since), nil
}

// RunOnce executes a single pipeline run. It returns an error when a stage
// fails after fetching (generation, approval, ledger, publish) or when the
// commit host rejects the credentials. Publish failures are returned, never
// swallowed; callers decide whether they are fatal.
func (s *DigestService) RunOnce(ctx context.Context) (model.RunResult, error) {
	start := time.Now()
	result := model.RunResult{RunID: uuid.NewString()}
	log := slog.With("run_id", result.RunID)

	log.Info("run started", "stage", model.RunStageFetching, "username", s.username)

	batch, err := s.fetchToday(ctx, log)
	result.Batch = batch
	if err != nil {
		log.Error("run aborted", "stage", model.RunStageFetching, "error", err)
		return result, err
	}

	if batch.IsEmpty() {
		result.Outcome = model.RunOutcomeNoCommits
		log.Info("no commits found for today", "since", batch.Since)
		return result, nil
	}

	repos := batch.Repositories()
	log.Info("commits found", "count", len(batch.Commits), "repositories", repos)
	for _, c := range batch.Commits {
		log.Info("commit",
			"repository", c.Repository,
			"message", firstLine(c.Message),
			"time", c.Timestamp.Local().Format(time.Kitchen),
			"url", c.URL,
		)
	}

	if s.ledger != nil {
		posted, err := s.ledger.HasPosted(ctx, batch.Key())
		if err != nil {
			return result, fmt.Errorf("check post ledger: %w", err)
		}
		if posted {
			result.Outcome = model.RunOutcomeAlreadyPosted
			log.Info("batch already posted, skipping", "day", batch.Day())
			return result, nil
		}
	}

	log.Info("generating post", "stage", model.RunStageSummarizing)
	draft, err := s.summarizer.Summarize(ctx, batch.Messages(), repos)
	if err != nil {
		log.Error("run aborted", "stage", model.RunStageSummarizing, "error", err)
		return result, fmt.Errorf("summarize commits: %w", err)
	}
	result.Draft = draft
	log.Info("post generated", "draft", draft.String())

	if s.approver != nil {
		approved, err := s.approver.Approve(ctx, batch, draft)
		if err != nil {
			return result, fmt.Errorf("approve draft: %w", err)
		}
		if !approved {
			result.Outcome = model.RunOutcomeDeclined
			log.Info("post declined by operator", "stage", model.RunStageApproving)
			return result, nil
		}
	}

	log.Info("publishing post", "stage", model.RunStagePublishing)
	post, err := s.publisher.Publish(ctx, draft.String())
	if err != nil {
		log.Error("run aborted", "stage", model.RunStagePublishing, "error", err)
		return result, fmt.Errorf("publish post: %w", err)
	}
	result.Post = &post
	result.Outcome = model.RunOutcomePublished

	if s.ledger != nil {
		rec := model.PostRecord{
			RunID:    result.RunID,
			Day:      batch.Day(),
			BatchKey: batch.Key(),
			PostID:   post.ID,
			URL:      post.URL,
			Text:     draft.String(),
		}
		if err := s.ledger.Record(ctx, rec); err != nil {
			log.Warn("post published but not recorded in ledger", "post_id", post.ID, "error", err)
		}
	}

	log.Info("run complete",
		"post_id", post.ID,
		"url", post.URL,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return result, nil
}

// firstLine returns the subject line of a commit message.
func firstLine(msg string) string {
	subject, _, _ := strings.Cut(msg, "\n")
	return subject
}

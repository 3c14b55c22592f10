package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Commit is a single commit attributed to the configured user. SHA and URL are
// only populated by the search-based source; the events-based source fills
// Message, Timestamp and Repository.
type Commit struct {
	SHA        string
	Message    string
	Repository string
	Timestamp  time.Time
	URL        string
}

// StartOfDay returns midnight of t's calendar day in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CommitBatch holds the commits for a single day, in source order.
type CommitBatch struct {
	Since   time.Time
	Commits []Commit
}

// NewCommitBatch builds a batch from fetched commits, dropping anything older
// than since. Sources are expected to filter already; this catches inclusive
// query boundaries that leak yesterday's commits.
func NewCommitBatch(commits []Commit, since time.Time) CommitBatch {
	kept := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if c.Timestamp.Before(since) {
			continue
		}
		kept = append(kept, c)
	}
	return CommitBatch{Since: since, Commits: kept}
}

// IsEmpty reports whether the batch has no commits.
func (b CommitBatch) IsEmpty() bool {
	return len(b.Commits) == 0
}

// Messages returns the raw commit messages in batch order. Duplicates are kept.
func (b CommitBatch) Messages() []string {
	messages := make([]string, 0, len(b.Commits))
	for _, c := range b.Commits {
		messages = append(messages, c.Message)
	}
	return messages
}

// Repositories returns the unique repository names in first-seen order.
func (b CommitBatch) Repositories() []string {
	seen := make(map[string]struct{}, len(b.Commits))
	repos := make([]string, 0, len(b.Commits))
	for _, c := range b.Commits {
		if c.Repository == "" {
			continue
		}
		if _, ok := seen[c.Repository]; ok {
			continue
		}
		seen[c.Repository] = struct{}{}
		repos = append(repos, c.Repository)
	}
	return repos
}

// Day returns the batch's calendar day formatted as YYYY-MM-DD.
func (b CommitBatch) Day() string {
	return b.Since.Format(time.DateOnly)
}

// Key returns a deterministic idempotency key for publishing this batch.
// Two runs on the same day over the same commits produce the same key.
func (b CommitBatch) Key() string {
	h := sha256.New()
	h.Write([]byte(b.Day()))
	for _, repo := range b.Repositories() {
		h.Write([]byte{0})
		h.Write([]byte(repo))
	}
	h.Write([]byte{1})
	for _, msg := range b.Messages() {
		h.Write([]byte{0})
		h.Write([]byte(msg))
	}
	return hex.EncodeToString(h.Sum(nil))
}

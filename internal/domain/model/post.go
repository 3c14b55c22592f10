package model

import "time"

// PostDraft is the generated post text awaiting publication. Length and
// lead-in rules are requested from the model, not enforced.
type PostDraft string

// String returns the draft text.
func (d PostDraft) String() string {
	return string(d)
}

// PostResult identifies a published post.
type PostResult struct {
	ID  string
	URL string
}

// PostRecord is a ledger entry for a published post.
type PostRecord struct {
	RunID     string
	Day       string // YYYY-MM-DD in local time.
	BatchKey  string
	PostID    string
	URL       string
	Text      string
	CreatedAt time.Time
}

package model

// RunResult summarizes one pipeline run. Draft is empty unless summarizing
// succeeded; Post is nil unless the run published.
type RunResult struct {
	RunID   string
	Outcome RunOutcome
	Batch   CommitBatch
	Draft   PostDraft
	Post    *PostResult
}

package model

// CommitSourceKind selects how commits are discovered on the hosting API.
type CommitSourceKind string

const (
	CommitSourceSearch CommitSourceKind = "search" // Commit search API; yields SHA and URL.
	CommitSourceEvents CommitSourceKind = "events" // User events API; push events only.
)

// RunOutcome describes how a pipeline run ended without error.
type RunOutcome string

const (
	RunOutcomeNoCommits     RunOutcome = "no_commits"
	RunOutcomeDeclined      RunOutcome = "declined"
	RunOutcomeAlreadyPosted RunOutcome = "already_posted"
	RunOutcomePublished     RunOutcome = "published"
)

// RunStage names a pipeline stage for logging.
type RunStage string

const (
	RunStageFetching    RunStage = "fetching"
	RunStageSummarizing RunStage = "summarizing"
	RunStageApproving   RunStage = "approving"
	RunStagePublishing  RunStage = "publishing"
)

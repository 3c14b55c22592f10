package driven

import "errors"

// Adapters wrap collaborator failures with one of these sentinels so the
// application can decide how a run proceeds using errors.Is.
var (
	// ErrAuthentication means a collaborator rejected the configured credentials.
	ErrAuthentication = errors.New("authentication failed")

	// ErrFetch means commits could not be read from the hosting API.
	ErrFetch = errors.New("fetch commits failed")

	// ErrGeneration means the text generator failed or returned no usable content.
	ErrGeneration = errors.New("generate post failed")

	// ErrPublish means the social post could not be created.
	ErrPublish = errors.New("publish post failed")
)

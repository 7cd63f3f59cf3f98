package entities

import "errors"

var (
	// ErrManifestNotFound is returned when a project has no readable manifest.
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrCollaboratorUnavailable marks a registry, feed, scanner or runner that could not be reached.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrApplyFailure marks a single update candidate that could not be installed.
	ErrApplyFailure = errors.New("failed to apply update")

	// ErrTestRegression marks a test run that failed after updates were applied.
	ErrTestRegression = errors.New("tests failed after update")

	// ErrConflictBlocked is returned when breaking updates are present and auto-resolution is disabled.
	ErrConflictBlocked = errors.New("update blocked by conflicts")
)

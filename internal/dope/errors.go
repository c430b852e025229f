package dope

import "errors"

var (
	// ErrNoShots is returned when a chronograph session has zero shots;
	// there is nothing to merge and no staging state is created.
	ErrNoShots = errors.New("chronograph session has no shots")

	// ErrNoStagedRows is returned on an attempt to save an empty staging
	// session.
	ErrNoStagedRows = errors.New("no staged shot rows to save")

	// ErrUnknownShot is returned when an edit names a shot number that is
	// not present in the staging session.
	ErrUnknownShot = errors.New("no staged row with that shot number")

	// ErrNotFound is the store-level sentinel for a missing record.
	// Store implementations return it (wrapped) from all Get operations.
	ErrNotFound = errors.New("record not found")
)

package project

import "errors"

var (
	// ErrProjectNotFound is returned by the registry for an unknown name.
	ErrProjectNotFound = errors.New("tracker: project not found")
	// ErrProjectInactive is returned by Claim while the project is paused.
	ErrProjectInactive = errors.New("tracker: project not active")
)

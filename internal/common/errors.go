// Package common defines shared constants and sentinel errors used across
// the inspection engine. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound   = errors.New("not found")
	ErrInvalidKey = errors.New("invalid snapshot key")

	// Session lifecycle errors.
	ErrInspectionExists = errors.New("a completed inspection of this type already exists for the mission")
	ErrNoActiveSession  = errors.New("no active inspection session")
	ErrSessionActive    = errors.New("an inspection session is already active")
	ErrNoPendingResume  = errors.New("no saved progress awaiting a resume decision")

	// Remote data service errors.
	ErrUnavailable      = errors.New("data service unreachable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMissionNotClosed = errors.New("mission not closed")
)

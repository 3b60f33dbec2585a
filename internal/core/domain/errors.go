package domain

import "errors"

var (
	// ErrInvalidInput means the title or artist was blank.
	ErrInvalidInput = errors.New("domain: title and artist are required")
	// ErrEmptyPalette means the palette collaborator produced no colors.
	ErrEmptyPalette = errors.New("domain: could not generate a palette")
	// ErrSuperseded means a newer generation started before this one finished.
	ErrSuperseded = errors.New("domain: generation superseded by a newer request")
	// ErrGenerationFailed covers unexpected failures while generating.
	ErrGenerationFailed = errors.New("domain: generation failed")
	// ErrNothingToRegenerate means no song has been generated yet.
	ErrNothingToRegenerate = errors.New("domain: nothing to regenerate")
	// ErrNotFound is returned by repositories for unknown ids.
	ErrNotFound = errors.New("domain: not found")
)

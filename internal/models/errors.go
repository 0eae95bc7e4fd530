package models

import "errors"

var (
	// ErrChannelNotFound is returned when the API reports no channel matching
	// a reference.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrAmbiguousReference is returned when a channel reference carries more
	// than one identifier. The reference must be disambiguated, not guessed.
	ErrAmbiguousReference = errors.New("ambiguous channel reference: set exactly one of channel_id, username, custom_url")
)

package analyzer

import "fmt"

// FetchError reports a failed video fetch for one channel. A single failed
// request discards the whole channel: a channel either fully succeeds or is
// fully skipped, so no report ever carries a partial channel.
type FetchError struct {
	ChannelID string
	// Batch is the zero-based index of the failed details batch, or -1 when
	// the id listing itself failed.
	Batch int
	Err   error
}

func (e *FetchError) Error() string {
	if e.Batch < 0 {
		return fmt.Sprintf("fetch videos for channel %s: list ids: %v", e.ChannelID, e.Err)
	}
	return fmt.Sprintf("fetch videos for channel %s: details batch %d: %v", e.ChannelID, e.Batch, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

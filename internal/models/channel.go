package models

import (
	"fmt"
	"strings"
)

// ChannelRef identifies a channel in the configuration file. Exactly one of
// the three identifier fields must be set.
type ChannelRef struct {
	ChannelID string `yaml:"channel_id,omitempty" json:"channelId,omitempty"`
	Username  string `yaml:"username,omitempty" json:"username,omitempty"`
	CustomURL string `yaml:"custom_url,omitempty" json:"customUrl,omitempty"`
}

// IdentifierCount returns how many identifier fields are set.
func (r ChannelRef) IdentifierCount() int {
	n := 0
	if r.ChannelID != "" {
		n++
	}
	if r.Username != "" {
		n++
	}
	if r.CustomURL != "" {
		n++
	}
	return n
}

// Validate reports whether the reference is usable. A reference with no
// identifier is malformed; one with several is ambiguous and must be
// disambiguated in the config rather than guessed at.
func (r ChannelRef) Validate() error {
	switch r.IdentifierCount() {
	case 0:
		return fmt.Errorf("channel reference needs one of channel_id, username or custom_url")
	case 1:
		return nil
	default:
		return ErrAmbiguousReference
	}
}

func (r ChannelRef) String() string {
	switch {
	case r.ChannelID != "":
		return r.ChannelID
	case r.Username != "":
		return r.Username
	case r.CustomURL != "":
		return "@" + strings.TrimPrefix(r.CustomURL, "@")
	}
	return "<empty>"
}

// ChannelSummary is the resolved form of a ChannelRef. Created once per run
// per channel and immutable afterwards.
type ChannelSummary struct {
	ChannelID       string `json:"channelId"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	URL             string `json:"url"`
	SubscriberCount int64  `json:"subscriberCount"`
	ViewCount       int64  `json:"viewCount"`
	VideoCount      int64  `json:"videoCount"`
}

// ChannelURL renders the canonical channel page URL for an id.
func ChannelURL(channelID string) string {
	return "https://www.youtube.com/channel/" + channelID
}

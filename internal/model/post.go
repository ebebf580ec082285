package model

import "encoding/json"

// Post is a single entry of the posts collection.
// Only Timestamp and MediaURL matter to the sweeper; the remaining fields
// travel in Payload untouched.
type Post struct {
	ID string `json:"id"`
	// Timestamp is the creation time in epoch milliseconds. Nil when absent.
	Timestamp *int64          `json:"timestamp,omitempty"`
	MediaURL  string          `json:"videoURL,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// HasTimestamp reports whether the post carries a usable creation time.
// A zero timestamp counts as missing.
func (p Post) HasTimestamp() bool {
	return p.Timestamp != nil && *p.Timestamp != 0
}

// HasMedia reports whether the post references a media object.
func (p Post) HasMedia() bool {
	return p.MediaURL != ""
}

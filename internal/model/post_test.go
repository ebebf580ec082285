package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPost_HasTimestamp(t *testing.T) {
	ts := int64(1700000000000)
	zero := int64(0)

	assert.True(t, Post{Timestamp: &ts}.HasTimestamp())
	assert.False(t, Post{Timestamp: &zero}.HasTimestamp())
	assert.False(t, Post{}.HasTimestamp())
}

func TestPost_HasMedia(t *testing.T) {
	assert.True(t, Post{MediaURL: "https://host/o/a.mp4"}.HasMedia())
	assert.False(t, Post{}.HasMedia())
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactions(t *testing.T) {
	r := NewReactions()
	assert.Equal(t, Reaction{}, r.Get(1))

	r.Liked(1)
	assert.Equal(t, Reaction{Liked: true}, r.Get(1))

	assert.Equal(t, Reaction{Disliked: true}, r.ToggleDislike(1))
	assert.Equal(t, Reaction{}, r.ToggleDislike(1))

	r.ToggleDislike(2)
	r.Liked(2)
	assert.Equal(t, Reaction{Liked: true}, r.Get(2))
}

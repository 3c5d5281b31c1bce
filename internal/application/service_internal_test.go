package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenLiveBoundary(t *testing.T) {
	now := time.Now().UTC()

	assert.False(t, tokenLive(nil, now), "no expiry means no live token")

	at := now
	assert.False(t, tokenLive(&at, now), "expiry equal to the current instant is already dead")

	past := now.Add(-time.Nanosecond)
	assert.False(t, tokenLive(&past, now))

	future := now.Add(time.Second)
	assert.True(t, tokenLive(&future, now))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", normalizeEmail("  Ada@Example.COM "))
	assert.Equal(t, "a@b.c", normalizeEmail("a@b.c"))
}

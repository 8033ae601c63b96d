package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderPair(t *testing.T) {
	t.Run("both argument orders yield the same pair", func(t *testing.T) {
		lo1, hi1 := OrderPair("2", "9")
		lo2, hi2 := OrderPair("9", "2")

		assert.Equal(t, lo1, lo2)
		assert.Equal(t, hi1, hi2)
	})

	t.Run("returns the lexicographically smaller id first", func(t *testing.T) {
		lo, hi := OrderPair("9", "2")

		assert.Equal(t, "2", lo)
		assert.Equal(t, "9", hi)
	})

	t.Run("already ordered pair passes through unchanged", func(t *testing.T) {
		lo, hi := OrderPair("alice", "bob")

		assert.Equal(t, "alice", lo)
		assert.Equal(t, "bob", hi)
	})
}

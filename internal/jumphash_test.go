package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeebo/xxh3"
)

func TestJumpHash_Range(t *testing.T) {
	assert.Equal(t, 0, JumpHash(42, 0))
	assert.Equal(t, 0, JumpHash(42, -1))
	assert.Equal(t, 0, JumpHash(42, 1))

	for key := range uint64(1000) {
		b := JumpHash(key, 7)
		assert.GreaterOrEqual(t, b, 0)
		assert.Less(t, b, 7)
	}
}

func TestJumpHash_Stable(t *testing.T) {
	key := xxh3.HashString("cities")
	assert.Equal(t, JumpHash(key, 5), JumpHash(key, 5))
}

func TestJumpHash_MinimalMovement(t *testing.T) {
	moved := 0
	for i := range 1000 {
		key := xxh3.HashString(fmt.Sprintf("space-%d", i))
		before, after := JumpHash(key, 4), JumpHash(key, 5)
		if before != after {
			assert.Equal(t, 4, after, "keys only move to the new bucket")
			moved++
		}
	}

	// About a fifth of the keys move
	assert.InDelta(t, 200, moved, 80)
}

func TestJumpHash_Spread(t *testing.T) {
	counts := make([]int, 3)
	for i := range 3000 {
		counts[JumpHash(xxh3.Hash([]byte{byte(i), byte(i >> 8)}), 3)]++
	}
	for _, c := range counts {
		assert.InDelta(t, 1000, c, 200)
	}
}

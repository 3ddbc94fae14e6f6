package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerationLockKey(t *testing.T) {
	a := generationLockKey(1, day("2024-01-01"))

	assert.Equal(t, a, generationLockKey(1, day("2024-01-01")))
	assert.NotEqual(t, a, generationLockKey(1, day("2024-02-01")))
	assert.NotEqual(t, a, generationLockKey(2, day("2024-01-01")))
	assert.NotEqual(t, generationLockKey(1, day("2024-11-01")), generationLockKey(11, day("2024-01-01")))
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return d
}

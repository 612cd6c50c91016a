package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckedMul(t *testing.T) {
	got, ok := CheckedMul(6, 7)
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	got, ok = CheckedMul(0, math.MaxInt)
	assert.True(t, ok)
	assert.Equal(t, 0, got)

	got, ok = CheckedMul(1, math.MaxInt)
	assert.True(t, ok)
	assert.Equal(t, math.MaxInt, got)

	_, ok = CheckedMul(2, math.MaxInt/2+1)
	assert.False(t, ok)
	_, ok = CheckedMul(1<<32, 1<<32)
	assert.False(t, ok)
}

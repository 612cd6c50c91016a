package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := MakeSet[string](4)
	assert.Len(t, s, 0)

	s.Insert("a", "b")
	assert.Len(t, s, 2)
	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has(".."))

	s2 := SetWith("b", "c")
	s3 := s.Sub(s2)
	assert.True(t, s3.Equal(SetWith("a")))
	assert.False(t, s.Equal(s2))

	delete(s, "b")
	assert.True(t, s.Equal(s3))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "reshape_split", ToSnakeCase("ReshapeSplit"))
	assert.Equal(t, "reduce", ToSnakeCase("Reduce"))
	assert.Equal(t, "_2d_rearrange", NormalizeIdentifier("2d-rearrange"))
	assert.Equal(t, "b_h_w", NormalizeIdentifier("b h w"))
	assert.Equal(t, "", NormalizeIdentifier(""))
	assert.True(t, IsIdentifierStart('_'))
	assert.False(t, IsIdentifierStart('1'))
	assert.True(t, IsIdentifierPart('1'))
}

package einops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigKey(t *testing.T) {
	key := func(options ...Option) string { return newConfig(options).key() }
	assert.Equal(t, key(WithAxisSize("a", 1), WithAxisSize("b", 2)), key(WithAxisSizes(map[string]int{"b": 2, "a": 1})))
	assert.NotEqual(t, key(WithAxisSize("a=1;b", 1)), key(WithAxisSize("a", 1), WithAxisSize("b", 1)))
	assert.NotEqual(t, key(WithName("x;a=2")), key(WithName("x"), WithAxisSize("a", 2)))
	assert.NotEqual(t, key(WithName("x")), key(WithName("y")))
}

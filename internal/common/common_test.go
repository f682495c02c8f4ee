package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPkgAlias(t *testing.T) {
	assert.Equal(t, "", PkgAlias(""))
	assert.Equal(t, "shop", PkgAlias("mixin-resolver/examples/shop"))
	assert.Equal(t, "fmt", PkgAlias("fmt"))
}

func TestIsStdlibPath(t *testing.T) {
	assert.True(t, IsStdlibPath("fmt"))
	assert.True(t, IsStdlibPath("net/http"))
	assert.False(t, IsStdlibPath("github.com/spf13/cobra"))
	assert.False(t, IsStdlibPath("mixin-resolver/examples/shop"))
	assert.False(t, IsStdlibPath(""))
}

func TestDedup(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Dedup([]string{"a", "b", "a", "c", "b"}))
	assert.Equal(t, []int{1}, Dedup([]int{1}))
	assert.Empty(t, Dedup([]int(nil)))
}

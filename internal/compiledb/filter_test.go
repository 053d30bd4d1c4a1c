package compiledb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFilter_Excluded(t *testing.T) {
	t.Parallel()

	filter, err := NewFileFilter([]string{"**/third_party/**", "*.S", "/proj/gen/*.c"})
	require.NoError(t, err)

	pattern, excluded := filter.Excluded("/proj/third_party/zlib/inflate.c")
	assert.True(t, excluded)
	assert.Equal(t, "**/third_party/**", pattern)

	_, excluded = filter.Excluded("start.S")
	assert.True(t, excluded)

	_, excluded = filter.Excluded("/proj/gen/table.c")
	assert.True(t, excluded)

	_, excluded = filter.Excluded("/proj/gen/deep/table.c")
	assert.False(t, excluded)

	_, excluded = filter.Excluded("/proj/src/main.c")
	assert.False(t, excluded)
}

func TestFileFilter_NoPatterns(t *testing.T) {
	t.Parallel()

	filter, err := NewFileFilter(nil)
	require.NoError(t, err)

	_, excluded := filter.Excluded("anything.c")
	assert.False(t, excluded)
}

func TestNewFileFilter_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileFilter([]string{"[unclosed"})
	assert.Error(t, err)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	require.Equal(t, []string{"work", "2024"}, ParseTags("work, 2024"))
	require.Equal(t, []string{"a", "b", "c"}, ParseTags(" a ,b,  c  "))
	require.Empty(t, ParseTags(""))
	require.Empty(t, ParseTags(" , ,, "))
	require.Equal(t, []string{"single"}, ParseTags("single"))
}

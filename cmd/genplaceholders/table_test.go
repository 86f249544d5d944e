package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderTableAlignsRequestedColumns(t *testing.T) {
	out := renderTable([]string{"Name", "Size"}, [][]string{{"a", "1"}, {"bbbb", "100"}}, 2)

	require.Contains(t, out, "│ NAME │ SIZE │")
	require.Contains(t, out, "│ a    │    1 │")
	require.Contains(t, out, "│ bbbb │  100 │")
}

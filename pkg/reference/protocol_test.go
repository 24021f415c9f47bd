package reference

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/dd0wney/cluso-orbitcount/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEdgeList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEdgeList(&buf, 4, [][2]int{{0, 1}, {2, 1}, {3, 0}}))
	assert.Equal(t, "4 3\n0 1\n2 1\n3 0\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteEdgeList(&buf, 0, nil))
	assert.Equal(t, "0 0\n", buf.String())
}

func TestReadEdgeList(t *testing.T) {
	n, edges, err := ReadEdgeList(strings.NewReader("5 3\n0 1\n\n  1   4 \n3 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, [][2]int{{0, 1}, {1, 4}, {3, 2}}, edges)

	// no trailing newline, edge order kept
	n, edges, err = ReadEdgeList(strings.NewReader("3 2\n2 0\n1 0"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, [][2]int{{2, 0}, {1, 0}}, edges)
}

func TestReadEdgeList_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"header only one number", "5\n"},
		{"negative node count", "-1 0\n"},
		{"negative edge count", "3 -1\n"},
		{"too few edges", "3 2\n0 1\n"},
		{"too many edges", "3 1\n0 1\n1 2\n"},
		{"endpoint out of range", "3 1\n0 3\n"},
		{"negative endpoint", "3 1\n-1 2\n"},
		{"not a number", "3 1\n0 x\n"},
		{"three fields", "3 1\n0 1 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadEdgeList(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestReadEdgeList_NodeLimit(t *testing.T) {
	_, _, err := ReadEdgeList(strings.NewReader("4000000000 0\n"))
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, validation.ErrTooLarge)

	n, edges, err := ReadEdgeList(strings.NewReader(fmt.Sprintf("%d 0\n", validation.MaxNodes)))
	require.NoError(t, err)
	assert.Equal(t, validation.MaxNodes, n)
	assert.Empty(t, edges)
}

func TestCounts_WriteThenRead(t *testing.T) {
	m, err := engine.FromRows([][]uint64{{3, 0, 18446744073709551615}, {0, 1, 2}}, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCounts(&buf, m))
	assert.Equal(t, "3 0 18446744073709551615\n0 1 2\n", buf.String())

	got, err := ReadCounts(&buf, 2, 3)
	require.NoError(t, err)
	assert.True(t, m.Equal(got))
}

func TestReadCounts_Errors(t *testing.T) {
	_, err := ReadCounts(strings.NewReader("1 2\n3 4\n"), 3, 2)
	assert.ErrorIs(t, err, engine.ErrShapeMismatch, "missing row")

	_, err = ReadCounts(strings.NewReader("1 2\n3 4\n5 6\n"), 2, 2)
	assert.ErrorIs(t, err, engine.ErrShapeMismatch, "extra row")

	_, err = ReadCounts(strings.NewReader("1 2 3\n"), 1, 2)
	assert.ErrorIs(t, err, engine.ErrShapeMismatch, "extra column")

	_, err = ReadCounts(strings.NewReader("1 -2\n"), 1, 2)
	assert.ErrorIs(t, err, ErrMalformed)

	// trailing whitespace and blank lines are tolerated
	m, err := ReadCounts(strings.NewReader("1 2 \n\n3 4\n"), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]uint64{{1, 2}, {3, 4}}, m.ToRows())

	m, err = ReadCounts(strings.NewReader(""), 0, 15)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Rows)
	assert.Equal(t, 15, m.Cols)
}

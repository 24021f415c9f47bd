// Package reference implements the file protocol of ORCA-compatible
// counting executables and an engine that drives such an executable.
//
// Input files hold a "<n> <m>" header followed by m lines "<u> <v>" of
// 0-based node indices. The executable is invoked as
//
//	<exe> <node|edge> <4|5> <input> <output>
//
// and writes one line of space-separated orbit counts per node or edge.
package reference

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/dd0wney/cluso-orbitcount/pkg/validation"
)

// ErrMalformed is returned for input or output files that do not follow the
// protocol.
var ErrMalformed = errors.New("malformed reference file")

const maxLineBytes = 1 << 20

// WriteEdgeList writes a graph in the reference input format.
func WriteEdgeList(w io.Writer, nodeCount int, edges [][2]int) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)

	buf = strconv.AppendInt(buf[:0], int64(nodeCount), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(len(edges)), 10)
	buf = append(buf, '\n')
	if _, err := bw.Write(buf); err != nil {
		return err
	}
	for _, e := range edges {
		buf = strconv.AppendInt(buf[:0], int64(e[0]), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(e[1]), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadEdgeList parses the reference input format. Blank lines are ignored.
// Endpoints are checked against the header's node count.
func ReadEdgeList(r io.Reader) (int, [][2]int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		line       int
		haveHeader bool
		n, m       int
		edges      [][2]int
	)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		pair, err := parsePair(fields)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}

		if !haveHeader {
			if err := validation.ValidateEdgeListHeader(pair[0], pair[1]); err != nil {
				return 0, nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
			}
			haveHeader, n, m = true, pair[0], pair[1]
			edges = make([][2]int, 0, min(m, 1<<20))
			continue
		}

		if len(edges) == m {
			return 0, nil, fmt.Errorf("%w: line %d: more than %d edges", ErrMalformed, line, m)
		}
		for _, v := range pair {
			if v < 0 || v >= n {
				return 0, nil, fmt.Errorf("%w: line %d: node %d outside [0, %d)", ErrMalformed, line, v, n)
			}
		}
		edges = append(edges, pair)
	}
	if err := sc.Err(); err != nil {
		return 0, nil, err
	}

	if !haveHeader {
		return 0, nil, fmt.Errorf("%w: missing header", ErrMalformed)
	}
	if len(edges) != m {
		return 0, nil, fmt.Errorf("%w: header declares %d edges, found %d", ErrMalformed, m, len(edges))
	}
	return n, edges, nil
}

func parsePair(fields []string) ([2]int, error) {
	var out [2]int
	if len(fields) != 2 {
		return out, fmt.Errorf("expected 2 integers, got %d fields", len(fields))
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteCounts writes one line of space-separated counts per matrix row.
func WriteCounts(w io.Writer, m *engine.Matrix) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 16*m.Cols+1)
	for i := 0; i < m.Rows; i++ {
		buf = buf[:0]
		for j, v := range m.Row(i) {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendUint(buf, v, 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadCounts parses rows x cols counts written by WriteCounts or a reference
// executable. A wrong number of rows or columns wraps engine.ErrShapeMismatch.
func ReadCounts(r io.Reader, rows, cols int) (*engine.Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	m := engine.NewMatrix(rows, cols)
	row, line := 0, 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if row == rows {
			return nil, fmt.Errorf("%w: line %d: more than %d rows", engine.ErrShapeMismatch, line, rows)
		}
		if len(fields) != cols {
			return nil, fmt.Errorf("%w: line %d: %d columns, expected %d", engine.ErrShapeMismatch, line, len(fields), cols)
		}
		dst := m.Row(row)
		for j, f := range fields {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %v", ErrMalformed, line, j, err)
			}
			dst[j] = v
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if row != rows {
		return nil, fmt.Errorf("%w: %d rows, expected %d", engine.ErrShapeMismatch, row, rows)
	}
	return m, nil
}

package engine

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Matrix is a dense, row-major matrix of orbit counts.
type Matrix struct {
	Rows int
	Cols int
	Data []uint64
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]uint64, rows*cols)}
}

// FromRows copies rows into a new matrix. All rows must have the same length;
// cols is only used when rows is empty.
func FromRows(rows [][]uint64, cols int) (*Matrix, error) {
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrShapeMismatch, i, len(r), cols)
		}
		copy(m.Row(i), r)
	}
	return m, nil
}

// At returns the count of orbit j for row i.
func (m *Matrix) At(i, j int) uint64 {
	return m.Data[i*m.Cols+j]
}

// Row returns row i as a view into the matrix.
func (m *Matrix) Row(i int) []uint64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols : (i+1)*m.Cols]
}

// ToRows copies the matrix into a slice of rows.
func (m *Matrix) ToRows() [][]uint64 {
	out := make([][]uint64, m.Rows)
	for i := range out {
		out[i] = append([]uint64(nil), m.Row(i)...)
	}
	return out
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{Rows: m.Rows, Cols: m.Cols, Data: make([]uint64, len(m.Data))}
	copy(c.Data, m.Data)
	return c
}

// Equal reports whether both matrices have the same shape and contents.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Rows != o.Rows || m.Cols != o.Cols || len(m.Data) != len(o.Data) {
		return false
	}
	for i := range m.Data {
		if m.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}

// Digest returns the BLAKE2b-256 digest of the shape and contents.
// Equal matrices have equal digests.
func (m *Matrix) Digest() [32]byte {
	h, _ := blake2b.New256(nil) // only fails for oversized keys

	buf := make([]byte, 0, 8*64)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.Rows))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(m.Cols))
	for _, v := range m.Data {
		if len(buf) == cap(buf) {
			h.Write(buf)
			buf = buf[:0]
		}
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}
	h.Write(buf)

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

package reference

import (
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

// CompressedSuffix marks files stored in the snappy framing format.
const CompressedSuffix = ".sz"

type mappedFile struct {
	*io.SectionReader
	ra *mmap.ReaderAt
}

func (f *mappedFile) Close() error {
	return f.ra.Close()
}

// OpenInput memory-maps an input file for reading.
func OpenInput(path string) (io.ReadCloser, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &mappedFile{
		SectionReader: io.NewSectionReader(ra, 0, int64(ra.Len())),
		ra:            ra,
	}, nil
}

type compressedWriter struct {
	*snappy.Writer
	f *os.File
}

func (w *compressedWriter) Close() error {
	if err := w.Writer.Close(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

type compressedReader struct {
	*snappy.Reader
	f *os.File
}

func (r *compressedReader) Close() error {
	return r.f.Close()
}

// CreateOutput creates an output file. Paths ending in ".sz" are written in
// the snappy framing format.
func CreateOutput(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedSuffix) {
		return f, nil
	}
	return &compressedWriter{Writer: snappy.NewBufferedWriter(f), f: f}, nil
}

// OpenOutput opens a file written by CreateOutput.
func OpenOutput(path string) (io.ReadCloser, error) {
	if !strings.HasSuffix(path, CompressedSuffix) {
		return OpenInput(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &compressedReader{Reader: snappy.NewReader(f), f: f}, nil
}

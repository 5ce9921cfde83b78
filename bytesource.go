package fat32report

import (
	"io"

	"github.com/spf13/afero"

	"github.com/fatwalk/fat32report/checkpoint"
)

// ByteSource is the opaque random-access reader the core decodes from. It is
// satisfied by an afero.File, which lets the exact same analysis code run
// against a real volume file (afero.OsFs) or an in-memory fixture
// (afero.NewMemMapFs()) with no test-only fork.
type ByteSource interface {
	io.ReaderAt
	// Len returns the total number of readable bytes in the source.
	Len() int64
}

// aferoByteSource adapts an afero.File to ByteSource.
type aferoByteSource struct {
	file afero.File
	size int64
}

func (s *aferoByteSource) ReadAt(p []byte, off int64) (int, error) {
	return s.file.ReadAt(p, off)
}

func (s *aferoByteSource) Len() int64 {
	return s.size
}

// OpenImage opens path on fsys as a ByteSource, scoped to the caller: the
// returned closer must be called on every exit path (success or failure) to
// release the underlying file handle.
func OpenImage(fsys afero.Fs, path string) (ByteSource, func() error, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, func() error { return nil }, checkpoint.Wrap(err, ErrImageNotFound)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, func() error { return nil }, checkpoint.Wrap(err, ErrImageNotFound)
	}

	source := &aferoByteSource{file: file, size: info.Size()}
	return source, file.Close, nil
}

// readExact reads exactly len(buf) bytes at off, unless the source is
// shorter, in which case it returns as many bytes as are available along
// with short == true.
func readExact(src ByteSource, off int64, buf []byte) (n int, short bool, err error) {
	n, err = src.ReadAt(buf, off)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return n, n < len(buf), err
	}
	return n, n < len(buf), nil
}

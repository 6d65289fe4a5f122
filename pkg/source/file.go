package source

import (
	"os"
	"path/filepath"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// File is a local file source.
type File struct {
	*os.File
	name      string
	mediaType string
	size      int64
}

var _ Source = (*File)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// OpenFile opens a local regular file. The media type is taken from the
// extension, or sniffed from the content.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	} else if !info.Mode().IsRegular() {
		f.Close()
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	self := &File{
		File: f,
		name: filepath.Base(path),
		size: info.Size(),
	}
	self.mediaType = resolveType("", self.name, f, self.size)
	return self, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (f *File) Name() string {
	return f.name
}

func (f *File) Type() string {
	return f.mediaType
}

func (f *File) Size() int64 {
	return f.size
}

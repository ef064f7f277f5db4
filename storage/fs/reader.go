package fs

import "io"

type fileReader struct {
	io.ReadCloser
	size int64
}

func (r *fileReader) Size() int64 {
	return r.size
}

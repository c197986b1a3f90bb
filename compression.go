// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// compression wraps a tar stream with a compression algorithm.
type compression struct {
	reader func(io.Reader) (io.ReadCloser, error)
	writer func(io.Writer) (io.WriteCloser, error)
}

// compressions holds the compression of every tar based format.
var compressions = map[Format]compression{
	Tar:     {reader: plainReader, writer: plainWriter},
	TarGz:   {reader: gzipReader, writer: gzipWriter},
	TarXz:   {reader: xzReader, writer: xzWriter},
	TarBz:   {reader: bzip2Reader, writer: bzip2Writer},
	TarZstd: {reader: zstdReader, writer: zstdWriter},
}

func plainReader(src io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(src), nil
}

func plainWriter(dst io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{dst}, nil
}

// gzipReader returns an io.ReadCloser that decompresses src with gzip algorithm
func gzipReader(src io.Reader) (io.ReadCloser, error) {
	r, err := gzip.NewReader(src)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func gzipWriter(dst io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(dst), nil
}

// xzReader returns an io.ReadCloser that decompresses src with xz algorithm
func xzReader(src io.Reader) (io.ReadCloser, error) {
	r, err := xz.NewReader(src)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(r), nil
}

func xzWriter(dst io.Writer) (io.WriteCloser, error) {
	w, err := xz.NewWriter(dst)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// bzip2Reader returns an io.ReadCloser that decompresses src with bzip2 algorithm
func bzip2Reader(src io.Reader) (io.ReadCloser, error) {
	r, err := bzip2.NewReader(src, nil)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func bzip2Writer(dst io.Writer) (io.WriteCloser, error) {
	w, err := bzip2.NewWriter(dst, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// zstdReader returns an io.ReadCloser that decompresses src with zstandard algorithm
func zstdReader(src io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}

func zstdWriter(dst io.Writer) (io.WriteCloser, error) {
	w, err := zstd.NewWriter(dst)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// nopWriteCloser is an io.WriteCloser with a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

// Close is a no-op method that satisfies the io.Closer interface.
func (nopWriteCloser) Close() error {
	return nil
}

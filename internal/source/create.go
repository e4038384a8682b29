package source

import (
	"fmt"
	"io"
	"os"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Create creates a local file and wraps it in the encoder selected by the
// file extension. Closing the result flushes the encoder and closes the file.
func Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	w, err := Compress(f, ByExtension(name))
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Compress wraps wc in the encoder for codec. Closing the result closes wc.
func Compress(wc io.WriteCloser, codec Compression) (io.WriteCloser, error) {
	switch codec {
	case CompressionGzip:
		return &stackedWriter{Writer: gzip.NewWriter(wc), base: wc}, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(wc)
		if err != nil {
			return nil, fmt.Errorf("source: zstd: %w", err)
		}
		return &stackedWriter{Writer: zw, base: wc}, nil
	case CompressionLZ4:
		return &stackedWriter{Writer: lz4.NewWriter(wc), base: wc}, nil
	case CompressionSnappy:
		return &stackedWriter{Writer: snappy.NewBufferedWriter(wc), base: wc}, nil
	case CompressionBrotli:
		return &stackedWriter{Writer: brotli.NewWriter(wc), base: wc}, nil
	}
	return wc, nil
}

type stackedWriter struct {
	io.Writer
	base io.Closer
}

func (s *stackedWriter) Close() error {
	err := s.Writer.(io.Closer).Close()
	if cerr := s.base.Close(); err == nil {
		err = cerr
	}
	return err
}

// Package source opens waveform inputs from local paths or S3 object URIs
// and transparently decompresses them.
package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

var (
	// ErrUnsupportedScheme indicates a URI scheme other than file or s3.
	ErrUnsupportedScheme = errors.New("source: unsupported scheme")
	// ErrInvalidURI indicates an s3 URI without bucket or key.
	ErrInvalidURI = errors.New("source: invalid uri")
)

// ObjectGetter is the subset of *s3.Client used to fetch objects.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Option configures an Opener.
type Option func(*Opener)

// WithS3Client sets the client used for s3:// URIs.
func WithS3Client(c ObjectGetter) Option {
	return func(o *Opener) { o.client = c }
}

// WithRegion sets the AWS region of the lazily built S3 client.
func WithRegion(region string) Option {
	return func(o *Opener) { o.region = region }
}

// WithEndpoint points the lazily built S3 client at an S3-compatible
// endpoint (MinIO, LocalStack) using path-style addressing.
func WithEndpoint(endpoint string) Option {
	return func(o *Opener) { o.endpoint = endpoint }
}

// WithProfile selects a shared config profile for the lazily built client.
func WithProfile(profile string) Option {
	return func(o *Opener) { o.profile = profile }
}

// WithAssumeRole makes the lazily built client assume roleARN through STS.
func WithAssumeRole(roleARN string) Option {
	return func(o *Opener) { o.roleARN = roleARN }
}

// Opener resolves input URIs. The S3 client is built on first use from the
// default AWS credential chain unless one was supplied.
type Opener struct {
	mu       sync.Mutex
	client   ObjectGetter
	region   string
	endpoint string
	profile  string
	roleARN  string
}

// New returns an Opener.
func New(opts ...Option) *Opener {
	o := &Opener{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open opens uri with a default Opener.
func Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	return New().Open(ctx, uri)
}

// Open returns the decompressed content of a local path, a file:// URI or
// an s3://bucket/key URI.
func (o *Opener) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	scheme, rest, found := strings.Cut(uri, "://")
	if !found {
		scheme, rest = "file", uri
	}

	var (
		raw io.ReadCloser
		err error
	)
	switch strings.ToLower(scheme) {
	case "file":
		raw, err = os.Open(rest)
	case "s3":
		raw, err = o.openS3(ctx, uri)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	if err != nil {
		return nil, err
	}

	rc, err := Decompress(raw, path.Base(rest))
	if err != nil {
		raw.Close()
		return nil, err
	}
	return rc, nil
}

func (o *Opener) openS3(ctx context.Context, uri string) (io.ReadCloser, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	bucket, key := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: %q needs s3://bucket/key", ErrInvalidURI, uri)
	}

	client, err := o.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("source: get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

func (o *Opener) s3Client(ctx context.Context) (ObjectGetter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.client != nil {
		return o.client, nil
	}

	var loaders []func(*config.LoadOptions) error
	if o.region != "" {
		loaders = append(loaders, config.WithRegion(o.region))
	}
	if o.profile != "" {
		loaders = append(loaders, config.WithSharedConfigProfile(o.profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("source: aws config: %w", err)
	}

	if o.roleARN != "" {
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), o.roleARN, func(opts *stscreds.AssumeRoleOptions) {
			opts.RoleSessionName = "combscan"
		})
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	endpoint := o.endpoint
	o.client = s3.NewFromConfig(cfg, func(opts *s3.Options) {
		if endpoint != "" {
			opts.BaseEndpoint = aws.String(endpoint)
			opts.UsePathStyle = true
		}
	})
	return o.client, nil
}

// Compression identifies a supported stream codec.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionLZ4
	CompressionSnappy
	// CompressionBrotli has no magic number and is only selected by
	// extension.
	CompressionBrotli
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
	// stream identifier chunk of the snappy framing format
	magicSnappy = []byte("\xff\x06\x00\x00sNaPpY")
)

// ByExtension maps .gz, .zst, .lz4, .sz and .br file names to their codec.
func ByExtension(name string) Compression {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	case ".sz", ".snappy":
		return CompressionSnappy
	case ".br":
		return CompressionBrotli
	}
	return CompressionNone
}

// ByMagic identifies a codec from the leading bytes of a stream.
func ByMagic(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, magicZstd):
		return CompressionZstd
	case bytes.HasPrefix(head, magicLZ4):
		return CompressionLZ4
	case bytes.HasPrefix(head, magicGzip):
		return CompressionGzip
	case bytes.HasPrefix(head, magicSnappy):
		return CompressionSnappy
	}
	return CompressionNone
}

// Decompress wraps rc in the decoder selected by name's extension, or by
// the stream's magic bytes when the extension is not recognized. Closing
// the result closes rc.
func Decompress(rc io.ReadCloser, name string) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	codec := ByExtension(name)
	if codec == CompressionNone {
		head, _ := br.Peek(len(magicSnappy))
		codec = ByMagic(head)
	}

	switch codec {
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("source: gzip: %w", err)
		}
		return &stacked{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("source: zstd: %w", err)
		}
		return &stacked{Reader: dec, closers: []io.Closer{dec.IOReadCloser(), rc}}, nil
	case CompressionLZ4:
		return &stacked{Reader: lz4.NewReader(br), closers: []io.Closer{rc}}, nil
	case CompressionSnappy:
		return &stacked{Reader: snappy.NewReader(br), closers: []io.Closer{rc}}, nil
	case CompressionBrotli:
		return &stacked{Reader: brotli.NewReader(br), closers: []io.Closer{rc}}, nil
	}
	return &stacked{Reader: br, closers: []io.Closer{rc}}, nil
}

type stacked struct {
	io.Reader
	closers []io.Closer
}

func (s *stacked) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

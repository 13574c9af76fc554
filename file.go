package audiohdr

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audiohdr/internal/digest"
	"github.com/simonhull/audiohdr/internal/registry"
	"github.com/simonhull/audiohdr/internal/types"
)

// File is one decoded audio file.
//
// Exactly one of the embedded CAFF, WAV, Vorbis or MP3 descriptors is set,
// matching Format. Audio holds the format-independent summary.
//
// Files returned by Open keep the OS handle until Close:
//
//	file, err := audiohdr.Open("take1.wav")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	types.File

	reader io.ReaderAt

	algorithm  DigestAlgorithm
	digestOnce sync.Once
	digest     []byte
}

// Open opens an audio file and decodes its headers.
//
// The format is detected from the leading bytes unless WithFormat is given.
// On any error the file handle is closed and no File is returned.
func Open(path string, opts ...Option) (*File, error) {
	return openPath(context.Background(), path, collectOptions(opts))
}

// OpenContext is Open with cancellation checked before the file is opened
// and again before it is decoded.
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	file, err := audiohdr.OpenContext(ctx, "take1.caf")
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	return openPath(ctx, path, collectOptions(opts))
}

func openPath(ctx context.Context, path string, options *openOptions) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		f.Close()
		return nil, err
	}

	file, err := decode(f, stat.Size(), path, options)
	if err != nil {
		f.Close()
		return nil, err
	}
	return file, nil
}

// Decode decodes the headers of an in-memory or otherwise already open
// input. Close is a no-op unless r implements io.Closer.
func Decode(r io.ReaderAt, size int64, path string, opts ...Option) (*File, error) {
	return decode(r, size, path, collectOptions(opts))
}

func decode(r io.ReaderAt, size int64, path string, options *openOptions) (*File, error) {
	format := options.format
	if format == FormatUnknown {
		var err error
		if format, err = DetectFormat(r, size, path); err != nil {
			return nil, err
		}
	}

	parser := registry.Get(format)
	if parser == nil {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no decoder registered for %s", format),
		}
	}

	logger := registry.Logger(options.logger).With("format", format.String())
	parsed, err := parser.Parse(r, size, path, logger)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	parsed.Path = path
	parsed.Format = format
	parsed.Size = size

	if options.strictParsing && len(parsed.Warnings) > 0 {
		return nil, strictError(parsed.Warnings[0])
	}
	if options.ignoreWarnings {
		parsed.Warnings = nil
	}

	return &File{File: *parsed, reader: r, algorithm: options.digest}, nil
}

func strictError(w Warning) error {
	if w.Err != nil {
		return fmt.Errorf("strict parsing failed: %s: %w", w.Message, w.Err)
	}
	return fmt.Errorf("strict parsing failed: %s", w.Message)
}

// Close releases resources held by the file.
//
// After Close is called, SaveAs must not be used.
func (f *File) Close() error {
	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// PayloadDigest returns the digest of the stored audio bytes (CAFF and WAV
// data chunks) using the algorithm chosen with WithDigest. It returns nil
// for formats that keep no payload. The result is computed once.
func (f *File) PayloadDigest() []byte {
	f.digestOnce.Do(func() {
		payload := f.Payload()
		switch {
		case payload == nil:
		case f.WAV != nil && f.algorithm == digest.SHA1:
			f.digest = f.WAV.DataHash()
		default:
			f.digest = digest.Sum(f.algorithm, payload)
		}
	})
	return f.digest
}

// PayloadDigestHex is PayloadDigest in lowercase hex, or "" when there is
// no payload.
func (f *File) PayloadDigestHex() string {
	if f.PayloadDigest() == nil {
		return ""
	}
	return fmt.Sprintf("%x", f.digest)
}

// DigestAlgorithm returns the algorithm PayloadDigest uses.
func (f *File) DigestAlgorithm() DigestAlgorithm {
	return f.algorithm
}

// OpenMany opens multiple audio files concurrently.
//
// Files are decoded in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. If any file
// fails to open, all successfully opened files are closed and the first
// error is returned.
//
//	files, err := audiohdr.OpenMany(ctx, paths, audiohdr.WithIgnoreWarnings())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	options := collectOptions(opts)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			file, err := openPath(ctx, path, options)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}

	return results, nil
}

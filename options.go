package audiohdr

import (
	"log/slog"

	"github.com/simonhull/audiohdr/internal/digest"
)

// Option configures behavior when opening audio files.
//
// Example:
//
//	file, err := audiohdr.Open("take1.wav",
//	    audiohdr.WithStrictParsing(),
//	    audiohdr.WithLogger(slog.Default()),
//	)
type Option func(*openOptions)

type openOptions struct {
	logger         *slog.Logger
	format         Format
	digest         DigestAlgorithm
	strictParsing  bool
	ignoreWarnings bool
}

func defaultOptions() *openOptions {
	return &openOptions{
		format: FormatUnknown,
		digest: digest.SHA1,
	}
}

func collectOptions(opts []Option) *openOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default an unrecognised chunk or an unparsable source checksum is
// reported in File.Warnings and decoding carries on.
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings discards File.Warnings after decoding.
// Warnings still reach the logger.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithLogger routes decoder diagnostics to l. Unknown CAFF chunks and
// unparsable Ogg source checksums log at Warn; skipped RIFF sub-chunks and
// ID3 frames log at Debug. The default logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *openOptions) {
		o.logger = l
	}
}

// WithFormat selects the decoder instead of detecting it from the
// leading bytes.
//
// Example:
//
//	// raw MPEG stream with no ID3 tag and an odd extension
//	file, err := audiohdr.Open("capture.bin", audiohdr.WithFormat(audiohdr.FormatMP3))
func WithFormat(f Format) Option {
	return func(o *openOptions) {
		o.format = f
	}
}

// DigestAlgorithm selects the hash File.PayloadDigest computes.
type DigestAlgorithm = digest.Algorithm

const (
	DigestSHA1   = digest.SHA1
	DigestBLAKE3 = digest.BLAKE3
)

// ParseDigest maps "sha1" or "blake3" to a DigestAlgorithm.
func ParseDigest(name string) (DigestAlgorithm, error) {
	return digest.Parse(name)
}

// WithDigest selects the algorithm File.PayloadDigest uses. The default is SHA-1.
func WithDigest(a DigestAlgorithm) Option {
	return func(o *openOptions) {
		o.digest = a
	}
}

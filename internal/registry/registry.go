// Package registry manages format-specific decoders and encoders.
package registry

import (
	"io"
	"log/slog"
	"slices"

	"github.com/simonhull/audiohdr/internal/types"
)

// FormatParser is the interface all format decoders implement.
type FormatParser interface {
	// Parse decodes one file in a single pass.
	// Returns a File with the format descriptor and AudioInfo filled in
	// (Path, Format, Size set by caller). Warnings are logged to logger
	// as well as collected on the File.
	Parse(r io.ReaderAt, size int64, path string, logger *slog.Logger) (*types.File, error)
}

// Sniffer is an optional interface for parsers that recognise their format
// from the first bytes of a file.
type Sniffer interface {
	// Sniff reports whether head (up to 16 bytes) starts a file of this format.
	Sniff(head []byte) bool
}

// FormatWriter is the interface format writers implement.
type FormatWriter interface {
	// Write serializes the file's descriptor to w.
	Write(w io.Writer, file *types.File) error
}

// parsers maps formats to their parsers.
var parsers = make(map[types.Format]FormatParser)

// writers maps formats to their writers.
var writers = make(map[types.Format]FormatWriter)

// Register registers a parser for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, parser FormatParser) {
	parsers[format] = parser
}

// Get returns the parser for a given format.
// Returns nil if no parser is registered for the format.
func Get(format types.Format) FormatParser {
	return parsers[format]
}

// Formats returns the registered formats in ascending order.
func Formats() []types.Format {
	out := make([]types.Format, 0, len(parsers))
	for f := range parsers {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Sniff returns the first registered format, in Formats order, whose parser
// recognises head. It returns FormatUnknown when none does.
func Sniff(head []byte) types.Format {
	for _, f := range Formats() {
		if s, ok := parsers[f].(Sniffer); ok && s.Sniff(head) {
			return f
		}
	}
	return types.FormatUnknown
}

// Logger returns l, or a logger that discards everything when l is nil.
func Logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// RegisterWriter registers a writer for a format.
// This is called by format packages during initialization (init functions).
func RegisterWriter(format types.Format, writer FormatWriter) {
	writers[format] = writer
}

// GetWriter returns the writer for a given format.
// Returns nil if no writer is registered for the format.
func GetWriter(format types.Format) FormatWriter {
	return writers[format]
}

package types

import (
	"errors"
	"fmt"
)

// MalformedContainerError is returned when a size or offset is inconsistent
// with the medium: a truncated stream, a record that claims more bytes than
// remain, or a field whose value cannot be valid.
type MalformedContainerError struct {
	Path   string
	What   string
	Reason string
	Offset int64
	Length int64
	Size   int64
}

func (e *MalformedContainerError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: malformed container at offset %d: %s", e.Path, e.Offset, e.Reason)
	}
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed limit %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnknownTagError describes a record whose tag no handler recognised.
//
// It is never returned from a decode call. It travels inside Warning.Err so
// callers that care can inspect the skipped record.
type UnknownTagError struct {
	Path   string
	Tag    string
	Offset int64
	Size   int64
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("%s: unknown tag %q (%d bytes) at offset %d", e.Path, e.Tag, e.Size, e.Offset)
}

// UnsupportedFeatureError is returned for valid but unhandled structures,
// such as an ID3v2 extended header.
type UnsupportedFeatureError struct {
	Path    string
	Feature string
	Offset  int64
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("%s: unsupported feature at offset %d: %s", e.Path, e.Offset, e.Feature)
}

// UnsupportedEncodingError is returned for a known ID3v2 text encoding that
// the comment decoder does not handle (UTF-16BE without BOM, UTF-8).
type UnsupportedEncodingError struct {
	Path     string
	Offset   int64
	Encoding byte
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("%s: unsupported text encoding %d in COMM frame at offset %d",
		e.Path, e.Encoding, e.Offset)
}

// InvalidEncodingError is returned for an ID3v2 text encoding byte outside 0..3.
type InvalidEncodingError struct {
	Path     string
	Offset   int64
	Encoding byte
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("%s: invalid text encoding %d in COMM frame at offset %d",
		e.Path, e.Encoding, e.Offset)
}

// FrameSyncError is returned when the word at the expected MPEG frame start
// does not carry the 11-bit frame sync pattern.
type FrameSyncError struct {
	Path   string
	Offset int64
	Word   uint32
}

func (e *FrameSyncError) Error() string {
	return fmt.Sprintf("%s: frame synchronization not found at offset %d (word 0x%08X)",
		e.Path, e.Offset, e.Word)
}

// InvalidTableIndexError is returned when a header field indexes a slot
// that no lookup table defines.
type InvalidTableIndexError struct {
	Table string
	Index int
}

func (e *InvalidTableIndexError) Error() string {
	return fmt.Sprintf("invalid %s index %d", e.Table, e.Index)
}

// UnsupportedFormatError is returned when no decoder handles the input.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// UnsupportedWriteError indicates write is not supported for this format.
type UnsupportedWriteError struct {
	Reason string
	Format Format
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}

// IsMalformed reports whether err is, or wraps, a MalformedContainerError.
func IsMalformed(err error) bool {
	var target *MalformedContainerError
	return errors.As(err, &target)
}

// Warning represents a non-fatal issue encountered during decoding.
//
// Warnings are collected in File.Warnings. Err carries the typed cause when
// there is one (for example an *UnknownTagError).
type Warning struct {
	Err error

	// Stage where the warning occurred
	Stage string // "chunk", "metadata", "comment"

	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

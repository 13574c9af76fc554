// Package chunk walks sequences of type-tagged, size-prefixed records.
//
// CAFF chunks, RIFF sub-chunks and ID3v2 frames all share one shape: a
// short tag, a size, then exactly size bytes of payload. Walker reads the
// header with a Layout, hands the payload to a Handler through a cursor
// bounded to the record, and then seeks past the record whatever the handler
// consumed.
package chunk

import (
	"errors"
	"fmt"

	"github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/types"
)

// ErrUnknownTag is returned by a Handler for a record it does not decode.
// The walker reports the record through Walker.Unknown and moves on.
var ErrUnknownTag = errors.New("unknown tag")

// Stop ends a walk early without error. A Layout returns it for trailing
// padding, a Handler returns it once it has seen what it needs.
var Stop = errors.New("stop walk")

// Record describes one tagged record.
type Record struct {
	Tag string

	// Size is the payload length in bytes.
	Size int64

	// Offset is the position of the record header.
	Offset int64

	// Body is the position of the first payload byte.
	Body int64

	// Flags carries the ID3v2 frame flags; zero for other layouts.
	Flags uint16
}

// End returns the position just past the payload.
func (r Record) End() int64 {
	return r.Body + r.Size
}

// Handler decodes the payload of one record. body starts at r.Body and ends
// at r.End().
type Handler func(r Record, body *binary.Cursor) error

// Walker iterates the records of a cursor.
type Walker struct {
	Layout Layout

	// Until stops the walk once the cursor reaches it. A negative value
	// walks to the end of the cursor.
	Until int64

	// Bound is the position no record may extend past. Zero or negative
	// means the end of the cursor.
	Bound int64

	// Unknown is called for records whose handler returned ErrUnknownTag.
	Unknown func(r Record, err *types.UnknownTagError)
}

// Walk reads records until the walker's limit, the end of the cursor, or a
// Stop from the layout or the handler.
//
// Every record must fit before the bound; a record that claims more bytes
// than remain fails with a *types.MalformedContainerError. After each record
// the cursor sits at r.End().
func (w *Walker) Walk(c *binary.Cursor, fn Handler) error {
	until := w.Until
	if until < 0 || until > c.End() {
		until = c.End()
	}
	bound := w.Bound
	if bound <= 0 || bound > c.End() {
		bound = c.End()
	}

	for c.Offset() < until {
		start := c.Offset()
		rec, err := w.Layout.Header(c)
		if errors.Is(err, Stop) {
			return c.Seek(until)
		}
		if err != nil {
			return err
		}
		rec.Offset = start
		rec.Body = c.Offset()

		if rec.Size < 0 || rec.Size > bound-rec.Body {
			return &types.MalformedContainerError{
				Path:   c.Path(),
				What:   fmt.Sprintf("%q record", rec.Tag),
				Offset: rec.Body,
				Length: rec.Size,
				Size:   bound,
				Reason: fmt.Sprintf("record %q declares %d bytes but only %d remain", rec.Tag, rec.Size, bound-rec.Body),
			}
		}

		body, err := c.Limit(rec.Size, rec.Tag)
		if err != nil {
			return err
		}

		err = fn(rec, body)
		switch {
		case err == nil:
		case errors.Is(err, ErrUnknownTag):
			if w.Unknown != nil {
				w.Unknown(rec, &types.UnknownTagError{
					Path:   c.Path(),
					Tag:    rec.Tag,
					Offset: rec.Offset,
					Size:   rec.Size,
				})
			}
		case errors.Is(err, Stop):
			return c.Seek(rec.End())
		default:
			return fmt.Errorf("%q record at offset %d: %w", rec.Tag, rec.Offset, err)
		}

		if err := c.Seek(rec.End()); err != nil {
			return err
		}
	}
	return nil
}

// Walk is shorthand for a Walker with no bound and no unknown-tag callback.
func Walk(c *binary.Cursor, layout Layout, until int64, fn Handler) error {
	w := &Walker{Layout: layout, Until: until}
	return w.Walk(c, fn)
}

// chunk-dump lists the tagged records of a CAFF, RIFF or ID3v2-tagged
// file with their sizes and offsets. RIFF LIST chunks are expanded.
package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	binutil "github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/chunk"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: chunk-dump <file.caf|file.wav|file.mp3>")
		os.Exit(1)
	}

	if err := dumpFile(os.Stdout, os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dumpFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	return dump(w, f, stat.Size(), path)
}

func dump(w io.Writer, r io.ReaderAt, size int64, path string) error {
	head := make([]byte, 12)
	n, _ := r.ReadAt(head, 0)
	head = head[:n]
	sr := binutil.NewSafeReader(r, size, path)

	switch {
	case len(head) >= 8 && bytes.HasPrefix(head, []byte("caff")):
		c := binutil.NewCursor(sr, binutil.BigEndian)
		if err := c.Seek(8); err != nil {
			return err
		}
		fmt.Fprintf(w, "caff (version: %d)\n", binary.BigEndian.Uint16(head[4:6]))
		return dumpRecords(w, c, chunk.CAFF, -1, 1, false)

	case len(head) == 12 && bytes.HasPrefix(head, []byte("RIFF")):
		declared := binary.LittleEndian.Uint32(head[4:8])
		c := binutil.NewCursor(sr, binutil.LittleEndian)
		if err := c.Seek(12); err != nil {
			return err
		}
		fmt.Fprintf(w, "RIFF %q (size: %d)\n", head[8:12], declared)
		// Same stop as the decoder: a trailing pad byte is not a chunk.
		return dumpRecords(w, c, chunk.RIFF, int64(declared)+8-3, 1, true)

	case len(head) >= 10 && bytes.HasPrefix(head, []byte("ID3")):
		tagSize, err := chunk.Synchsafe(head[6:10])
		if err != nil {
			return fmt.Errorf("ID3 tag size: %w", err)
		}
		layout := chunk.ID3v2
		if head[3] == 4 {
			layout = chunk.ID3v24
		}
		c := binutil.NewCursor(sr, binutil.BigEndian)
		if err := c.Seek(10); err != nil {
			return err
		}
		fmt.Fprintf(w, "ID3v2.%d (size: %d, flags: 0x%02x)\n", head[3], tagSize, head[5])
		end := 10 + int64(tagSize)
		walker := &chunk.Walker{Layout: layout, Until: end, Bound: end}
		return walker.Walk(c, func(rec chunk.Record, _ *binutil.Cursor) error {
			fmt.Fprintf(w, "  %q (size: %d, offset: %d, flags: 0x%04x)\n", rec.Tag, rec.Size, rec.Offset, rec.Flags)
			return nil
		})

	default:
		return fmt.Errorf("%s: not a CAFF, RIFF or ID3v2-tagged file", path)
	}
}

// dumpRecords prints every record under c. With lists set, RIFF LIST
// chunks are descended into.
func dumpRecords(w io.Writer, c *binutil.Cursor, layout chunk.Layout, until int64, depth int, lists bool) error {
	indent := strings.Repeat("  ", depth)
	return chunk.Walk(c, layout, until, func(rec chunk.Record, body *binutil.Cursor) error {
		fmt.Fprintf(w, "%s%q (size: %d, offset: %d)\n", indent, rec.Tag, rec.Size, rec.Offset)
		if !lists || rec.Tag != "LIST" {
			return nil
		}
		listType, err := body.String(4, "list type")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s  list type %q\n", indent, listType)
		return dumpRecords(w, body, layout, -1, depth+1, lists)
	})
}

package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	binutil "github.com/simonhull/audiohdr/internal/binary"
	"github.com/simonhull/audiohdr/internal/types"
)

func newCursor(data []byte) *binutil.Cursor {
	return binutil.NewCursor(binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test"), binutil.BigEndian)
}

func caffChunk(buf *bytes.Buffer, tag string, body []byte) {
	buf.WriteString(tag)
	binary.Write(buf, binary.BigEndian, uint64(len(body)))
	buf.Write(body)
}

func riffChunk(buf *bytes.Buffer, tag string, body []byte) {
	buf.WriteString(tag)
	binary.Write(buf, binary.LittleEndian, uint32(len(body)))
	buf.Write(body)
}

func TestWalk_CAFF(t *testing.T) {
	var buf bytes.Buffer
	caffChunk(&buf, "desc", []byte{1, 2, 3, 4})
	caffChunk(&buf, "free", make([]byte, 10))
	caffChunk(&buf, "data", []byte{9, 9})

	var got []Record
	err := Walk(newCursor(buf.Bytes()), CAFF, -1, func(r Record, body *binutil.Cursor) error {
		if body.Remaining() != r.Size {
			t.Errorf("%s: body window %d, want %d", r.Tag, body.Remaining(), r.Size)
		}
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []Record{
		{Tag: "desc", Size: 4, Offset: 0, Body: 12},
		{Tag: "free", Size: 10, Offset: 16, Body: 28},
		{Tag: "data", Size: 2, Offset: 38, Body: 50},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWalk_AdvancesPastUnreadBody(t *testing.T) {
	var buf bytes.Buffer
	riffChunk(&buf, "LIST", make([]byte, 20))
	riffChunk(&buf, "data", []byte{1, 2})

	c := newCursor(buf.Bytes())
	var tags []string
	err := Walk(c, RIFF, -1, func(r Record, body *binutil.Cursor) error {
		tags = append(tags, r.Tag)
		// Read only part of the payload.
		if r.Tag == "LIST" {
			_, err := body.Bytes(3, "partial")
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(tags) != 2 || tags[1] != "data" {
		t.Errorf("tags = %v, want [LIST data]", tags)
	}
	if !c.EOF() {
		t.Errorf("cursor at %d, want EOF at %d", c.Offset(), c.End())
	}
}

func TestWalk_HandlerCannotOverread(t *testing.T) {
	var buf bytes.Buffer
	caffChunk(&buf, "desc", []byte{1, 2})
	caffChunk(&buf, "data", []byte{3, 4, 5, 6})

	err := Walk(newCursor(buf.Bytes()), CAFF, -1, func(r Record, body *binutil.Cursor) error {
		if r.Tag == "desc" {
			_, err := binutil.Next[uint32](body, "too wide")
			return err
		}
		return nil
	})
	if !types.IsMalformed(err) {
		t.Fatalf("expected MalformedContainerError, got %v", err)
	}
}

func TestWalk_Oversized(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("data")
	binary.Write(&buf, binary.BigEndian, uint64(100))
	buf.Write([]byte{1, 2, 3})

	err := Walk(newCursor(buf.Bytes()), CAFF, -1, func(Record, *binutil.Cursor) error {
		t.Fatal("handler called for oversized record")
		return nil
	})
	var mce *types.MalformedContainerError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MalformedContainerError, got %v", err)
	}
	if mce.Offset != 12 || mce.Length != 100 {
		t.Errorf("error offset/length = %d/%d, want 12/100", mce.Offset, mce.Length)
	}
}

func TestWalk_TruncatedHeader(t *testing.T) {
	var buf bytes.Buffer
	caffChunk(&buf, "free", nil)
	buf.WriteString("da")

	err := Walk(newCursor(buf.Bytes()), CAFF, -1, func(Record, *binutil.Cursor) error { return nil })
	if !types.IsMalformed(err) {
		t.Fatalf("expected MalformedContainerError, got %v", err)
	}
}

func TestWalk_DataToEnd(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("data")
	binary.Write(&buf, binary.BigEndian, uint64(math.MaxUint64))
	buf.Write([]byte{1, 2, 3, 4, 5})

	var size int64
	err := Walk(newCursor(buf.Bytes()), CAFF, -1, func(r Record, body *binutil.Cursor) error {
		size = r.Size
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if size != 5 {
		t.Errorf("data size = %d, want 5", size)
	}
}

func TestWalk_HugeSizeNotData(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("pakt")
	binary.Write(&buf, binary.BigEndian, uint64(math.MaxUint64))

	err := Walk(newCursor(buf.Bytes()), CAFF, -1, func(Record, *binutil.Cursor) error { return nil })
	if !types.IsMalformed(err) {
		t.Fatalf("expected MalformedContainerError, got %v", err)
	}
}

func TestWalker_Unknown(t *testing.T) {
	var buf bytes.Buffer
	caffChunk(&buf, "uuid", []byte{1, 2, 3})
	caffChunk(&buf, "desc", nil)

	var unknown []*types.UnknownTagError
	w := &Walker{
		Layout: CAFF,
		Until:  -1,
		Unknown: func(r Record, err *types.UnknownTagError) {
			unknown = append(unknown, err)
		},
	}
	seen := 0
	err := w.Walk(newCursor(buf.Bytes()), func(r Record, body *binutil.Cursor) error {
		seen++
		if r.Tag != "desc" {
			return ErrUnknownTag
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if seen != 2 {
		t.Errorf("handler saw %d records, want 2", seen)
	}
	if len(unknown) != 1 {
		t.Fatalf("got %d unknown tags, want 1", len(unknown))
	}
	if unknown[0].Tag != "uuid" || unknown[0].Size != 3 || unknown[0].Offset != 0 {
		t.Errorf("unknown = %+v", unknown[0])
	}
}

func TestWalk_HandlerError(t *testing.T) {
	sentinel := errors.New("boom")
	var buf bytes.Buffer
	caffChunk(&buf, "desc", nil)

	err := Walk(newCursor(buf.Bytes()), CAFF, -1, func(Record, *binutil.Cursor) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestWalk_HandlerStop(t *testing.T) {
	var buf bytes.Buffer
	caffChunk(&buf, "desc", []byte{1})
	caffChunk(&buf, "data", []byte{2})

	c := newCursor(buf.Bytes())
	calls := 0
	err := Walk(c, CAFF, -1, func(Record, *binutil.Cursor) error {
		calls++
		return Stop
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if c.Offset() != 13 {
		t.Errorf("cursor at %d, want 13", c.Offset())
	}
}

func TestWalk_Until(t *testing.T) {
	var buf bytes.Buffer
	riffChunk(&buf, "fmt ", make([]byte, 4))
	riffChunk(&buf, "data", make([]byte, 4))

	var tags []string
	err := Walk(newCursor(buf.Bytes()), RIFF, 12, func(r Record, _ *binutil.Cursor) error {
		tags = append(tags, r.Tag)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("tags = %v, want only fmt", tags)
	}
}

func TestWalk_ID3Padding(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("COMM")
	binary.Write(&buf, binary.BigEndian, uint32(2))
	binary.Write(&buf, binary.BigEndian, uint16(0x0040))
	buf.Write([]byte{7, 7})
	buf.Write(make([]byte, 8)) // padding

	c := newCursor(buf.Bytes())
	var got []Record
	w := &Walker{Layout: ID3v2, Until: int64(buf.Len())}
	err := w.Walk(c, func(r Record, _ *binutil.Cursor) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(got) != 1 || got[0].Tag != "COMM" || got[0].Flags != 0x0040 {
		t.Fatalf("records = %+v", got)
	}
	if c.Offset() != int64(buf.Len()) {
		t.Errorf("cursor at %d, want tag end %d", c.Offset(), buf.Len())
	}
}

func TestWalk_ID3Bound(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("COMM")
	binary.Write(&buf, binary.BigEndian, uint32(6))
	binary.Write(&buf, binary.BigEndian, uint16(0))
	buf.Write(make([]byte, 6))

	// The frame fits in the medium but not in a 14-byte tag.
	w := &Walker{Layout: ID3v2, Until: 14, Bound: 14}
	err := w.Walk(newCursor(buf.Bytes()), func(Record, *binutil.Cursor) error { return nil })
	if !types.IsMalformed(err) {
		t.Fatalf("expected MalformedContainerError, got %v", err)
	}
}

func TestWalk_ID3v24SynchsafeSize(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("COMM")
	buf.Write([]byte{0, 0, 1, 0}) // 128
	binary.Write(&buf, binary.BigEndian, uint16(0))
	buf.Write(make([]byte, 128))

	var size int64
	err := Walk(newCursor(buf.Bytes()), ID3v24, -1, func(r Record, _ *binutil.Cursor) error {
		size = r.Size
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if size != 128 {
		t.Errorf("size = %d, want 128", size)
	}
}

func TestSynchsafe(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    uint32
		wantErr bool
	}{
		{"zero", []byte{0, 0, 0, 0}, 0, false},
		{"257", []byte{0, 0, 2, 1}, 257, false},
		{"max", []byte{0x7F, 0x7F, 0x7F, 0x7F}, 0x0FFFFFFF, false},
		{"high bit", []byte{0, 0x80, 0, 0}, 0, true},
		{"short", []byte{0, 0, 1}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Synchsafe(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Synchsafe() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Synchsafe() = %d, want %d", got, tt.want)
			}
		})
	}
}

package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonhull/audiohdr/internal/types"
)

func riffChunk(buf *bytes.Buffer, id string, body []byte) {
	buf.WriteString(id)
	binary.Write(buf, binary.LittleEndian, uint32(len(body)))
	buf.Write(body)
}

func riffFile(chunks func(*bytes.Buffer)) []byte {
	body := &bytes.Buffer{}
	body.WriteString("WAVE")
	chunks(body)
	out := &bytes.Buffer{}
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestDump(t *testing.T) {
	caff := &bytes.Buffer{}
	caff.WriteString("caff")
	binary.Write(caff, binary.BigEndian, uint16(1))
	binary.Write(caff, binary.BigEndian, uint16(0))
	caff.WriteString("free")
	binary.Write(caff, binary.BigEndian, uint64(4))
	caff.Write(make([]byte, 4))
	caff.WriteString("data")
	binary.Write(caff, binary.BigEndian, uint64(2))
	caff.Write([]byte{1, 2})

	list := &bytes.Buffer{}
	list.WriteString("INFO")
	riffChunk(list, "ISFT", []byte("abc\x00"))
	wav := riffFile(func(b *bytes.Buffer) {
		riffChunk(b, "fmt ", make([]byte, 16))
		riffChunk(b, "LIST", list.Bytes())
		riffChunk(b, "data", make([]byte, 4))
	})

	id3 := &bytes.Buffer{}
	id3.WriteString("ID3")
	id3.Write([]byte{3, 0, 0, 0, 0, 0, 20})
	id3.WriteString("TIT2")
	binary.Write(id3, binary.BigEndian, uint32(5))
	id3.Write([]byte{0, 0})
	id3.WriteString("\x00song")
	id3.Write(make([]byte, 5))

	tests := []struct {
		name string
		data []byte
		want []string
	}{
		{"caff", caff.Bytes(), []string{
			"caff (version: 1)",
			`  "free" (size: 4, offset: 8)`,
			`  "data" (size: 2, offset: 24)`,
		}},
		{"riff", wav, []string{
			`RIFF "WAVE" (size: 64)`,
			`  "fmt " (size: 16, offset: 12)`,
			`  "LIST" (size: 16, offset: 36)`,
			`    list type "INFO"`,
			`    "ISFT" (size: 4, offset: 48)`,
			`  "data" (size: 4, offset: 60)`,
		}},
		{"id3", id3.Bytes(), []string{
			"ID3v2.3 (size: 20, flags: 0x00)",
			`  "TIT2" (size: 5, offset: 10, flags: 0x0000)`,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := dump(&out, bytes.NewReader(tt.data), int64(len(tt.data)), tt.name); err != nil {
				t.Fatalf("dump() error = %v", err)
			}
			got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("dump() output:\n%s\nwant:\n%s", out.String(), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestDump_PaddedOddChunk(t *testing.T) {
	wav := riffFile(func(b *bytes.Buffer) {
		riffChunk(b, "fmt ", make([]byte, 16))
		riffChunk(b, "data", []byte{1, 2, 3})
		b.WriteByte(0)
	})

	var out bytes.Buffer
	if err := dump(&out, bytes.NewReader(wav), int64(len(wav)), "odd.wav"); err != nil {
		t.Fatalf("dump() error = %v", err)
	}
	if !strings.HasSuffix(out.String(), `  "data" (size: 3, offset: 36)`+"\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDump_Errors(t *testing.T) {
	truncated := riffFile(func(b *bytes.Buffer) {
		riffChunk(b, "data", make([]byte, 100))
	})[:40]

	if err := dump(&bytes.Buffer{}, bytes.NewReader(truncated), int64(len(truncated)), "cut.wav"); !types.IsMalformed(err) {
		t.Errorf("truncated RIFF: expected MalformedContainerError, got %v", err)
	}

	flac := []byte("fLaC\x00\x00\x00\x22")
	if err := dump(&bytes.Buffer{}, bytes.NewReader(flac), int64(len(flac)), "x.flac"); err == nil {
		t.Error("expected error for unsupported file")
	}
}

func TestDumpFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	data := riffFile(func(b *bytes.Buffer) { riffChunk(b, "data", nil) })
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := dumpFile(&out, path); err != nil {
		t.Fatalf("dumpFile() error = %v", err)
	}
	if !strings.Contains(out.String(), `"data" (size: 0, offset: 12)`) {
		t.Errorf("output = %q", out.String())
	}
	if err := dumpFile(&out, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

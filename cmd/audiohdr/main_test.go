package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/audiohdr"
	"github.com/simonhull/audiohdr/internal/types"
	"github.com/simonhull/audiohdr/internal/wav"
)

func writeWAV(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	err := wav.Encode(&buf, &types.Wave{
		AudioFormat: 1, Channels: 1, SampleRate: 8000,
		ByteRate: 16000, BlockAlign: 2, BitsPerSample: 16,
		Data: make([]byte, 8000),
	})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_Text(t *testing.T) {
	path := writeWAV(t, t.TempDir(), "a.wav")
	out, _, err := runCLI(t, path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{path + ": WAV (PCM)", "duration:", "500ms", "sha1:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q lacks %q", out, want)
		}
	}
}

func TestRun_Outputs(t *testing.T) {
	path := writeWAV(t, t.TempDir(), "a.wav")
	decoders := map[string]func([]byte, *[]report) error{
		"json": func(b []byte, r *[]report) error { return json.Unmarshal(b, r) },
		"yaml": func(b []byte, r *[]report) error { return yaml.Unmarshal(b, r) },
		"cbor": func(b []byte, r *[]report) error { return cbor.Unmarshal(b, r) },
	}
	for output, decode := range decoders {
		t.Run(output, func(t *testing.T) {
			out, _, err := runCLI(t, "-o", output, "--digest", "blake3", path)
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}
			var reports []report
			if err := decode([]byte(out), &reports); err != nil {
				t.Fatalf("decode %s output: %v", output, err)
			}
			if len(reports) != 1 {
				t.Fatalf("got %d reports, want 1", len(reports))
			}
			r := reports[0]
			if r.Format != "WAV" || r.Rate != 8000 || r.Seconds != 0.5 || r.WAV == nil || r.WAV.DataBytes != 8000 {
				t.Errorf("report = %+v", r)
			}
			if r.Algorithm != "blake3" || len(r.Digest) != 64 {
				t.Errorf("digest = %s %q", r.Algorithm, r.Digest)
			}
		})
	}
}

func TestRun_ForcedFormat(t *testing.T) {
	path := writeWAV(t, t.TempDir(), "a.wav")
	_, stderr, err := runCLI(t, "--format", "mp3", path)
	if err == nil || !strings.Contains(err.Error(), "1 of 1 files") {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stderr, "frame synchronization not found") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeWAV(t, dir, "a.wav")
	bad := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(bad, []byte("plain text, not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, stderr, err := runCLI(t, "-o", "json", good, bad)
	if err == nil {
		t.Fatal("expected error for undecodable file")
	}
	var reports []report
	if err := json.Unmarshal([]byte(out), &reports); err != nil || len(reports) != 1 {
		t.Fatalf("reports = %v, %v", reports, err)
	}
	if !strings.Contains(stderr, "unsupported format") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	path := writeWAV(t, dir, "a.wav")
	cfgPath := filepath.Join(dir, "audiohdr.yaml")
	if err := os.WriteFile(cfgPath, []byte("output: json\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "--config", cfgPath, path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.HasPrefix(out, "[") {
		t.Errorf("config output json not applied: %q", out)
	}

	out, _, err = runCLI(t, "--config", cfgPath, "-o", "text", path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out, ": WAV") {
		t.Errorf("flag did not override config: %q", out)
	}
}

func TestRun_BadSettings(t *testing.T) {
	dir := t.TempDir()
	path := writeWAV(t, dir, "a.wav")
	unknownKey := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(unknownKey, []byte("outptu: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := map[string][]string{
		"output":     {"-o", "xml", path},
		"digest":     {"--digest", "md5", path},
		"format":     {"--format", "flac", path},
		"log level":  {"--log-level", "loud", path},
		"config key": {"--config", unknownKey, path},
		"no files":   {},
		"bad flag":   {"--nope"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := runCLI(t, args...); err == nil {
				t.Errorf("run(%v) returned nil error", args)
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	out, _, err := runCLI(t, "--version")
	if err != nil || !strings.HasPrefix(out, "audiohdr ") {
		t.Errorf("run(--version) = %q, %v", out, err)
	}
}

func TestWatchDir(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchDir(ctx, dir, 50*time.Millisecond, discardLogger(), func(path string) {
			seen <- path
		})
	}()

	// Keep writing until the watcher reports the file: the watch may not be
	// registered yet when the first write lands.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		writeWAV(t, dir, "new.wav")
		select {
		case path := <-seen:
			if filepath.Base(path) != "new.wav" {
				t.Errorf("handled %q, want new.wav", path)
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("watchDir() error = %v", err)
			}
			return
		case <-deadline:
			t.Fatal("file was never handled")
		case <-tick.C:
		}
	}
}

func TestWatchDir_MissingDirectory(t *testing.T) {
	err := watchDir(context.Background(), filepath.Join(t.TempDir(), "missing"), time.Second, discardLogger(), func(string) {})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestNewReport_HighRes(t *testing.T) {
	var buf bytes.Buffer
	err := wav.Encode(&buf, &types.Wave{
		AudioFormat: 1, Channels: 2, SampleRate: 96000,
		ByteRate: 576000, BlockAlign: 6, BitsPerSample: 24,
		Data: make([]byte, 5760),
	})
	if err != nil {
		t.Fatal(err)
	}
	f, err := audiohdr.Decode(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "hi.wav")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	r := newReport(f)
	if !r.HighRes || r.Seconds != 0.01 {
		t.Errorf("report = %+v", r)
	}
}

func TestAudioExtension(t *testing.T) {
	tests := map[string]bool{
		"take.caf":       true,
		"dir/Voice.WAV":  true,
		"stream.oga":     true,
		"song.mp3":       true,
		"notes.txt":      false,
		"no-extension":   false,
		"archive.wav.gz": false,
	}
	for path, want := range tests {
		if got := audioExtension(path); got != want {
			t.Errorf("audioExtension(%q) = %v, want %v", path, got, want)
		}
	}
}

func writeCAFF(t *testing.T, dir, name string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	buf.WriteString("caff")
	binary.Write(buf, binary.BigEndian, uint16(1))
	binary.Write(buf, binary.BigEndian, uint16(0))

	buf.WriteString("desc")
	binary.Write(buf, binary.BigEndian, uint64(32))
	binary.Write(buf, binary.BigEndian, math.Float64bits(48000))
	buf.WriteString("lpcm")
	for _, v := range []uint32{0x0C, 4, 1, 2, 16} {
		binary.Write(buf, binary.BigEndian, v)
	}

	buf.WriteString("hash")
	binary.Write(buf, binary.BigEndian, uint64(4))
	buf.Write([]byte{0xDE, 0xAD, 0xBE, 0xEF})

	buf.WriteString("data")
	binary.Write(buf, binary.BigEndian, uint64(8))
	buf.Write(make([]byte, 8))

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_CAFFDetails(t *testing.T) {
	path := writeCAFF(t, t.TempDir(), "take.caf")

	out, _, err := runCLI(t, "-o", "json", path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	var reports []report
	if err := json.Unmarshal([]byte(out), &reports); err != nil || len(reports) != 1 {
		t.Fatalf("reports = %v, %v", reports, err)
	}
	c := reports[0].CAFF
	if c == nil {
		t.Fatalf("report has no caff details: %s", out)
	}
	if c.SourceHash != "deadbeef" || c.FormatFlags != 0x0C || c.Channels != 2 || c.BitsPerChannel != 16 {
		t.Errorf("caff details = %+v", c)
	}

	out, _, err = runCLI(t, path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"source hash:", "deadbeef", "0x0000000c"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output %q lacks %q", out, want)
		}
	}
}

package audiohdr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/audiohdr/internal/registry"
	"github.com/simonhull/audiohdr/internal/types"
)

// Save re-encodes the file over its original path. See SaveAs.
func (f *File) Save(opts ...SaveOption) error {
	return f.SaveAs(f.Path, opts...)
}

// SaveAs encodes the decoded descriptor to outputPath.
//
// This is an atomic operation: the encoding goes to a temporary file in the
// same directory, which is synced and then renamed over outputPath. If any
// step fails the temporary file is removed and outputPath is untouched.
//
// Only WAV has a writer. The output is canonical: the RIFF header, a
// 16-byte PCM fmt chunk and the data chunk. Other formats return
// *UnsupportedWriteError.
//
//	err := file.SaveAs("clean.wav", audiohdr.WithValidation())
func (f *File) SaveAs(outputPath string, opts ...SaveOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	writer := registry.GetWriter(f.Format)
	if writer == nil {
		return &types.UnsupportedWriteError{
			Format: f.Format,
			Reason: "no writer registered",
		}
	}

	var origInfo os.FileInfo
	if options.preserveModTime {
		if info, err := os.Stat(f.Path); err == nil {
			origInfo = info
		}
	}

	tempFile, err := os.CreateTemp(filepath.Dir(outputPath), ".audiohdr-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err := writer.Write(tempFile, &f.File); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if options.backupSuffix != "" {
		if _, err := os.Stat(outputPath); err == nil {
			if err := os.Rename(outputPath, outputPath+options.backupSuffix); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
		}
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if origInfo != nil {
		_ = os.Chtimes(outputPath, origInfo.ModTime(), origInfo.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	if options.validate {
		if err := f.validateWrittenFile(outputPath); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// validateWrittenFile decodes path and compares the fields the writer emits.
func (f *File) validateWrittenFile(path string) error {
	written, err := Open(path, WithFormat(f.Format))
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer written.Close() //nolint:errcheck // Best effort close

	got, want := written.WAV, f.WAV
	switch {
	case got.AudioFormat != want.AudioFormat:
		return fmt.Errorf("audio format mismatch: got %d, want %d", got.AudioFormat, want.AudioFormat)
	case got.Channels != want.Channels:
		return fmt.Errorf("channels mismatch: got %d, want %d", got.Channels, want.Channels)
	case got.SampleRate != want.SampleRate:
		return fmt.Errorf("sample rate mismatch: got %d, want %d", got.SampleRate, want.SampleRate)
	case got.ByteRate != want.ByteRate:
		return fmt.Errorf("byte rate mismatch: got %d, want %d", got.ByteRate, want.ByteRate)
	case len(got.Data) != len(want.Data):
		return fmt.Errorf("data length mismatch: got %d, want %d", len(got.Data), len(want.Data))
	}
	return nil
}

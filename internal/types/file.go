// Package types provides core data structures for decoded audio headers.
//
// This package defines the File, AudioInfo and per-format descriptor types
// (CAFF, Wave, Vorbis, MP3) produced by the format decoders.
package types

// File is the result of one decode pass.
//
// Exactly one of CAFF, WAV, Vorbis or MP3 is non-nil, matching Format.
type File struct {
	CAFF   *CAFF
	WAV    *Wave
	Vorbis *Vorbis
	MP3    *MP3

	Path     string
	Warnings []Warning
	Audio    AudioInfo
	Format   Format
	Size     int64
}

// Payload returns the raw audio bytes carried by the file, if the format
// keeps them (CAFF and WAV).
func (f *File) Payload() []byte {
	switch {
	case f.CAFF != nil:
		return f.CAFF.Data
	case f.WAV != nil:
		return f.WAV.Data
	default:
		return nil
	}
}

// Warn appends a warning.
func (f *File) Warn(stage, message string, offset int64, err error) {
	f.Warnings = append(f.Warnings, Warning{
		Stage:   stage,
		Message: message,
		Offset:  offset,
		Err:     err,
	})
}

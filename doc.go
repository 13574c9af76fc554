// Package audiohdr decodes the headers of CAFF, RIFF/WAVE, Ogg Vorbis and
// MP3 files into typed descriptors.
//
// Each decoder reads its container's byte layout directly: a shared
// tag/length record walker drives the CAFF chunk list, the RIFF sub-chunk
// list and the ID3v2 frame list, and every read is bounds-checked against
// the input so a truncated or lying file fails with a typed error instead
// of a short read.
//
// # Quick Start
//
//	file, err := audiohdr.Open("take1.caf")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	fmt.Println(file.Format, file.Audio)
//	if file.CAFF != nil {
//		fmt.Printf("%d bytes of audio data\n", len(file.CAFF.Data))
//	}
//
// # Supported Formats
//
//   - CAFF: desc, info, pakt, hash, data and free chunks
//   - WAV: the fmt chunk (PCM core and WAVE_FORMAT_EXTENSIBLE) and data
//   - Ogg Vorbis: the identification and comment headers on the first two pages
//   - MP3: an optional ID3v2.3/2.4 tag (COMM frames) and the first MPEG frame header
//
// WAV descriptors can be written back with File.SaveAs.
//
// # Decoding from memory
//
// Decode works on any io.ReaderAt, with the format either detected from
// the leading bytes or forced by WithFormat:
//
//	file, err := audiohdr.Decode(bytes.NewReader(buf), int64(len(buf)), "clip.mp3",
//	    audiohdr.WithFormat(audiohdr.FormatMP3),
//	)
//
// # Error Handling
//
// Failures are typed and wrapped with context; use errors.As:
//
//	var sync *audiohdr.FrameSyncError
//	if errors.As(err, &sync) {
//		// not an MPEG stream at the expected offset
//	}
//
// Records the decoders do not recognise are skipped and reported as
// Warnings, each carrying an *UnknownTagError. WithStrictParsing turns any
// warning into an error; WithLogger routes them to a slog.Logger as well.
package audiohdr

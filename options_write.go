package audiohdr

// SaveOption configures behavior when saving audio files.
//
// Example:
//
//	err := file.Save(
//	    audiohdr.WithBackup(".bak"),
//	    audiohdr.WithValidation(),
//	)
type SaveOption func(*saveOptions)

type saveOptions struct {
	backupSuffix    string
	validate        bool
	preserveModTime bool
}

func defaultSaveOptions() *saveOptions {
	return &saveOptions{}
}

// WithBackup renames an existing output file to path+suffix before the
// new file replaces it. An existing backup is overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation decodes the written file again and compares the fmt
// fields and data length against the descriptor that was saved.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime copies the source file's modification time onto the
// output.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

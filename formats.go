package audiohdr

// Decoders register themselves with the registry on import.
import (
	_ "github.com/simonhull/audiohdr/internal/caff"
	_ "github.com/simonhull/audiohdr/internal/mp3"
	_ "github.com/simonhull/audiohdr/internal/ogg"
	_ "github.com/simonhull/audiohdr/internal/wav"
)

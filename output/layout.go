package output

const (
	// ChunkSize is the per-dimension extent threshold above which a
	// dataset is stored chunked, and the extent of each chunk dimension.
	ChunkSize = 8192

	// DeflateLevel is the compression level applied to chunked datasets.
	DeflateLevel = 6
)

// Layout is the storage decision for one dataset. It is derived from the
// shape on every write and never cached.
type Layout struct {
	Chunked      bool
	ChunkDims    []uint32 // set when Chunked
	DeflateLevel int      // set when Chunked
}

// PlanLayout decides how a dataset of the given shape is stored. Empty
// datasets and datasets small in every dimension stay contiguous and
// uncompressed; anything larger is chunked at min(ChunkSize, extent) per
// dimension and deflated.
func PlanLayout(shape []uint64) Layout {
	small := true
	for _, extent := range shape {
		if extent == 0 {
			return Layout{}
		}
		if extent > ChunkSize {
			small = false
		}
	}
	if small {
		return Layout{}
	}

	chunk := make([]uint32, len(shape))
	for i, extent := range shape {
		if extent > ChunkSize {
			chunk[i] = ChunkSize
		} else {
			chunk[i] = uint32(extent)
		}
	}
	return Layout{Chunked: true, ChunkDims: chunk, DeflateLevel: DeflateLevel}
}

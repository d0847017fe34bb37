// Package layout handles chunked dataset storage: splitting an N-D array
// into chunks, writing the Fixed Array chunk index, and reading both back.
package layout

// GridDims returns the number of chunks along each dimension.
func GridDims(dataDims []uint64, chunkDims []uint32) []uint64 {
	grid := make([]uint64, len(dataDims))
	for i, d := range dataDims {
		grid[i] = (d + uint64(chunkDims[i]) - 1) / uint64(chunkDims[i])
	}
	return grid
}

// NumChunks returns the total chunk count for the given extents.
func NumChunks(dataDims []uint64, chunkDims []uint32) uint64 {
	n := uint64(1)
	for _, g := range GridDims(dataDims, chunkDims) {
		n *= g
	}
	return n
}

// ChunkBytes returns the byte size of one full chunk.
func ChunkBytes(chunkDims []uint32, elementSize uint32) uint64 {
	size := uint64(elementSize)
	for _, d := range chunkDims {
		size *= uint64(d)
	}
	return size
}

// SplitIntoChunks splits a row-major element buffer into chunks in storage
// order (row-major over the chunk grid). Every chunk comes back full-size:
// chunks at the upper edge of a dimension are zero-padded, the way the
// library pads edge chunks with the fill value before filtering.
func SplitIntoChunks(data []byte, dataDims []uint64, chunkDims []uint32, elementSize uint32) [][]byte {
	if len(dataDims) == 0 {
		return nil
	}

	grid := GridDims(dataDims, chunkDims)
	total := uint64(1)
	for _, g := range grid {
		total *= g
	}

	chunkSize := ChunkBytes(chunkDims, elementSize)
	chunks := make([][]byte, 0, total)

	chunkIdx := make([]uint64, len(grid))
	for {
		chunk := make([]byte, chunkSize)
		copyChunk(chunk, data, chunkIdx, dataDims, chunkDims, elementSize, false)
		chunks = append(chunks, chunk)

		if !advance(chunkIdx, grid) {
			break
		}
	}
	return chunks
}

// AssembleChunks is the inverse of SplitIntoChunks: it scatters full-size
// chunks in storage order back into a row-major element buffer, dropping
// the edge padding.
func AssembleChunks(chunks [][]byte, dataDims []uint64, chunkDims []uint32, elementSize uint32) []byte {
	if len(dataDims) == 0 {
		return nil
	}

	grid := GridDims(dataDims, chunkDims)
	totalBytes := uint64(elementSize)
	for _, d := range dataDims {
		totalBytes *= d
	}
	data := make([]byte, totalBytes)

	chunkIdx := make([]uint64, len(grid))
	for i := 0; ; i++ {
		if i < len(chunks) {
			copyChunk(chunks[i], data, chunkIdx, dataDims, chunkDims, elementSize, true)
		}
		if !advance(chunkIdx, grid) {
			break
		}
	}
	return data
}

// copyChunk moves the intersection of chunk chunkIdx and the dataset
// between the chunk buffer and the full buffer. Rows along the innermost
// dimension are contiguous in both, so each copy is one row.
func copyChunk(chunk, data []byte, chunkIdx []uint64, dataDims []uint64, chunkDims []uint32, elementSize uint32, scatter bool) {
	ndims := len(dataDims)
	last := ndims - 1

	// Extent of this chunk clipped to the dataset, per dimension.
	clip := make([]uint64, ndims)
	origin := make([]uint64, ndims)
	for i := range clip {
		origin[i] = chunkIdx[i] * uint64(chunkDims[i])
		clip[i] = uint64(chunkDims[i])
		if rem := dataDims[i] - origin[i]; rem < clip[i] {
			clip[i] = rem
		}
	}

	rowBytes := clip[last] * uint64(elementSize)
	if rowBytes == 0 {
		return
	}

	// Strides in bytes for both buffers.
	dataStride := make([]uint64, ndims)
	chunkStride := make([]uint64, ndims)
	dataStride[last] = uint64(elementSize)
	chunkStride[last] = uint64(elementSize)
	for i := last - 1; i >= 0; i-- {
		dataStride[i] = dataStride[i+1] * dataDims[i+1]
		chunkStride[i] = chunkStride[i+1] * uint64(chunkDims[i+1])
	}

	pos := make([]uint64, ndims)
	for {
		var dataOff, chunkOff uint64
		for i := 0; i < last; i++ {
			dataOff += (origin[i] + pos[i]) * dataStride[i]
			chunkOff += pos[i] * chunkStride[i]
		}
		dataOff += origin[last] * dataStride[last]

		if scatter {
			copy(data[dataOff:dataOff+rowBytes], chunk[chunkOff:])
		} else {
			copy(chunk[chunkOff:], data[dataOff:dataOff+rowBytes])
		}

		// Advance over all dimensions but the innermost.
		done := true
		for i := last - 1; i >= 0; i-- {
			pos[i]++
			if pos[i] < clip[i] {
				done = false
				break
			}
			pos[i] = 0
		}
		if done {
			break
		}
	}
}

// advance increments a row-major index vector, returning false on wrap.
func advance(idx, dims []uint64) bool {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < dims[i] {
			return true
		}
		idx[i] = 0
	}
	return false
}

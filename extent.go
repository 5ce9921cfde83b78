package fat32report

// EncodeExtents run-length encodes an ordered cluster chain into maximal
// contiguous runs. Returns nil for an empty chain. The concatenation of the
// expanded extents always reproduces chain exactly, and no two adjacent
// extents are contiguous with each other (that would mean they should have
// been merged into one).
func EncodeExtents(chain []uint32) []Extent {
	if len(chain) == 0 {
		return nil
	}

	extents := make([]Extent, 0, len(chain))
	start := chain[0]
	length := uint32(1)

	for i := 1; i < len(chain); i++ {
		if chain[i] == chain[i-1]+1 {
			length++
			continue
		}
		extents = append(extents, Extent{StartCluster: start, Length: length})
		start = chain[i]
		length = 1
	}
	extents = append(extents, Extent{StartCluster: start, Length: length})

	return extents
}

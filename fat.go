package fat32report

import (
	"github.com/fatwalk/fat32report/checkpoint"
)

const (
	fatEntryFree        = 0x00000000
	fatEntryReservedTmp = 0x00000001
	fatEntryBad         = 0x0FFFFFF7
	fatEntryEOCMin      = 0x0FFFFFF8
	fatEntryMask        = 0x0FFFFFFF
)

// FatTable reads successor links from the first FAT copy of a volume.
type FatTable struct {
	src       ByteSource
	fatOffset uint32
}

// NewFatTable builds a FatTable over src using the FAT offset from bs.
func NewFatTable(src ByteSource, bs *BootSector) *FatTable {
	return &FatTable{src: src, fatOffset: bs.FATOffsetBytes}
}

// NextCluster classifies the successor of cluster c in the first FAT copy.
// Clusters 0 and 1 are reserved and must never be passed in by a caller that
// is following a chain (callers validate this via ChainFollower).
func (t *FatTable) NextCluster(c uint32) (ClusterLink, error) {
	buf := make([]byte, 4)
	off := int64(t.fatOffset) + 4*int64(c)
	n, short, err := readExact(t.src, off, buf)
	if err != nil {
		return ClusterLink{}, checkpoint.Wrap(err, ErrTruncatedCluster)
	}
	if short || n < 4 {
		return ClusterLink{}, checkpoint.From(ErrTruncatedCluster)
	}

	value := (uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24) & fatEntryMask

	switch {
	case value == fatEntryFree:
		return ClusterLink{Kind: ClusterFree}, nil
	case value == fatEntryReservedTmp:
		return ClusterLink{Kind: ClusterReserved}, nil
	case value == fatEntryBad:
		return ClusterLink{Kind: ClusterBad}, nil
	case value >= fatEntryEOCMin:
		return ClusterLink{Kind: ClusterEndOfChain}, nil
	default:
		return ClusterLink{Kind: ClusterNext, Next: value}, nil
	}
}

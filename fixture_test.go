package fat32report

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/xaionaro-go/bytesextra"
)

// sliceByteSource adapts an in-memory image to ByteSource the same way
// dargueta-disko's test helpers turn a byte slice into a synthetic disk
// image: bytesextra.NewReadWriteSeeker wraps the slice as an
// io.ReadWriteSeeker, and sliceByteSource serializes Seek+Read pairs into
// ReadAt calls (the underlying seeker is not safe for concurrent use).
type sliceByteSource struct {
	mu   sync.Mutex
	rws  io.ReadWriteSeeker
	size int64
}

func newSliceByteSource(data []byte) *sliceByteSource {
	return &sliceByteSource{rws: bytesextra.NewReadWriteSeeker(data), size: int64(len(data))}
}

func (s *sliceByteSource) ReadAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.rws.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(s.rws, p)
}

func (s *sliceByteSource) Len() int64 {
	return s.size
}

// syntheticImage describes a tiny, fully synthetic FAT32 volume used by the
// walker and report tests: bytesPerSector=512, sectorsPerCluster=1,
// reservedSectors=1, numFATs=1, sectorsPerFAT=1, giving a FAT-table and
// five data clusters (2..6).
//
// Layout:
//
//	cluster 2 (root dir):  entry for "SUB" (dir, cluster 3)
//	                       entry for "FILE.TXT" (cluster 4, size 10 bytes)
//	cluster 3 (SUB dir):   empty (terminator only)
//	cluster 4 (file data): "ABCDEFGHIJ"[0:4], continues at cluster 6
//	cluster 5:             unused, contributes to the free-run count
//	cluster 6 (file data): continuation of FILE.TXT
const (
	synthBytesPerSector    = 512
	synthSectorsPerCluster = 1
	synthReservedSectors   = 1
	synthNumFATs           = 1
	synthSectorsPerFAT     = 1
	synthTotalClusters     = 5
	synthTotalSectors      = synthReservedSectors + synthNumFATs*synthSectorsPerFAT + synthTotalClusters*synthSectorsPerCluster
)

func buildSyntheticImage() []byte {
	clusterSize := synthSectorsPerCluster * synthBytesPerSector
	fatOffset := synthReservedSectors * synthBytesPerSector
	dataOffset := (synthReservedSectors + synthNumFATs*synthSectorsPerFAT) * synthBytesPerSector
	totalSize := dataOffset + synthTotalClusters*clusterSize

	img := make([]byte, totalSize)

	// Boot sector.
	binary.LittleEndian.PutUint16(img[11:13], synthBytesPerSector)
	img[13] = synthSectorsPerCluster
	binary.LittleEndian.PutUint16(img[14:16], synthReservedSectors)
	img[16] = synthNumFATs
	binary.LittleEndian.PutUint32(img[32:36], uint32(synthTotalSectors))
	binary.LittleEndian.PutUint32(img[36:40], synthSectorsPerFAT)
	binary.LittleEndian.PutUint32(img[44:48], 2) // root dir cluster
	img[510], img[511] = 0x55, 0xAA

	putFATEntry := func(cluster, value uint32) {
		off := fatOffset + int(cluster)*4
		binary.LittleEndian.PutUint32(img[off:off+4], value)
	}
	putFATEntry(2, fatEntryEOCMin)
	putFATEntry(3, fatEntryEOCMin)
	putFATEntry(4, 6)
	putFATEntry(5, fatEntryFree)
	putFATEntry(6, fatEntryEOCMin)

	clusterOffset := func(c int) int { return dataOffset + (c-2)*clusterSize }

	putDirEntry(img, clusterOffset(2)+0, "SUB     ", "   ", attrDirectory, 3, 0)
	putDirEntry(img, clusterOffset(2)+32, "FILE    ", "TXT", 0x20, 4, 10)

	fileData := []byte("ABCDEFGHIJ")
	copy(img[clusterOffset(4):], fileData[0:4])
	copy(img[clusterOffset(6):], fileData[4:10])

	return img
}

func putDirEntry(img []byte, offset int, name, ext string, attr byte, firstCluster uint32, size uint32) {
	copy(img[offset:offset+8], name)
	copy(img[offset+8:offset+11], ext)
	img[offset+11] = attr
	binary.LittleEndian.PutUint16(img[offset+20:offset+22], uint16(firstCluster>>16))
	binary.LittleEndian.PutUint16(img[offset+26:offset+28], uint16(firstCluster&0xFFFF))
	binary.LittleEndian.PutUint32(img[offset+28:offset+32], size)
}

package fat32report

import (
	"encoding/binary"
	"testing"
)

// buildBootSector assembles a minimal, valid 512-byte FAT32 boot sector with
// the given geometry, leaving every byte this core does not interpret at
// zero.
func buildBootSector(bytesPerSector uint16, sectorsPerCluster uint8, reservedSectors uint16, numFATs uint8, totalSectors, sectorsPerFAT, rootDirCluster uint32) []byte {
	buf := make([]byte, bootSectorSize)
	binary.LittleEndian.PutUint16(buf[11:13], bytesPerSector)
	buf[13] = sectorsPerCluster
	binary.LittleEndian.PutUint16(buf[14:16], reservedSectors)
	buf[16] = numFATs
	binary.LittleEndian.PutUint32(buf[32:36], totalSectors)
	binary.LittleEndian.PutUint32(buf[36:40], sectorsPerFAT)
	binary.LittleEndian.PutUint32(buf[44:48], rootDirCluster)
	buf[510] = 0x55
	buf[511] = 0xAA
	return buf
}

func TestDecodeBootSector_Valid(t *testing.T) {
	raw := buildBootSector(512, 4, 32, 2, 20000, 100, 2)
	src := newSliceByteSource(raw)

	bs, err := DecodeBootSector(src)
	if err != nil {
		t.Fatalf("DecodeBootSector() error = %v", err)
	}

	if bs.FATOffsetBytes != 32*512 {
		t.Errorf("FATOffsetBytes = %d, want %d", bs.FATOffsetBytes, 32*512)
	}
	wantDataOffset := (32 + 2*100) * 512
	if bs.DataOffsetBytes != uint32(wantDataOffset) {
		t.Errorf("DataOffsetBytes = %d, want %d", bs.DataOffsetBytes, wantDataOffset)
	}
	if bs.ClusterSizeBytes != 4*512 {
		t.Errorf("ClusterSizeBytes = %d, want %d", bs.ClusterSizeBytes, 4*512)
	}
	wantDataSectors := 20000 - (32 + 2*100)
	wantTotalClusters := wantDataSectors / 4
	if bs.TotalClusters != uint32(wantTotalClusters) {
		t.Errorf("TotalClusters = %d, want %d", bs.TotalClusters, wantTotalClusters)
	}
}

func TestDecodeBootSector_TruncatedImage(t *testing.T) {
	src := newSliceByteSource(make([]byte, 100))

	if _, err := DecodeBootSector(src); err == nil {
		t.Fatal("DecodeBootSector() error = nil, want an error for a truncated image")
	}
}

func TestDecodeBootSector_BadSignature(t *testing.T) {
	raw := buildBootSector(512, 4, 32, 2, 20000, 100, 2)
	raw[510], raw[511] = 0, 0
	src := newSliceByteSource(raw)

	if _, err := DecodeBootSector(src); err == nil {
		t.Fatal("DecodeBootSector() error = nil, want an error for a bad signature")
	}
}

func TestValidateBootSector_Rejections(t *testing.T) {
	tests := []struct {
		name string
		bs   BootSector
	}{
		{
			name: "bad bytes per sector",
			bs:   BootSector{BytesPerSector: 300, SectorsPerCluster: 4, NumFATs: 2, RootDirCluster: 2, Signature: 0xAA55},
		},
		{
			name: "sectors per cluster not a power of two",
			bs:   BootSector{BytesPerSector: 512, SectorsPerCluster: 3, NumFATs: 2, RootDirCluster: 2, Signature: 0xAA55},
		},
		{
			name: "sectors per cluster too large",
			bs:   BootSector{BytesPerSector: 512, SectorsPerCluster: 255, NumFATs: 2, RootDirCluster: 2, Signature: 0xAA55},
		},
		{
			name: "zero FATs",
			bs:   BootSector{BytesPerSector: 512, SectorsPerCluster: 4, NumFATs: 0, RootDirCluster: 2, Signature: 0xAA55},
		},
		{
			name: "root dir cluster below 2",
			bs:   BootSector{BytesPerSector: 512, SectorsPerCluster: 4, NumFATs: 2, RootDirCluster: 1, Signature: 0xAA55},
		},
		{
			name: "bad signature",
			bs:   BootSector{BytesPerSector: 512, SectorsPerCluster: 4, NumFATs: 2, RootDirCluster: 2, Signature: 0x1234},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateBootSector(&tt.bs); err == nil {
				t.Error("validateBootSector() error = nil, want an error")
			}
		})
	}
}

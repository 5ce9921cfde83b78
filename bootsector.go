package fat32report

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/fatwalk/fat32report/checkpoint"
)

const bootSectorSize = 512

// rawBootSectorPrefix mirrors the on-disk layout of the fields this core
// cares about, byte for byte, so encoding/binary.Read can decode them
// directly. Anonymous padding fields stand in for bytes the core never
// interprets (the jump instruction, OEM name, FAT12/16-only fields, ...).
type rawBootSectorPrefix struct {
	_                 [11]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	_                 [15]byte
	TotalSectors      uint32
	SectorsPerFAT     uint32
	_                 [4]byte
	RootDirCluster    uint32
}

// DecodeBootSector reads and validates the 512-byte FAT32 boot sector at the
// start of src, returning the decoded geometry.
func DecodeBootSector(src ByteSource) (*BootSector, error) {
	buf := make([]byte, bootSectorSize)
	n, short, err := readExact(src, 0, buf)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrTruncatedImage)
	}
	if short || n < bootSectorSize {
		return nil, checkpoint.From(ErrTruncatedImage)
	}

	if buf[510] != 0x55 || buf[511] != 0xAA {
		return nil, checkpoint.Wrap(
			fmt.Errorf("signature bytes were %#x %#x", buf[510], buf[511]),
			ErrInvalidBootSector,
		)
	}

	var raw rawBootSectorPrefix
	if err := binary.Read(bytes.NewReader(buf[:48]), binary.LittleEndian, &raw); err != nil {
		return nil, checkpoint.Wrap(err, ErrInvalidBootSector)
	}

	bs := &BootSector{
		BytesPerSector:    raw.BytesPerSector,
		SectorsPerCluster: raw.SectorsPerCluster,
		ReservedSectors:   raw.ReservedSectors,
		NumFATs:           raw.NumFATs,
		TotalSectors:      raw.TotalSectors,
		SectorsPerFAT:     raw.SectorsPerFAT,
		RootDirCluster:    raw.RootDirCluster,
		Signature:         binary.LittleEndian.Uint16(buf[510:512]),
	}

	if err := validateBootSector(bs); err != nil {
		return nil, err
	}

	bs.FATOffsetBytes = uint32(bs.ReservedSectors) * uint32(bs.BytesPerSector)
	bs.DataOffsetBytes = (uint32(bs.ReservedSectors) + uint32(bs.NumFATs)*bs.SectorsPerFAT) * uint32(bs.BytesPerSector)
	bs.ClusterSizeBytes = uint32(bs.SectorsPerCluster) * uint32(bs.BytesPerSector)
	dataSectors := bs.TotalSectors - (uint32(bs.ReservedSectors) + uint32(bs.NumFATs)*bs.SectorsPerFAT)
	bs.TotalClusters = dataSectors / uint32(bs.SectorsPerCluster)

	return bs, nil
}

func validateBootSector(bs *BootSector) error {
	switch bs.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return checkpoint.Wrap(
			fmt.Errorf("invalid bytes per sector: %d", bs.BytesPerSector),
			ErrInvalidBootSector,
		)
	}

	if bs.SectorsPerCluster == 0 || bs.SectorsPerCluster > 128 || (bs.SectorsPerCluster&(bs.SectorsPerCluster-1)) != 0 {
		return checkpoint.Wrap(
			fmt.Errorf("invalid sectors per cluster: %d", bs.SectorsPerCluster),
			ErrInvalidBootSector,
		)
	}

	if bs.NumFATs < 1 {
		return checkpoint.Wrap(
			fmt.Errorf("invalid FAT count: %d", bs.NumFATs),
			ErrInvalidBootSector,
		)
	}

	if bs.RootDirCluster < 2 {
		return checkpoint.Wrap(
			fmt.Errorf("invalid root directory cluster: %d", bs.RootDirCluster),
			ErrInvalidBootSector,
		)
	}

	if bs.Signature != 0xAA55 {
		return checkpoint.Wrap(
			fmt.Errorf("invalid signature: %#x", bs.Signature),
			ErrInvalidBootSector,
		)
	}

	return nil
}

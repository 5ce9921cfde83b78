package fat32report

import (
	"strings"
)

// Walker recursively descends a FAT32 directory tree from its root cluster,
// emitting a FileRecord for every directory and file it finds.
type Walker struct {
	chains  *ChainFollower
	reader  *ClusterReader
	geom    *BootSector
	visited map[uint32]bool
}

// NewWalker builds a Walker over the given geometry, chain follower and
// cluster reader.
func NewWalker(chains *ChainFollower, reader *ClusterReader, bs *BootSector) *Walker {
	return &Walker{
		chains:  chains,
		reader:  reader,
		geom:    bs,
		visited: make(map[uint32]bool),
	}
}

// Walk performs a depth-first, pre-order traversal starting at the volume's
// root directory, returning every directory and file record it discovers
// along with any non-fatal warnings accumulated along the way.
func (w *Walker) Walk() ([]FileRecord, []Warning, error) {
	var records []FileRecord
	var warnings []Warning

	root, rootWarnings, err := w.recordFor(w.geom.RootDirCluster, "/", true, 0)
	if err != nil {
		return nil, warnings, err
	}
	warnings = append(warnings, rootWarnings...)
	records = append(records, root)

	if err := w.walkDir(w.geom.RootDirCluster, "/", &records, &warnings); err != nil {
		return records, warnings, err
	}

	return records, warnings, nil
}

func (w *Walker) walkDir(cluster uint32, prefix string, records *[]FileRecord, warnings *[]Warning) error {
	if w.visited[cluster] {
		return nil
	}
	w.visited[cluster] = true

	chain, chainWarnings, err := w.chains.Chain(cluster)
	if err != nil {
		return err
	}
	*warnings = append(*warnings, chainWarnings...)

	data, byteWarnings, err := w.reader.ReadChainBytes(cluster, chain)
	if err != nil {
		return err
	}
	*warnings = append(*warnings, byteWarnings...)

	entries, dirWarnings := DecodeDirectory(data)
	*warnings = append(*warnings, dirWarnings...)

	for _, entry := range entries {
		if entry.IsVolumeLabel {
			continue
		}
		trimmedName := strings.TrimSpace(entry.Name)
		if trimmedName == "" || trimmedName == "." || trimmedName == ".." {
			continue
		}

		name := strings.TrimSpace(entry.FullName())
		if name == "" {
			name = trimmedName
		}
		path := prefix + name

		record, recordWarnings, err := w.recordFor(entry.FirstCluster, path, entry.IsDirectory, uint64(entry.FileSize))
		if err != nil {
			return err
		}
		*warnings = append(*warnings, recordWarnings...)
		*records = append(*records, record)

		if entry.IsDirectory && entry.FirstCluster >= 2 {
			if err := w.walkDir(entry.FirstCluster, path+"/", records, warnings); err != nil {
				return err
			}
		}
	}

	return nil
}

// recordFor builds the FileRecord for one directory or file entry: an empty
// file (firstCluster < 2) has no chain and no extents.
func (w *Walker) recordFor(firstCluster uint32, path string, isDirectory bool, sizeBytes uint64) (FileRecord, []Warning, error) {
	var chain []uint32
	var warnings []Warning

	if firstCluster >= 2 {
		var err error
		chain, warnings, err = w.chains.Chain(firstCluster)
		if err != nil {
			return FileRecord{}, warnings, err
		}
	}

	extents := EncodeExtents(chain)
	return FileRecord{
		Path:         path,
		SizeBytes:    sizeBytes,
		FirstCluster: firstCluster,
		Clusters:     chain,
		Extents:      extents,
		Fragments:    len(extents),
		IsDirectory:  isDirectory,
	}, warnings, nil
}

// Package fat32report decodes a FAT32 volume image and reports its directory
// tree, per-file cluster allocation, free space, and fragmentation.
package fat32report

import "time"

// BootSector holds the decoded BIOS Parameter Block fields needed to locate
// the FAT and data area of a FAT32 volume, plus the geometry derived from
// them. Immutable once returned by DecodeBootSector.
type BootSector struct {
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectors     uint16
	NumFATs             uint8
	TotalSectors        uint32
	SectorsPerFAT       uint32
	RootDirCluster      uint32
	Signature           uint16

	FATOffsetBytes   uint32
	DataOffsetBytes  uint32
	ClusterSizeBytes uint32
	TotalClusters    uint32
}

// ClusterKind classifies a single FAT entry's meaning, replacing sentinel
// integer comparisons at every call site with an explicit tagged value.
type ClusterKind int

const (
	ClusterFree ClusterKind = iota
	ClusterReserved
	ClusterNext
	ClusterBad
	ClusterEndOfChain
)

// ClusterLink is the classified result of looking up one FAT entry.
// Next is only meaningful when Kind == ClusterNext.
type ClusterLink struct {
	Kind ClusterKind
	Next uint32
}

// Terminal reports whether this link ends a cluster chain.
func (l ClusterLink) Terminal() bool {
	return l.Kind != ClusterNext
}

// DirectoryEntry is a decoded short-name (8.3) directory slot.
type DirectoryEntry struct {
	Name      string
	Extension string

	Attributes uint8

	FirstCluster uint32
	FileSize     uint32

	CreateTime time.Time
	ModifyTime time.Time
	AccessTime time.Time
	HasCreate  bool
	HasModify  bool
	HasAccess  bool

	IsDirectory   bool
	IsVolumeLabel bool
	IsDeleted     bool
}

const (
	attrReadOnly  = 0x01
	attrHidden    = 0x02
	attrSystem    = 0x04
	attrVolumeID  = 0x08
	attrDirectory = 0x10
	attrArchive   = 0x20
	attrLongName  = 0x0F
)

// FullName joins Name and Extension the way a FAT short name is rendered on
// screen: "NAME.EXT", or just "NAME" when there is no extension.
func (e DirectoryEntry) FullName() string {
	if e.Extension == "" {
		return e.Name
	}
	return e.Name + "." + e.Extension
}

// Extent is a maximal contiguous run of clusters within a chain.
type Extent struct {
	StartCluster uint32 `csv:"start_cluster"`
	Length       uint32 `csv:"length"`
}

// FreeRun is a maximal contiguous run of unallocated clusters in the volume.
type FreeRun struct {
	StartCluster uint32 `csv:"start_cluster"`
	Length       uint32 `csv:"length"`
}

// FileRecord is one file or directory emitted by the Walker. The csv tags
// let the same type drive the CSV export surface in report.go.
type FileRecord struct {
	Path         string   `csv:"path"`
	SizeBytes    uint64   `csv:"size_bytes"`
	FirstCluster uint32   `csv:"first_cluster"`
	Clusters     []uint32 `csv:"-"`
	Extents      []Extent `csv:"-"`
	Fragments    int      `csv:"fragments"`
	IsDirectory  bool     `csv:"is_directory"`
}

// Statistics summarizes fragmentation and free space across a walked volume.
type Statistics struct {
	FilesTotal              int     `csv:"files_total"`
	FilesFragmented         int     `csv:"files_fragmented"`
	FilesFragmentedPct      float64 `csv:"files_fragmented_pct"`
	AvgFragmentsPerFile     float64 `csv:"avg_fragments_per_file"`
	MaxFragments            int     `csv:"max_fragments"`
	TotalSizeBytes          uint64  `csv:"total_size_bytes"`
	ClusterSizeBytes        uint32  `csv:"cluster_size_bytes"`
	TotalClusters           uint32  `csv:"total_clusters"`
	FreeRunsCount           int     `csv:"free_runs_count"`
	LargestFreeRunClusters  uint32  `csv:"largest_free_run_clusters"`
	LargestFreeRunBytes     uint64  `csv:"largest_free_run_bytes"`
	VolumeFragmentationIndex float64 `csv:"volume_fragmentation_index"`
}

// Report is the full structural analysis of one FAT32 volume image.
type Report struct {
	Stats       Statistics
	Files       []FileRecord
	Dirs        []FileRecord
	FreeExtents []FreeRun
	Warnings    []Warning
}
